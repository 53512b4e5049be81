package resource

// Ledger holds a settlement's stored resource amounts and its capacity
// ceiling. Amounts are whole units; fractional production never persists.
// Every mutation clamps to [0, Capacity]: amounts are never negative and
// never exceed capacity.
type Ledger struct {
	SettlementID string         `json:"settlement_id" db:"settlement_id"`
	Amounts      map[Type]int64 `json:"amounts"`
	Capacity     int64          `json:"capacity" db:"capacity"`
}

// NewLedger creates an empty ledger with the given capacity.
func NewLedger(settlementID string, capacity int64) *Ledger {
	return &Ledger{
		SettlementID: settlementID,
		Amounts:      make(map[Type]int64, len(All)),
		Capacity:     capacity,
	}
}

// Amount returns the stored amount of t (0 when absent).
func (l *Ledger) Amount(t Type) int64 {
	return l.Amounts[t]
}

// Credit adds n units of t, clamped to capacity. Returns the amount
// actually credited (may be less than n when the store is near full).
func (l *Ledger) Credit(t Type, n int64) int64 {
	if n <= 0 {
		return 0
	}
	cur := l.Amounts[t]
	next := cur + n
	if next > l.Capacity {
		next = l.Capacity
	}
	l.Amounts[t] = next
	return next - cur
}

// Debit removes n units of t, clamped at zero. Returns the amount actually
// removed.
func (l *Ledger) Debit(t Type, n int64) int64 {
	if n <= 0 {
		return 0
	}
	cur := l.Amounts[t]
	next := cur - n
	if next < 0 {
		next = 0
	}
	l.Amounts[t] = next
	return cur - next
}

// Deficits returns, for each resource in cost, how many units the ledger is
// short. An empty map means the cost is affordable.
func (l *Ledger) Deficits(cost map[Type]int64) map[Type]int64 {
	missing := make(map[Type]int64)
	for t, need := range cost {
		if have := l.Amounts[t]; have < need {
			missing[t] = need - have
		}
	}
	return missing
}

// Spend debits every resource in cost. Callers must check Deficits first;
// Spend itself still clamps at zero so a racing caller cannot drive an
// amount negative.
func (l *Ledger) Spend(cost map[Type]int64) {
	for t, n := range cost {
		l.Debit(t, n)
	}
}

// Delta describes the change a production credit applied to a ledger.
type Delta struct {
	SettlementID string         `json:"settlement_id"`
	Credited     map[Type]int64 `json:"credited"`
	ElapsedHours float64        `json:"elapsed_hours"`
}
