package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreditClampsAtCapacity(t *testing.T) {
	led := NewLedger("s1", 100)

	assert.Equal(t, int64(60), led.Credit(Food, 60))
	assert.Equal(t, int64(40), led.Credit(Food, 60), "only the free room is credited")
	assert.Equal(t, int64(100), led.Amount(Food))
	assert.Zero(t, led.Credit(Food, 10))
}

func TestCreditIgnoresNonPositive(t *testing.T) {
	led := NewLedger("s1", 100)
	assert.Zero(t, led.Credit(Food, 0))
	assert.Zero(t, led.Credit(Food, -5))
	assert.Zero(t, led.Amount(Food))
}

func TestDebitClampsAtZero(t *testing.T) {
	led := NewLedger("s1", 100)
	led.Credit(Wood, 30)

	assert.Equal(t, int64(30), led.Debit(Wood, 50))
	assert.Zero(t, led.Amount(Wood))
	assert.Zero(t, led.Debit(Wood, 10))
}

func TestDeficits(t *testing.T) {
	led := NewLedger("s1", 1000)
	led.Credit(Wood, 50)
	led.Credit(Stone, 100)

	cost := map[Type]int64{Wood: 80, Stone: 100, Ore: 5}
	missing := led.Deficits(cost)

	assert.Equal(t, map[Type]int64{Wood: 30, Ore: 5}, missing)
	assert.Empty(t, led.Deficits(map[Type]int64{Wood: 50}))
}

func TestSpend(t *testing.T) {
	led := NewLedger("s1", 1000)
	led.Credit(Wood, 100)
	led.Credit(Stone, 100)

	led.Spend(map[Type]int64{Wood: 40, Stone: 100})
	assert.Equal(t, int64(60), led.Amount(Wood))
	assert.Zero(t, led.Amount(Stone))
}

func TestValid(t *testing.T) {
	for _, r := range All {
		assert.True(t, Valid(r), "resource %s", r)
	}
	assert.False(t, Valid("plutonium"))
	assert.False(t, Valid(""))
}
