package store

import "errors"

// ErrNotFound marks a referenced settlement, structure, or disaster that
// does not exist. Callers surface it as a 404 at the API boundary.
var ErrNotFound = errors.New("not found")

// ErrInvalidState marks a forbidden lifecycle move, e.g. advancing a
// disaster backwards or upgrading a destroyed structure.
var ErrInvalidState = errors.New("invalid state")
