package models

import "errors"

// Errors reported back to the player that issued a command. Callers wrap
// them with context and match with errors.Is.
var (
	ErrInvalidFormat     = errors.New("invalid format")
	ErrOutOfRange        = errors.New("out of range")
	ErrNotAProperty      = errors.New("not a property")
	ErrNotTradable       = errors.New("not tradable")
	ErrWrongTurnState    = errors.New("not allowed right now")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrTradeClosed       = errors.New("trade is closed")
)
