package session

import "errors"

// User-recoverable conditions. These never mutate session state; the player
// corrects the input and retries. They are also pushed to the Notifier so
// the frontend can toast them without extra round-trips.
var (
	ErrNoBetsPlaced      = errors.New("no bets placed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSpinInProgress    = errors.New("spin already in progress")
	ErrNoBetSelected     = errors.New("no bet selected")
	ErrBetNotFound       = errors.New("placed bet not found")
	ErrInvalidAmount     = errors.New("bet amount must be positive")
	ErrInvalidNumber     = errors.New("straight bet number must be between 0 and 36")
)
