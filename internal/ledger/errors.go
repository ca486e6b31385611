package ledger

import "errors"

// Caller-visible error kinds. Handlers match these with errors.Is; the
// wrapped detail tells the caller how to correct the request.
var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflictingUpdate = errors.New("conflicting update")
	ErrEmptyOrder        = errors.New("order has no items")
)
