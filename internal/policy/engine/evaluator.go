package engine

import "context"

// OwnershipInput is the document a storage policy decides on.
type OwnershipInput struct {
	UserID  int64
	OwnerID int64
	Action  string
}

// Evaluator decides whether a caller may act on an inventory item.
type Evaluator interface {
	// AllowStorage reports whether the caller in input may perform input.Action on an item owned by input.OwnerID.
	AllowStorage(ctx context.Context, input OwnershipInput) (bool, error)
	HealthCheck(ctx context.Context) error
}
