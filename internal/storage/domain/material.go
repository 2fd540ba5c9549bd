// Package domain defines a user's stored materials ("refrigerator" items).
package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrDuplicate is returned when the owner already stores a material with the same name.
var ErrDuplicate = errors.New("material already exists")

// Amounts are tracked in steps of AmountStep and never drop below MinAmount.
const (
	InitialAmount = 100
	AmountStep    = 100
	MinAmount     = 100
)

type Material struct {
	ID        int64
	Name      string
	Type      string
	Amount    int
	UserID    int64
	CreatedAt time.Time
}

// Validate checks the fields a caller must supply.
func (m *Material) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("name should not be empty")
	}
	if strings.TrimSpace(m.Type) == "" {
		return errors.New("type should not be empty")
	}
	if m.UserID <= 0 {
		return errors.New("material must have an owner")
	}
	return nil
}

// Decremented returns the amount after one decrement: one step less while above
// MinAmount, otherwise MinAmount.
func Decremented(amount int) int {
	if amount > MinAmount {
		return amount - AmountStep
	}
	return MinAmount
}
