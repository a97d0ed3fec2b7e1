package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors matched through errors.Is against the typed errors below.
var (
	ErrValidation             = errors.New("validation failed")
	ErrInsufficientInventory  = errors.New("insufficient inventory")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrImportSchema           = errors.New("invalid snapshot")
)

// ValidationError rejects a call that would break a catalog or order invariant.
type ValidationError struct {
	Entity  EntityType
	Field   string
	Message string
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(entity EntityType, field, format string, args ...any) ValidationError {
	return ValidationError{Entity: entity, Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Entity, e.Message)
	}
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, e.Message)
}

// Is reports sentinel equivalence.
func (e ValidationError) Is(target error) bool { return target == ErrValidation }

// InsufficientInventoryError reports a debit larger than the stock on hand.
type InsufficientInventoryError struct {
	ProductID int
	Required  int
	Available int
}

func (e InsufficientInventoryError) Error() string {
	return fmt.Sprintf("product %d: required %d, available %d", e.ProductID, e.Required, e.Available)
}

// Is reports sentinel equivalence.
func (e InsufficientInventoryError) Is(target error) bool { return target == ErrInsufficientInventory }

// InvalidStateTransitionError reports an order status change outside its lifecycle.
type InvalidStateTransitionError struct {
	Entity EntityType
	ID     int
	From   string
	To     string
}

func (e InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s %d: cannot transition from %s to %s", e.Entity, e.ID, e.From, e.To)
}

// Is reports sentinel equivalence.
func (e InvalidStateTransitionError) Is(target error) bool { return target == ErrInvalidStateTransition }

// ImportSchemaError reports a malformed or inconsistent snapshot. Path locates the offending value.
type ImportSchemaError struct {
	Path    string
	Message string
}

func (e ImportSchemaError) Error() string {
	if e.Path == "" {
		return "snapshot: " + e.Message
	}
	return fmt.Sprintf("snapshot %s: %s", e.Path, e.Message)
}

// Is reports sentinel equivalence.
func (e ImportSchemaError) Is(target error) bool { return target == ErrImportSchema }
