package service

import (
	"errors"
	"fmt"

	"go-storefront-api/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
	ErrStorage           = errors.New("storage error")
)

// InsufficientStockError identifies the product that could not cover a
// requested consumption. errors.Is(err, ErrInsufficientStock) matches it.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d (short by %d)",
		e.ProductID, e.Requested, e.Available, e.Shortfall())
}

func (e *InsufficientStockError) Shortfall() int { return e.Requested - e.Available }

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

func notFound(what string, id uint) error {
	return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// validate runs the struct tags and reports the first failure as ErrInvalidInput.
func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return invalid("%s", errs[0].Error())
	}
	return nil
}

// storage leaves domain errors untouched and wraps anything else coming out
// of the store as ErrStorage.
func storage(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrConflict),
		errors.Is(err, ErrStorage):
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// lookup maps gorm's missing-row error to ErrNotFound for the named entity.
func lookup(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what, id)
	}
	return storage(err)
}
