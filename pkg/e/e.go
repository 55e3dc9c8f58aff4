package e

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidPayment  = errors.New("unknown payment method")
)

func Wrap(message string, err error) error {
	return fmt.Errorf("%s: %w", message, err)
}
