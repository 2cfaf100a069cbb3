package application

import (
	"errors"
	"fmt"

	"github.com/amushan/portal-storefront/internal/domains/cart/domain"
	"github.com/amushan/portal-storefront/internal/domains/cart/ports"
)

// ErrInvalidInput signals the request violated a cart invariant.
var ErrInvalidInput = errors.New("invalid cart input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyProductID) || errors.Is(err, domain.ErrNegativePrice) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", ports.ErrStorage, err)
}
