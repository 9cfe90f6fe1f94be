package inventory

import (
	"errors"
	"fmt"

	"github.com/mamadbah2/stockledger/pkg/clients/catalog"
)

// Domain errors returned by Service. Callers match them with errors.Is.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAccessDenied  = errors.New("product access denied")
	ErrDirectoryUnavailable = errors.New("product directory unavailable")
	ErrStorageFailure       = errors.New("ledger storage failure")

	ErrMissingProductID = fmt.Errorf("%w: product id is required", ErrInvalidInput)
	ErrInvalidQuantity  = fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidInput)
	ErrInvalidPrice     = fmt.Errorf("%w: unit price must be greater than zero", ErrInvalidInput)
)

// directoryError translates a catalog client failure into the domain taxonomy.
func directoryError(productID int64, err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	case errors.Is(err, catalog.ErrForbidden):
		return fmt.Errorf("%w: id %d", ErrProductAccessDenied, productID)
	default:
		return fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}
