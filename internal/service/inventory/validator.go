package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository"
	"github.com/mamadbah2/stockledger/pkg/clients/catalog"
)

// ValidatedMovement is an admitted request, ready to be appended.
type ValidatedMovement struct {
	ProductID   int64
	ProductName string
	Kind        models.MovementKind
	Quantity    int64
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	// Balance is the balance read during validation. Only set for withdrawals.
	Balance int64
}

// Validator checks movement requests against the directory and the ledger.
type Validator struct {
	directory catalog.Client
	ledger    repository.LedgerStore
}

func NewValidator(directory catalog.Client, ledger repository.LedgerStore) *Validator {
	return &Validator{directory: directory, ledger: ledger}
}

// ValidateDeposit checks the request fields and resolves the product.
func (v *Validator) ValidateDeposit(ctx context.Context, req models.MovementRequest) (ValidatedMovement, error) {
	return v.validate(ctx, req, models.MovementDeposit)
}

// ValidateWithdrawal does what ValidateDeposit does and then rejects the
// request when the current balance cannot cover it. Callers must hold the
// product lock until the movement is appended.
func (v *Validator) ValidateWithdrawal(ctx context.Context, req models.MovementRequest) (ValidatedMovement, error) {
	vm, err := v.validate(ctx, req, models.MovementWithdrawal)
	if err != nil {
		return ValidatedMovement{}, err
	}

	balance, err := v.ledger.BalanceOf(ctx, vm.ProductID)
	if err != nil {
		return ValidatedMovement{}, storageError("read balance", err)
	}
	if balance < vm.Quantity {
		return ValidatedMovement{}, fmt.Errorf("%w: product %d has %d, requested %d",
			ErrInsufficientBalance, vm.ProductID, balance, vm.Quantity)
	}

	vm.Balance = balance
	return vm, nil
}

func (v *Validator) validate(ctx context.Context, req models.MovementRequest, kind models.MovementKind) (ValidatedMovement, error) {
	if err := checkFields(req); err != nil {
		return ValidatedMovement{}, err
	}

	product, err := v.directory.Fetch(ctx, req.ProductID)
	if err != nil {
		return ValidatedMovement{}, directoryError(req.ProductID, err)
	}

	quantity := *req.Quantity
	unitPrice := *req.UnitPrice
	return ValidatedMovement{
		ProductID:   req.ProductID,
		ProductName: product.Name,
		Kind:        kind,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  unitPrice.Mul(decimal.NewFromInt(quantity)),
	}, nil
}

func checkFields(req models.MovementRequest) error {
	switch {
	case req.ProductID <= 0:
		return ErrMissingProductID
	case req.Quantity == nil || *req.Quantity <= 0:
		return ErrInvalidQuantity
	case req.UnitPrice == nil || !req.UnitPrice.IsPositive():
		return ErrInvalidPrice
	}
	return nil
}
