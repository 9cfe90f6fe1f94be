package inventory

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository"
	"github.com/mamadbah2/stockledger/pkg/clients/catalog"
)

const (
	defaultMovementLimit = 50
	maxMovementLimit     = 500
)

// Notifier receives a ChangeEvent after every committed movement.
type Notifier interface {
	Notify(ctx context.Context, event models.ChangeEvent)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, models.ChangeEvent) {}

// Service orchestrates deposits, withdrawals and detail lookups.
type Service struct {
	ledger    repository.LedgerStore
	directory catalog.Client
	validator *Validator
	notifier  Notifier
	locks     *productLocks
	retry     RetryPolicy
	now       func() time.Time
	logger    *zap.Logger
}

// NewService wires the inventory service. A nil notifier disables change events.
func NewService(ledger repository.LedgerStore, directory catalog.Client, notifier Notifier, retry RetryPolicy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}

	return &Service{
		ledger:    ledger,
		directory: directory,
		validator: NewValidator(directory, ledger),
		notifier:  notifier,
		locks:     newProductLocks(),
		retry:     retry,
		now:       time.Now,
		logger:    logger,
	}
}

// Deposit adds stock to a product and returns the new balance.
func (s *Service) Deposit(ctx context.Context, req models.MovementRequest) (models.BalanceResult, error) {
	unlock := s.locks.Lock(req.ProductID)
	defer unlock()

	vm, err := s.validator.ValidateDeposit(ctx, req)
	if err != nil {
		s.logRejected(req, models.MovementDeposit, err)
		return models.BalanceResult{}, err
	}

	balance, err := s.ledger.BalanceOf(ctx, vm.ProductID)
	if err != nil {
		return models.BalanceResult{}, storageError("read balance", err)
	}
	vm.Balance = balance

	return s.commit(ctx, vm)
}

// Withdraw removes stock from a product and returns the new balance. It fails
// with ErrInsufficientBalance when the balance cannot cover the quantity.
func (s *Service) Withdraw(ctx context.Context, req models.MovementRequest) (models.BalanceResult, error) {
	unlock := s.locks.Lock(req.ProductID)
	defer unlock()

	vm, err := s.validator.ValidateWithdrawal(ctx, req)
	if err != nil {
		s.logRejected(req, models.MovementWithdrawal, err)
		return models.BalanceResult{}, err
	}

	return s.commit(ctx, vm)
}

// commit appends the movement and emits the change event. The caller holds
// the product lock, so vm.Balance is still current.
func (s *Service) commit(ctx context.Context, vm ValidatedMovement) (models.BalanceResult, error) {
	stored, err := s.ledger.AppendMovement(ctx, models.Movement{
		ProductID:  vm.ProductID,
		Quantity:   vm.Quantity,
		Kind:       vm.Kind,
		UnitPrice:  vm.UnitPrice,
		TotalPrice: vm.TotalPrice,
		Timestamp:  s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("failed to append movement",
			zap.Int64("product_id", vm.ProductID),
			zap.String("kind", string(vm.Kind)),
			zap.Error(err))
		return models.BalanceResult{}, storageError("append movement", err)
	}

	newBalance := vm.Balance + stored.Signed()

	s.logger.Info("stock movement recorded",
		zap.String("movement_id", stored.ID),
		zap.Int64("product_id", vm.ProductID),
		zap.String("product_name", vm.ProductName),
		zap.String("kind", string(vm.Kind)),
		zap.Int64("quantity", vm.Quantity),
		zap.String("unit_price", vm.UnitPrice.String()),
		zap.String("total_price", vm.TotalPrice.String()),
		zap.Int64("previous_balance", vm.Balance),
		zap.Int64("new_balance", newBalance))

	s.notifier.Notify(ctx, models.ChangeEvent{
		ProductID:       vm.ProductID,
		Kind:            vm.Kind,
		PreviousBalance: vm.Balance,
		Quantity:        vm.Quantity,
		NewBalance:      newBalance,
		UnitPrice:       vm.UnitPrice,
		OccurredAt:      stored.Timestamp,
	})

	return models.BalanceResult{ProductID: vm.ProductID, NewBalance: newBalance}, nil
}

// Detail returns the product name, available quantity and current unit
// price. The unit price is taken from the latest movement, or from the
// directory when the product has none. Directory outages are retried.
func (s *Service) Detail(ctx context.Context, productID int64) (models.InventoryDetail, error) {
	if productID <= 0 {
		return models.InventoryDetail{}, ErrMissingProductID
	}

	attempt := 0
	product, err := retry(ctx, s.retry, isDirectoryUnavailable, func(ctx context.Context) (*models.ProductSummary, error) {
		attempt++
		p, err := s.directory.Fetch(ctx, productID)
		if err != nil {
			err = directoryError(productID, err)
			s.logger.Warn("directory lookup failed",
				zap.Int64("product_id", productID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return models.InventoryDetail{}, err
	}

	balance, err := s.ledger.BalanceOf(ctx, productID)
	if err != nil {
		return models.InventoryDetail{}, storageError("read balance", err)
	}

	latest, err := s.ledger.LatestMovement(ctx, productID)
	if err != nil {
		return models.InventoryDetail{}, storageError("read latest movement", err)
	}

	detail := models.InventoryDetail{
		ProductID:         productID,
		Name:              product.Name,
		AvailableQuantity: balance,
		UnitPrice:         product.Price,
	}
	if latest != nil {
		detail.UnitPrice.Decimal = latest.UnitPrice
		detail.UnitPrice.Valid = true
	}
	return detail, nil
}

// Movements returns the product's history, most recent first. It does not
// call the directory.
func (s *Service) Movements(ctx context.Context, productID int64, limit int) ([]models.Movement, error) {
	if productID <= 0 {
		return nil, ErrMissingProductID
	}
	switch {
	case limit <= 0:
		limit = defaultMovementLimit
	case limit > maxMovementLimit:
		limit = maxMovementLimit
	}

	movements, err := s.ledger.ListMovements(ctx, productID, limit)
	if err != nil {
		return nil, storageError("list movements", err)
	}
	return movements, nil
}

func (s *Service) logRejected(req models.MovementRequest, kind models.MovementKind, err error) {
	fields := []zap.Field{
		zap.Int64("product_id", req.ProductID),
		zap.String("kind", string(kind)),
		zap.Error(err),
	}
	if errors.Is(err, ErrDirectoryUnavailable) {
		s.logger.Error("movement rejected", fields...)
		return
	}
	s.logger.Info("movement rejected", fields...)
}

func isDirectoryUnavailable(err error) bool {
	return errors.Is(err, ErrDirectoryUnavailable)
}
