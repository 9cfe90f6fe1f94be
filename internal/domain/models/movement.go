package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind enumerates the direction of a stock movement.
type MovementKind string

const (
	MovementDeposit    MovementKind = "DEPOSIT"
	MovementWithdrawal MovementKind = "WITHDRAWAL"
)

// Valid reports whether k is a known movement kind.
func (k MovementKind) Valid() bool {
	return k == MovementDeposit || k == MovementWithdrawal
}

// Sign returns +1 for deposits and -1 for withdrawals.
func (k MovementKind) Sign() int64 {
	if k == MovementWithdrawal {
		return -1
	}
	return 1
}

// Movement is a single immutable entry of the stock ledger.
type Movement struct {
	ID         string          `json:"id"`
	ProductID  int64           `json:"productId"`
	Quantity   int64           `json:"quantity"`
	Kind       MovementKind    `json:"kind"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Signed returns the quantity with the sign of the movement kind applied.
func (m Movement) Signed() int64 {
	return m.Kind.Sign() * m.Quantity
}

// ChangeEvent describes the effect of one completed movement on a product balance.
type ChangeEvent struct {
	ProductID       int64           `json:"productId"`
	Kind            MovementKind    `json:"kind"`
	PreviousBalance int64           `json:"previousBalance"`
	Quantity        int64           `json:"quantity"`
	NewBalance      int64           `json:"newBalance"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	OccurredAt      time.Time       `json:"occurredAt"`
}

// MovementRequest carries the caller supplied values of a deposit or withdrawal.
// Nil pointers mean the value was absent from the request.
type MovementRequest struct {
	ProductID int64
	Quantity  *int64
	UnitPrice *decimal.Decimal
}

// InventoryDetail is the read model returned by the detail query.
type InventoryDetail struct {
	ProductID         int64               `json:"productId"`
	Name              string              `json:"name"`
	AvailableQuantity int64               `json:"availableQuantity"`
	UnitPrice         decimal.NullDecimal `json:"unitPrice"`
}

// BalanceResult is returned by deposit and withdrawal.
type BalanceResult struct {
	ProductID  int64 `json:"productId"`
	NewBalance int64 `json:"newBalance"`
}
