package mongodb

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

func TestMovementDocumentKeepsPrices(t *testing.T) {
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	in := models.Movement{
		ProductID:  7,
		Quantity:   3,
		Kind:       models.MovementWithdrawal,
		UnitPrice:  decimal.RequireFromString("1500.25"),
		TotalPrice: decimal.RequireFromString("4500.75"),
		Timestamp:  at,
	}

	doc, err := toMovementDocument(in)
	require.NoError(t, err)
	assert.False(t, doc.ID.IsZero())

	out, err := fromMovementDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, doc.ID.Hex(), out.ID)
	assert.Equal(t, models.MovementWithdrawal, out.Kind)
	assert.True(t, out.UnitPrice.Equal(in.UnitPrice))
	assert.True(t, out.TotalPrice.Equal(in.TotalPrice))
	assert.Equal(t, at, out.Timestamp)
}

func TestMovementDocumentRejectsBadID(t *testing.T) {
	_, err := toMovementDocument(models.Movement{ID: "not-an-object-id"})
	assert.ErrorContains(t, err, "invalid movement id")
}

func TestSignedSumSubtractsWithdrawals(t *testing.T) {
	sum := signedSum()
	require.Equal(t, "$sum", sum[0].Key)

	cond, ok := sum[0].Value.(bson.D)
	require.True(t, ok)
	branches, ok := cond[0].Value.(bson.A)
	require.True(t, ok)
	require.Len(t, branches, 3)

	assert.Equal(t, bson.D{{Key: "$eq", Value: bson.A{"$kind", "WITHDRAWAL"}}}, branches[0])
	assert.Equal(t, bson.D{{Key: "$multiply", Value: bson.A{"$quantity", -1}}}, branches[1])
	assert.Equal(t, "$quantity", branches[2])
}

func TestProductSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, productSort(models.ProductListQuery{SortBy: "id"}))
	assert.Equal(t, bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}},
		productSort(models.ProductListQuery{SortBy: "price", SortDirection: "DESC"}))
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, productSort(models.ProductListQuery{SortBy: "$where"}))
}
