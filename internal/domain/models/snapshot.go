package models

import "time"

// ProductBalance is the derived balance of one product.
type ProductBalance struct {
	ProductID int64 `bson:"product_id" json:"productId"`
	Balance   int64 `bson:"balance" json:"balance"`
}

// StockSnapshot is a point in time copy of every product balance, stored in MongoDB.
type StockSnapshot struct {
	TakenAt    time.Time        `bson:"taken_at" json:"takenAt"`
	Products   []ProductBalance `bson:"products" json:"products"`
	TotalUnits int64            `bson:"total_units" json:"totalUnits"`
	CreatedAt  time.Time        `bson:"created_at" json:"createdAt"`
}
