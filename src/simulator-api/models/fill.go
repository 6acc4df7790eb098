package models

import (
	"time"

	"github.com/jiaming2012/sim-trading/src/eventmodels"
)

type Fill struct {
	OrderID    uint                    `json:"orderId"`
	Symbol     eventmodels.StockSymbol `json:"symbol"`
	Side       OrderSide               `json:"side"`
	Quantity   float64                 `json:"qty"`
	Price      float64                 `json:"price"`
	Tick       uint64                  `json:"tick"`
	CreateDate time.Time               `json:"createdAt"`
}

func NewFill(order *Order, tick uint64, createDate time.Time, quantity float64, price float64) *Fill {
	return &Fill{
		OrderID:    order.ID,
		Symbol:     order.Symbol,
		Side:       order.Side,
		Quantity:   quantity,
		Price:      price,
		Tick:       tick,
		CreateDate: createDate,
	}
}
