package models

type OrderStatus string

const (
	OrderStatusOpen     OrderStatus = "open"
	OrderStatusFilled   OrderStatus = "filled"
	OrderStatusCanceled OrderStatus = "canceled"
)

func (status OrderStatus) IsTerminal() bool {
	return status == OrderStatusFilled || status == OrderStatusCanceled
}
