package eventpubsub

type EventName string

const (
	OrderSubmittedEvent EventName = "OrderSubmittedEvent"
	OrderFilledEvent    EventName = "OrderFilledEvent"
	OrderCanceledEvent  EventName = "OrderCanceledEvent"
	PositionOpenedEvent EventName = "PositionOpenedEvent"
	PositionClosedEvent EventName = "PositionClosedEvent"
	CandleClosedEvent   EventName = "CandleClosedEvent"
	CandleSealedEvent   EventName = "CandleSealedEvent"
)
