package models

import "fmt"

type OrderType string

const (
	Market OrderType = "market"
)

func (t OrderType) Validate() error {
	if t != Market {
		return fmt.Errorf("unsupported order type %q: only market orders are simulated", string(t))
	}

	return nil
}
