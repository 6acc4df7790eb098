package eventmodels

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type StockSymbol string

func (s StockSymbol) String() string {
	return strings.ToUpper(string(s))
}

func (s StockSymbol) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *StockSymbol) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("StockSymbol: %w", err)
	}

	*s = NewStockSymbol(raw)
	return nil
}

func (s StockSymbol) Validate() error {
	if strings.TrimSpace(string(s)) == "" {
		return fmt.Errorf("symbol must not be empty")
	}

	return nil
}

func NewStockSymbol(s string) StockSymbol {
	return StockSymbol(strings.ToUpper(strings.TrimSpace(s)))
}

// SortStockSymbols returns the symbols in a stable, alphabetical order.
func SortStockSymbols(symbols []StockSymbol) []StockSymbol {
	sorted := make([]StockSymbol, len(symbols))
	copy(sorted, symbols)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	return sorted
}
