package eventmodels

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockSymbol(t *testing.T) {
	t.Run("normalized", func(t *testing.T) {
		assert.Equal(t, StockSymbol("AAPL"), NewStockSymbol(" aapl "))
		assert.Error(t, NewStockSymbol("  ").Validate())
	})

	t.Run("json", func(t *testing.T) {
		var s StockSymbol
		require.NoError(t, json.Unmarshal([]byte(`"msft"`), &s))
		assert.Equal(t, StockSymbol("MSFT"), s)

		data, err := json.Marshal(s)
		require.NoError(t, err)
		assert.Equal(t, `"MSFT"`, string(data))
	})

	t.Run("sorted copy", func(t *testing.T) {
		in := []StockSymbol{"TSLA", "AAPL", "NVDA"}
		assert.Equal(t, []StockSymbol{"AAPL", "NVDA", "TSLA"}, SortStockSymbols(in))
		assert.Equal(t, StockSymbol("TSLA"), in[0])
	})
}
