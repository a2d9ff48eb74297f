package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/outcome-gg/outcome-engine/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderPayloadToRequest(t *testing.T) {
	payload := OrderPayload{
		UID:   "o1",
		IsBid: true,
		Size:  json.Number("10"),
		Price: json.Number("50.500"),
	}

	req := payload.ToRequest()
	assert.Equal(t, "o1", req.ID)
	assert.True(t, req.IsBid)
	assert.Equal(t, "10", req.Size)
	assert.Equal(t, "50.500", req.Price)
}

func TestOrderPayloadDecodesNumbersAndStrings(t *testing.T) {
	// Clients send size and price either as JSON numbers or numeric strings.
	for _, body := range []string{
		`{"isBid":true,"size":10,"price":50.5}`,
		`{"isBid":true,"size":"10","price":"50.5"}`,
	} {
		var payload OrderPayload
		require.NoError(t, json.Unmarshal([]byte(body), &payload))
		assert.Equal(t, "10", payload.Size.String(), body)
		assert.Equal(t, "50.5", payload.Price.String(), body)
	}
}

func TestNewOrderAck(t *testing.T) {
	price, err := core.ParsePrice("50.500")
	require.NoError(t, err)

	done := &core.Done{
		OrderID:   "o1",
		Remaining: 3,
		Trades: []core.Trade{
			{Size: 7, Price: price, MakerID: "m1", TakerID: "o1"},
		},
		Stored: true,
	}

	ack := NewOrderAck(done)
	assert.Equal(t, ActionOrderProcessed, ack.Action)
	assert.Equal(t, "true", ack.Success)
	assert.Equal(t, "o1", ack.OrderID)
	assert.Equal(t, "3", ack.OrderSize)
	assert.Empty(t, ack.Error)
	require.Len(t, ack.Data, 1)
	assert.Equal(t, int64(7), ack.Data[0].Size)
	assert.Equal(t, "50500", ack.Data[0].Price, "trade prices travel in fixed form")
}

func TestNewOrderErrorAck(t *testing.T) {
	payload := OrderPayload{UID: "o1", IsBid: true, Size: json.Number("5"), Price: json.Number("50.000")}

	ack := NewOrderErrorAck(payload, core.ErrPriceChanged)
	assert.Equal(t, ActionProcessOrderError, ack.Action)
	assert.Equal(t, "false", ack.Success)
	assert.Equal(t, "o1", ack.OrderID)
	assert.Equal(t, "0", ack.OrderSize)
	assert.Equal(t, CodePriceChanged, ack.Error)
	assert.Empty(t, ack.Data)
}

func TestErrorCodeMapping(t *testing.T) {
	cases := map[error]string{
		core.ErrInvalidSize:   CodeInvalidSize,
		core.ErrInvalidPrice:  CodeInvalidPrice,
		core.ErrPriceChanged:  CodePriceChanged,
		core.ErrInvalidSide:   CodeInvalidIsBid,
		core.ErrOrderNotFound: CodeInvalidOrderID,
		errors.New("boom"):    CodeInternalError,
	}

	for err, want := range cases {
		assert.Equal(t, want, ErrorCode(err), err.Error())
	}

	// Wrapped sentinels still map to their code.
	wrapped := fmt.Errorf("context: %w", core.ErrInvalidSize)
	assert.Equal(t, CodeInvalidSize, ErrorCode(wrapped))
}

func TestNewBatchAck(t *testing.T) {
	price, err := core.ParsePrice("50.000")
	require.NoError(t, err)

	batch := &core.BatchDone{
		Successes: []bool{true, false},
		OrderIDs:  []string{"o1", ""},
		Remaining: []int64{4, 0},
		Trades: [][]core.Trade{
			{{Size: 6, Price: price, MakerID: "m1", TakerID: "o1"}},
			{},
		},
		Errs: []error{nil, core.ErrInvalidSize},
	}

	ack := NewBatchAck(batch)
	assert.Equal(t, ActionOrdersProcessed, ack.Action)
	assert.Equal(t, `["true","false"]`, ack.Successes)
	assert.Equal(t, `["o1",""]`, ack.OrderIDs)
	assert.Equal(t, `["4","0"]`, ack.OrderSizes)
	require.Len(t, ack.Data, 2)
	require.Len(t, ack.Data[0], 1)
	assert.Equal(t, "50000", ack.Data[0][0].Price)
	assert.Empty(t, ack.Data[1])
}

func TestBookViewConversion(t *testing.T) {
	price, err := core.ParsePrice("50.500")
	require.NoError(t, err)

	view := NewBookView("OUTCOME-YES",
		[]core.LevelView{{Price: price, Size: 12, Orders: 2}},
		nil,
	)

	assert.Equal(t, "OUTCOME-YES", view.Market)
	require.Len(t, view.Bids, 1)
	assert.Equal(t, "50.5", view.Bids[0].Price)
	assert.Equal(t, int64(12), view.Bids[0].Size)
	assert.Equal(t, 2, view.Bids[0].Orders)
	assert.Empty(t, view.Asks)
}
