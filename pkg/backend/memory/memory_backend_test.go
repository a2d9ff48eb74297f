package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/outcome-gg/outcome-engine/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, id string, side core.Side, size int64, price string, seq uint64) *core.Order {
	t.Helper()
	p, err := core.ParsePrice(price)
	require.NoError(t, err)
	order, err := core.NewOrder(id, side, size, p, seq)
	require.NoError(t, err)
	return order
}

func TestNewMemoryBackend(t *testing.T) {
	backend := NewMemoryBackend()
	assert.NotNil(t, backend)
	assert.NotNil(t, backend.bids)
	assert.NotNil(t, backend.asks)
	assert.NotNil(t, backend.index)
	assert.Equal(t, 0, backend.Len())
}

func TestMemoryBackend_AppendFindRemove(t *testing.T) {
	backend := NewMemoryBackend()

	order := newOrder(t, "o1", core.Bid, 10, "50.000", 1)
	backend.Append(order)

	found := backend.Find("o1")
	require.NotNil(t, found)
	assert.Equal(t, "o1", found.ID())
	assert.Equal(t, 1, backend.Len())

	removed := backend.Remove("o1")
	require.NotNil(t, removed)
	assert.Equal(t, "o1", removed.ID())
	assert.Nil(t, backend.Find("o1"))
	assert.Equal(t, 0, backend.Len())

	assert.Nil(t, backend.Remove("o1"), "second remove of the same id returns nil")
}

func TestMemoryBackend_FIFOWithinLevel(t *testing.T) {
	backend := NewMemoryBackend()

	for i := 1; i <= 3; i++ {
		backend.Append(newOrder(t, fmt.Sprintf("o%d", i), core.Ask, 5, "50.000", uint64(i)))
	}

	front := backend.Front(core.Ask)
	require.NotNil(t, front)
	assert.Equal(t, "o1", front.ID(), "earliest arrival must be first in queue")

	backend.Remove("o1")
	assert.Equal(t, "o2", backend.Front(core.Ask).ID())

	// Removing from the middle keeps the remaining order reachable.
	backend.Remove("o3")
	assert.Equal(t, "o2", backend.Front(core.Ask).ID())
	assert.Equal(t, 1, backend.Len())
}

func TestMemoryBackend_ResizeKeepsQueuePosition(t *testing.T) {
	backend := NewMemoryBackend()

	backend.Append(newOrder(t, "o1", core.Bid, 5, "50.000", 1))
	backend.Append(newOrder(t, "o2", core.Bid, 5, "50.000", 2))

	ok := backend.Resize("o1", 20)
	require.True(t, ok)

	assert.Equal(t, "o1", backend.Front(core.Bid).ID(), "grown order keeps its place at the front")
	assert.Equal(t, int64(20), backend.Find("o1").RemainingSize())

	levels := backend.Levels(core.Bid)
	require.Len(t, levels, 1)
	assert.Equal(t, int64(25), levels[0].Size, "level size tracks the resize delta")
	assert.Equal(t, 2, levels[0].Orders)

	assert.False(t, backend.Resize("unknown", 5))
}

func TestMemoryBackend_LevelLifecycle(t *testing.T) {
	backend := NewMemoryBackend()

	backend.Append(newOrder(t, "o1", core.Ask, 5, "50.000", 1))
	_, ok := backend.BestPrice(core.Ask)
	require.True(t, ok)

	backend.Remove("o1")
	_, ok = backend.BestPrice(core.Ask)
	assert.False(t, ok, "emptied level must be dropped")
	assert.Nil(t, backend.Front(core.Ask))
	assert.Empty(t, backend.Levels(core.Ask))

	// Re-adding at the same price creates a fresh level.
	backend.Append(newOrder(t, "o2", core.Ask, 3, "50.000", 2))
	best, ok := backend.BestPrice(core.Ask)
	require.True(t, ok)
	assert.Equal(t, "50", best.String())
}

func TestMemoryBackend_PriceOrdering(t *testing.T) {
	backend := NewMemoryBackend()

	// Insert out of order to exercise head, tail and middle splices.
	backend.Append(newOrder(t, "a2", core.Ask, 1, "51.000", 1))
	backend.Append(newOrder(t, "a1", core.Ask, 1, "50.000", 2))
	backend.Append(newOrder(t, "a3", core.Ask, 1, "52.000", 3))
	backend.Append(newOrder(t, "a2b", core.Ask, 1, "51.500", 4))

	bestAsk, ok := backend.BestPrice(core.Ask)
	require.True(t, ok)
	assert.Equal(t, "50", bestAsk.String(), "lowest ask is most aggressive")

	askLevels := backend.Levels(core.Ask)
	require.Len(t, askLevels, 4)
	assert.Equal(t, "50", askLevels[0].Price.String())
	assert.Equal(t, "51", askLevels[1].Price.String())
	assert.Equal(t, "51.5", askLevels[2].Price.String())
	assert.Equal(t, "52", askLevels[3].Price.String())

	backend.Append(newOrder(t, "b1", core.Bid, 1, "49.000", 5))
	backend.Append(newOrder(t, "b2", core.Bid, 1, "49.500", 6))

	bestBid, ok := backend.BestPrice(core.Bid)
	require.True(t, ok)
	assert.Equal(t, "49.5", bestBid.String(), "highest bid is most aggressive")
}

// The tests below run the real engine over the memory backend.

func TestEngine_MultiLevelSweep(t *testing.T) {
	backend := NewMemoryBackend()
	engine := core.NewMatchingEngine(backend)
	ctx := context.Background()

	for _, price := range []string{"50.000", "50.500", "51.000"} {
		_, err := engine.Process(ctx, core.OrderRequest{IsBid: false, Size: "5", Price: price})
		require.NoError(t, err)
	}

	done, err := engine.Process(ctx, core.OrderRequest{IsBid: true, Size: "12", Price: "50.500"})
	require.NoError(t, err)

	assert.Equal(t, int64(10), done.Processed())
	assert.Equal(t, int64(2), done.Remaining)
	assert.True(t, done.Stored)

	// The swept levels are gone; the remainder rests on the bid side.
	askLevels := backend.Levels(core.Ask)
	require.Len(t, askLevels, 1)
	assert.Equal(t, "51", askLevels[0].Price.String())

	bidLevels := backend.Levels(core.Bid)
	require.Len(t, bidLevels, 1)
	assert.Equal(t, int64(2), bidLevels[0].Size)
}

func TestEngine_FIFOAllocationAtSamePrice(t *testing.T) {
	backend := NewMemoryBackend()
	engine := core.NewMatchingEngine(backend)
	ctx := context.Background()

	first, err := engine.Process(ctx, core.OrderRequest{IsBid: false, Size: "5", Price: "50.000"})
	require.NoError(t, err)
	second, err := engine.Process(ctx, core.OrderRequest{IsBid: false, Size: "5", Price: "50.000"})
	require.NoError(t, err)

	done, err := engine.Process(ctx, core.OrderRequest{IsBid: true, Size: "7", Price: "50.000"})
	require.NoError(t, err)

	require.Len(t, done.Trades, 2)
	assert.Equal(t, first.OrderID, done.Trades[0].MakerID, "earlier arrival fills first")
	assert.Equal(t, int64(5), done.Trades[0].Size)
	assert.Equal(t, second.OrderID, done.Trades[1].MakerID)
	assert.Equal(t, int64(2), done.Trades[1].Size)

	// The first maker is fully consumed, the second keeps the rest.
	assert.Nil(t, backend.Find(first.OrderID))
	assert.Equal(t, int64(3), backend.Find(second.OrderID).RemainingSize())
}

func TestEngine_ResizedOrderKeepsPriority(t *testing.T) {
	backend := NewMemoryBackend()
	engine := core.NewMatchingEngine(backend)
	ctx := context.Background()

	first, err := engine.Process(ctx, core.OrderRequest{IsBid: false, Size: "5", Price: "50.000"})
	require.NoError(t, err)
	second, err := engine.Process(ctx, core.OrderRequest{IsBid: false, Size: "5", Price: "50.000"})
	require.NoError(t, err)

	// Growing the first order must not cost it the front of the queue.
	_, err = engine.Process(ctx, core.OrderRequest{ID: first.OrderID, IsBid: false, Size: "8", Price: "50.000"})
	require.NoError(t, err)

	done, err := engine.Process(ctx, core.OrderRequest{IsBid: true, Size: "6", Price: "50.000"})
	require.NoError(t, err)

	require.Len(t, done.Trades, 1)
	assert.Equal(t, first.OrderID, done.Trades[0].MakerID)
	assert.Equal(t, int64(6), done.Trades[0].Size)
	assert.Equal(t, int64(2), backend.Find(first.OrderID).RemainingSize())
	assert.Equal(t, int64(5), backend.Find(second.OrderID).RemainingSize())
}

func TestEngine_RemainderRestsAndFillsLater(t *testing.T) {
	backend := NewMemoryBackend()
	engine := core.NewMatchingEngine(backend)
	ctx := context.Background()

	_, err := engine.Process(ctx, core.OrderRequest{IsBid: true, Size: "5", Price: "99.000"})
	require.NoError(t, err)
	_, err = engine.Process(ctx, core.OrderRequest{IsBid: true, Size: "5", Price: "97.000"})
	require.NoError(t, err)

	// First ask consumes the best bid fully and part of the next level.
	first, err := engine.Process(ctx, core.OrderRequest{IsBid: false, Size: "8", Price: "96.5"})
	require.NoError(t, err)
	require.Len(t, first.Trades, 2)
	assert.Equal(t, "99", first.Trades[0].Price.String())
	assert.Equal(t, int64(5), first.Trades[0].Size)
	assert.Equal(t, "97", first.Trades[1].Price.String())
	assert.Equal(t, int64(3), first.Trades[1].Size)
	assert.Equal(t, int64(0), first.Remaining)
	assert.False(t, first.Stored)

	// An identical second ask sweeps the leftover bid and rests its remainder.
	second, err := engine.Process(ctx, core.OrderRequest{IsBid: false, Size: "8", Price: "96.5"})
	require.NoError(t, err)
	require.Len(t, second.Trades, 1)
	assert.Equal(t, "97", second.Trades[0].Price.String())
	assert.Equal(t, int64(2), second.Trades[0].Size)
	assert.Equal(t, int64(6), second.Remaining)
	assert.True(t, second.Stored)

	askLevels := backend.Levels(core.Ask)
	require.Len(t, askLevels, 1)
	assert.Equal(t, "96.5", askLevels[0].Price.String())
	assert.Equal(t, int64(6), askLevels[0].Size)
	assert.Empty(t, backend.Levels(core.Bid))
}

func TestEngine_CanceledOrderIsSkipped(t *testing.T) {
	backend := NewMemoryBackend()
	engine := core.NewMatchingEngine(backend)
	ctx := context.Background()

	first, err := engine.Process(ctx, core.OrderRequest{IsBid: false, Size: "5", Price: "50.000"})
	require.NoError(t, err)
	second, err := engine.Process(ctx, core.OrderRequest{IsBid: false, Size: "5", Price: "50.000"})
	require.NoError(t, err)

	_, err = engine.Process(ctx, core.OrderRequest{ID: first.OrderID, IsBid: false, Size: "0", Price: "50.000"})
	require.NoError(t, err)

	done, err := engine.Process(ctx, core.OrderRequest{IsBid: true, Size: "5", Price: "50.000"})
	require.NoError(t, err)

	require.Len(t, done.Trades, 1)
	assert.Equal(t, second.OrderID, done.Trades[0].MakerID)
	assert.Equal(t, 0, backend.Len(), "both sides fully consumed")
}
