package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/outcome-gg/outcome-engine/pkg/core"
)

func BenchmarkAppendRemove(b *testing.B) {
	backend := NewMemoryBackend()
	price, _ := core.ParsePrice("50.000")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := fmt.Sprintf("o%d", i)
		order, _ := core.NewOrder(id, core.Bid, 10, price, uint64(i))
		backend.Append(order)
		backend.Remove(id)
	}
}

func BenchmarkEngineMatchedPair(b *testing.B) {
	backend := NewMemoryBackend()
	engine := core.NewMatchingEngine(backend)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Process(ctx, core.OrderRequest{IsBid: false, Size: "10", Price: "50.000"}); err != nil {
			b.Fatal(err)
		}
		if _, err := engine.Process(ctx, core.OrderRequest{IsBid: true, Size: "10", Price: "50.000"}); err != nil {
			b.Fatal(err)
		}
	}
}
