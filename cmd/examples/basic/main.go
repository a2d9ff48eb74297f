package main

import (
	"context"
	"fmt"

	"github.com/outcome-gg/outcome-engine/pkg/backend/memory"
	"github.com/outcome-gg/outcome-engine/pkg/core"
)

func main() {
	ctx := context.Background()

	// Initialize the engine with an in-memory book
	backend := memory.NewMemoryBackend()
	engine := core.NewMatchingEngine(backend)

	// Rest a sell order at 50.500
	sellDone, err := engine.Process(ctx, core.OrderRequest{
		IsBid: false,
		Size:  "10",
		Price: "50.500",
	})
	if err != nil {
		panic(err)
	}
	fmt.Printf("Created sell order: %s (remaining %d)\n", sellDone.OrderID, sellDone.Remaining)

	// Cross it with a smaller buy order at the same price
	buyDone, err := engine.Process(ctx, core.OrderRequest{
		IsBid: true,
		Size:  "4",
		Price: "50.500",
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Processing buy order: %s\n", buyDone.OrderID)
	for _, trade := range buyDone.Trades {
		fmt.Printf("Trade executed: maker=%s taker=%s size=%d price=%s\n",
			trade.MakerID, trade.TakerID, trade.Size, trade.Price.String())
	}
	fmt.Printf("Buy order remaining: %d\n", buyDone.Remaining)

	// Shrink the resting remainder, keeping its queue position
	resized, err := engine.Process(ctx, core.OrderRequest{
		ID:    sellDone.OrderID,
		IsBid: false,
		Size:  "3",
		Price: "50.500",
	})
	if err != nil {
		panic(err)
	}
	fmt.Printf("Resized sell order to %d\n", resized.Remaining)

	// Summary
	fmt.Println("\nBook depth:")
	for _, lvl := range backend.Levels(core.Ask) {
		fmt.Printf("- ASK %s: size=%d orders=%d\n", lvl.Price.String(), lvl.Size, lvl.Orders)
	}
	for _, lvl := range backend.Levels(core.Bid) {
		fmt.Printf("- BID %s: size=%d orders=%d\n", lvl.Price.String(), lvl.Size, lvl.Orders)
	}
}
