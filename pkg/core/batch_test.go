package core

import (
	"context"
	"errors"
	"testing"
)

func TestProcessManyThreadsBookState(t *testing.T) {
	engine, _ := newTestEngine()
	batch := NewBatchProcessor(engine)
	ctx := context.Background()

	// The second item crosses the order created by the first.
	done := batch.ProcessMany(ctx, []OrderRequest{
		{IsBid: false, Size: "10", Price: "50.000"},
		{IsBid: true, Size: "4", Price: "50.000"},
	})

	if len(done.Successes) != 2 {
		t.Fatalf("expected 2 results, got %d", len(done.Successes))
	}
	if !done.Successes[0] || !done.Successes[1] {
		t.Fatalf("expected both items to succeed: %v", done.Errs)
	}
	if len(done.Trades[1]) != 1 || done.Trades[1][0].Size != 4 {
		t.Errorf("expected second item to fill 4 against the first, got %v", done.Trades[1])
	}
	if done.Trades[1][0].MakerID != done.OrderIDs[0] {
		t.Errorf("expected maker %s, got %s", done.OrderIDs[0], done.Trades[1][0].MakerID)
	}
}

func TestProcessManyIsolatesFailures(t *testing.T) {
	engine, backend := newTestEngine()
	batch := NewBatchProcessor(engine)
	ctx := context.Background()

	done := batch.ProcessMany(ctx, []OrderRequest{
		{IsBid: false, Size: "10", Price: "50.000"},
		{IsBid: true, Size: "0", Price: "50.000"},             // invalid size
		{IsBid: true, Size: "4", Price: "bogus"},              // invalid price
		{ID: "nope", IsBid: true, Size: "4", Price: "50.000"}, // unknown id
		{IsBid: true, Size: "4", Price: "50.000"},
	})

	wantSuccess := []bool{true, false, false, false, true}
	for i, want := range wantSuccess {
		if done.Successes[i] != want {
			t.Errorf("item %d: expected success=%v, got %v (err %v)", i, want, done.Successes[i], done.Errs[i])
		}
	}

	if !errors.Is(done.Errs[1], ErrInvalidSize) {
		t.Errorf("item 1: expected ErrInvalidSize, got %v", done.Errs[1])
	}
	if !errors.Is(done.Errs[2], ErrInvalidPrice) {
		t.Errorf("item 2: expected ErrInvalidPrice, got %v", done.Errs[2])
	}
	if !errors.Is(done.Errs[3], ErrOrderNotFound) {
		t.Errorf("item 3: expected ErrOrderNotFound, got %v", done.Errs[3])
	}

	// Failed items reserve their slot but leave the book alone: the final
	// item still matched the first.
	if len(done.Trades[4]) != 1 {
		t.Errorf("expected final item to trade, got %v", done.Trades[4])
	}
	if done.Remaining[1] != 0 || len(done.Trades[1]) != 0 {
		t.Error("failed item must report zero remaining and no trades")
	}
	if backend.Len() != 1 {
		t.Errorf("expected 1 resting order, got %d", backend.Len())
	}
}

func TestProcessManyEmptyBatch(t *testing.T) {
	engine, _ := newTestEngine()
	batch := NewBatchProcessor(engine)

	done := batch.ProcessMany(context.Background(), nil)
	if len(done.Successes) != 0 || len(done.OrderIDs) != 0 {
		t.Errorf("expected empty result, got %+v", done)
	}
}
