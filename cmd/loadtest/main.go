package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"golang.org/x/time/rate"

	"github.com/outcome-gg/outcome-engine/pkg/api"
)

const (
	numWorkers        = 100
	ordersPerWorker   = 1000
	maxConcurrentReqs = 200
)

func main() {
	httpAddr := flag.String("http-addr", "http://localhost:8080", "Engine HTTP address")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, cleaning up...")
		cancel()
	}()

	// Set up rate limiter, latency histogram and wait group
	limiter := rate.NewLimiter(rate.Limit(maxConcurrentReqs), maxConcurrentReqs)
	hist := hdrhistogram.New(1, int64(10*time.Second/time.Microsecond), 3)
	var histMu sync.Mutex
	var wg sync.WaitGroup
	errChan := make(chan error, numWorkers*ordersPerWorker)

	// Start workers
	start := time.Now()
	log.Printf("Starting %d workers, %d orders per worker...", numWorkers, ordersPerWorker)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := 0; j < ordersPerWorker; j++ {
				if err := limiter.Wait(ctx); err != nil {
					errChan <- fmt.Errorf("rate limiter error: %v", err)
					return
				}

				payload := generateRandomOrder(workerID*ordersPerWorker + j)
				reqStart := time.Now()
				if err := submitOrder(ctx, client, *httpAddr, payload); err != nil {
					errChan <- err
					continue
				}

				histMu.Lock()
				_ = hist.RecordValue(time.Since(reqStart).Microseconds())
				histMu.Unlock()
			}
		}(i)
	}

	// Wait for all workers to finish
	wg.Wait()
	duration := time.Since(start)
	close(errChan)

	// Process errors
	var errors []error
	for err := range errChan {
		errors = append(errors, err)
	}

	// Print results
	total := numWorkers * ordersPerWorker
	log.Printf("Load test completed in %v", duration)
	log.Printf("Total orders attempted: %d", total)
	log.Printf("Errors encountered: %d", len(errors))
	log.Printf("Throughput: %.0f orders/sec", float64(total-len(errors))/duration.Seconds())
	log.Printf("Latency p50: %dus p95: %dus p99: %dus max: %dus",
		hist.ValueAtQuantile(50),
		hist.ValueAtQuantile(95),
		hist.ValueAtQuantile(99),
		hist.Max())

	if len(errors) > 0 {
		log.Printf("First error: %v", errors[0])
		os.Exit(1)
	}
}

func submitOrder(ctx context.Context, client *http.Client, addr string, payload api.OrderPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode order: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr+"/v1/order", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit order: %v", err)
	}
	defer resp.Body.Close()

	var ack api.OrderAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return fmt.Errorf("failed to decode acknowledgment: %v", err)
	}
	if ack.Action == api.ActionProcessOrderError {
		return fmt.Errorf("order rejected: %s", ack.Error)
	}
	return nil
}

func generateRandomOrder(orderNum int) api.OrderPayload {
	r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(orderNum)))

	// Use a fixed price and size for higher matching probability
	const (
		fixedPrice = "50.000"
		fixedSize  = "10"
	)

	return api.OrderPayload{
		IsBid: r.Float64() < 0.5,
		Size:  json.Number(fixedSize),
		Price: json.Number(fixedPrice),
	}
}
