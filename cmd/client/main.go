package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/outcome-gg/outcome-engine/pkg/api"
)

var (
	serverAddr = flag.String("addr", "http://localhost:8080", "The engine HTTP address")
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 10 * time.Second}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	// Remove the command from os.Args to make flag parsing work
	os.Args = append(os.Args[:1], os.Args[2:]...)

	switch command {
	case "submit":
		submitOrder(ctx, client)
	case "cancel":
		cancelOrder(ctx, client)
	case "resize":
		resizeOrder(ctx, client)
	case "book":
		showBook(ctx, client)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: client <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  submit  -side <bid|ask> -size <int> -price <decimal>   submit a new order")
	fmt.Println("  cancel  -id <uid> -side <bid|ask> -price <decimal>     cancel a resting order")
	fmt.Println("  resize  -id <uid> -side <bid|ask> -price <decimal> -size <int>")
	fmt.Println("  book                                                   print the depth snapshot")
}

func submitOrder(ctx context.Context, client *http.Client) {
	side := flag.String("side", "bid", "Order side (bid or ask)")
	size := flag.String("size", "1", "Order size (positive integer)")
	price := flag.String("price", "", "Limit price, e.g. 50.500")
	flag.Parse()

	payload := api.OrderPayload{
		IsBid: *side == "bid",
		Size:  json.Number(*size),
		Price: json.Number(*price),
	}
	postOrder(ctx, client, payload)
}

func cancelOrder(ctx context.Context, client *http.Client) {
	id := flag.String("id", "", "Order ID to cancel")
	side := flag.String("side", "bid", "Side of the resting order")
	price := flag.String("price", "", "Price of the resting order")
	flag.Parse()

	payload := api.OrderPayload{
		UID:   *id,
		IsBid: *side == "bid",
		Size:  json.Number("0"),
		Price: json.Number(*price),
	}
	postOrder(ctx, client, payload)
}

func resizeOrder(ctx context.Context, client *http.Client) {
	id := flag.String("id", "", "Order ID to resize")
	side := flag.String("side", "bid", "Side of the resting order")
	price := flag.String("price", "", "Price of the resting order")
	size := flag.String("size", "", "New size")
	flag.Parse()

	payload := api.OrderPayload{
		UID:   *id,
		IsBid: *side == "bid",
		Size:  json.Number(*size),
		Price: json.Number(*price),
	}
	postOrder(ctx, client, payload)
}

func postOrder(ctx context.Context, client *http.Client, payload api.OrderPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		color.Red("Failed to encode payload: %v", err)
		os.Exit(1)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, *serverAddr+"/v1/order", bytes.NewReader(body))
	if err != nil {
		color.Red("Failed to build request: %v", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		color.Red("Failed to reach engine: %v", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var ack api.OrderAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		color.Red("Failed to decode acknowledgment: %v", err)
		os.Exit(1)
	}

	printAck(ack)
	if ack.Action == api.ActionProcessOrderError {
		os.Exit(1)
	}
}

func printAck(ack api.OrderAck) {
	if ack.Action == api.ActionProcessOrderError {
		color.Red("Rejected: %s", ack.Error)
		return
	}

	color.Green("Processed")
	fmt.Printf("  Order ID:  %s\n", ack.OrderID)
	fmt.Printf("  Remaining: %s\n", ack.OrderSize)

	if len(ack.Data) == 0 {
		return
	}

	fmt.Println("  Trades:")
	w := tabwriter.NewWriter(os.Stdout, 4, 4, 2, ' ', 0)
	fmt.Fprintln(w, "    SIZE\tPRICE")
	for _, t := range ack.Data {
		fmt.Fprintf(w, "    %d\t%s\n", t.Size, t.Price)
	}
	w.Flush()
}

func showBook(ctx context.Context, client *http.Client) {
	flag.Parse()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, *serverAddr+"/v1/book", nil)
	if err != nil {
		color.Red("Failed to build request: %v", err)
		os.Exit(1)
	}

	resp, err := client.Do(req)
	if err != nil {
		color.Red("Failed to reach engine: %v", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var book api.BookView
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		color.Red("Failed to decode book snapshot: %v", err)
		os.Exit(1)
	}

	color.Cyan("Market: %s", book.Market)

	w := tabwriter.NewWriter(os.Stdout, 4, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SIDE\tPRICE\tSIZE\tORDERS")
	for _, lvl := range book.Asks {
		fmt.Fprintf(w, "ASK\t%s\t%d\t%d\n", lvl.Price, lvl.Size, lvl.Orders)
	}
	for _, lvl := range book.Bids {
		fmt.Fprintf(w, "BID\t%s\t%d\t%d\n", lvl.Price, lvl.Size, lvl.Orders)
	}
	w.Flush()
}
