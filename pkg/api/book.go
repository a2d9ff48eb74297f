package api

import "github.com/outcome-gg/outcome-engine/pkg/core"

// LevelRecord is one price level in a book snapshot
type LevelRecord struct {
	Price  string `json:"price"`
	Size   int64  `json:"size"`
	Orders int    `json:"orders"`
}

// BookView is a best-first snapshot of both sides of the book
type BookView struct {
	Market string        `json:"market"`
	Bids   []LevelRecord `json:"bids"`
	Asks   []LevelRecord `json:"asks"`
}

// NewBookView converts backend level snapshots to their wire form
func NewBookView(market string, bids, asks []core.LevelView) BookView {
	return BookView{
		Market: market,
		Bids:   levelRecords(bids),
		Asks:   levelRecords(asks),
	}
}

func levelRecords(levels []core.LevelView) []LevelRecord {
	records := make([]LevelRecord, 0, len(levels))
	for _, lvl := range levels {
		records = append(records, LevelRecord{
			Price:  lvl.Price.String(),
			Size:   lvl.Size,
			Orders: lvl.Orders,
		})
	}
	return records
}
