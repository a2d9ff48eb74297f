package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nikolaydubina/fpdecimal"
	"github.com/outcome-gg/outcome-engine/pkg/core"
)

// orderNode is one resting order's slot in its level's FIFO queue
type orderNode struct {
	order *core.Order
	level *priceLevel
	next  *orderNode
	prev  *orderNode
}

// priceLevel is a FIFO queue of resting orders sharing one price. Levels are
// linked best-first within their side.
type priceLevel struct {
	priceStr  string
	priceDecm fpdecimal.Decimal
	head      *orderNode
	tail      *orderNode
	size      int64
	count     int
	next      *priceLevel
	prev      *priceLevel
}

func newPriceLevel(price fpdecimal.Decimal) *priceLevel {
	return &priceLevel{
		priceStr:  price.String(),
		priceDecm: price,
	}
}

// enqueue appends a node at the queue tail, preserving arrival order
func (l *priceLevel) enqueue(n *orderNode) {
	n.level = l
	if l.head == nil {
		l.head = n
		l.tail = n
	} else {
		l.tail.next = n
		n.prev = l.tail
		l.tail = n
	}
	l.size += n.order.RemainingSize()
	l.count++
}

// unlink detaches a node from anywhere in the queue
func (l *priceLevel) unlink(n *orderNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.next = nil
	n.prev = nil
	l.size -= n.order.RemainingSize()
	l.count--
}

func (l *priceLevel) empty() bool {
	return l.head == nil
}

// orderSide is one side of the book: an ordered linked list of price levels,
// head being the most aggressive, plus a map from price to level.
type orderSide struct {
	side   core.Side
	head   *priceLevel
	tail   *priceLevel
	levels map[string]*priceLevel
}

func newOrderSide(side core.Side) *orderSide {
	return &orderSide{
		side:   side,
		levels: make(map[string]*priceLevel),
	}
}

// better reports whether price a is more aggressive than b on this side
func (os *orderSide) better(a, b fpdecimal.Decimal) bool {
	if os.side == core.Bid {
		return a.GreaterThan(b)
	}
	return a.LessThan(b)
}

// getOrCreate returns the level at the given price, splicing a new one into
// the sorted list on first insert.
func (os *orderSide) getOrCreate(price fpdecimal.Decimal) *priceLevel {
	priceStr := price.String()
	if lvl, ok := os.levels[priceStr]; ok {
		return lvl
	}

	lvl := newPriceLevel(price)
	os.levels[priceStr] = lvl

	if os.head == nil {
		os.head = lvl
		os.tail = lvl
		return lvl
	}

	if os.better(price, os.head.priceDecm) {
		lvl.next = os.head
		os.head.prev = lvl
		os.head = lvl
		return lvl
	}

	if !os.better(price, os.tail.priceDecm) {
		lvl.prev = os.tail
		os.tail.next = lvl
		os.tail = lvl
		return lvl
	}

	current := os.head
	for current != nil && !os.better(price, current.priceDecm) {
		current = current.next
	}
	lvl.next = current
	lvl.prev = current.prev
	current.prev.next = lvl
	current.prev = lvl
	return lvl
}

// dropIfEmpty removes an emptied level from the list and the map
func (os *orderSide) dropIfEmpty(lvl *priceLevel) {
	if !lvl.empty() {
		return
	}

	delete(os.levels, lvl.priceStr)

	if lvl.prev != nil {
		lvl.prev.next = lvl.next
	} else {
		os.head = lvl.next
	}
	if lvl.next != nil {
		lvl.next.prev = lvl.prev
	} else {
		os.tail = lvl.prev
	}
}

// String implements fmt.Stringer interface
func (os *orderSide) String() string {
	sb := strings.Builder{}
	for current := os.head; current != nil; current = current.next {
		sb.WriteString(fmt.Sprintf("\n%s -> orders: %d, size: %d", current.priceStr, current.count, current.size))
	}
	return sb.String()
}

// Ensure MemoryBackend implements core.BookBackend
var _ core.BookBackend = (*MemoryBackend)(nil)

// MemoryBackend implements core.BookBackend with in-memory structures:
// two linked lists of FIFO price levels and a map from order identifier to
// queue node for direct cancel and resize without scanning.
type MemoryBackend struct {
	sync.RWMutex
	bids  *orderSide
	asks  *orderSide
	index map[string]*orderNode
}

// NewMemoryBackend creates a new instance of MemoryBackend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		bids:  newOrderSide(core.Bid),
		asks:  newOrderSide(core.Ask),
		index: make(map[string]*orderNode),
	}
}

func (b *MemoryBackend) sideOf(side core.Side) *orderSide {
	if side == core.Bid {
		return b.bids
	}
	return b.asks
}

// Find returns the resting order with the given identifier, or nil
func (b *MemoryBackend) Find(orderID string) *core.Order {
	b.RLock()
	defer b.RUnlock()

	node, ok := b.index[orderID]
	if !ok {
		return nil
	}
	return node.order
}

// Append inserts the order at the tail of the level at its price
func (b *MemoryBackend) Append(order *core.Order) {
	b.Lock()
	defer b.Unlock()

	side := b.sideOf(order.Side())
	lvl := side.getOrCreate(order.Price())

	node := &orderNode{order: order}
	lvl.enqueue(node)
	b.index[order.ID()] = node
}

// Remove detaches the order from its level, dropping the level if emptied
func (b *MemoryBackend) Remove(orderID string) *core.Order {
	b.Lock()
	defer b.Unlock()

	node, ok := b.index[orderID]
	if !ok {
		return nil
	}

	lvl := node.level
	lvl.unlink(node)
	b.sideOf(node.order.Side()).dropIfEmpty(lvl)
	delete(b.index, orderID)

	return node.order
}

// Resize updates the remaining size in place; the order keeps its position
// in the level queue whether the size grows or shrinks.
func (b *MemoryBackend) Resize(orderID string, newSize int64) bool {
	b.Lock()
	defer b.Unlock()

	node, ok := b.index[orderID]
	if !ok {
		return false
	}

	node.level.size += newSize - node.order.RemainingSize()
	node.order.SetRemaining(newSize)
	return true
}

// BestPrice returns the most aggressive non-empty level's price
func (b *MemoryBackend) BestPrice(side core.Side) (fpdecimal.Decimal, bool) {
	b.RLock()
	defer b.RUnlock()

	head := b.sideOf(side).head
	if head == nil {
		return fpdecimal.Zero, false
	}
	return head.priceDecm, true
}

// Front returns the earliest-arrival order at the best level of the side
func (b *MemoryBackend) Front(side core.Side) *core.Order {
	b.RLock()
	defer b.RUnlock()

	head := b.sideOf(side).head
	if head == nil {
		return nil
	}
	return head.head.order
}

// Levels returns a best-first snapshot of the side's levels
func (b *MemoryBackend) Levels(side core.Side) []core.LevelView {
	b.RLock()
	defer b.RUnlock()

	views := make([]core.LevelView, 0)
	for lvl := b.sideOf(side).head; lvl != nil; lvl = lvl.next {
		views = append(views, core.LevelView{
			Price:  lvl.priceDecm,
			Size:   lvl.size,
			Orders: lvl.count,
		})
	}
	return views
}

// Len returns the number of resting orders across both sides
func (b *MemoryBackend) Len() int {
	b.RLock()
	defer b.RUnlock()
	return len(b.index)
}

// String implements fmt.Stringer interface
func (b *MemoryBackend) String() string {
	b.RLock()
	defer b.RUnlock()

	builder := strings.Builder{}
	builder.WriteString("Ask:")
	builder.WriteString(b.asks.String())
	builder.WriteString("\nBid:")
	builder.WriteString(b.bids.String())
	builder.WriteString("\n")
	return builder.String()
}
