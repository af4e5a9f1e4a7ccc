package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"jewelstore/internal/domain"
)

// degradedAfter is the number of consecutive failed writes after which the
// engine reports itself as memory-only.
const degradedAfter = 3

// Engine owns the line sequence for one shopper session. Mutations are
// synchronous; the only asynchronous boundary is the initial Load, which
// gates write-back so an early mutation cannot clobber previously persisted
// state with a near-empty cart.
type Engine struct {
	mu     sync.Mutex
	store  Store
	key    string
	logger *log.Logger

	lines  []Line
	open   bool
	notify func()

	loaded       bool
	preCleared   bool
	preRemoved   map[string]bool
	dirty        bool
	seq          uint64
	saveFailures int

	// saveMu serializes store writes; savedSeq (guarded by it) lets a
	// snapshot that lost the race to a newer one be dropped instead of
	// rolling the durable copy backward.
	saveMu   sync.Mutex
	savedSeq uint64
}

// NewEngine builds an empty, not-yet-loaded engine persisting under key.
// A nil store yields a memory-only engine.
func NewEngine(store Store, key string, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{
		store:      store,
		key:        key,
		logger:     logger,
		preRemoved: make(map[string]bool),
	}
}

// Load reads the persisted sequence and merges it with any mutations applied
// before the load resolved: stored lines keep their order, pre-load lines
// are folded in by identity (quantities summed) or appended. Malformed or
// missing stored data starts the cart empty; neither is an error.
func (e *Engine) Load(ctx context.Context) {
	var stored []Line
	if e.store != nil {
		loaded, err := e.store.Load(ctx, e.key)
		switch {
		case err == nil:
			stored = loaded
		case errors.Is(err, domain.ErrNotFound):
			// first visit, nothing persisted
		default:
			e.logger.Printf("cart %s: load failed, starting empty: %v", e.key, err)
		}
	}

	e.mu.Lock()
	if e.loaded {
		e.mu.Unlock()
		return
	}
	merged := e.mergeLocked(stored)
	e.lines = merged
	e.loaded = true
	hadPreLoadMutations := e.dirty
	linesCopy := e.copyLinesLocked()
	e.preCleared = false
	e.preRemoved = make(map[string]bool)
	e.seq++
	seq := e.seq
	e.mu.Unlock()

	if hadPreLoadMutations {
		e.persist(ctx, linesCopy, seq)
	}
}

// mergeLocked folds the pre-load local lines into the stored sequence,
// honoring pre-load removals and clears.
func (e *Engine) mergeLocked(stored []Line) []Line {
	if e.preCleared {
		return e.lines
	}
	merged := make([]Line, 0, len(stored)+len(e.lines))
	for _, line := range stored {
		if e.preRemoved[line.ID] {
			continue
		}
		merged = append(merged, line)
	}
	for _, local := range e.lines {
		idx := indexOf(merged, local.ID)
		if idx >= 0 {
			merged[idx].Quantity += local.Quantity
			continue
		}
		merged = append(merged, local)
	}
	return merged
}

// Add merges qty units of the product+options variant into the cart,
// creating a new line with snapshot fields when the combination is new.
// priceOverride, when non-nil, wins over sale and list price. The drawer
// flag is set on every call, merges included.
func (e *Engine) Add(ctx context.Context, p domain.Product, qty int, opts map[string]string, priceOverride *int64) (Line, error) {
	if p.ID == "" {
		return Line{}, domain.Invalid("product.id", "required")
	}
	if qty < 1 {
		return Line{}, domain.Invalid("quantity", "must be positive")
	}
	if priceOverride != nil && *priceOverride < 0 {
		return Line{}, domain.Invalid("priceOverride", "must not be negative")
	}

	unitPrice := p.EffectivePriceCents()
	if priceOverride != nil {
		unitPrice = *priceOverride
	}

	id := LineID(p.ID, opts)

	e.mu.Lock()
	idx := indexOf(e.lines, id)
	var line Line
	if idx >= 0 {
		e.lines[idx].Quantity += qty
		line = e.lines[idx]
	} else {
		line = newLine(p, qty, opts, unitPrice)
		e.lines = append(e.lines, line)
	}
	e.open = true
	e.dirty = true
	e.seq++
	seq := e.seq
	lines := e.persistableLinesLocked()
	e.mu.Unlock()

	e.persist(ctx, lines, seq)
	e.fireChange()
	return line, nil
}

// Remove drops the line with the given ID. Removing an absent line is a
// no-op, not an error.
func (e *Engine) Remove(ctx context.Context, lineID string) {
	e.mu.Lock()
	idx := indexOf(e.lines, lineID)
	if idx < 0 {
		e.mu.Unlock()
		return
	}
	e.lines = append(e.lines[:idx], e.lines[idx+1:]...)
	if !e.loaded {
		e.preRemoved[lineID] = true
	}
	e.dirty = true
	e.seq++
	seq := e.seq
	lines := e.persistableLinesLocked()
	e.mu.Unlock()

	e.persist(ctx, lines, seq)
	e.fireChange()
}

// UpdateQuantity replaces the matching line's quantity. A quantity below 1
// is rejected and leaves the line unchanged; an unknown lineID is a no-op.
func (e *Engine) UpdateQuantity(ctx context.Context, lineID string, qty int) error {
	if qty < 1 {
		return domain.Invalid("quantity", "must be positive")
	}

	e.mu.Lock()
	idx := indexOf(e.lines, lineID)
	if idx < 0 || e.lines[idx].Quantity == qty {
		e.mu.Unlock()
		return nil
	}
	e.lines[idx].Quantity = qty
	e.dirty = true
	e.seq++
	seq := e.seq
	lines := e.persistableLinesLocked()
	e.mu.Unlock()

	e.persist(ctx, lines, seq)
	e.fireChange()
	return nil
}

// Clear empties the cart unconditionally.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	e.lines = nil
	if !e.loaded {
		e.preCleared = true
	}
	e.dirty = true
	e.seq++
	seq := e.seq
	lines := e.persistableLinesLocked()
	e.mu.Unlock()

	e.persist(ctx, lines, seq)
	e.fireChange()
}

// Lines returns a copy of the current sequence in insertion order.
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyLinesLocked()
}

// Count is the total number of units across all lines.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for _, line := range e.lines {
		count += line.Quantity
	}
	return count
}

// TotalCents is the sum of unit price times quantity across all lines.
func (e *Engine) TotalCents() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var total int64
	for _, line := range e.lines {
		total += line.PriceCents * int64(line.Quantity)
	}
	return total
}

// IsOpen reports the transient drawer flag. It is never persisted.
func (e *Engine) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

func (e *Engine) SetOpen(open bool) {
	e.mu.Lock()
	e.open = open
	e.mu.Unlock()
}

// Degraded reports whether repeated write failures have left the cart
// memory-only. It clears on the next successful save.
func (e *Engine) Degraded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveFailures >= degradedAfter
}

// OnChange registers a callback fired after every successful mutation, so a
// UI layer can react (e.g. reveal the cart) without the engine knowing about
// rendering.
func (e *Engine) OnChange(fn func()) {
	e.mu.Lock()
	e.notify = fn
	e.mu.Unlock()
}

// persistableLinesLocked returns the lines to write back, or nil when the
// initial load has not resolved yet and writes must be suppressed.
func (e *Engine) persistableLinesLocked() []Line {
	if !e.loaded {
		return nil
	}
	return e.copyLinesLocked()
}

func (e *Engine) copyLinesLocked() []Line {
	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// persist writes the snapshot taken at seq. Writes run one at a time per
// engine; a snapshot older than one already saved is dropped so the durable
// copy never moves backward.
func (e *Engine) persist(ctx context.Context, lines []Line, seq uint64) {
	if e.store == nil || lines == nil {
		return
	}

	e.saveMu.Lock()
	if seq <= e.savedSeq {
		e.saveMu.Unlock()
		return
	}
	err := e.store.Save(ctx, e.key, lines)
	if err == nil {
		e.savedSeq = seq
	}
	e.saveMu.Unlock()

	if err != nil {
		e.mu.Lock()
		e.saveFailures++
		failures := e.saveFailures
		e.mu.Unlock()
		e.logger.Printf("cart %s: save failed (%d consecutive), cart is memory-only until a save succeeds: %v", e.key, failures, err)
		return
	}
	e.mu.Lock()
	e.saveFailures = 0
	e.mu.Unlock()
}

func (e *Engine) fireChange() {
	e.mu.Lock()
	fn := e.notify
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func indexOf(lines []Line, id string) int {
	for i, line := range lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}
