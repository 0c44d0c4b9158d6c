package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoSession signals that nothing is persisted to resume.
	ErrNoSession = errors.New("no assembly session")

	// ErrValidation marks operations rejected before any mutation happened.
	ErrValidation = errors.New("validation rejected")

	// ErrNoOutputDir is returned when an export runs before an output
	// directory was configured.
	ErrNoOutputDir = errors.New("output directory not configured")
)

// Engine drives one assembly session through the pick workflow. Every
// mutating operation writes the session back through the store before
// returning, so the persisted copy is always the recovery point.
//
// The engine owns the session instance; callers must not hold their own
// long-lived references to it.
type Engine struct {
	store   SessionStore
	session *AssemblySession
}

// NewEngine wraps a freshly created session. The caller is expected to have
// parsed a non-empty item list first.
func NewEngine(store SessionStore, session *AssemblySession) *Engine {
	return &Engine{store: store, session: session}
}

// LoadEngine resumes the persisted session, returning ErrNoSession when
// there is nothing usable to resume.
func LoadEngine(store SessionStore) (*Engine, error) {
	session, err := store.Load()
	if err != nil {
		return nil, err
	}
	if session == nil || len(session.Items) == 0 {
		return nil, ErrNoSession
	}
	return &Engine{store: store, session: session}, nil
}

// Session exposes the current state for read-only rendering.
func (e *Engine) Session() *AssemblySession {
	return e.session
}

// syncCursor moves the cursor forward past every item already handled.
func (e *Engine) syncCursor() {
	s := e.session
	for s.CurrentIndex < len(s.Items) && s.Items[s.CurrentIndex].Status != StatusPending {
		s.CurrentIndex++
	}
}

// CurrentItem returns the item under the cursor, or nil once every item has
// been handled.
func (e *Engine) CurrentItem() *AssemblyItem {
	e.syncCursor()
	if e.session.CurrentIndex >= len(e.session.Items) {
		return nil
	}
	return &e.session.Items[e.session.CurrentIndex]
}

// Complete reports whether the cursor has passed the last item.
func (e *Engine) Complete() bool {
	e.syncCursor()
	return e.session.CurrentIndex >= len(e.session.Items)
}

// Progress returns the 1-based position of the cursor and the item total.
func (e *Engine) Progress() (position, total int) {
	e.syncCursor()
	position = e.session.CurrentIndex
	if position > len(e.session.Items) {
		position = len(e.session.Items)
	}
	return position, len(e.session.Items)
}

// Collect marks the current item as picked in full and assigns it to the
// current box.
func (e *Engine) Collect() error {
	item := e.CurrentItem()
	if item == nil {
		return fmt.Errorf("%w: no pending items left", ErrValidation)
	}

	item.Status = StatusCollected
	item.CollectedQuantity = item.Quantity
	item.Box = e.session.CurrentBox
	e.session.CurrentIndex++

	return e.store.Save(e.session)
}

// Skip records that the current item is not available.
func (e *Engine) Skip() error {
	item := e.CurrentItem()
	if item == nil {
		return fmt.Errorf("%w: no pending items left", ErrValidation)
	}

	item.Status = StatusSkipped
	item.CollectedQuantity = 0
	item.Box = 0
	e.session.CurrentIndex++

	return e.store.Save(e.session)
}

// ChangeQuantity records a partial or adjusted pick for the current item and
// moves new collections into the given box from here on.
func (e *Engine) ChangeQuantity(newQty, newBox int) error {
	if newQty < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	if newBox < 1 {
		return fmt.Errorf("%w: box number must be at least 1", ErrValidation)
	}

	item := e.CurrentItem()
	if item == nil {
		return fmt.Errorf("%w: no pending items left", ErrValidation)
	}

	item.Status = StatusQuantityChanged
	item.CollectedQuantity = newQty
	item.Box = newBox
	e.session.CurrentBox = newBox
	e.session.CurrentIndex++

	return e.store.Save(e.session)
}

// NextBox starts a new shipping box. The current item and cursor are
// untouched.
func (e *Engine) NextBox() (int, error) {
	e.session.CurrentBox++
	if err := e.store.Save(e.session); err != nil {
		return 0, err
	}
	return e.session.CurrentBox, nil
}

// ReviewEdit corrects the collected quantity of an already-handled item.
// Setting zero turns the item into a skip; anything positive records a
// quantity change. The cursor stays where it is.
func (e *Engine) ReviewEdit(index, newQty int) error {
	if newQty < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	if index < 0 || index >= len(e.session.Items) {
		return fmt.Errorf("%w: item index out of range", ErrValidation)
	}

	item := &e.session.Items[index]
	if item.Status == StatusPending {
		return fmt.Errorf("%w: item has not been picked yet", ErrValidation)
	}

	item.CollectedQuantity = newQty
	if newQty > 0 {
		item.Status = StatusQuantityChanged
	} else {
		item.Status = StatusSkipped
	}

	return e.store.Save(e.session)
}

// ReviewEditBox reassigns an item to another box directly, independent of
// the cursor and the session's current box.
func (e *Engine) ReviewEditBox(index, newBox int) error {
	if newBox < 1 {
		return fmt.Errorf("%w: box number must be at least 1", ErrValidation)
	}
	if index < 0 || index >= len(e.session.Items) {
		return fmt.Errorf("%w: item index out of range", ErrValidation)
	}

	e.session.Items[index].Box = newBox

	return e.store.Save(e.session)
}

// GenerateIntermediate exports a snapshot report without ending the run.
// Unvisited items are reported as skipped for the snapshot and then put back
// to pending so assembly can continue.
func (e *Engine) GenerateIntermediate(sink ReportSink, now time.Time) (string, error) {
	forceSkipPending(e.session.Items)
	handle, exportErr := e.export(sink, now)

	// The zero-quantity filter cannot tell an item force-skipped by this
	// call apart from one explicitly skipped with zero quantity earlier;
	// both go back to pending. Known quirk, kept on purpose.
	for i := range e.session.Items {
		item := &e.session.Items[i]
		if item.Status == StatusSkipped && item.CollectedQuantity == 0 {
			item.Status = StatusPending
		}
	}

	if exportErr != nil {
		return "", exportErr
	}
	if err := e.store.Save(e.session); err != nil {
		return "", err
	}
	return handle, nil
}

// FinishEarly reports every unvisited item as skipped, exports the final
// report and clears the session for good. A failed export leaves the
// persisted session intact so the worker can fix the destination and retry.
func (e *Engine) FinishEarly(sink ReportSink, now time.Time) (string, error) {
	forceSkipPending(e.session.Items)
	handle, err := e.export(sink, now)
	if err != nil {
		return "", err
	}
	if err := e.store.Clear(); err != nil {
		return "", err
	}
	return handle, nil
}

// Finalize exports the final report once the cursor has passed the last
// item, then clears the session. Nothing is forced: there are no pending
// items left by definition.
func (e *Engine) Finalize(sink ReportSink, now time.Time) (string, error) {
	handle, err := e.export(sink, now)
	if err != nil {
		return "", err
	}
	if err := e.store.Clear(); err != nil {
		return "", err
	}
	return handle, nil
}

func (e *Engine) export(sink ReportSink, now time.Time) (string, error) {
	s := e.session
	if s.OutputDirURI == "" {
		return "", ErrNoOutputDir
	}

	discrepancies := Discrepancies(s.Items)
	data, err := GenerateReport(s.Items, s.ShipmentInfo, discrepancies)
	if err != nil {
		return "", fmt.Errorf("generate report: %w", err)
	}

	handle, err := sink.Put(ReportFileName(now), data)
	if err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return handle, nil
}

func forceSkipPending(items []AssemblyItem) {
	for i := range items {
		if items[i].Status == StatusPending {
			items[i].Status = StatusSkipped
			items[i].CollectedQuantity = 0
			items[i].Box = 0
		}
	}
}
