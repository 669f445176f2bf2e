package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/yourusername/order-sheet-sync/internal/domain/entity"
	"github.com/yourusername/order-sheet-sync/internal/domain/repository"
)

type cellWrite struct {
	row, col int
	value    string
}

type styleCall struct {
	startRow, startCol, endRow, endCol int
	style                              repository.CellStyle
}

type dropdownCall struct {
	startRow, endRow, col int
	options               []string
}

// fakeGrid records every port operation and plays the sheet back from an
// in-memory cell map.
type fakeGrid struct {
	mu       sync.Mutex
	cells    map[[2]int]string
	writes   []cellWrite
	styles   []styleCall
	dropdowns []dropdownCall
	clears   int
	flushes  int
	tables   []string
	tableErr error
	handlers []repository.ChangeHandler
}

func newFakeGrid() *fakeGrid {
	return &fakeGrid{cells: make(map[[2]int]string)}
}

func (f *fakeGrid) ReadCell(_ context.Context, row, col int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cells[[2]int{row, col}], nil
}

func (f *fakeGrid) WriteCell(_ context.Context, row, col int, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cells[[2]int{row, col}] = value
	f.writes = append(f.writes, cellWrite{row, col, value})
	return nil
}

func (f *fakeGrid) WriteRegion(_ context.Context, startRow, startCol int, values [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for r, rowValues := range values {
		for c, v := range rowValues {
			f.cells[[2]int{startRow + r, startCol + c}] = v
			f.writes = append(f.writes, cellWrite{startRow + r, startCol + c, v})
		}
	}
	return nil
}

func (f *fakeGrid) StyleRegion(_ context.Context, startRow, startCol, endRow, endCol int, style repository.CellStyle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.styles = append(f.styles, styleCall{startRow, startCol, endRow, endCol, style})
	return nil
}

func (f *fakeGrid) SetDropdown(_ context.Context, startRow, endRow, col int, options []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropdowns = append(f.dropdowns, dropdownCall{startRow, endRow, col, options})
	return nil
}

func (f *fakeGrid) ClearUsedRegion(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cells = make(map[[2]int]string)
	f.clears++
	return nil
}

func (f *fakeGrid) CreateTable(_ context.Context, _, _, _, _ int, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tableErr != nil {
		return f.tableErr
	}
	f.tables = append(f.tables, name)
	return nil
}

func (f *fakeGrid) AutoFitColumns(_ context.Context) error { return nil }

func (f *fakeGrid) Subscribe(handler repository.ChangeHandler) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, handler)
	return func() {}, nil
}

func (f *fakeGrid) Flush(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return nil
}

func (f *fakeGrid) cellAt(row, col int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cells[[2]int{row, col}]
}

func (f *fakeGrid) writesTo(col int) []cellWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []cellWrite
	for _, w := range f.writes {
		if w.col == col {
			out = append(out, w)
		}
	}
	return out
}

func (f *fakeGrid) lastStyleFor(row, col int) (repository.CellStyle, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.styles) - 1; i >= 0; i-- {
		s := f.styles[i]
		if row >= s.startRow && row <= s.endRow && col >= s.startCol && col <= s.endCol {
			return s.style, true
		}
	}
	return repository.CellStyle{}, false
}

// stubOrderGateway recordable stub with overridable hooks.
type stubOrderGateway struct {
	mu             sync.Mutex
	memoCalls      []cellArgs
	dispatcherCalls []cellArgs
	memoFn         func(orderUUID, memo string) (bool, error)
	dispatcherFn   func(orderUUID, name string) (bool, error)
}

type cellArgs struct {
	orderUUID string
	value     string
}

func (s *stubOrderGateway) ListOrders(_ context.Context, _ string, _, _ int) (entity.OrderPage, error) {
	return entity.OrderPage{}, fmt.Errorf("not implemented")
}

func (s *stubOrderGateway) SetMemo(_ context.Context, orderUUID, memo string) (bool, error) {
	s.mu.Lock()
	s.memoCalls = append(s.memoCalls, cellArgs{orderUUID, memo})
	fn := s.memoFn
	s.mu.Unlock()
	if fn != nil {
		return fn(orderUUID, memo)
	}
	return true, nil
}

func (s *stubOrderGateway) SetDispatcher(_ context.Context, orderUUID, name string) (bool, error) {
	s.mu.Lock()
	s.dispatcherCalls = append(s.dispatcherCalls, cellArgs{orderUUID, name})
	fn := s.dispatcherFn
	s.mu.Unlock()
	if fn != nil {
		return fn(orderUUID, name)
	}
	return true, nil
}

func (s *stubOrderGateway) memoCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.memoCalls)
}

func (s *stubOrderGateway) dispatcherCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dispatcherCalls)
}
