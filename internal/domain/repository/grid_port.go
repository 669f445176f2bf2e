package repository

import (
	"context"

	"github.com/yourusername/order-sheet-sync/internal/domain/entity"
)

// CellStyle formatting applied to a rectangular region.
// Empty string fields mean "leave as is".
type CellStyle struct {
	Bold      bool
	FillColor string
	FontColor string
	Align     string // "left", "center", "right"
}

// ChangeHandler receives one host cell-change notification.
type ChangeHandler func(ctx context.Context, ev entity.ChangeEvent)

// GridPort hostning jadval yuzasi bilan ishlash uchun interface.
// The reconciliation engine and the renderer depend only on this; the
// excelize adapter and the test doubles both implement it.
type GridPort interface {
	// ReadCell returns the displayed value at (row, col), "" for blanks.
	ReadCell(ctx context.Context, row, col int) (string, error)

	// WriteCell sets a single cell value.
	WriteCell(ctx context.Context, row, col int, value string) error

	// WriteRegion writes a rectangle of values anchored at (startRow, startCol).
	WriteRegion(ctx context.Context, startRow, startCol int, values [][]string) error

	// StyleRegion applies style to the inclusive rectangle.
	StyleRegion(ctx context.Context, startRow, startCol, endRow, endCol int, style CellStyle) error

	// SetDropdown restricts col to the given options for rows startRow..endRow.
	SetDropdown(ctx context.Context, startRow, endRow, col int, options []string) error

	// ClearUsedRegion wipes all previously written content and styling.
	ClearUsedRegion(ctx context.Context) error

	// CreateTable registers a filterable table over the rectangle.
	// May fail when a table already occupies the spot.
	CreateTable(ctx context.Context, startRow, startCol, endRow, endCol int, name string) error

	// AutoFitColumns best-effort cosmetic column sizing.
	AutoFitColumns(ctx context.Context) error

	// Subscribe registers a change handler; the returned func removes it.
	Subscribe(handler ChangeHandler) (func(), error)

	// Flush pushes buffered writes to the host surface.
	Flush(ctx context.Context) error
}
