package grid

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/order-sheet-sync/internal/domain/apperr"
	"github.com/yourusername/order-sheet-sync/internal/domain/constants"
	"github.com/yourusername/order-sheet-sync/internal/domain/entity"
	"github.com/yourusername/order-sheet-sync/internal/domain/repository"
	"github.com/yourusername/order-sheet-sync/pkg/logger"
)

// ExcelizeGrid repository.GridPort ning xlsx fayl ustidagi implementatsiyasi.
// The adapter keeps an in-memory mirror of everything it wrote; the edit
// watcher diffs the on-disk file against that mirror to recognize user
// edits without re-reporting the adapter's own writes.
type ExcelizeGrid struct {
	mu    sync.Mutex
	file  *excelize.File
	sheet string
	path  string // "" bo'lsa diskka yozilmaydi
	log   *logger.Logger

	mirror [][]string

	handlerMu sync.RWMutex
	handlers  map[int]repository.ChangeHandler
	nextID    int
}

// NewExcelizeGrid opens (or creates) the workbook at path and binds to the
// named sheet.
func NewExcelizeGrid(path, sheet string, log *logger.Logger) (*ExcelizeGrid, error) {
	if log == nil {
		log = logger.Default()
	}

	var f *excelize.File
	if path != "" {
		opened, err := excelize.OpenFile(path)
		if err == nil {
			f = opened
		}
	}
	if f == nil {
		f = excelize.NewFile()
	}

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, &apperr.HostError{Op: "open sheet", Err: err}
	}
	if idx < 0 {
		if idx, err = f.NewSheet(sheet); err != nil {
			return nil, &apperr.HostError{Op: "create sheet", Err: err}
		}
	}
	f.SetActiveSheet(idx)

	g := &ExcelizeGrid{
		file:     f,
		sheet:    sheet,
		path:     path,
		log:      log,
		handlers: make(map[int]repository.ChangeHandler),
	}
	g.reloadMirrorLocked()
	return g, nil
}

// NewInMemoryGrid returns a grid with no backing file (tests, previews).
func NewInMemoryGrid(sheet string, log *logger.Logger) *ExcelizeGrid {
	g, _ := NewExcelizeGrid("", sheet, log)
	return g
}

func cellName(row, col int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row+1)
	return name
}

func hexColor(c string) string {
	return strings.TrimPrefix(c, "#")
}

func (g *ExcelizeGrid) reloadMirrorLocked() {
	rows, err := g.file.GetRows(g.sheet)
	if err != nil {
		g.mirror = nil
		return
	}
	g.mirror = rows
}

func (g *ExcelizeGrid) mirrorSet(row, col int, value string) {
	for len(g.mirror) <= row {
		g.mirror = append(g.mirror, nil)
	}
	for len(g.mirror[row]) <= col {
		g.mirror[row] = append(g.mirror[row], "")
	}
	g.mirror[row][col] = value
}

// ReadCell returns the displayed cell value, "" for blanks.
func (g *ExcelizeGrid) ReadCell(_ context.Context, row, col int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, err := g.file.GetCellValue(g.sheet, cellName(row, col))
	if err != nil {
		return "", &apperr.HostError{Op: "read cell", Err: err}
	}
	return v, nil
}

// WriteCell sets a single cell value and updates the mirror.
func (g *ExcelizeGrid) WriteCell(_ context.Context, row, col int, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.file.SetCellValue(g.sheet, cellName(row, col), value); err != nil {
		return &apperr.HostError{Op: "write cell", Err: err}
	}
	g.mirrorSet(row, col, value)
	return nil
}

// WriteRegion writes a rectangle anchored at (startRow, startCol).
func (g *ExcelizeGrid) WriteRegion(_ context.Context, startRow, startCol int, values [][]string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for r, rowValues := range values {
		for c, v := range rowValues {
			if err := g.file.SetCellValue(g.sheet, cellName(startRow+r, startCol+c), v); err != nil {
				return &apperr.HostError{Op: "write region", Err: err}
			}
			g.mirrorSet(startRow+r, startCol+c, v)
		}
	}
	return nil
}

// StyleRegion applies the style to the inclusive rectangle.
func (g *ExcelizeGrid) StyleRegion(_ context.Context, startRow, startCol, endRow, endCol int, style repository.CellStyle) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	xs := &excelize.Style{}
	if style.Bold || style.FontColor != "" {
		xs.Font = &excelize.Font{Bold: style.Bold}
		if style.FontColor != "" {
			xs.Font.Color = hexColor(style.FontColor)
		}
	}
	if style.FillColor != "" {
		xs.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{hexColor(style.FillColor)},
			Pattern: 1,
		}
	}
	if style.Align != "" {
		xs.Alignment = &excelize.Alignment{Horizontal: style.Align, Vertical: "center"}
	}

	styleID, err := g.file.NewStyle(xs)
	if err != nil {
		return &apperr.HostError{Op: "new style", Err: err}
	}
	if err := g.file.SetCellStyle(g.sheet, cellName(startRow, startCol), cellName(endRow, endCol), styleID); err != nil {
		return &apperr.HostError{Op: "style region", Err: err}
	}
	return nil
}

// SetDropdown restricts col to the options for rows startRow..endRow.
func (g *ExcelizeGrid) SetDropdown(_ context.Context, startRow, endRow, col int, options []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	sqref := fmt.Sprintf("%s:%s", cellName(startRow, col), cellName(endRow, col))
	dv := excelize.NewDataValidation(true)
	dv.Sqref = sqref
	if err := dv.SetDropList(options); err != nil {
		return &apperr.HostError{Op: "dropdown list", Err: err}
	}
	if err := g.file.AddDataValidation(g.sheet, dv); err != nil {
		return &apperr.HostError{Op: "add dropdown", Err: err}
	}
	return nil
}

// ClearUsedRegion wipes every previously populated cell, removing tables
// and validations so a fresh render starts clean.
func (g *ExcelizeGrid) ClearUsedRegion(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if tables, err := g.file.GetTables(g.sheet); err == nil {
		for _, tbl := range tables {
			_ = g.file.DeleteTable(tbl.Name)
		}
	}
	if dvs, err := g.file.GetDataValidations(g.sheet); err == nil {
		for _, dv := range dvs {
			_ = g.file.DeleteDataValidation(g.sheet, dv.Sqref)
		}
	}

	rows, err := g.file.GetRows(g.sheet)
	if err != nil {
		return &apperr.HostError{Op: "scan used region", Err: err}
	}
	maxCols := 0
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	for r := range rows {
		for c := 0; c < maxCols; c++ {
			if err := g.file.SetCellValue(g.sheet, cellName(r, c), ""); err != nil {
				return &apperr.HostError{Op: "clear cell", Err: err}
			}
		}
	}
	if len(rows) > 0 && maxCols > 0 {
		// Stil ham tozalanadi (default style = 0).
		_ = g.file.SetCellStyle(g.sheet, cellName(0, 0), cellName(len(rows)-1, maxCols-1), 0)
	}

	g.mirror = nil
	return nil
}

// CreateTable registers a filterable table over the rectangle.
func (g *ExcelizeGrid) CreateTable(_ context.Context, startRow, startCol, endRow, endCol int, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	rangeRef := fmt.Sprintf("%s:%s", cellName(startRow, startCol), cellName(endRow, endCol))
	err := g.file.AddTable(g.sheet, &excelize.Table{
		Range:     rangeRef,
		Name:      name,
		StyleName: constants.OrdersTableStyle,
	})
	if err != nil {
		return &apperr.HostError{Op: "create table", Err: err}
	}
	return nil
}

// AutoFitColumns sizes columns to their widest mirrored content.
func (g *ExcelizeGrid) AutoFitColumns(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	widths := map[int]float64{}
	for _, row := range g.mirror {
		for c, v := range row {
			w := displayWidth(v)
			if w > widths[c] {
				widths[c] = w
			}
		}
	}
	for c, w := range widths {
		colName, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			continue
		}
		// Bir oz kenglik qo'shamiz; Excel default ~8.43.
		if w < 8 {
			w = 8
		}
		if err := g.file.SetColWidth(g.sheet, colName, colName, w+2); err != nil {
			return &apperr.HostError{Op: "set column width", Err: err}
		}
	}
	return nil
}

// displayWidth approximates rendered width: CJK runes count double.
func displayWidth(s string) float64 {
	var w float64
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || r > 0xFF00 {
			w += 2
		} else {
			w++
		}
	}
	return w
}

// Subscribe registers a change handler and returns its removal func.
func (g *ExcelizeGrid) Subscribe(handler repository.ChangeHandler) (func(), error) {
	g.handlerMu.Lock()
	id := g.nextID
	g.nextID++
	g.handlers[id] = handler
	g.handlerMu.Unlock()

	return func() {
		g.handlerMu.Lock()
		delete(g.handlers, id)
		g.handlerMu.Unlock()
	}, nil
}

// EmitChange delivers one change notification to every subscriber.
// The file watcher and host bridges feed edits through here.
func (g *ExcelizeGrid) EmitChange(ctx context.Context, ev entity.ChangeEvent) {
	if ev.Address == "" {
		ev.Address = cellName(ev.Row, ev.Col)
	}
	g.handlerMu.RLock()
	handlers := make([]repository.ChangeHandler, 0, len(g.handlers))
	for _, h := range g.handlers {
		handlers = append(handlers, h)
	}
	g.handlerMu.RUnlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
}

// Flush persists buffered writes to disk (no-op for in-memory grids).
func (g *ExcelizeGrid) Flush(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.path == "" {
		return nil
	}
	if err := g.file.SaveAs(g.path); err != nil {
		return &apperr.HostError{Op: "flush", Err: err}
	}
	return nil
}

// snapshotMirror returns a copy of the adapter's mirror (watcher uchun).
func (g *ExcelizeGrid) snapshotMirror() [][]string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([][]string, len(g.mirror))
	for i, row := range g.mirror {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// applyExternal records an externally observed value in the mirror
// without touching the workbook (the user already wrote it there).
func (g *ExcelizeGrid) applyExternal(row, col int, value string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mirrorSet(row, col, value)
	_ = g.file.SetCellValue(g.sheet, cellName(row, col), value)
}

var _ repository.GridPort = (*ExcelizeGrid)(nil)
