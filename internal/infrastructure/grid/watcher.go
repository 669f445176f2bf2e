package grid

import (
	"context"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/order-sheet-sync/internal/domain/constants"
	"github.com/yourusername/order-sheet-sync/internal/domain/entity"
	"github.com/yourusername/order-sheet-sync/pkg/logger"
)

// EditWatcher polls the workbook file and synthesizes change notifications
// for user edits. Only the editable columns are diffed against the
// adapter's mirror, so the renderer's and engine's own writes are never
// reported back as edits.
type EditWatcher struct {
	grid     *ExcelizeGrid
	interval time.Duration
	log      *logger.Logger

	lastModTime time.Time
}

// NewEditWatcher yangi watcher yaratish
func NewEditWatcher(g *ExcelizeGrid, interval time.Duration, log *logger.Logger) *EditWatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if log == nil {
		log = logger.Default()
	}
	return &EditWatcher{grid: g, interval: interval, log: log}
}

// Start blocks until ctx is cancelled, polling the file on each tick.
func (w *EditWatcher) Start(ctx context.Context) {
	if w.grid.path == "" {
		w.log.Warnf("edit watcher disabled: grid has no backing file")
		return
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *EditWatcher) poll(ctx context.Context) {
	info, err := os.Stat(w.grid.path)
	if err != nil {
		return // fayl hali yo'q yoki o'chirilgan
	}
	if !info.ModTime().After(w.lastModTime) {
		return
	}
	w.lastModTime = info.ModTime()

	f, err := excelize.OpenFile(w.grid.path)
	if err != nil {
		// Excel saqlash paytida fayl qisman yozilgan bo'lishi mumkin.
		w.log.Debugf("watcher open skipped: %v", err)
		return
	}
	rows, err := f.GetRows(w.grid.sheet)
	_ = f.Close()
	if err != nil {
		w.log.Debugf("watcher read skipped: %v", err)
		return
	}

	events := diffEditable(w.grid.snapshotMirror(), rows)
	for _, ev := range events {
		w.grid.applyExternal(ev.Row, ev.Col, ev.Value)
		w.log.Infof("edit detected at %s: %q", ev.Address, ev.Value)
		w.grid.EmitChange(ctx, ev)
	}
}

// diffEditable compares the on-disk rows with the mirror and returns one
// event per divergent editable-column cell. Rows present only on one side
// are still compared (missing cells read as "").
func diffEditable(mirror, current [][]string) []entity.ChangeEvent {
	rowCount := len(mirror)
	if len(current) > rowCount {
		rowCount = len(current)
	}

	var events []entity.ChangeEvent
	for r := 0; r < rowCount; r++ {
		for _, c := range []int{constants.ColDispatcher, constants.ColMemo} {
			was := cellAt(mirror, r, c)
			now := cellAt(current, r, c)
			if was == now {
				continue
			}
			events = append(events, entity.ChangeEvent{
				Address: cellName(r, c),
				Value:   now,
				Row:     r,
				Col:     c,
			})
		}
	}
	return events
}

func cellAt(rows [][]string, r, c int) string {
	if r >= len(rows) || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}
