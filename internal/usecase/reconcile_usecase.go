package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yourusername/order-sheet-sync/internal/domain/constants"
	"github.com/yourusername/order-sheet-sync/internal/domain/entity"
	"github.com/yourusername/order-sheet-sync/internal/domain/repository"
	"github.com/yourusername/order-sheet-sync/pkg/logger"
)

// ReconcileUseCase cell o'zgarishlarini backendga yetkazadigan engine.
//
// Per-row lifecycle: Idle -> Pending -> Success/Failure, the next edit of
// the row starting the cycle over. Every accepted edit takes a per-row
// monotonic sequence number; a pending or terminal status write is dropped
// when a newer edit for that row has been accepted since, and a full
// repaint invalidates all outstanding sequences. Status writes and their
// flushes run under one mutex, so two overlapping notifications can never
// interleave half-finished flush cycles on the surface.
type ReconcileUseCase struct {
	grid   repository.GridPort
	orders repository.OrderGateway
	log    *logger.Logger

	writeMu sync.Mutex

	seqMu sync.Mutex
	epoch uint64
	seq   map[int]uint64
}

// NewReconcileUseCase yangi engine yaratish
func NewReconcileUseCase(grid repository.GridPort, orders repository.OrderGateway, log *logger.Logger) *ReconcileUseCase {
	if log == nil {
		log = logger.Default()
	}
	return &ReconcileUseCase{
		grid:   grid,
		orders: orders,
		log:    log,
		seq:    make(map[int]uint64),
	}
}

// Subscribe registers the engine on the grid's notification stream.
// Each notification is processed on its own goroutine, matching the
// host's async delivery: a slow remote call never blocks the next edit.
func (u *ReconcileUseCase) Subscribe() (func(), error) {
	return u.grid.Subscribe(func(ctx context.Context, ev entity.ChangeEvent) {
		go u.HandleChange(ctx, ev)
	})
}

// InvalidateAll discards every outstanding edit sequence. Called after a
// full repaint so a late terminal write cannot stomp fresh rows.
func (u *ReconcileUseCase) InvalidateAll() {
	u.seqMu.Lock()
	u.epoch++
	u.seq = make(map[int]uint64)
	u.seqMu.Unlock()
}

// accept registers a new edit for the row and returns its ticket.
func (u *ReconcileUseCase) accept(row int) (epoch, seq uint64) {
	u.seqMu.Lock()
	defer u.seqMu.Unlock()
	u.seq[row]++
	return u.epoch, u.seq[row]
}

func (u *ReconcileUseCase) isLatest(row int, epoch, seq uint64) bool {
	u.seqMu.Lock()
	defer u.seqMu.Unlock()
	return epoch == u.epoch && seq == u.seq[row]
}

// HandleChange processes one host change notification end to end. Safe
// for concurrent use.
func (u *ReconcileUseCase) HandleChange(ctx context.Context, ev entity.ChangeEvent) {
	// Sarlavha qatori va kuzatilmaydigan ustunlar e'tiborga olinmaydi.
	if ev.Row == constants.HeaderRow {
		return
	}
	if ev.Col != constants.ColDispatcher && ev.Col != constants.ColMemo {
		return
	}

	orderID, err := u.grid.ReadCell(ctx, ev.Row, constants.ColOrderID)
	if err != nil {
		u.log.Errorf("reconcile: read order id for row %d: %v", ev.Row, err)
		return
	}
	if orderID == "" {
		// Chizilgan hudud tashqarisidagi qator.
		return
	}

	newValue := ev.Value
	if ev.Col == constants.ColDispatcher && newValue == "" {
		// Bo'sh dispetcher yuborilmaydi (memo'dan farqli).
		return
	}

	epoch, seq := u.accept(ev.Row)
	attemptID := uuid.New().String()

	if !u.writeStatus(ctx, ev.Row, epoch, seq, constants.StatusTextPending, constants.StatusColorPending) {
		return
	}

	var ok bool
	var callErr error
	if ev.Col == constants.ColMemo {
		ok, callErr = u.orders.SetMemo(ctx, orderID, newValue)
	} else {
		ok, callErr = u.orders.SetDispatcher(ctx, orderID, newValue)
	}

	// Error path and false-result path look identical on the surface;
	// only the log stream tells them apart.
	if callErr != nil {
		u.log.Errorf("reconcile %s: update for order %s failed: %v", attemptID, orderID, callErr)
		ok = false
	} else if !ok {
		u.log.Warnf("reconcile %s: backend rejected update for order %s", attemptID, orderID)
	} else {
		u.log.Infof("reconcile %s: order %s updated (row %d col %d)", attemptID, orderID, ev.Row, ev.Col)
	}

	if ok {
		u.writeStatus(ctx, ev.Row, epoch, seq, constants.StatusTextSuccess, constants.StatusColorSuccess)
	} else {
		u.writeStatus(ctx, ev.Row, epoch, seq, constants.StatusTextFailure, constants.StatusColorFailure)
	}
}

// writeStatus writes the status cell and flushes, unless the ticket went
// stale. Host failures degrade to a log entry; the engine never writes
// outside the status column.
func (u *ReconcileUseCase) writeStatus(ctx context.Context, row int, epoch, seq uint64, text, color string) bool {
	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	if !u.isLatest(row, epoch, seq) {
		u.log.Debugf("reconcile: dropping stale status %q for row %d", text, row)
		return false
	}

	if err := u.grid.WriteCell(ctx, row, constants.ColStatus, text); err != nil {
		u.log.Errorf("reconcile: status write for row %d: %v", row, err)
		return false
	}
	if err := u.grid.StyleRegion(ctx, row, constants.ColStatus, row, constants.ColStatus, repository.CellStyle{
		FontColor: color,
	}); err != nil {
		u.log.Errorf("reconcile: status style for row %d: %v", row, err)
	}
	if err := u.grid.Flush(ctx); err != nil {
		u.log.Errorf("reconcile: flush for row %d: %v", row, err)
	}
	return true
}
