package repository

import (
	"context"

	"github.com/yourusername/order-sheet-sync/internal/domain/entity"
)

// StateStore doimiy mijoz holatini saqlash uchun interface.
// Session data is session-scoped (cleared on logout/expiry); the saved
// username and the log buffer survive restarts.
type StateStore interface {
	SaveSession(ctx context.Context, session *entity.Session) error
	LoadSession(ctx context.Context) (*entity.Session, bool, error)
	ClearSession(ctx context.Context) error

	SaveUsername(ctx context.Context, username string) error
	LoadUsername(ctx context.Context) (string, bool, error)

	// AppendLog stores one entry, dropping the oldest past the cap.
	AppendLog(ctx context.Context, entry entity.LogEntry) error
	ListLogs(ctx context.Context) ([]entity.LogEntry, error)
	ClearLogs(ctx context.Context) error

	SaveLogLevel(ctx context.Context, level int) error
	LoadLogLevel(ctx context.Context) (int, bool, error)
}
