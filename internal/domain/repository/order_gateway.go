package repository

import (
	"context"

	"github.com/yourusername/order-sheet-sync/internal/domain/entity"
)

// OrderGateway backend buyurtma API bilan ishlash uchun interface
type OrderGateway interface {
	// ListOrders berilgan status bo'yicha bitta sahifani olish.
	// Returns apperr.AuthError when no session token is present (checked
	// locally, before the request goes out).
	ListOrders(ctx context.Context, status string, page, pageSize int) (entity.OrderPage, error)

	// SetMemo buyurtma memosini yangilash. The bool is true only when
	// the backend explicitly reported success; remote and transport
	// failures come back as (false, nil) with a log entry.
	SetMemo(ctx context.Context, orderUUID, memo string) (bool, error)

	// SetDispatcher buyurtmaga dispetcher biriktirish. Unknown names fail
	// with apperr.ValidationError before any auth or network work.
	SetDispatcher(ctx context.Context, orderUUID, dispatcherName string) (bool, error)
}

// AuthGateway login/logout uchun interface
type AuthGateway interface {
	// Login authenticates and returns the new session.
	Login(ctx context.Context, username, password string) (*entity.Session, error)
}
