package shell

import (
	"context"
	"fmt"
	"sync"

	"github.com/yourusername/order-sheet-sync/internal/domain/apperr"
	"github.com/yourusername/order-sheet-sync/internal/domain/constants"
	"github.com/yourusername/order-sheet-sync/internal/domain/entity"
	"github.com/yourusername/order-sheet-sync/internal/domain/repository"
	"github.com/yourusername/order-sheet-sync/internal/usecase"
	"github.com/yourusername/order-sheet-sync/pkg/logger"
)

// Notifier publishes one transient user-facing notice.
// kind: "success", "warning", "error".
type Notifier func(message, kind string)

// SessionTransport is the slice of the HTTP transport the shell manages:
// token lifecycle plus the backend-driven expiry signal.
type SessionTransport interface {
	SetToken(token string)
	ClearToken()
	OnSessionExpired(fn func())
}

// Shell login, filtrlash va engine hayotiy siklini boshqaradi.
type Shell struct {
	auth      repository.AuthGateway
	orders    repository.OrderGateway
	renderer  *usecase.RenderUseCase
	engine    *usecase.ReconcileUseCase
	store     repository.StateStore
	transport SessionTransport
	notify    Notifier
	log       *logger.Logger

	mu              sync.RWMutex
	isAuthenticated bool
	userInfo        *entity.UserInfo
	unsubscribe     func()

	// Joriy filtr holati (OrderFilter)
	status   string
	page     int
	pageSize int
	total    int
}

// New yangi shell yaratish
func New(
	auth repository.AuthGateway,
	orders repository.OrderGateway,
	renderer *usecase.RenderUseCase,
	engine *usecase.ReconcileUseCase,
	store repository.StateStore,
	transport SessionTransport,
	notify Notifier,
	log *logger.Logger,
) *Shell {
	if notify == nil {
		notify = func(string, string) {}
	}
	if log == nil {
		log = logger.Default()
	}
	return &Shell{
		auth:      auth,
		orders:    orders,
		renderer:  renderer,
		engine:    engine,
		store:     store,
		transport: transport,
		notify:    notify,
		log:       log,
		status:    constants.StatusSend,
		page:      1,
		pageSize:  constants.DefaultPageSize,
	}
}

// Mount restores any persisted session, hooks the expiry signal and
// subscribes the reconciliation engine to the grid.
func (s *Shell) Mount(ctx context.Context) error {
	if session, ok, err := s.store.LoadSession(ctx); err == nil && ok && session.Valid() {
		s.transport.SetToken(session.Token)
		s.mu.Lock()
		s.isAuthenticated = true
		user := session.User
		s.userInfo = &user
		s.mu.Unlock()
		s.log.Infof("session restored for %s", session.User.RealName)
	}

	s.transport.OnSessionExpired(func() {
		s.handleSessionExpired(context.Background())
	})

	unsubscribe, err := s.engine.Subscribe()
	if err != nil {
		return fmt.Errorf("subscribe change listener: %w", err)
	}
	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
	return nil
}

// Unmount deregisters the change listener.
func (s *Shell) Unmount() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Login authenticates and persists the session. With remember set, the
// username is kept for the next login form (user opt-in).
func (s *Shell) Login(ctx context.Context, username, password string, remember bool) error {
	if username == "" || password == "" {
		s.notify("请输入用户名和密码", "warning")
		return &apperr.ValidationError{Message: "请输入用户名和密码"}
	}

	session, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.notify(apperr.UserMessage(err), "error")
		return err
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		s.log.Errorf("persist session: %v", err)
	}
	if remember {
		if err := s.store.SaveUsername(ctx, username); err != nil {
			s.log.Errorf("persist username: %v", err)
		}
	}

	s.mu.Lock()
	s.isAuthenticated = true
	user := session.User
	s.userInfo = &user
	s.mu.Unlock()

	s.notify("登录成功！", "success")
	return nil
}

// Logout sessiyani tugatish
func (s *Shell) Logout(ctx context.Context) {
	s.transport.ClearToken()
	if err := s.store.ClearSession(ctx); err != nil {
		s.log.Errorf("clear session: %v", err)
	}
	s.mu.Lock()
	s.isAuthenticated = false
	s.userInfo = nil
	s.mu.Unlock()
}

func (s *Shell) handleSessionExpired(ctx context.Context) {
	// In-flight reconciliations are not cancelled; they fail on their own.
	if err := s.store.ClearSession(ctx); err != nil {
		s.log.Errorf("clear session: %v", err)
	}
	s.mu.Lock()
	wasAuthenticated := s.isAuthenticated
	s.isAuthenticated = false
	s.userInfo = nil
	s.mu.Unlock()
	if wasAuthenticated {
		s.notify("登录已过期，请重新登录", "error")
	}
}

// SetFilter joriy status va sahifa hajmini o'zgartirish
func (s *Shell) SetFilter(status string, pageSize int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status != "" {
		s.status = status
		s.page = 1
	}
	if pageSize > 0 {
		s.pageSize = pageSize
		s.page = 1
	}
}

// FetchOrders loads the current page and repaints the grid.
func (s *Shell) FetchOrders(ctx context.Context) error {
	s.mu.RLock()
	status, page, pageSize := s.status, s.page, s.pageSize
	s.mu.RUnlock()

	result, err := s.orders.ListOrders(ctx, status, page, pageSize)
	if err != nil {
		if apperr.IsAuth(err) {
			s.handleSessionExpired(ctx)
		}
		s.notify(apperr.UserMessage(err), "error")
		return err
	}

	s.mu.Lock()
	s.total = result.Total
	s.mu.Unlock()

	if err := s.renderer.Render(ctx, result.Orders); err != nil {
		s.log.Errorf("render orders: %v", err)
		s.notify(apperr.UserMessage(err), "error")
		return err
	}
	// Qayta chizish kutilayotgan status yozuvlarini bekor qiladi.
	s.engine.InvalidateAll()

	s.notify(fmt.Sprintf("成功获取%d条订单", len(result.Orders)), "success")
	return nil
}

// Refresh joriy sahifani qayta yuklash
func (s *Shell) Refresh(ctx context.Context) error {
	return s.FetchOrders(ctx)
}

// NextPage advances one page and fetches, when there is one.
func (s *Shell) NextPage(ctx context.Context) error {
	s.mu.Lock()
	if s.page >= s.totalPagesLocked() {
		s.mu.Unlock()
		return nil
	}
	s.page++
	s.mu.Unlock()
	return s.FetchOrders(ctx)
}

// PrevPage steps one page back and fetches, when possible.
func (s *Shell) PrevPage(ctx context.Context) error {
	s.mu.Lock()
	if s.page <= 1 {
		s.mu.Unlock()
		return nil
	}
	s.page--
	s.mu.Unlock()
	return s.FetchOrders(ctx)
}

func (s *Shell) totalPagesLocked() int {
	if s.pageSize <= 0 {
		return 0
	}
	return (s.total + s.pageSize - 1) / s.pageSize
}

// IsAuthenticated joriy auth holati
func (s *Shell) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAuthenticated
}

// UserInfo returns the signed-in profile, nil when logged out.
func (s *Shell) UserInfo() *entity.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userInfo == nil {
		return nil
	}
	cp := *s.userInfo
	return &cp
}

// SavedUsername login formasi uchun eslab qolingan foydalanuvchi nomi
func (s *Shell) SavedUsername(ctx context.Context) string {
	name, ok, err := s.store.LoadUsername(ctx)
	if err != nil || !ok {
		return ""
	}
	return name
}

// Page returns the 1-based current page.
func (s *Shell) Page() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// TotalOrders jami buyurtmalar soni (oxirgi fetchdan)
func (s *Shell) TotalOrders() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// TotalPages jami sahifalar soni
func (s *Shell) TotalPages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalPagesLocked()
}
