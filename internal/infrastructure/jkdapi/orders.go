package jkdapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/yourusername/order-sheet-sync/internal/domain/apperr"
	"github.com/yourusername/order-sheet-sync/internal/domain/constants"
	"github.com/yourusername/order-sheet-sync/internal/domain/dispatch"
	"github.com/yourusername/order-sheet-sync/internal/domain/entity"
	"github.com/yourusername/order-sheet-sync/internal/domain/repository"
	"github.com/yourusername/order-sheet-sync/pkg/logger"
)

// orderListData `/b/order/list` data maydoni
type orderListData struct {
	Data  []entity.Order `json:"data"`
	Total int            `json:"total"`
}

// OrderService repository.OrderGateway ning backend implementatsiyasi
type OrderService struct {
	client    *Client
	directory *dispatch.Directory
	log       *logger.Logger
}

// NewOrderService yangi order gateway yaratish
func NewOrderService(client *Client, directory *dispatch.Directory, log *logger.Logger) repository.OrderGateway {
	if log == nil {
		log = logger.Default()
	}
	return &OrderService{client: client, directory: directory, log: log}
}

func (s *OrderService) requireAuth() error {
	if s.client.Token() == "" {
		return &apperr.AuthError{}
	}
	return nil
}

// ListOrders bitta sahifa buyurtmalarni olish
func (s *OrderService) ListOrders(ctx context.Context, status string, page, pageSize int) (entity.OrderPage, error) {
	if err := s.requireAuth(); err != nil {
		return entity.OrderPage{}, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}

	// Backend kontrakti bo'sh placeholderlarni ham talab qiladi.
	q := url.Values{}
	q.Set("status", status)
	q.Set("p", strconv.Itoa(page))
	q.Set("l", strconv.Itoa(pageSize))
	q.Set("start_time", "")
	q.Set("end_time", "")
	q.Set("s_type", "tel")
	q.Set("bs_uuid", "")
	q.Set("sort_type", "p_desc")
	q.Set("k", "")
	q.Set("ch_uuid", "")
	q.Set("intf_token", "")
	q.Set("fileuuid", "")
	q.Set("bo_type", "")
	q.Set("is_printed", "")
	q.Set("order_type", "wap")

	env, err := s.client.GetJSON(ctx, constants.OrderListPath, q)
	if err != nil {
		s.log.Errorf("list orders failed: %v", err)
		return entity.OrderPage{}, err
	}
	if env.Code != 200 {
		msg := env.Msg
		if msg == "" {
			msg = "获取订单失败"
		}
		return entity.OrderPage{}, &apperr.RemoteError{StatusCode: env.Code, Message: msg}
	}

	var data orderListData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return entity.OrderPage{}, &apperr.TransportError{Err: fmt.Errorf("decode order list: %w", err)}
	}

	s.log.Infof("fetched %d orders (status=%s page=%d total=%d)", len(data.Data), status, page, data.Total)
	return entity.OrderPage{Orders: data.Data, Total: data.Total}, nil
}

// SetMemo buyurtma memosini yangilash. Bo'sh memo ham yuboriladi
// ("memoni tozalash" ma'nosida).
func (s *OrderService) SetMemo(ctx context.Context, orderUUID, memo string) (bool, error) {
	if err := s.requireAuth(); err != nil {
		return false, err
	}

	form := url.Values{}
	form.Set("order_uuid", orderUUID)
	form.Set("memo", memo)

	env, err := s.client.PostForm(ctx, constants.SetMemoPath, form)
	if err != nil {
		s.log.Errorf("set memo for %s failed: %v", orderUUID, err)
		return false, nil
	}
	if env.Code != 200 {
		s.log.Warnf("set memo for %s rejected: %s", orderUUID, env.Msg)
		return false, nil
	}
	s.log.Infof("memo updated for %s", orderUUID)
	return true, nil
}

// SetDispatcher buyurtmaga dispetcher biriktirish. The name is resolved
// through the directory before the auth check; unknown names never reach
// the network.
func (s *OrderService) SetDispatcher(ctx context.Context, orderUUID, dispatcherName string) (bool, error) {
	dmUUID, ok := s.directory.Resolve(dispatcherName)
	if !ok {
		return false, &apperr.ValidationError{Field: "dispatcher", Message: "无效的派送人名称"}
	}
	if err := s.requireAuth(); err != nil {
		return false, err
	}

	form := url.Values{}
	form.Set("order_uuid", orderUUID)
	form.Set("dm_uuid", dmUUID)
	form.Set("dm_salary", constants.DispatchSalaryPlaceholder)
	form.Set("re_flag", constants.DispatchReFlag)

	env, err := s.client.PostForm(ctx, constants.SetDispatcherPath, form)
	if err != nil {
		s.log.Errorf("set dispatcher for %s failed: %v", orderUUID, err)
		return false, nil
	}
	if env.Code != 200 {
		s.log.Warnf("set dispatcher for %s rejected: %s", orderUUID, env.Msg)
		return false, nil
	}
	s.log.Infof("dispatcher updated for %s -> %s", orderUUID, dispatcherName)
	return true, nil
}
