package jkdapi

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourusername/order-sheet-sync/internal/domain/apperr"
	"github.com/yourusername/order-sheet-sync/internal/domain/constants"
	"github.com/yourusername/order-sheet-sync/internal/domain/dispatch"
	"github.com/yourusername/order-sheet-sync/pkg/logger"
)

func newTestClient(url string) *Client {
	return NewClient(url, 2*time.Second, logger.New(logger.LevelError))
}

func TestLoginStoresTokenAndEncodesCredentials(t *testing.T) {
	var gotUN, gotPW, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != constants.LoginPath {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotUN = r.PostForm.Get("un")
		gotPW = r.PostForm.Get("pw")
		gotAuth = r.Header.Get(constants.AuthHeader)
		w.Write([]byte(`{"code":200,"msg":"","data":{"token":"tok-1","real_name":"张三"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	auth := NewAuthService(client, logger.New(logger.LevelError))

	session, err := auth.Login(context.Background(), "user1", "密码")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token != "tok-1" || session.User.RealName != "张三" {
		t.Fatalf("session = %+v", session)
	}
	if client.Token() != "tok-1" {
		t.Fatalf("client token = %q", client.Token())
	}
	if gotAuth != "" {
		t.Fatalf("login carried a token: %q", gotAuth)
	}
	if gotUN != base64.StdEncoding.EncodeToString([]byte("user1")) {
		t.Fatalf("un = %q", gotUN)
	}
	if gotPW != base64.StdEncoding.EncodeToString([]byte("密码")) {
		t.Fatalf("pw = %q", gotPW)
	}
}

func TestLoginRejectedByEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":403,"msg":"用户名或密码错误","data":null}`))
	}))
	defer srv.Close()

	auth := NewAuthService(newTestClient(srv.URL), logger.New(logger.LevelError))
	_, err := auth.Login(context.Background(), "u", "p")

	var re *apperr.RemoteError
	if !asRemote(err, &re) {
		t.Fatalf("err = %v, want RemoteError", err)
	}
	if re.StatusCode != 403 || re.Message != "用户名或密码错误" {
		t.Fatalf("RemoteError = %+v", re)
	}
}

func TestUnauthorizedResponseFiresExpiryHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	client.SetToken("stale")
	expired := 0
	client.OnSessionExpired(func() { expired++ })

	_, err := client.GetJSON(context.Background(), "/anything", nil)
	if !apperr.IsAuth(err) {
		t.Fatalf("err = %v, want AuthError", err)
	}
	if expired != 1 {
		t.Fatalf("expiry hook fired %d times", expired)
	}
	if client.Token() != "" {
		t.Fatal("token survived a 401")
	}
}

func TestTransportErrorClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // tarmoq xatosini sun'iy hosil qilamiz

	client := newTestClient(srv.URL)
	_, err := client.GetJSON(context.Background(), "/x", nil)

	var te *apperr.TransportError
	if !asTransport(err, &te) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}

func TestListOrdersSendsBackendContractParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("status") != "send" || q.Get("p") != "2" || q.Get("l") != "50" {
			t.Errorf("status/p/l = %s/%s/%s", q.Get("status"), q.Get("p"), q.Get("l"))
		}
		if q.Get("s_type") != "tel" || q.Get("sort_type") != "p_desc" || q.Get("order_type") != "wap" {
			t.Errorf("fixed params wrong: %v", q)
		}
		// Bo'sh placeholderlar ham yuborilishi shart.
		for _, key := range []string{"start_time", "end_time", "bs_uuid", "k", "ch_uuid"} {
			if !q.Has(key) {
				t.Errorf("missing placeholder %s", key)
			}
		}
		if r.Header.Get(constants.AuthHeader) != "tok-9" {
			t.Errorf("auth header = %q", r.Header.Get(constants.AuthHeader))
		}
		w.Write([]byte(`{"code":200,"msg":"","data":{"total":120,"data":[
			{"uuid":"ORD1","contact_info":{"contact":"李四","phone":"13800000000","address":"浦东新区1号"},
			 "infos":[{"goods_name":"桶装水"}],"dm_name":"马师傅","memo":"上午送"},
			{"uuid":"ORD2"}
		]}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	client.SetToken("tok-9")
	gw := NewOrderService(client, dispatch.DefaultDirectory(), logger.New(logger.LevelError))

	page, err := gw.ListOrders(context.Background(), constants.StatusSend, 2, 50)
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if page.Total != 120 || len(page.Orders) != 2 {
		t.Fatalf("page = total %d, %d orders", page.Total, len(page.Orders))
	}
	if page.Orders[0].PrimaryGoodsName() != "桶装水" {
		t.Fatalf("goods = %q", page.Orders[0].PrimaryGoodsName())
	}
	if page.Orders[1].PrimaryGoodsName() != "" {
		t.Fatal("missing goods list should render empty")
	}
	if page.TotalPages(50) != 3 {
		t.Fatalf("TotalPages = %d", page.TotalPages(50))
	}
}

func TestListOrdersWithoutSession(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	gw := NewOrderService(newTestClient(srv.URL), dispatch.DefaultDirectory(), logger.New(logger.LevelError))
	_, err := gw.ListOrders(context.Background(), constants.StatusWait, 1, 20)
	if !apperr.IsAuth(err) {
		t.Fatalf("err = %v, want AuthError", err)
	}
	if calls != 0 {
		t.Fatalf("%d requests issued without a session", calls)
	}
}

func TestSetMemoOutcomes(t *testing.T) {
	code := 200
	var gotMemo string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotMemo = r.PostForm.Get("memo")
		if r.PostForm.Get("order_uuid") != "ORD1" {
			t.Errorf("order_uuid = %q", r.PostForm.Get("order_uuid"))
		}
		if code == 200 {
			w.Write([]byte(`{"code":200,"msg":"","data":null}`))
		} else {
			w.Write([]byte(`{"code":500,"msg":"内部错误","data":null}`))
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	client.SetToken("tok")
	gw := NewOrderService(client, dispatch.DefaultDirectory(), logger.New(logger.LevelError))

	ok, err := gw.SetMemo(context.Background(), "ORD1", "")
	if err != nil || !ok {
		t.Fatalf("SetMemo empty = (%v, %v), want success", ok, err)
	}
	if gotMemo != "" {
		t.Fatalf("memo = %q, want empty (clear memo)", gotMemo)
	}

	code = 500
	ok, err = gw.SetMemo(context.Background(), "ORD1", "下午配送")
	if err != nil {
		t.Fatalf("backend rejection must not propagate: %v", err)
	}
	if ok {
		t.Fatal("SetMemo reported success on a rejected update")
	}
}

func TestSetMemoTransportFailureReturnsFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := newTestClient(url)
	client.SetToken("tok")
	gw := NewOrderService(client, dispatch.DefaultDirectory(), logger.New(logger.LevelError))

	ok, err := gw.SetMemo(context.Background(), "ORD1", "x")
	if err != nil || ok {
		t.Fatalf("SetMemo on dead server = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestSetDispatcherResolvesBeforeAuth(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	// Token ataylab yo'q: validation auth tekshiruvidan OLDIN ishlaydi.
	gw := NewOrderService(newTestClient(srv.URL), dispatch.DefaultDirectory(), logger.New(logger.LevelError))
	_, err := gw.SetDispatcher(context.Background(), "ORD1", "不存在的师傅")

	var ve *apperr.ValidationError
	if !asValidation(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if calls != 0 {
		t.Fatalf("%d requests issued for an unknown dispatcher", calls)
	}

	_, err = gw.SetDispatcher(context.Background(), "ORD1", "马师傅")
	if !apperr.IsAuth(err) {
		t.Fatalf("known name without session: err = %v, want AuthError", err)
	}
	if calls != 0 {
		t.Fatalf("%d requests issued without a session", calls)
	}
}

func TestSetDispatcherSendsResolvedUUIDAndPlaceholders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.URL.Path != constants.SetDispatcherPath {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.PostForm.Get("dm_uuid") != "BSUV89NLHLH8ECSQOOQWQFLURXRGCH6O" {
			t.Errorf("dm_uuid = %q", r.PostForm.Get("dm_uuid"))
		}
		if r.PostForm.Get("dm_salary") != "0" || r.PostForm.Get("re_flag") != "1" {
			t.Errorf("placeholders = %q/%q", r.PostForm.Get("dm_salary"), r.PostForm.Get("re_flag"))
		}
		w.Write([]byte(`{"code":200,"msg":"","data":null}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	client.SetToken("tok")
	gw := NewOrderService(client, dispatch.DefaultDirectory(), logger.New(logger.LevelError))

	ok, err := gw.SetDispatcher(context.Background(), "ORD1", "马师傅")
	if err != nil || !ok {
		t.Fatalf("SetDispatcher = (%v, %v)", ok, err)
	}
}

func asRemote(err error, target **apperr.RemoteError) bool     { return errors.As(err, target) }
func asTransport(err error, target **apperr.TransportError) bool { return errors.As(err, target) }
func asValidation(err error, target **apperr.ValidationError) bool { return errors.As(err, target) }
