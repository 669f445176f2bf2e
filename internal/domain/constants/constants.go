package constants

// Grid schema. The renderer and the reconciliation engine share these
// indexes; column 0 is the identifier anchor and is never written after
// the initial paint except by a full re-render.
const (
	ColOrderID    = 0
	ColContact    = 1
	ColPhone      = 2
	ColAddress    = 3
	ColGoods      = 4
	ColDispatcher = 5
	ColMemo       = 6
	ColStatus     = 7

	ColumnCount = 8

	// HeaderRow is the single non-data row at the top of the region.
	HeaderRow = 0
)

// HeaderTitles in schema order.
var HeaderTitles = []string{
	"订单ID", "联系人", "联系电话", "配送地址",
	"商品名称", "派送人", "备注", "操作状态",
}

// Order list statuses accepted by the backend.
const (
	StatusSend   = "send"
	StatusWait   = "wait"
	StatusArrive = "arrive"
	StatusCancel = "cancel"
)

// Status cell texts and colors.
const (
	StatusTextPending = "更新中..."
	StatusTextSuccess = "更新成功"
	StatusTextFailure = "更新失败"

	StatusColorPending = "#0000FF"
	StatusColorSuccess = "#008000"
	StatusColorFailure = "#FF0000"
)

// Render styling.
const (
	HeaderFillColor   = "#4472C4"
	HeaderFontColor   = "#FFFFFF"
	EditableFillColor = "#FFF2CC"

	OrdersTableName  = "OrdersTable"
	OrdersTableStyle = "TableStyleMedium2"
)

// Backend API konstantalari
const (
	DefaultBaseURL = "https://bapi.jkdsaas.com"

	LoginPath         = "/b/pc/login"
	OrderListPath     = "/b/order/list"
	SetMemoPath       = "/b/order/set/buyer/memo"
	SetDispatcherPath = "/b/order/dispatch"

	// AuthHeader carries the session token on every authenticated call.
	AuthHeader = "Jkdauth"

	// Fixed form values the dispatch endpoint requires.
	DispatchSalaryPlaceholder = "0"
	DispatchReFlag            = "1"

	DefaultPageSize = 20

	// DefaultRequestTimeout client-side transport timeout (soniya)
	DefaultRequestTimeout = 10
)

// Logging.
const (
	// MaxLogEntries rolling log bufferida saqlanadigan max yozuvlar soni
	MaxLogEntries = 100
)
