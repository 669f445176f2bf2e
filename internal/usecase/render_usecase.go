package usecase

import (
	"context"

	"github.com/yourusername/order-sheet-sync/internal/domain/constants"
	"github.com/yourusername/order-sheet-sync/internal/domain/dispatch"
	"github.com/yourusername/order-sheet-sync/internal/domain/entity"
	"github.com/yourusername/order-sheet-sync/internal/domain/repository"
	"github.com/yourusername/order-sheet-sync/pkg/logger"
)

// RenderUseCase buyurtmalarni jadval yuzasiga chizish.
// Stateless: every call clears the used region and repaints from scratch,
// so a smaller page never leaves stale rows behind.
type RenderUseCase struct {
	grid      repository.GridPort
	directory *dispatch.Directory
	log       *logger.Logger
}

// NewRenderUseCase yangi renderer yaratish
func NewRenderUseCase(grid repository.GridPort, directory *dispatch.Directory, log *logger.Logger) *RenderUseCase {
	if log == nil {
		log = logger.Default()
	}
	return &RenderUseCase{grid: grid, directory: directory, log: log}
}

// Render paints the header plus one row per order.
func (u *RenderUseCase) Render(ctx context.Context, orders []entity.Order) error {
	if len(orders) == 0 {
		u.log.Warnf("no orders to display")
		return nil
	}

	if err := u.grid.ClearUsedRegion(ctx); err != nil {
		return err
	}

	// Sarlavha qatori
	if err := u.grid.WriteRegion(ctx, constants.HeaderRow, 0, [][]string{constants.HeaderTitles}); err != nil {
		return err
	}
	if err := u.grid.StyleRegion(ctx, constants.HeaderRow, 0, constants.HeaderRow, constants.ColumnCount-1, repository.CellStyle{
		Bold:      true,
		FillColor: constants.HeaderFillColor,
		FontColor: constants.HeaderFontColor,
		Align:     "center",
	}); err != nil {
		return err
	}

	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderRowValues(o))
	}
	firstDataRow := constants.HeaderRow + 1
	lastDataRow := constants.HeaderRow + len(orders)
	if err := u.grid.WriteRegion(ctx, firstDataRow, 0, rows); err != nil {
		return err
	}
	if err := u.grid.StyleRegion(ctx, firstDataRow, 0, lastDataRow, constants.ColumnCount-1, repository.CellStyle{
		Align: "left",
	}); err != nil {
		return err
	}

	// Tahrirlanadigan ustunlar ajratib ko'rsatiladi.
	for _, col := range []int{constants.ColDispatcher, constants.ColMemo} {
		if err := u.grid.StyleRegion(ctx, firstDataRow, col, lastDataRow, col, repository.CellStyle{
			FillColor: constants.EditableFillColor,
		}); err != nil {
			return err
		}
	}

	if err := u.grid.SetDropdown(ctx, firstDataRow, lastDataRow, constants.ColDispatcher, u.directory.AllNames()); err != nil {
		return err
	}

	// Jadval allaqachon mavjud bo'lsa xato chiqadi; render davom etadi.
	if err := u.grid.CreateTable(ctx, constants.HeaderRow, 0, lastDataRow, constants.ColumnCount-1, constants.OrdersTableName); err != nil {
		u.log.Warnf("table creation failed (may already exist): %v", err)
	}

	if err := u.grid.AutoFitColumns(ctx); err != nil {
		u.log.Warnf("column auto-fit failed: %v", err)
	}

	if err := u.grid.Flush(ctx); err != nil {
		return err
	}

	u.log.Infof("rendered %d orders", len(orders))
	return nil
}

// orderRowValues maps one order onto the fixed column schema. Missing
// sub-fields render as empty strings, never as error markers.
func orderRowValues(o entity.Order) []string {
	row := make([]string, constants.ColumnCount)
	row[constants.ColOrderID] = o.UUID
	if o.ContactInfo != nil {
		row[constants.ColContact] = o.ContactInfo.Contact
		row[constants.ColPhone] = o.ContactInfo.Phone
		row[constants.ColAddress] = o.ContactInfo.Address
	}
	row[constants.ColGoods] = o.PrimaryGoodsName()
	row[constants.ColDispatcher] = o.DmName
	row[constants.ColMemo] = o.Memo
	row[constants.ColStatus] = ""
	return row
}
