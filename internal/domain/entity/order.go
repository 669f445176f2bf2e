package entity

// Order bitta buyurtma (backend `/b/order/list` javobidan)
type Order struct {
	UUID        string       `json:"uuid"`
	ContactInfo *ContactInfo `json:"contact_info,omitempty"`
	Infos       []OrderGoods `json:"infos,omitempty"`
	DmName      string       `json:"dm_name,omitempty"`
	Memo        string       `json:"memo,omitempty"`
}

// ContactInfo buyurtma kontakt ma'lumotlari
type ContactInfo struct {
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderGoods buyurtmadagi bitta tovar
type OrderGoods struct {
	GoodsName string `json:"goods_name"`
}

// PrimaryGoodsName returns the first goods name, or "" when the order
// carries no goods list.
func (o Order) PrimaryGoodsName() string {
	if len(o.Infos) == 0 {
		return ""
	}
	return o.Infos[0].GoodsName
}

// OrderPage bitta sahifa natijasi
type OrderPage struct {
	Orders []Order
	Total  int
}

// TotalPages returns how many pages of the given size the result spans.
func (p OrderPage) TotalPages(pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (p.Total + pageSize - 1) / pageSize
}
