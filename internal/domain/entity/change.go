package entity

// ChangeEvent hostdan kelgan bitta katakcha o'zgarishi.
// Row/Col are zero-based sheet coordinates; Address is the host's own
// notation (informational only, never parsed).
type ChangeEvent struct {
	Address string
	Value   string
	Row     int
	Col     int
}

// RowStatus per-row reconciliation feedback state.
type RowStatus int

const (
	RowIdle RowStatus = iota
	RowPending
	RowSuccess
	RowFailure
)

func (s RowStatus) String() string {
	switch s {
	case RowPending:
		return "pending"
	case RowSuccess:
		return "success"
	case RowFailure:
		return "failure"
	default:
		return "idle"
	}
}
