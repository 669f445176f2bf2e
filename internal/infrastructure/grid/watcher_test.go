package grid

import (
	"testing"
)

func TestDiffEditableReportsOnlyEditableColumns(t *testing.T) {
	mirror := [][]string{
		{"订单ID", "联系人", "电话", "地址", "商品", "派送人", "备注", "状态"},
		{"ORD1", "李四", "138", "浦东", "水", "", "", ""},
	}
	current := [][]string{
		{"订单ID", "联系人", "电话", "地址", "商品", "派送人", "备注", "状态"},
		// Edits in dispatcher (5) and memo (6), plus a stray edit in
		// contact (1) that must be ignored.
		{"ORD1", "王五", "138", "浦东", "水", "马师傅", "下午送", ""},
	}

	events := diffEditable(mirror, current)
	if len(events) != 2 {
		t.Fatalf("diff produced %d events, want 2", len(events))
	}
	if events[0].Col != 5 || events[0].Value != "马师傅" || events[0].Row != 1 {
		t.Fatalf("first event = %+v", events[0])
	}
	if events[1].Col != 6 || events[1].Value != "下午送" {
		t.Fatalf("second event = %+v", events[1])
	}
	if events[0].Address != "F2" {
		t.Fatalf("address = %q, want F2", events[0].Address)
	}
}

func TestDiffEditableNoChanges(t *testing.T) {
	rows := [][]string{
		{"h"},
		{"ORD1", "", "", "", "", "马师傅", "memo", ""},
	}
	if events := diffEditable(rows, rows); len(events) != 0 {
		t.Fatalf("identical snapshots produced %d events", len(events))
	}
}

func TestDiffEditableHandlesRaggedRows(t *testing.T) {
	// GetRows trims trailing blanks, so rows can be shorter than the
	// schema; missing cells must read as "".
	mirror := [][]string{
		{"ORD1", "李四", "", "", "", "马师傅"},
	}
	current := [][]string{
		{"ORD1", "李四"},
	}

	events := diffEditable(mirror, current)
	if len(events) != 1 {
		t.Fatalf("diff produced %d events, want 1", len(events))
	}
	if events[0].Col != 5 || events[0].Value != "" {
		t.Fatalf("event = %+v, want cleared dispatcher", events[0])
	}

	// Row that exists only on disk.
	events = diffEditable(nil, [][]string{{"", "", "", "", "", "", "笔记"}})
	if len(events) != 1 || events[0].Col != 6 || events[0].Value != "笔记" {
		t.Fatalf("disk-only row events = %+v", events)
	}
}
