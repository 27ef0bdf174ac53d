package handlers

import "testing"

func TestParsePaginationParamsDefaults(t *testing.T) {
	tests := []struct {
		pageStr, limitStr   string
		wantPage, wantLimit int64
	}{
		{"", "", 1, 20},
		{"3", "50", 3, 50},
		{"0", "-5", 1, 20},
		{"abc", "xyz", 1, 20},
		{"2", "", 2, 20},
	}
	for _, tt := range tests {
		page, limit := parsePaginationParams(tt.pageStr, tt.limitStr)
		if page != tt.wantPage || limit != tt.wantLimit {
			t.Fatalf("(%q,%q): expected (%d,%d), got (%d,%d)",
				tt.pageStr, tt.limitStr, tt.wantPage, tt.wantLimit, page, limit)
		}
	}
}

func TestTotalPagesCeiling(t *testing.T) {
	tests := []struct {
		total, limit, want int64
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 7, 15},
		{5, 5, 1},
	}
	for _, tt := range tests {
		if got := totalPages(tt.total, tt.limit); got != tt.want {
			t.Fatalf("totalPages(%d,%d): expected %d, got %d", tt.total, tt.limit, tt.want, got)
		}
	}
}
