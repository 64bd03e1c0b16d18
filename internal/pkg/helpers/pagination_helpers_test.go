package helpers

import "testing"

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		size       int
		wantOffset uint64
		wantLimit  int
	}{
		{"first page", 1, 10, 0, 10},
		{"third page", 3, 20, 40, 20},
		{"zero page defaults to first", 0, 10, 0, 10},
		{"negative page defaults to first", -5, 10, 0, 10},
		{"zero size uses default", 2, 0, 10, DefaultPageSize},
		{"oversized page size capped to default", 1, 500, 0, DefaultPageSize},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tc.page, tc.size)
			if offset != tc.wantOffset || limit != tc.wantLimit {
				t.Errorf("CalculateOffsetLimit(%d, %d) = (%d, %d), want (%d, %d)",
					tc.page, tc.size, offset, limit, tc.wantOffset, tc.wantLimit)
			}
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 10)
	if info.CurrentPage != 2 || info.PageSize != 10 {
		t.Errorf("page/size = %d/%d, want 2/10", info.CurrentPage, info.PageSize)
	}
	if info.TotalItems != 45 {
		t.Errorf("totalItems = %d, want 45", info.TotalItems)
	}
	if info.TotalPages != 5 {
		t.Errorf("totalPages = %d, want 5", info.TotalPages)
	}

	empty := NewPaginationInfo(0, 1, 10)
	if empty.TotalPages != 0 {
		t.Errorf("totalPages for empty set = %d, want 0", empty.TotalPages)
	}
}
