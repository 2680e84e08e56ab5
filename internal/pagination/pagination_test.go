package pagination_test

import (
	"testing"

	"github.com/talentlink-app/talentlink_be/internal/pagination"
	"github.com/talentlink-app/talentlink_be/pkg/result"
)

func TestValidateRejectsNonPositiveParams(t *testing.T) {
	cases := []struct {
		page, size int
		wantErr    bool
	}{
		{0, 10, true},
		{1, 0, true},
		{-1, 10, true},
		{1, -5, true},
		{1, 1, false},
		{2, 10, false},
	}

	for _, tc := range cases {
		err := pagination.Validate(tc.page, tc.size)
		if tc.wantErr && err == nil {
			t.Errorf("page=%d size=%d: expected error", tc.page, tc.size)
		}
		if tc.wantErr && err != nil && err.Kind != result.KindFailure {
			t.Errorf("page=%d size=%d: expected Failure kind, got %s", tc.page, tc.size, err.Kind)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("page=%d size=%d: unexpected error %v", tc.page, tc.size, err)
		}
	}
}

func TestRangeIsOneBased(t *testing.T) {
	limit, offset := pagination.Range(1, 10)
	if limit != 10 || offset != 0 {
		t.Fatalf("page 1: expected limit=10 offset=0, got %d/%d", limit, offset)
	}

	limit, offset = pagination.Range(2, 10)
	if limit != 10 || offset != 10 {
		t.Fatalf("page 2: expected limit=10 offset=10, got %d/%d", limit, offset)
	}
}

func TestNewNeverReturnsNilItems(t *testing.T) {
	p := pagination.New[string](nil, 0, 1, 10)
	if p.Items == nil {
		t.Fatal("Items must be an empty slice, not nil")
	}
	if p.TotalItems != 0 || p.CurrentPage != 1 || p.PageSize != 10 {
		t.Fatalf("unexpected envelope: %+v", p)
	}
}
