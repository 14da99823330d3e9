package pagination

import "testing"

func TestPageNormalize(t *testing.T) {
	cases := []struct {
		in   Page
		want Page
	}{
		{Page{Page: -3, PageSize: 10}, Page{Page: 0, PageSize: 10}},
		{Page{Page: 2, PageSize: 0}, Page{Page: 2, PageSize: DefaultPageSize}},
		{Page{Page: 1, PageSize: -5}, Page{Page: 1, PageSize: 1}},
		{Page{Page: 1, PageSize: 500}, Page{Page: 1, PageSize: MaxPageSize}},
	}
	for _, tc := range cases {
		if got := tc.in.Normalize(); got != tc.want {
			t.Fatalf("Normalize(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestPageOffset(t *testing.T) {
	if got := (Page{Page: 3, PageSize: 20}).Offset(); got != 60 {
		t.Fatalf("expected offset 60, got %d", got)
	}
	if got := (Page{Page: -1, PageSize: 20}).Offset(); got != 0 {
		t.Fatalf("expected offset 0 for negative page, got %d", got)
	}
	if got := (Page{Page: 0, PageSize: 99}).Limit(); got != MaxPageSize {
		t.Fatalf("expected limit clamp to %d, got %d", MaxPageSize, got)
	}
}
