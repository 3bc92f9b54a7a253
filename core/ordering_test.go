package core

import (
	"reflect"
	"testing"
)

func TestParseOrdering(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Ordering
	}{
		{name: "empty", in: ""},
		{name: "single asc", in: "title", want: []Ordering{{Field: "title", Ascending: true}}},
		{name: "single desc", in: "-created_at", want: []Ordering{{Field: "created_at"}}},
		{
			name: "multiple with spaces",
			in:   " -is_active , Name ,,",
			want: []Ordering{{Field: "is_active"}, {Field: "name", Ascending: true}},
		},
		{name: "lone dash", in: "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseOrdering(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseOrdering() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	values := map[string][2]int{"a": {1, 1}, "b": {1, 2}}
	cmp := func(field string) (int, bool) {
		v, ok := values[field]
		if !ok {
			return 0, false
		}
		return v[0] - v[1], true
	}

	if got := Compare(ParseOrdering("a,b"), cmp); got >= 0 {
		t.Errorf("Compare(a,b) = %d, want < 0", got)
	}
	if got := Compare(ParseOrdering("a,-b"), cmp); got <= 0 {
		t.Errorf("Compare(a,-b) = %d, want > 0", got)
	}
	if got := Compare(ParseOrdering("unknown"), cmp); got != 0 {
		t.Errorf("Compare(unknown) = %d, want 0", got)
	}
}
