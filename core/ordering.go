package core

import "strings"

// Ordering is one `field` / `-field` term of an ordering string such as "-created_at,title".
type Ordering struct {
	Field     string
	Ascending bool
}

func (ord Ordering) String() string {
	if ord.Ascending {
		return ord.Field
	}
	return "-" + ord.Field
}

// ParseOrdering splits a comma separated ordering string. Empty terms are skipped.
func ParseOrdering(s string) []Ordering {
	var orderings []Ordering
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		orderings = append(orderings, Ordering{Field: strings.ToLower(field), Ascending: !descending})
	}
	return orderings
}

// Compare returns the result of the first ordering that distinguishes a from b.
// cmp returns <0, 0 or >0 for a single field, and ok=false for unknown fields, which are ignored.
func Compare(orderings []Ordering, cmp func(field string) (res int, ok bool)) int {
	for _, ord := range orderings {
		res, ok := cmp(ord.Field)
		if !ok || res == 0 {
			continue
		}
		if !ord.Ascending {
			res = -res
		}
		return res
	}
	return 0
}
