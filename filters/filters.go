// Package filters narrows lists by a free-text term and a category selector.
// A term matches when any configured field contains it, ignoring case. The
// selector must equal the item's category, ignoring case, unless it is empty
// or "all".
// Output keeps the input order.
package filters

import (
	"strings"

	"runclub-api/models"
)

const All = "all"

type Query struct {
	Search   string
	Selector string
}

// Spec describes which fields of T participate in a query.
type Spec[T any] struct {
	Fields   func(T) []string
	Category func(T) string
}

func (q Query) matchesSelector(category string) bool {
	sel := strings.TrimSpace(q.Selector)
	if sel == "" || strings.EqualFold(sel, All) {
		return true
	}
	return strings.EqualFold(sel, category)
}

func (q Query) matchesSearch(fields []string) bool {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Match reports whether a single item passes the query.
func Match[T any](item T, q Query, spec Spec[T]) bool {
	if spec.Category != nil && !q.matchesSelector(spec.Category(item)) {
		return false
	}
	if spec.Fields != nil && !q.matchesSearch(spec.Fields(item)) {
		return false
	}
	return true
}

// Apply returns the matching items. The result is never nil.
func Apply[T any](items []T, q Query, spec Spec[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Match(item, q, spec) {
			out = append(out, item)
		}
	}
	return out
}

var Runs = Spec[models.Run]{
	Fields:   func(r models.Run) []string { return []string{r.Title, r.Location} },
	Category: func(r models.Run) string { return string(r.Difficulty) },
}

var Tips = Spec[models.Tip]{
	Fields:   func(t models.Tip) []string { return []string{t.Title, t.Content} },
	Category: func(t models.Tip) string { return string(t.Category) },
}

var Users = Spec[models.User]{
	Fields:   func(u models.User) []string { return []string{u.Name, u.Email} },
	Category: func(u models.User) string { return string(u.Role) },
}
