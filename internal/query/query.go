// Package query implements the pure filter/sort pipeline over active
// records. View performs no I/O, never mutates its input, and is safe to
// call from any number of concurrent readers.
package query

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"passvault/internal/server/models"
)

// Sort selects one of the five total orderings. All orderings are stable:
// records with equal keys keep their relative order from the input.
type Sort string

const (
	SortNewest  Sort = "newest"  // createdAt descending
	SortOldest  Sort = "oldest"  // createdAt ascending
	SortEmail   Sort = "email"   // locale-aware ascending on email
	SortUpdated Sort = "updated" // updatedAt descending
	SortStarred Sort = "starred" // starred records first
)

// ParseSort maps a wire value onto a Sort, defaulting to SortNewest for
// unknown or empty input.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortNewest, SortOldest, SortEmail, SortUpdated, SortStarred:
		return Sort(s)
	default:
		return SortNewest
	}
}

// Criteria is the set of predicates applied to the record list. Every field
// is optional; predicates combine with logical AND. The zero value matches
// everything and applies the default ordering.
type Criteria struct {
	// FreeText matches case-insensitively against email or description.
	FreeText string

	// CreatedFrom/CreatedTo are inclusive bounds on CreatedAt.
	CreatedFrom *time.Time
	CreatedTo   *time.Time

	// Domains filters by the lower-cased part of the email after the last
	// '@'. An empty set is a no-op.
	Domains []string

	// HasDescription requires a non-empty trimmed description.
	HasDescription bool

	// StarredOnly requires starred records.
	StarredOnly bool

	// Categories filters by category label; empty set is a no-op. Records
	// without a category are treated as models.DefaultCategory.
	Categories []string

	SortBy Sort
}

// Domain derives the filter-grouping domain of an email address: the
// substring after the last '@', lower-cased, or "" if there is no '@'.
func Domain(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 {
		return ""
	}
	return strings.ToLower(email[i+1:])
}

// View filters records by c and applies the requested ordering. The input
// slice is left untouched; the result is a fresh slice sharing the record
// pointers.
func View(records []*models.Record, c Criteria) []*models.Record {
	out := make([]*models.Record, 0, len(records))

	freeText := strings.ToLower(strings.TrimSpace(c.FreeText))
	domains := toSet(c.Domains, strings.ToLower)
	categories := toSet(c.Categories, nil)

	for _, r := range records {
		if r == nil {
			continue
		}
		if freeText != "" && !matchesText(r, freeText) {
			continue
		}
		if c.CreatedFrom != nil && r.CreatedAt.Before(*c.CreatedFrom) {
			continue
		}
		if c.CreatedTo != nil && r.CreatedAt.After(*c.CreatedTo) {
			continue
		}
		if len(domains) > 0 {
			if _, ok := domains[Domain(r.Email)]; !ok {
				continue
			}
		}
		if c.HasDescription && strings.TrimSpace(r.Description) == "" {
			continue
		}
		if c.StarredOnly && !r.Starred {
			continue
		}
		if len(categories) > 0 {
			cat := r.Category
			if cat == "" {
				cat = models.DefaultCategory
			}
			if _, ok := categories[cat]; !ok {
				continue
			}
		}
		out = append(out, r)
	}

	applySort(out, c.SortBy)
	return out
}

func matchesText(r *models.Record, needle string) bool {
	return strings.Contains(strings.ToLower(r.Email), needle) ||
		strings.Contains(strings.ToLower(r.Description), needle)
}

func toSet(values []string, norm func(string) string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if norm != nil {
			v = norm(v)
		}
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

// tsMillis converts a timestamp to its sort key. Records with an absent
// timestamp sort as epoch 0.
func tsMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func applySort(records []*models.Record, by Sort) {
	switch by {
	case SortOldest:
		sort.SliceStable(records, func(i, j int) bool {
			return tsMillis(records[i].CreatedAt) < tsMillis(records[j].CreatedAt)
		})
	case SortEmail:
		cl := collate.New(language.Und)
		sort.SliceStable(records, func(i, j int) bool {
			return cl.CompareString(records[i].Email, records[j].Email) < 0
		})
	case SortUpdated:
		sort.SliceStable(records, func(i, j int) bool {
			return tsMillis(records[i].UpdatedAt) > tsMillis(records[j].UpdatedAt)
		})
	case SortStarred:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Starred && !records[j].Starred
		})
	case SortNewest:
		sort.SliceStable(records, func(i, j int) bool {
			return tsMillis(records[i].CreatedAt) > tsMillis(records[j].CreatedAt)
		})
	default:
		// No explicit ordering: keep the input's relative order.
	}
}
