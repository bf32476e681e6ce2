package roster

import (
	"sort"
	"strings"

	"github.com/gradehub/gradebook-api/internal/models"
)

// FilterMode narrows the roster by performance band.
type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterPassing   FilterMode = "passing"
	FilterFailing   FilterMode = "failing"
	FilterExcellent FilterMode = "excellent"
)

// SortKey selects the roster ordering.
type SortKey string

const (
	SortByName       SortKey = "name"
	SortByPercentage SortKey = "percentage"
	SortByTotal      SortKey = "total"
	SortByStudentID  SortKey = "studentId"
)

// Query captures the view inputs. The zero value matches everything and
// sorts by name.
type Query struct {
	Search string
	Filter FilterMode
	Sort   SortKey
}

// Normalize fills in defaults and rejects unknown enum values by mapping
// them onto the defaults.
func (q Query) Normalize() Query {
	q.Search = strings.TrimSpace(q.Search)
	switch q.Filter {
	case FilterPassing, FilterFailing, FilterExcellent:
	default:
		q.Filter = FilterAll
	}
	switch q.Sort {
	case SortByPercentage, SortByTotal, SortByStudentID:
	default:
		q.Sort = SortByName
	}
	return q
}

// ApplyView produces the filtered, sorted projection of the roster. The
// input slice is never mutated; the result is a fresh slice recomputed in
// full on every call.
func ApplyView(students []models.Student, q Query) []models.Student {
	q = q.Normalize()

	view := make([]models.Student, 0, len(students))
	search := strings.ToLower(q.Search)
	for _, s := range students {
		if search != "" && !matchesSearch(s, search) {
			continue
		}
		if !matchesFilter(s, q.Filter) {
			continue
		}
		view = append(view, s)
	}

	sortView(view, q.Sort)
	return view
}

func matchesSearch(s models.Student, search string) bool {
	return strings.Contains(strings.ToLower(s.Name), search) ||
		strings.Contains(strings.ToLower(s.Email), search) ||
		strings.Contains(strings.ToLower(s.StudentID), search)
}

func matchesFilter(s models.Student, mode FilterMode) bool {
	switch mode {
	case FilterPassing:
		return s.Percentage >= 50
	case FilterFailing:
		return s.Percentage < 50
	case FilterExcellent:
		return s.Percentage >= 80
	default:
		return true
	}
}

// sortView orders the slice stably: text keys ascending and
// case-insensitive, numeric keys descending.
func sortView(view []models.Student, key SortKey) {
	switch key {
	case SortByPercentage:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Percentage > view[j].Percentage
		})
	case SortByTotal:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Total > view[j].Total
		})
	case SortByStudentID:
		sort.SliceStable(view, func(i, j int) bool {
			return compareFold(view[i].StudentID, view[j].StudentID)
		})
	default:
		sort.SliceStable(view, func(i, j int) bool {
			return compareFold(view[i].Name, view[j].Name)
		})
	}
}

func compareFold(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		// Deterministic order for case-only differences.
		return a < b
	}
	return la < lb
}
