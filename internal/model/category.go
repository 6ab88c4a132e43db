package model

import "time"

// Filter names reserved for the three built-in pseudo-filters. "All" is
// also seeded as a real category row so unset notes always resolve;
// "Important" and "Completed" exist only as filters.
const (
	FilterAll       = "All"
	FilterImportant = "Important"
	FilterCompleted = "Completed"
)

func IsReservedCategory(name string) bool {
	switch name {
	case FilterAll, FilterImportant, FilterCompleted:
		return true
	default:
		return false
	}
}

type Category struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}

// PriorityInfo is the catalog row behind a Priority value.
type PriorityInfo struct {
	ID    string
	Name  string
	Rank  int
	Color string
}
