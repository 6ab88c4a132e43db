package model

// Stats is a pure aggregation over the in-memory note set.
type Stats struct {
	Total      int
	Completed  int
	Pending    int
	Important  int
	ByPriority map[Priority]int
	ByCategory map[string]int
}

func Aggregate(notes []Note) Stats {
	stats := Stats{
		ByPriority: make(map[Priority]int),
		ByCategory: make(map[string]int),
	}
	for _, note := range notes {
		stats.Total++
		if note.IsCompleted {
			stats.Completed++
		}
		if note.Important() {
			stats.Important++
		}
		stats.ByPriority[note.Priority]++
		stats.ByCategory[note.Category]++
	}
	stats.Pending = stats.Total - stats.Completed
	return stats
}
