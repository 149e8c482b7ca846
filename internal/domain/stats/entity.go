package stats

// Dashboard holds the aggregate attendance counters shown on the
// admin dashboard. Recomputed wholesale on each stats message; never
// partially mutated.
type Dashboard struct {
	Present      int `json:"present"`
	Absent       int `json:"absent"`
	OnBreak      int `json:"onBreak"`
	LateArrivals int `json:"lateArrivals"`
}

// Total returns the number of tracked employees
func (d Dashboard) Total() int {
	return d.Present + d.Absent + d.OnBreak
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// Percentages are the derived shares used by progress indicators
type Percentages struct {
	Present float64 `json:"presentPercentage"`
	Absent  float64 `json:"absentPercentage"`
	OnBreak float64 `json:"onBreakPercentage"`
}

// DerivePercentages computes the progress-bar shares for a snapshot
func (d Dashboard) DerivePercentages() Percentages {
	total := d.Total()
	return Percentages{
		Present: percentage(d.Present, total),
		Absent:  percentage(d.Absent, total),
		OnBreak: percentage(d.OnBreak, total),
	}
}
