package stats

// DashboardResponse is the fallback-polling and push payload for the
// dashboard counters, including derived percentages
type DashboardResponse struct {
	Dashboard
	Percentages
}

// ToResponse attaches the derived percentages to a snapshot
func ToResponse(d Dashboard) DashboardResponse {
	return DashboardResponse{
		Dashboard:   d,
		Percentages: d.DerivePercentages(),
	}
}
