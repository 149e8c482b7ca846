package report

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidDateRange       = errors.New("end date must be after start date")
	ErrInvalidDate            = errors.New("dates must use the YYYY-MM-DD format")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)

// File is the report collaborator's result contract
type File struct {
	ReportURL string `json:"reportUrl"`
	FileName  string `json:"fileName"`
}

// DateRange is a validated report period
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange validates the startDate/endDate query parameters
func ParseDateRange(startDate, endDate string) (DateRange, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return DateRange{}, ErrInvalidDate
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return DateRange{}, ErrInvalidDate
	}
	if end.Before(start) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{Start: start, End: end}, nil
}

// Generator is the external report-file collaborator. The gateway only
// brokers its results; producing the actual PDF/Excel content is out
// of scope.
type Generator interface {
	UserReport(ctx context.Context, userID string, period DateRange) (File, error)
	GeneralReport(ctx context.Context, period DateRange) (File, error)
}
