package report

import (
	"context"
	"fmt"

	"github.com/inout-manager/realtime-go/internal/domain/report"
)

// LocalGenerator names report files under a download base URL. It
// stands in for the real report-file collaborator, which owns the
// actual PDF/Excel rendering.
type LocalGenerator struct {
	baseURL string
}

func NewLocalGenerator(baseURL string) *LocalGenerator {
	return &LocalGenerator{baseURL: baseURL}
}

func (g *LocalGenerator) UserReport(_ context.Context, userID string, period report.DateRange) (report.File, error) {
	fileName := fmt.Sprintf("reporte-%s-%s-%s.xlsx",
		userID,
		period.Start.Format("20060102"),
		period.End.Format("20060102"),
	)
	return report.File{
		ReportURL: g.baseURL + "/" + fileName,
		FileName:  fileName,
	}, nil
}

func (g *LocalGenerator) GeneralReport(_ context.Context, period report.DateRange) (report.File, error) {
	fileName := fmt.Sprintf("reporte-general-%s-%s.xlsx",
		period.Start.Format("20060102"),
		period.End.Format("20060102"),
	)
	return report.File{
		ReportURL: g.baseURL + "/" + fileName,
		FileName:  fileName,
	}, nil
}
