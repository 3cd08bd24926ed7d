package dashboard

import "context"

type Service interface {
	// GetMonthlySummary aggregates a worker's priced shifts for one month and
	// compares net income with the month before.
	GetMonthlySummary(ctx context.Context, req SummaryRequest) (MonthlySummary, error)
	GetDashboard(ctx context.Context, req DashboardRequest) (Dashboard, error)
}
