package workplace

import "time"

// Workplace - a business where owners schedule workers
type Workplace struct {
	ID            string
	OwnerID       string
	Name          string
	Address       *string
	WeeklyRestDay *string // weekday name; nil falls back to the configured default
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Member - a worker's membership in a workplace
type Member struct {
	WorkplaceID string
	WorkerID    string
	JoinedAt    time.Time
}
