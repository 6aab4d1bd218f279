package services

import (
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/state"
)

// SnapshotSource provides the cached task state.
type SnapshotSource interface {
	Snapshot() state.Snapshot
}

type dashboardServiceImpl struct {
	source SnapshotSource
}

// NewDashboardService creates a DashboardService over source.
func NewDashboardService(source SnapshotSource) DashboardService {
	return &dashboardServiceImpl{source: source}
}

// Dashboard builds the home screen summary of the active tasks as of now.
func (d *dashboardServiceImpl) Dashboard(now time.Time) Dashboard {
	snap := d.source.Snapshot()
	active := domain.SortByDueDate(snap.Active)
	return Dashboard{
		ActiveCount:    len(snap.Active),
		CompletedCount: snap.CompletedCount,
		DueToday:       domain.DueToday(active, now),
		Overdue:        domain.Overdue(active, now),
		DueSoon:        domain.DueSoon(active, now),
		Active:         active,
		Categories:     domain.Categories(snap.All),
	}
}
