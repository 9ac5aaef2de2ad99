package ports

import (
	"context"

	"github.com/boardhub/board-gateway/internal/core/domain"
)

// ActivityRecorder accepts events for asynchronous recording. Record must not
// block the request path; implementations queue and drop on overflow.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}

// ActivityRepository persists and queries the activity trail.
type ActivityRepository interface {
	Insert(ctx context.Context, event domain.ActivityEvent) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.ActivityEvent, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}
