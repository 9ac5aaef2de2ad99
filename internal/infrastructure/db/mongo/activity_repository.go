package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/boardhub/board-gateway/internal/core/domain"
)

const activityCollection = "activity_events"

// ActivityRepository persists the session activity trail.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

type activityDoc struct {
	ID          string `bson:"_id"`
	SessionID   string `bson:"session_id"`
	UserID      int64  `bson:"user_id,omitempty"`
	Kind        string `bson:"kind"`
	Destination string `bson:"destination,omitempty"`
	ProjectID   int64  `bson:"project_id,omitempty"`
	At          int64  `bson:"at"`
}

func (r *ActivityRepository) Insert(ctx context.Context, event domain.ActivityEvent) error {
	doc := activityDoc{
		ID:          event.ID,
		SessionID:   event.SessionID,
		UserID:      event.UserID,
		Kind:        string(event.Kind),
		Destination: string(event.Destination),
		ProjectID:   event.ProjectID,
		At:          event.At.UnixMilli(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.ActivityEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []activityDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}

	events := make([]domain.ActivityEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, domain.ActivityEvent{
			ID:          d.ID,
			SessionID:   d.SessionID,
			UserID:      d.UserID,
			Kind:        domain.ActivityKind(d.Kind),
			Destination: domain.Destination(d.Destination),
			ProjectID:   d.ProjectID,
			At:          time.UnixMilli(d.At).UTC(),
		})
	}
	return events, nil
}

// DeleteOlderThan removes trail entries older than the retention window.
func (r *ActivityRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).UnixMilli()
	res, err := r.coll.DeleteMany(ctx, bson.M{"at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("purge activity: %w", err)
	}
	return res.DeletedCount, nil
}
