package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/satshine/satshine-backend/internal/domain/audit"
	"github.com/satshine/satshine-backend/internal/pkg/database"
)

// auditDocument is the archived shape of an audit entry. The Postgres id is
// the document _id so re-archiving the same entry is a no-op.
type auditDocument struct {
	ID              string                 `bson:"_id"`
	Action          string                 `bson:"action"`
	ActorID         *string                `bson:"actor_id,omitempty"`
	ActorName       *string                `bson:"actor_name,omitempty"`
	AttendanceID    *string                `bson:"attendance_id,omitempty"`
	TravelRequestID *string                `bson:"travel_request_id,omitempty"`
	EmployeeID      *string                `bson:"employee_id,omitempty"`
	Reason          *string                `bson:"reason,omitempty"`
	Details         map[string]interface{} `bson:"details,omitempty"`
	CreatedAt       time.Time              `bson:"created_at"`
	// BSON dates hold milliseconds; the cursor needs Postgres' microseconds.
	CreatedAtMicros int64                  `bson:"created_at_us"`
	ArchivedAt      time.Time              `bson:"archived_at"`
}

type auditArchive struct {
	coll *mongo.Collection
}

// NewAuditArchive opens the audit_logs collection and ensures its indexes.
func NewAuditArchive(ctx context.Context, db *database.MongoDB) (audit.Archive, error) {
	coll := db.Database.Collection("audit_logs")

	if _, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at_us", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "attendance_id", Value: 1}}},
		{Keys: bson.D{{Key: "action", Value: 1}, {Key: "created_at", Value: -1}}},
	}); err != nil {
		return nil, fmt.Errorf("create audit_logs indexes: %w", err)
	}

	return &auditArchive{coll: coll}, nil
}

// Store inserts entries, skipping any already archived.
func (a *auditArchive) Store(ctx context.Context, entries []audit.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, auditDocument{
			ID:              e.ID,
			Action:          string(e.Action),
			ActorID:         e.ActorID,
			ActorName:       e.ActorName,
			AttendanceID:    e.AttendanceID,
			TravelRequestID: e.TravelRequestID,
			EmployeeID:      e.EmployeeID,
			Reason:          e.Reason,
			Details:         e.Details,
			CreatedAt:       e.CreatedAt.UTC(),
			CreatedAtMicros: e.CreatedAt.UnixMicro(),
			ArchivedAt:      now,
		})
	}

	_, err := a.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !onlyDuplicateKeys(err) {
		return fmt.Errorf("insert audit archive: %w", err)
	}
	return nil
}

// Cursor returns the created_at and id of the newest archived entry.
func (a *auditArchive) Cursor(ctx context.Context) (time.Time, string, error) {
	var doc auditDocument
	err := a.coll.FindOne(ctx, bson.D{},
		options.FindOne().SetSort(bson.D{{Key: "created_at_us", Value: -1}, {Key: "_id", Value: -1}}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return time.Time{}, "", nil
	}
	if err != nil {
		return time.Time{}, "", fmt.Errorf("find audit archive cursor: %w", err)
	}
	return time.UnixMicro(doc.CreatedAtMicros).UTC(), doc.ID, nil
}

func onlyDuplicateKeys(err error) bool {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return false
	}
	if bwe.WriteConcernError != nil {
		return false
	}
	for _, we := range bwe.WriteErrors {
		if we.Code != 11000 {
			return false
		}
	}
	return true
}
