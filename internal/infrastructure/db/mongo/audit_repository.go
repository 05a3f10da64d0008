package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/core/ports"
)

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	ID        string    `bson:"_id"`
	Action    string    `bson:"action"`
	UserID    string    `bson:"user_id,omitempty"`
	Email     string    `bson:"email,omitempty"`
	Success   bool      `bson:"success"`
	Detail    string    `bson:"detail,omitempty"`
	IP        string    `bson:"ip,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

// Insert persists an entry to the audit_logs collection.
func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEntry) error {
	doc := auditDoc{
		ID:        e.ID,
		Action:    string(e.Action),
		UserID:    e.UserID,
		Email:     e.Email,
		Success:   e.Success,
		Detail:    e.Detail,
		IP:        e.IP,
		CreatedAt: e.CreatedAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List returns one page of entries, newest first.
func (r *AuditRepository) List(ctx context.Context, f ports.AuditFilter) ([]domain.AuditEntry, int, error) {
	filter := bson.M{}
	if f.Action != "" {
		filter["action"] = string(f.Action)
	}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find audit entries: %w", err)
	}
	defer cur.Close(ctx)

	var docs []auditDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode audit entries: %w", err)
	}

	entries := make([]domain.AuditEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, domain.AuditEntry{
			ID:        d.ID,
			Action:    domain.AuditAction(d.Action),
			UserID:    d.UserID,
			Email:     d.Email,
			Success:   d.Success,
			Detail:    d.Detail,
			IP:        d.IP,
			CreatedAt: d.CreatedAt,
		})
	}
	return entries, int(total), nil
}
