package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/safevault/safevault-api/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository implements ports.AuditSink, persisting authentication and
// role-management audit events.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	Action  string `bson:"action"`
	Subject string `bson:"subject"`
	Detail  string `bson:"detail,omitempty"`
	At      int64  `bson:"at"`
}

func (r *AuditRepository) Record(ctx context.Context, event ports.AuditEvent) error {
	doc := auditDoc{
		Action:  event.Action,
		Subject: event.Subject,
		Detail:  event.Detail,
		At:      event.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
