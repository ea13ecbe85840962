package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/safevault/safevault-api/internal/core/domain"
)

const roleCollection = "roles"

// RoleRepository implements ports.RoleStore. Role definitions live in their
// own collection; assignments are the embedded roles array on user documents.
type RoleRepository struct {
	roles *mongo.Collection
	users *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{
		roles: db.Collection(roleCollection),
		users: db.Collection(userCollection),
	}
}

type roleDoc struct {
	Name      string `bson:"_id"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *RoleRepository) Exists(ctx context.Context, name string) (bool, error) {
	n, err := r.roles.CountDocuments(ctx, bson.M{"_id": name})
	if err != nil {
		return false, fmt.Errorf("role exists: %w", err)
	}
	return n > 0, nil
}

func (r *RoleRepository) Create(ctx context.Context, name string) error {
	doc := roleDoc{Name: name, CreatedAt: time.Now().UTC().Unix()}
	if _, err := r.roles.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrRoleExists
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (r *RoleRepository) Assign(ctx context.Context, email, name string) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$addToSet": bson.M{"roles": name}},
	)
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *RoleRepository) Remove(ctx context.Context, email, name string) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$pull": bson.M{"roles": name}},
	)
	if err != nil {
		return fmt.Errorf("remove role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *RoleRepository) ListAll(ctx context.Context) ([]domain.Role, error) {
	cur, err := r.roles.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Role
	for cur.Next(ctx) {
		var doc roleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode role: %w", err)
		}
		out = append(out, domain.Role{Name: doc.Name, CreatedAt: unixToTime(doc.CreatedAt)})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return out, nil
}
