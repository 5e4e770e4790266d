package mongo

import (
	"context"
	"time"

	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const deliveryRetention = 14 * 24 * time.Hour

type DeliveryRepository interface {
	Insert(ctx context.Context, d *models.PushDelivery) error
	ListByUserID(ctx context.Context, userID string, limit int64) ([]models.PushDelivery, error)
}

type deliveryRepo struct {
	col *mongo.Collection
}

func NewDeliveryRepo(db *mongo.Database) DeliveryRepository {
	return &deliveryRepo{col: db.Collection("push_deliveries")}
}

func (r *deliveryRepo) Insert(ctx context.Context, d *models.PushDelivery) error {
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now().UTC()
	}
	if d.ExpiresAt.IsZero() {
		d.ExpiresAt = d.Timestamp.Add(deliveryRetention)
	}
	_, err := r.col.InsertOne(ctx, d)
	return err
}

func (r *deliveryRepo) ListByUserID(ctx context.Context, userID string, limit int64) ([]models.PushDelivery, error) {
	if limit <= 0 {
		limit = 100
	}

	cur, err := r.col.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.PushDelivery
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
