package postgres

import (
	"context"

	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PushSubscriptionRepository interface {
	// Upsert is keyed by endpoint; a device re-subscribing refreshes its
	// keys instead of creating a sibling row.
	Upsert(ctx context.Context, s *models.PushSubscription) error
	ListByUserID(ctx context.Context, userID string) ([]models.PushSubscription, error)
	ListAll(ctx context.Context) ([]models.PushSubscription, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type pushRepo struct {
	db *gorm.DB
}

func NewPushSubscriptionRepo(db *gorm.DB) PushSubscriptionRepository {
	return &pushRepo{db: db}
}

func (r *pushRepo) Upsert(ctx context.Context, s *models.PushSubscription) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
		}).
		Create(s).Error
}

func (r *pushRepo) ListByUserID(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	var out []models.PushSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&out).Error
	return out, err
}

func (r *pushRepo) ListAll(ctx context.Context) ([]models.PushSubscription, error) {
	var out []models.PushSubscription
	err := r.db.WithContext(ctx).Find(&out).Error
	return out, err
}

func (r *pushRepo) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.PushSubscription{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}

func (r *pushRepo) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	return r.db.WithContext(ctx).
		Where("endpoint = ?", endpoint).
		Delete(&models.PushSubscription{}).Error
}

func (r *pushRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.PushSubscription{}).Error
}
