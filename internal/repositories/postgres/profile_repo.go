package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	// EnsureDefault inserts the default row for userID if none exists.
	// Idempotent: a concurrent insert for the same user is a no-op, never
	// a duplicate row.
	EnsureDefault(ctx context.Context, userID string) error
	Update(ctx context.Context, p *models.Profile) error
	SetRole(ctx context.Context, userID string, role models.Role) error
	SetSubscriptionStatus(ctx context.Context, userID string, status models.SubscriptionStatus) error
	List(ctx context.Context, limit, offset int) ([]models.Profile, error)
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *profileRepo) EnsureDefault(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	p := &models.Profile{
		UserID:             userID,
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionNone,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(p).Error
}

func (r *profileRepo) Update(ctx context.Context, p *models.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "updated_at"}),
		}).
		Create(p).Error
}

func (r *profileRepo) SetRole(ctx context.Context, userID string, role models.Role) error {
	return r.setColumn(ctx, userID, "role", string(role))
}

func (r *profileRepo) SetSubscriptionStatus(ctx context.Context, userID string, status models.SubscriptionStatus) error {
	return r.setColumn(ctx, userID, "subscription_status", string(status))
}

func (r *profileRepo) setColumn(ctx context.Context, userID, col, val string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{col: val, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *profileRepo) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	var out []models.Profile
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	return out, err
}
