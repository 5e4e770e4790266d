package postgres

import (
	"context"
	"errors"

	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	Upsert(ctx context.Context, s *models.AppSettings) error
}

type settingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context) (*models.AppSettings, error) {
	var s models.AppSettings
	err := r.db.WithContext(ctx).
		Where("id = ?", models.SettingsSingletonID).
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *settingsRepo) Upsert(ctx context.Context, s *models.AppSettings) error {
	s.ID = models.SettingsSingletonID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"primary_color", "secondary_color", "font_family", "custom_css", "updated_at"}),
		}).
		Create(s).Error
}
