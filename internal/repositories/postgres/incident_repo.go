package postgres

import (
	"context"
	"errors"

	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
	"gorm.io/gorm"
)

type IncidentRepository interface {
	Create(ctx context.Context, in *models.Incident) error
	GetByID(ctx context.Context, id string) (*models.Incident, error)
	List(ctx context.Context, category string, limit, offset int) ([]models.Incident, error)
	Update(ctx context.Context, in *models.Incident) error
	Delete(ctx context.Context, id string) error
}

type incidentRepo struct {
	db *gorm.DB
}

func NewIncidentRepo(db *gorm.DB) IncidentRepository {
	return &incidentRepo{db: db}
}

func (r *incidentRepo) Create(ctx context.Context, in *models.Incident) error {
	return r.db.WithContext(ctx).Create(in).Error
}

func (r *incidentRepo) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	var in models.Incident
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&in).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &in, err
}

func (r *incidentRepo) List(ctx context.Context, category string, limit, offset int) ([]models.Incident, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var out []models.Incident
	err := q.Find(&out).Error
	return out, err
}

func (r *incidentRepo) Update(ctx context.Context, in *models.Incident) error {
	res := r.db.WithContext(ctx).
		Model(&models.Incident{}).
		Where("id = ?", in.ID).
		Updates(map[string]any{
			"title":      in.Title,
			"body":       in.Body,
			"category":   in.Category,
			"units":      in.Units,
			"details":    in.Details,
			"media_path": in.MediaPath,
			"updated_at": in.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *incidentRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Incident{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
