package postgres

import (
	"context"
	"errors"

	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
	"gorm.io/gorm"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, pr *models.PasswordReset) error
	GetByToken(ctx context.Context, token string) (*models.PasswordReset, error)
	MarkUsed(ctx context.Context, token string) error
}

type resetRepo struct {
	db *gorm.DB
}

func NewPasswordResetRepo(db *gorm.DB) PasswordResetRepository {
	return &resetRepo{db: db}
}

func (r *resetRepo) Create(ctx context.Context, pr *models.PasswordReset) error {
	return r.db.WithContext(ctx).Create(pr).Error
}

func (r *resetRepo) GetByToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	var pr models.PasswordReset
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		Take(&pr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &pr, err
}

func (r *resetRepo) MarkUsed(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Model(&models.PasswordReset{}).
		Where("token = ?", token).
		Update("used", true).Error
}
