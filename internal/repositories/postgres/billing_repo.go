package postgres

import (
	"context"

	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BillingEventRepository interface {
	// Record stores the event once; replays of the same event_id report
	// duplicate=true and change nothing.
	Record(ctx context.Context, ev *models.BillingEvent) (duplicate bool, err error)
}

type billingRepo struct {
	db *gorm.DB
}

func NewBillingEventRepo(db *gorm.DB) BillingEventRepository {
	return &billingRepo{db: db}
}

func (r *billingRepo) Record(ctx context.Context, ev *models.BillingEvent) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(ev)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 0, nil
}
