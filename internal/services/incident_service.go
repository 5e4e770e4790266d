package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"github.com/wpwscannerapp/scanner-feed/internal/realtime"
	pgrepo "github.com/wpwscannerapp/scanner-feed/internal/repositories/postgres"
	"github.com/wpwscannerapp/scanner-feed/internal/storage"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

const mediaURLTTL = 15 * time.Minute

type CreateIncidentInput struct {
	Title    string
	Body     string
	Category string
	Units    []string
	Details  json.RawMessage
}

type IncidentService interface {
	Create(ctx context.Context, postedBy string, in CreateIncidentInput) (*models.Incident, error)
	Get(ctx context.Context, id string) (*models.Incident, error)
	List(ctx context.Context, category string, limit, offset int) ([]models.Incident, error)
	Update(ctx context.Context, id string, in CreateIncidentInput) (*models.Incident, error)
	Delete(ctx context.Context, id string) error
	AttachMedia(ctx context.Context, id, contentType string, r io.Reader) (*models.Incident, error)
	// MediaURL returns a short-lived signed URL; media stays private so
	// subscription gating holds.
	MediaURL(ctx context.Context, id string) (string, error)
}

type incidentService struct {
	incidents pgrepo.IncidentRepository
	uploader  storage.Uploader
	signer    storage.Signer
	pub       realtime.Publisher
}

func NewIncidentService(incidents pgrepo.IncidentRepository, uploader storage.Uploader, signer storage.Signer, pub realtime.Publisher) IncidentService {
	return &incidentService{incidents: incidents, uploader: uploader, signer: signer, pub: pub}
}

func (s *incidentService) Create(ctx context.Context, postedBy string, in CreateIncidentInput) (*models.Incident, error) {
	const op = "IncidentService.Create"

	if in.Title == "" || in.Category == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title and category are required", nil)
	}

	now := time.Now().UTC()
	inc := &models.Incident{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Body:      in.Body,
		Category:  in.Category,
		Units:     pq.StringArray(in.Units),
		Details:   datatypes.JSON(in.Details),
		PostedBy:  postedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.incidents.Create(ctx, inc); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create incident", err)
	}

	if payload, err := json.Marshal(map[string]any{"type": "incident", "incident": inc}); err == nil {
		_ = s.pub.Publish(ctx, realtime.ChannelIncidents, payload)
	}
	return inc, nil
}

func (s *incidentService) Get(ctx context.Context, id string) (*models.Incident, error) {
	const op = "IncidentService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	inc, err := s.incidents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "incident not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get incident", err)
	}
	return inc, nil
}

func (s *incidentService) List(ctx context.Context, category string, limit, offset int) ([]models.Incident, error) {
	const op = "IncidentService.List"

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	out, err := s.incidents.List(ctx, category, limit, offset)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list incidents", err)
	}
	return out, nil
}

func (s *incidentService) Update(ctx context.Context, id string, in CreateIncidentInput) (*models.Incident, error) {
	const op = "IncidentService.Update"

	inc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		inc.Title = in.Title
	}
	if in.Body != "" {
		inc.Body = in.Body
	}
	if in.Category != "" {
		inc.Category = in.Category
	}
	if in.Units != nil {
		inc.Units = pq.StringArray(in.Units)
	}
	if in.Details != nil {
		inc.Details = datatypes.JSON(in.Details)
	}
	inc.UpdatedAt = time.Now().UTC()

	if err := s.incidents.Update(ctx, inc); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update incident", err)
	}
	return inc, nil
}

func (s *incidentService) Delete(ctx context.Context, id string) error {
	const op = "IncidentService.Delete"

	if err := s.incidents.Delete(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "incident not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete incident", err)
	}
	return nil
}

func (s *incidentService) AttachMedia(ctx context.Context, id, contentType string, r io.Reader) (*models.Incident, error) {
	const op = "IncidentService.AttachMedia"

	if s.uploader == nil {
		return nil, utils.E(utils.CodeInternal, op, "media storage is not configured", nil)
	}

	inc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("incidents/%s/%s", inc.ID, uuid.NewString())
	path, err := s.uploader.Upload(ctx, objectName, contentType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload media", err)
	}

	inc.MediaPath = path
	inc.UpdatedAt = time.Now().UTC()
	if err := s.incidents.Update(ctx, inc); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to record media path", err)
	}
	return inc, nil
}

func (s *incidentService) MediaURL(ctx context.Context, id string) (string, error) {
	const op = "IncidentService.MediaURL"

	if s.signer == nil {
		return "", utils.E(utils.CodeInternal, op, "media storage is not configured", nil)
	}

	inc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if inc.MediaPath == "" {
		return "", utils.E(utils.CodeNotFound, op, "incident has no media", nil)
	}

	url, err := s.signer.SignedGetURL(ctx, inc.MediaPath, mediaURLTTL)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to sign media url", err)
	}
	return url, nil
}
