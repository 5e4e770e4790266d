package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/wpwscannerapp/scanner-feed/internal/colorx"
	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"github.com/wpwscannerapp/scanner-feed/internal/realtime"
	pgrepo "github.com/wpwscannerapp/scanner-feed/internal/repositories/postgres"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

// darkenPct is the hover/active shade applied to both theme colors.
const darkenPct = 15

var defaultSettings = models.AppSettings{
	ID:             models.SettingsSingletonID,
	PrimaryColor:   "#1e3a8a",
	SecondaryColor: "#dc2626",
	FontFamily:     "Inter, sans-serif",
}

type SettingsService interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	// Theme returns the derived value object clients actually consume.
	Theme(ctx context.Context) (*models.Theme, error)
	// Update persists the singleton and publishes the new theme on the
	// settings channel so every connected client re-applies it.
	Update(ctx context.Context, s *models.AppSettings) (*models.Theme, error)
}

type settingsService struct {
	settings pgrepo.SettingsRepository
	pub      realtime.Publisher
}

func NewSettingsService(settings pgrepo.SettingsRepository, pub realtime.Publisher) SettingsService {
	return &settingsService{settings: settings, pub: pub}
}

func (s *settingsService) Get(ctx context.Context) (*models.AppSettings, error) {
	const op = "SettingsService.Get"

	st, err := s.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// no row yet: serve defaults rather than a broken page
			d := defaultSettings
			return &d, nil
		}
		return nil, utils.E(utils.CodeUnavailable, op, "failed to fetch settings", err)
	}
	return st, nil
}

func (s *settingsService) Theme(ctx context.Context) (*models.Theme, error) {
	st, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return deriveTheme(st)
}

func (s *settingsService) Update(ctx context.Context, in *models.AppSettings) (*models.Theme, error) {
	const op = "SettingsService.Update"

	if in == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "settings body is required", nil)
	}
	in.UpdatedAt = time.Now().UTC()

	// validate colors up front so a bad hex never lands in the row
	theme, err := deriveTheme(in)
	if err != nil {
		return nil, err
	}

	if err := s.settings.Upsert(ctx, in); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save settings", err)
	}

	payload, err := json.Marshal(map[string]any{"type": "settings", "theme": theme})
	if err == nil {
		_ = s.pub.Publish(ctx, realtime.ChannelSettings, payload)
	}
	return theme, nil
}

func deriveTheme(st *models.AppSettings) (*models.Theme, error) {
	const op = "SettingsService.Theme"

	primary, err := deriveColor(st.PrimaryColor)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid primary color", err)
	}
	secondary, err := deriveColor(st.SecondaryColor)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid secondary color", err)
	}

	return &models.Theme{
		Primary:    primary,
		Secondary:  secondary,
		FontFamily: st.FontFamily,
		CustomCSS:  st.CustomCSS,
		UpdatedAt:  st.UpdatedAt,
	}, nil
}

func deriveColor(hex string) (models.ColorChannels, error) {
	h, s, l, err := colorx.HexToHSL(hex)
	if err != nil {
		return models.ColorChannels{}, err
	}
	r, g, b, err := colorx.HexToRGB(hex)
	if err != nil {
		return models.ColorChannels{}, err
	}
	dark, err := colorx.DarkenHex(hex, darkenPct)
	if err != nil {
		return models.ColorChannels{}, err
	}
	return models.ColorChannels{
		Hex:  colorx.RGBToHex(r, g, b),
		HSL:  [3]float64{h, s, l},
		RGB:  [3]uint8{r, g, b},
		Dark: dark,
	}, nil
}
