package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"github.com/wpwscannerapp/scanner-feed/internal/realtime"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

func TestSettingsGet_DefaultsWhenEmpty(t *testing.T) {
	t.Parallel()

	svc := NewSettingsService(&fakeSettingsRepo{}, &fakePublisher{})

	st, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st.PrimaryColor != defaultSettings.PrimaryColor || st.FontFamily != defaultSettings.FontFamily {
		t.Fatalf("empty store served %+v, want defaults", st)
	}
}

func TestSettingsUpdate_PublishesTheme(t *testing.T) {
	t.Parallel()

	repo := &fakeSettingsRepo{}
	pub := &fakePublisher{}
	svc := NewSettingsService(repo, pub)

	theme, err := svc.Update(context.Background(), &models.AppSettings{
		ID:             models.SettingsSingletonID,
		PrimaryColor:   "#336699",
		SecondaryColor: "#cc3300",
		FontFamily:     "Roboto, sans-serif",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if theme.Primary.Hex != "#336699" {
		t.Fatalf("primary hex = %q, want #336699", theme.Primary.Hex)
	}

	channels := pub.published()
	if len(channels) != 1 || channels[0] != realtime.ChannelSettings {
		t.Fatalf("published on %v, want exactly one message on %q", channels, realtime.ChannelSettings)
	}

	var msg struct {
		Type  string        `json:"type"`
		Theme *models.Theme `json:"theme"`
	}
	if err := json.Unmarshal(pub.payloads[0], &msg); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if msg.Type != "settings" || msg.Theme == nil {
		t.Fatalf("payload = %+v, want type=settings with a theme", msg)
	}

	// the row actually landed
	st, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get after Update: %v", err)
	}
	if st.PrimaryColor != "#336699" {
		t.Fatalf("stored primary = %q, want #336699", st.PrimaryColor)
	}
}

func TestSettingsUpdate_RejectsBadHex(t *testing.T) {
	t.Parallel()

	repo := &fakeSettingsRepo{}
	pub := &fakePublisher{}
	svc := NewSettingsService(repo, pub)

	_, err := svc.Update(context.Background(), &models.AppSettings{
		ID:             models.SettingsSingletonID,
		PrimaryColor:   "blue",
		SecondaryColor: "#cc3300",
	})
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("err = %v, want INVALID_ARGUMENT", err)
	}
	if repo.row != nil {
		t.Fatal("invalid settings reached the store")
	}
	if len(pub.published()) != 0 {
		t.Fatal("invalid settings were broadcast")
	}
}

func TestSettingsUpdate_NilBody(t *testing.T) {
	t.Parallel()

	svc := NewSettingsService(&fakeSettingsRepo{}, &fakePublisher{})
	_, err := svc.Update(context.Background(), nil)
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("err = %v, want INVALID_ARGUMENT", err)
	}
}

func TestSettingsTheme_DerivedChannels(t *testing.T) {
	t.Parallel()

	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, &fakePublisher{})
	ctx := context.Background()

	if _, err := svc.Update(ctx, &models.AppSettings{
		ID:             models.SettingsSingletonID,
		PrimaryColor:   "#ff0000",
		SecondaryColor: "#00ff00",
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	theme, err := svc.Theme(ctx)
	if err != nil {
		t.Fatalf("Theme: %v", err)
	}
	if theme.Primary.RGB != [3]uint8{255, 0, 0} {
		t.Fatalf("primary RGB = %v, want [255 0 0]", theme.Primary.RGB)
	}
	if theme.Primary.HSL != [3]float64{0, 100, 50} {
		t.Fatalf("primary HSL = %v, want [0 100 50]", theme.Primary.HSL)
	}
	if theme.Primary.Dark == theme.Primary.Hex {
		t.Fatal("darkened shade equals the base color")
	}
	if theme.Secondary.RGB != [3]uint8{0, 255, 0} {
		t.Fatalf("secondary RGB = %v, want [0 255 0]", theme.Secondary.RGB)
	}
}
