package services

import (
	"context"
	"errors"
	"time"

	"github.com/wpwscannerapp/scanner-feed/internal/cache"
	"github.com/wpwscannerapp/scanner-feed/internal/models"
	pgrepo "github.com/wpwscannerapp/scanner-feed/internal/repositories/postgres"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

const (
	profileCacheTTL      = 5 * time.Minute
	profileFetchAttempts = 3
	profileFetchBackoff  = 250 * time.Millisecond
)

type ProfileService interface {
	// Resolve ensures a profile row exists for userID and returns it.
	// Lazily creates the default row, retries transient fetch failures,
	// and caches the result per user. A fetch failure or missing row
	// invalidates the cache entry exactly once so the next access
	// re-fetches.
	Resolve(ctx context.Context, userID string) (*models.Profile, error)
	UpdateDisplayName(ctx context.Context, userID, displayName string) (*models.Profile, error)
	SetRole(ctx context.Context, userID string, role models.Role) error
	SetSubscriptionStatus(ctx context.Context, userID string, status models.SubscriptionStatus) error
	List(ctx context.Context, limit, offset int) ([]models.Profile, error)
}

type profileService struct {
	profiles pgrepo.ProfileRepository
	cache    cache.Cache
}

func NewProfileService(profiles pgrepo.ProfileRepository, c cache.Cache) ProfileService {
	return &profileService{profiles: profiles, cache: c}
}

func profileCacheKey(userID string) string { return cache.Key(cache.NSProfile, userID) }

func (s *profileService) Resolve(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.Resolve"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	var cached models.Profile
	if hit, err := s.cache.GetJSON(ctx, profileCacheKey(userID), &cached); err == nil && hit {
		return &cached, nil
	}

	if err := s.profiles.EnsureDefault(ctx, userID); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to ensure profile", err)
	}

	p, err := s.fetchWithRetry(ctx, userID)
	if err != nil {
		// one invalidation per failure, then surface
		_ = s.cache.Del(ctx, profileCacheKey(userID))
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "failed to fetch profile", err)
	}

	_ = s.cache.SetJSON(ctx, profileCacheKey(userID), p, profileCacheTTL)
	return p, nil
}

// fetchWithRetry retries transport failures with fixed backoff. Not-found
// is a definitive answer, never retried.
func (s *profileService) fetchWithRetry(ctx context.Context, userID string) (*models.Profile, error) {
	var lastErr error
	for attempt := 0; attempt < profileFetchAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(profileFetchBackoff):
			}
		}

		p, err := s.profiles.GetByUserID(ctx, userID)
		if err == nil {
			return p, nil
		}
		if errors.Is(err, utils.ErrNotFound) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *profileService) UpdateDisplayName(ctx context.Context, userID, displayName string) (*models.Profile, error) {
	const op = "ProfileService.UpdateDisplayName"

	p, err := s.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	p.DisplayName = displayName
	p.UpdatedAt = time.Now().UTC()
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}

	_ = s.cache.Del(ctx, profileCacheKey(userID))
	return p, nil
}

func (s *profileService) SetRole(ctx context.Context, userID string, role models.Role) error {
	const op = "ProfileService.SetRole"

	if role != models.RoleAdmin && role != models.RoleUser {
		return utils.E(utils.CodeInvalidArgument, op, "unknown role", nil)
	}
	if err := s.profiles.SetRole(ctx, userID, role); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to set role", err)
	}
	_ = s.cache.Del(ctx, profileCacheKey(userID))
	return nil
}

func (s *profileService) SetSubscriptionStatus(ctx context.Context, userID string, status models.SubscriptionStatus) error {
	const op = "ProfileService.SetSubscriptionStatus"

	if err := s.profiles.SetSubscriptionStatus(ctx, userID, status); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to set subscription status", err)
	}
	_ = s.cache.Del(ctx, profileCacheKey(userID))
	return nil
}

func (s *profileService) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	const op = "ProfileService.List"

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	out, err := s.profiles.List(ctx, limit, offset)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list profiles", err)
	}
	return out, nil
}
