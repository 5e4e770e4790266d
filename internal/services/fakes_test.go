package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

// memCache is an in-process cache.Cache that counts invalidations.
type memCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	delCalls int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delCalls++
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) dels() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delCalls
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	rows     map[string]*models.Profile
	getCalls int
	// getErrs is consumed one per GetByUserID call before the row is
	// consulted; nil entries mean "no injected failure".
	getErrs []error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{rows: map[string]*models.Profile{}}
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if len(r.getErrs) > 0 {
		err := r.getErrs[0]
		r.getErrs = r.getErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	p, ok := r.rows[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) EnsureDefault(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[userID]; ok {
		return nil
	}
	now := time.Now().UTC()
	r.rows[userID] = &models.Profile{
		UserID:             userID,
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionNone,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return nil
}

func (r *fakeProfileRepo) Update(_ context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.rows[p.UserID] = &cp
	return nil
}

func (r *fakeProfileRepo) SetRole(_ context.Context, userID string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[userID]
	if !ok {
		return utils.ErrNotFound
	}
	p.Role = role
	return nil
}

func (r *fakeProfileRepo) SetSubscriptionStatus(_ context.Context, userID string, status models.SubscriptionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[userID]
	if !ok {
		return utils.ErrNotFound
	}
	p.SubscriptionStatus = status
	return nil
}

func (r *fakeProfileRepo) List(_ context.Context, limit, offset int) ([]models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Profile, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, *p)
	}
	return out, nil
}

type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return utils.ErrConflict
	}
	cp := *u
	r.byEmail[u.Email] = &cp
	r.byID[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) TouchSignIn(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.LastSignInAt = at
	}
	return nil
}

func (r *fakeUserRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

type fakeResetRepo struct {
	mu   sync.Mutex
	rows map[string]*models.PasswordReset
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{rows: map[string]*models.PasswordReset{}}
}

func (r *fakeResetRepo) Create(_ context.Context, pr *models.PasswordReset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *pr
	r.rows[pr.Token] = &cp
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, token string) (*models.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.rows[token]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *pr
	return &cp, nil
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.rows[token]
	if !ok {
		return utils.ErrNotFound
	}
	pr.Used = true
	return nil
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: map[string]bool{}}
}

func (r *fakeRevoker) Revoke(_ context.Context, jti string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = true
	return nil
}

func (r *fakeRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[jti], nil
}

type fakePublisher struct {
	mu       sync.Mutex
	channels []string
	payloads [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, channel string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels = append(p.channels, channel)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.channels...)
}

type fakeSettingsRepo struct {
	mu  sync.Mutex
	row *models.AppSettings
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*models.AppSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.row == nil {
		return nil, utils.ErrNotFound
	}
	cp := *r.row
	return &cp, nil
}

func (r *fakeSettingsRepo) Upsert(_ context.Context, s *models.AppSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.row = &cp
	return nil
}

// probePush stubs PushService for bootstrap tests. Only ProbeReady and
// Unsubscribe are exercised.
type probePush struct {
	mu           sync.Mutex
	probeCalls   int
	probeDelay   time.Duration
	probeReady   bool
	probeErr     error
	unsubscribed []string
}

func (p *probePush) Subscribe(context.Context, string, string, string, string) error { return nil }

func (p *probePush) Unsubscribe(_ context.Context, _ string, endpoint string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unsubscribed = append(p.unsubscribed, endpoint)
	return nil
}

func (p *probePush) ProbeReady(ctx context.Context, _ string) (bool, error) {
	p.mu.Lock()
	p.probeCalls++
	delay, ready, err := p.probeDelay, p.probeReady, p.probeErr
	p.mu.Unlock()
	if delay > 0 {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(delay):
		}
	}
	return ready, err
}

func (p *probePush) probes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.probeCalls
}

func (p *probePush) NotifyUser(context.Context, string, string, string) (*DeliveryReport, error) {
	return &DeliveryReport{}, nil
}

func (p *probePush) Broadcast(context.Context, string, string) (*DeliveryReport, error) {
	return &DeliveryReport{}, nil
}
