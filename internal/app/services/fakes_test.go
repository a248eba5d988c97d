package services

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	appAuth "github.com/bizlink/alliance/internal/app/auth"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/bizlink/alliance/internal/pkg/liststore"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errNotFound = &dberrors.GatewayError{Code: dberrors.CodeNotFound, Message: "no rows returned"}

func newTestStore(t *testing.T) liststore.Store {
	t.Helper()
	s, err := liststore.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "lists.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func viewerFor(tier models.Tier) *appAuth.Viewer {
	return &appAuth.Viewer{
		AccountID: uuid.New(),
		Email:     string(tier) + "@example.com",
		Name:      strings.ToUpper(string(tier[:1])) + string(tier[1:]) + " Member",
		Tier:      tier,
	}
}

func fixedClock(s string) func() time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

var nopLogger = zerolog.Nop()

// accounts

type fakeAccounts struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*models.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: map[uuid.UUID]*models.Account{}}
}

func (f *fakeAccounts) Create(_ context.Context, email, hash string, meta models.AccountMetadata) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email {
			return nil, &dberrors.GatewayError{Code: dberrors.CodeUniqueViolation, Message: "duplicate"}
		}
	}
	acc := &models.Account{ID: uuid.New(), Email: email, PasswordHash: hash, Metadata: meta, CreatedAt: time.Now()}
	f.byID[acc.ID] = acc
	return acc, nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, errNotFound
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == strings.ToLower(email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeAccounts) UpdateMetadata(_ context.Context, id uuid.UUID, meta models.AccountMetadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return errNotFound
	}
	a.Metadata = meta
	return nil
}

func (f *fakeAccounts) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return errNotFound
	}
	now := time.Now()
	a.LastLoginAt = &now
	return nil
}

// profiles

type fakeProfiles struct {
	mu    sync.Mutex
	order []uuid.UUID
	byID  map[uuid.UUID]models.Profile
}

func newFakeProfiles(profiles ...models.Profile) *fakeProfiles {
	f := &fakeProfiles{byID: map[uuid.UUID]models.Profile{}}
	for _, p := range profiles {
		f.put(p)
	}
	return f
}

func (f *fakeProfiles) put(p models.Profile) {
	if _, ok := f.byID[p.ID]; !ok {
		f.order = append(f.order, p.ID)
	}
	f.byID[p.ID] = p
}

func (f *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byID[id]; ok {
		return &p, nil
	}
	return nil, errNotFound
}

func (f *fakeProfiles) List(_ context.Context) ([]models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Profile, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.byID[id])
	}
	return out, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := *p
	if existing, ok := f.byID[p.ID]; ok {
		next.MembershipType = existing.MembershipType
	}
	f.put(next)
	return nil
}

func (f *fakeProfiles) UpdateMembership(_ context.Context, id uuid.UUID, tier models.Tier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return errNotFound
	}
	p.MembershipType = tier
	f.byID[id] = p
	return nil
}

// events

type fakeEvents struct {
	mu      sync.Mutex
	rows    []models.StoredEvent
	listErr error
}

func (f *fakeEvents) List(_ context.Context) ([]models.StoredEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.StoredEvent(nil), f.rows...), nil
}

func (f *fakeEvents) ListByAuthor(_ context.Context, authorID uuid.UUID) ([]models.StoredEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.StoredEvent{}
	for _, e := range f.rows {
		if e.AuthorID == authorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvents) GetByID(_ context.Context, id uuid.UUID) (*models.StoredEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.rows {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeEvents) Create(_ context.Context, e *models.StoredEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	f.rows = append(f.rows, *e)
	return nil
}

func (f *fakeEvents) Update(_ context.Context, e *models.StoredEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == e.ID {
			f.rows[i] = *e
			return nil
		}
	}
	return errNotFound
}

func (f *fakeEvents) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (f *fakeEvents) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

// waitlist

type fakeWaitlist struct {
	mu     sync.Mutex
	emails map[string]bool
	err    error
}

func (f *fakeWaitlist) Insert(_ context.Context, email string) (*models.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.emails == nil {
		f.emails = map[string]bool{}
	}
	if f.emails[email] {
		return nil, &dberrors.GatewayError{Code: dberrors.CodeUniqueViolation, Message: "duplicate"}
	}
	f.emails[email] = true
	return &models.WaitlistEntry{ID: uuid.New(), Email: email, CreatedAt: time.Now()}, nil
}

// tokens

type fakeTokens struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeTokens) CreateToken(_ context.Context, token string, accountID uuid.UUID, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = &models.RefreshToken{Token: token, AccountID: accountID, ExpiryDate: expiry, CreatedAt: time.Now()}
	return nil
}

func (f *fakeTokens) GetTokenByValue(_ context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	if t.IsRevoked {
		return nil, apperrors.ErrTokenRevoked
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTokens) RevokeToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[token]; ok {
		t.IsRevoked = true
	}
	return nil
}

func (f *fakeTokens) RevokeAllAccountTokens(_ context.Context, accountID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.AccountID == accountID {
			t.IsRevoked = true
		}
	}
	return nil
}

func (f *fakeTokens) CleanupExpiredTokens(_ context.Context) (int64, error) {
	return 0, nil
}

// feed and webhook doubles

type mockFeed struct {
	mock.Mock
}

func (m *mockFeed) Configured() bool {
	return m.Called().Bool(0)
}

func (m *mockFeed) Fetch(ctx context.Context) ([]models.FeedEvent, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.FeedEvent)
	return items, args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Configured() bool {
	return m.Called().Bool(0)
}

func (m *mockSender) Send(ctx context.Context, payload interface{}) error {
	return m.Called(ctx, payload).Error(0)
}
