package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAccounts struct {
	byEmail map[string]*models.Account
}

func (s *stubAccounts) Create(_ context.Context, email, hash string, meta models.AccountMetadata) (*models.Account, error) {
	if _, ok := s.byEmail[email]; ok {
		return nil, &dberrors.GatewayError{Op: "accounts.create", Code: dberrors.CodeUniqueViolation, Message: "duplicate key"}
	}
	a := &models.Account{ID: uuid.New(), Email: email, PasswordHash: hash, Metadata: meta}
	s.byEmail[email] = a
	return a, nil
}

func (s *stubAccounts) GetByID(context.Context, uuid.UUID) (*models.Account, error) {
	return nil, &dberrors.GatewayError{Code: dberrors.CodeNotFound}
}

func (s *stubAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	if a, ok := s.byEmail[email]; ok {
		return a, nil
	}
	return nil, &dberrors.GatewayError{Code: dberrors.CodeNotFound}
}

func (s *stubAccounts) UpdateMetadata(context.Context, uuid.UUID, models.AccountMetadata) error {
	return nil
}

func (s *stubAccounts) TouchLastLogin(context.Context, uuid.UUID) error {
	return nil
}

type stubProfiles struct {
	saved []models.Profile
	err   error
}

func (s *stubProfiles) GetByID(context.Context, uuid.UUID) (*models.Profile, error) {
	return nil, &dberrors.GatewayError{Code: dberrors.CodeNotFound}
}

func (s *stubProfiles) List(context.Context) ([]models.Profile, error) {
	return s.saved, nil
}

func (s *stubProfiles) Upsert(_ context.Context, p *models.Profile) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, *p)
	return nil
}

func (s *stubProfiles) UpdateMembership(context.Context, uuid.UUID, models.Tier) error {
	return nil
}

func TestParseUsers(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{name: "bare array", input: `[{"email":"a@x.com"},{"email":"b@x.com"}]`, want: 2},
		{name: "wrapped", input: `{"users":[{"email":"a@x.com"}]}`, want: 1},
		{name: "empty array", input: `[]`, wantErr: ErrNoUsers},
		{name: "object without users", input: `{"members":[]}`, wantErr: ErrNoUsers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := ParseUsers([]byte(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, users, tt.want)
		})
	}

	_, err := ParseUsers([]byte(`not json`))
	assert.Error(t, err)
}

func TestTierFromRole(t *testing.T) {
	tests := []struct {
		role string
		want models.Tier
		ok   bool
	}{
		{"Board Member", models.TierBoard, true},
		{"admin", models.TierBoard, true},
		{"Regular", models.TierPremium, true},
		{"premium", models.TierPremium, true},
		{"guest", models.TierFree, true},
		{"Free member", models.TierFree, true},
		{"visitor", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := TierFromRole(tt.role)
		assert.Equal(t, tt.ok, ok, tt.role)
		assert.Equal(t, tt.want, got, tt.role)
	}

	tier, ok := TierFromDatabaseRole("user")
	assert.False(t, ok)
	assert.Empty(t, tier)
	tier, ok = TierFromDatabaseRole("Admin")
	assert.True(t, ok)
	assert.Equal(t, models.TierBoard, tier)
}

func TestNormalize(t *testing.T) {
	t.Run("snake case fields", func(t *testing.T) {
		u, err := Normalize(UserRecord{
			Email:          " Jane@Example.COM ",
			FirstName:      "Jane",
			LastName:       "Doe",
			BusinessName:   "Doe Legal",
			Chapter:        "Denver",
			MembershipType: "premium",
			LinkedIn:       "https://linkedin.com/in/jane",
		})
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", u.Email)
		assert.Equal(t, "Jane Doe", u.Profile.Name)
		assert.Equal(t, "Doe Legal", u.Profile.BusinessName)
		assert.Equal(t, "Denver", u.Profile.Chapter)
		assert.Equal(t, models.TierPremium, u.Profile.MembershipType)
		assert.Equal(t, "https://linkedin.com/in/jane", u.Profile.Socials.LinkedIn)
		assert.NotEmpty(t, u.Password)
	})

	t.Run("camel case fields", func(t *testing.T) {
		u, err := Normalize(UserRecord{
			Email:             "sam@example.com",
			Password:          "given-password",
			FirstNameCamel:    "Sam",
			BusinessNameCamel: "Sam's Bakery",
			HomeChapter:       "Boulder",
			BizlinkRole:       "Regular Member",
			SocialMedia:       &SocialMedia{Facebook: "https://facebook.com/sams"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Sam", u.Profile.Name)
		assert.Equal(t, "given-password", u.Password)
		assert.Equal(t, "Sam's Bakery", u.Profile.BusinessName)
		assert.Equal(t, "Boulder", u.Profile.Chapter)
		assert.Equal(t, models.TierPremium, u.Profile.MembershipType)
		assert.Equal(t, "https://facebook.com/sams", u.Profile.Socials.Facebook)
	})

	t.Run("database role wins over community role", func(t *testing.T) {
		u, err := Normalize(UserRecord{Email: "b@example.com", DatabaseRole: "admin", BizlinkRole: "guest"})
		require.NoError(t, err)
		assert.Equal(t, models.TierBoard, u.Profile.MembershipType)
	})

	t.Run("name falls back to email local part", func(t *testing.T) {
		u, err := Normalize(UserRecord{Email: "pat@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "pat", u.Profile.Name)
		assert.Equal(t, models.TierFree, u.Profile.MembershipType)
	})
}

func TestImport(t *testing.T) {
	accounts := &stubAccounts{byEmail: map[string]*models.Account{
		"existing@example.com": {ID: uuid.New(), Email: "existing@example.com"},
	}}
	profiles := &stubProfiles{}
	importer := NewUserImporter(accounts, profiles, zerolog.Nop())

	input := `{"users":[
		{"email":"new@example.com","first_name":"New","last_name":"Member","bizlinkRole":"board"},
		{"email":"existing@example.com"},
		{"name":"No Email"}
	]}`

	res, err := importer.Import(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 2, res.Skipped)
	assert.Zero(t, res.ProfileErrors)

	require.Len(t, profiles.saved, 1)
	saved := profiles.saved[0]
	assert.Equal(t, accounts.byEmail["new@example.com"].ID, saved.ID)
	assert.Equal(t, "New Member", saved.Name)
	assert.Equal(t, models.TierBoard, saved.MembershipType)
}

func TestImportCountsProfileErrors(t *testing.T) {
	accounts := &stubAccounts{byEmail: map[string]*models.Account{}}
	profiles := &stubProfiles{err: errors.New("profiles unavailable")}
	importer := NewUserImporter(accounts, profiles, zerolog.Nop())

	res, err := importer.Import(context.Background(), strings.NewReader(`[{"email":"a@example.com"}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.ProfileErrors)
}

func TestImportRejectsEmptyInput(t *testing.T) {
	importer := NewUserImporter(&stubAccounts{byEmail: map[string]*models.Account{}}, &stubProfiles{}, zerolog.Nop())
	_, err := importer.Import(context.Background(), strings.NewReader(`[]`))
	assert.ErrorIs(t, err, ErrNoUsers)
}
