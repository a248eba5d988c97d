// Package seed loads member accounts exported from earlier systems.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/app/repositories"
	pkgAuth "github.com/bizlink/alliance/internal/pkg/auth"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/rs/zerolog"
)

// ErrNoUsers is returned when the input holds no user records
var ErrNoUsers = errors.New("no users found, expecting an array or {\"users\": [...]}")

// SocialMedia is the nested socials object of some exports
type SocialMedia struct {
	LinkedIn string `json:"linkedin"`
	Facebook string `json:"facebook"`
}

// UserRecord is one exported user. Exports use either snake_case or
// camelCase field names, so both spellings are declared.
type UserRecord struct {
	Email             string       `json:"email"`
	Password          string       `json:"password"`
	Name              string       `json:"name"`
	FirstName         string       `json:"first_name"`
	FirstNameCamel    string       `json:"firstName"`
	LastName          string       `json:"last_name"`
	LastNameCamel     string       `json:"lastName"`
	BusinessName      string       `json:"business_name"`
	BusinessNameCamel string       `json:"businessName"`
	Industry          string       `json:"industry"`
	Phone             string       `json:"phone"`
	Bio               string       `json:"bio"`
	Website           string       `json:"website"`
	Chapter           string       `json:"chapter"`
	HomeChapter       string       `json:"homeChapter"`
	MembershipType    string       `json:"membership_type"`
	BizlinkRole       string       `json:"bizlinkRole"`
	DatabaseRole      string       `json:"databaseRole"`
	LinkedIn          string       `json:"linkedin"`
	Facebook          string       `json:"facebook"`
	SocialMedia       *SocialMedia `json:"socialMedia"`
}

// ImportedUser is a normalized record ready to be stored
type ImportedUser struct {
	Email    string
	Password string
	Profile  models.Profile
}

// Result counts the outcome of an import run
type Result struct {
	Total         int
	Created       int
	Skipped       int
	ProfileErrors int
}

// ParseUsers decodes either a bare array of users or an object with a users array
func ParseUsers(data []byte) ([]UserRecord, error) {
	var list []UserRecord
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) == 0 {
			return nil, ErrNoUsers
		}
		return list, nil
	}

	var wrapped struct {
		Users []UserRecord `json:"users"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}
	if len(wrapped.Users) == 0 {
		return nil, ErrNoUsers
	}
	return wrapped.Users, nil
}

// TierFromRole maps a free-form community role to a membership tier
func TierFromRole(role string) (models.Tier, bool) {
	v := strings.ToLower(role)
	switch {
	case v == "":
		return "", false
	case strings.Contains(v, "board"), strings.Contains(v, "admin"):
		return models.TierBoard, true
	case strings.Contains(v, "regular"), strings.Contains(v, "premium"):
		return models.TierPremium, true
	case strings.Contains(v, "free"), strings.Contains(v, "guest"):
		return models.TierFree, true
	}
	return "", false
}

// TierFromDatabaseRole maps a database role; only board and admin carry a tier
func TierFromDatabaseRole(role string) (models.Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "board", "admin":
		return models.TierBoard, true
	}
	return "", false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// resolveTier picks the tier of a record: an explicit valid membership type,
// then the database role, then the community role, then free
func resolveTier(rec UserRecord) models.Tier {
	if tier, err := models.ParseTier(rec.MembershipType); err == nil {
		return tier
	}
	if tier, ok := TierFromDatabaseRole(rec.DatabaseRole); ok {
		return tier
	}
	if tier, ok := TierFromRole(firstNonEmpty(rec.MembershipType, rec.BizlinkRole)); ok {
		return tier
	}
	return models.TierFree
}

// Normalize turns an exported record into an ImportedUser. A random password
// is generated when the record carries none.
func Normalize(rec UserRecord) (*ImportedUser, error) {
	email := strings.ToLower(strings.TrimSpace(rec.Email))

	first := firstNonEmpty(rec.FirstName, rec.FirstNameCamel)
	last := firstNonEmpty(rec.LastName, rec.LastNameCamel)
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		name = strings.TrimSpace(first + " " + last)
	}
	if name == "" && email != "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	if name == "" {
		name = "User"
	}

	password := rec.Password
	if password == "" {
		generated, err := pkgAuth.RandomPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
		password = generated
	}

	socials := models.Socials{
		LinkedIn: firstNonEmpty(rec.LinkedIn),
		Facebook: firstNonEmpty(rec.Facebook),
		Website:  firstNonEmpty(rec.Website),
	}
	if rec.SocialMedia != nil {
		socials.LinkedIn = firstNonEmpty(socials.LinkedIn, rec.SocialMedia.LinkedIn)
		socials.Facebook = firstNonEmpty(socials.Facebook, rec.SocialMedia.Facebook)
	}

	return &ImportedUser{
		Email:    email,
		Password: password,
		Profile: models.Profile{
			Email:          email,
			Name:           name,
			BusinessName:   firstNonEmpty(rec.BusinessName, rec.BusinessNameCamel),
			Industry:       strings.TrimSpace(rec.Industry),
			Phone:          strings.TrimSpace(rec.Phone),
			Description:    strings.TrimSpace(rec.Bio),
			Socials:        socials,
			Chapter:        firstNonEmpty(rec.Chapter, rec.HomeChapter),
			MembershipType: resolveTier(rec),
		},
	}, nil
}

// UserImporter creates accounts and profiles for exported users
type UserImporter struct {
	accounts repositories.IAccountRepository
	profiles repositories.IProfileRepository
	logger   zerolog.Logger
}

// NewUserImporter creates a new UserImporter
func NewUserImporter(accounts repositories.IAccountRepository, profiles repositories.IProfileRepository, logger zerolog.Logger) *UserImporter {
	return &UserImporter{
		accounts: accounts,
		profiles: profiles,
		logger:   logger,
	}
}

// Import reads users from r and stores them one by one. Records without an
// email and emails that already have an account are skipped; a failed profile
// write still counts the account as created.
func (i *UserImporter) Import(ctx context.Context, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	records, err := ParseUsers(data)
	if err != nil {
		return nil, err
	}

	i.logger.Info().Int("count", len(records)).Msg("Importing users")
	res := &Result{Total: len(records)}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		user, err := Normalize(rec)
		if err != nil {
			return res, err
		}
		if user.Email == "" {
			i.logger.Warn().Msg("Skipping record without email")
			res.Skipped++
			continue
		}

		hash, err := pkgAuth.HashPassword(user.Password)
		if err != nil {
			return res, fmt.Errorf("failed to hash password: %w", err)
		}

		account, err := i.accounts.Create(ctx, user.Email, hash, models.AccountMetadata{
			Name:         user.Profile.Name,
			BusinessName: user.Profile.BusinessName,
			Industry:     user.Profile.Industry,
		})
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				i.logger.Warn().Str("email", user.Email).Msg("Skipping existing account")
			} else {
				i.logger.Warn().Err(err).Str("email", user.Email).Msg("Skipping account that could not be created")
			}
			res.Skipped++
			continue
		}

		profile := user.Profile
		profile.ID = account.ID
		if err := i.profiles.Upsert(ctx, &profile); err != nil {
			i.logger.Warn().Err(err).Str("email", user.Email).Msg("Profile upsert failed")
			res.ProfileErrors++
		}

		res.Created++
		i.logger.Info().Str("email", user.Email).Str("tier", string(profile.MembershipType)).Msg("Imported user")
	}

	i.logger.Info().
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Int("profileErrors", res.ProfileErrors).
		Msg("Import finished")
	return res, nil
}
