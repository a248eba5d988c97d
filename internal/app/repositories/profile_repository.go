package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/bizlink/alliance/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IProfileRepository defines the interface for business profile operations
type IProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
	UpdateMembership(ctx context.Context, id uuid.UUID, tier models.Tier) error
}

// ProfileRepository handles the 'profiles' table
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var profileColumns = []string{
	"id", "email", "name", "business_name", "industry", "phone", "description",
	"socials", "chapter", "membership_type", "created_at", "updated_at",
}

// scanProfile reads one row and validates its tier
func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	var tier string
	err := row.Scan(&p.ID, &p.Email, &p.Name, &p.BusinessName, &p.Industry, &p.Phone,
		&p.Description, &p.Socials, &p.Chapter, &tier, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.MembershipType, err = models.ParseTier(tier)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.ID, err)
	}
	return p, nil
}

// GetByID retrieves a profile by account id
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns...).
		From("profiles").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, dberrors.Translate("profiles.get", err)
	}
	return p, nil
}

// List returns every profile ordered by business name. Rows with an unknown
// tier are logged and skipped.
func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns...).
		From("profiles").
		OrderBy("business_name", "name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dberrors.Translate("profiles.list", err)
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			logger.Warn().Err(err).Msg("Skipping unreadable profile row")
			continue
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Translate("profiles.list", err)
	}
	return profiles, nil
}

// Upsert inserts or updates the profile keyed by id. The membership tier is
// only written on insert.
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	tier := p.MembershipType
	if !tier.Valid() {
		tier = models.TierFree
	}

	sql, args, err := r.sb.Insert("profiles").
		Columns("id", "email", "name", "business_name", "industry", "phone",
			"description", "socials", "chapter", "membership_type", "updated_at").
		Values(p.ID, strings.ToLower(p.Email), p.Name, p.BusinessName, p.Industry, p.Phone,
			p.Description, p.Socials, p.Chapter, string(tier), time.Now()).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			business_name = EXCLUDED.business_name,
			industry = EXCLUDED.industry,
			phone = EXCLUDED.phone,
			description = EXCLUDED.description,
			socials = EXCLUDED.socials,
			chapter = EXCLUDED.chapter,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert profile query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return dberrors.Translate("profiles.upsert", err)
	}
	return nil
}

// UpdateMembership sets the tier of a profile
func (r *ProfileRepository) UpdateMembership(ctx context.Context, id uuid.UUID, tier models.Tier) error {
	if _, err := models.ParseTier(string(tier)); err != nil {
		return fmt.Errorf("update membership: %w", err)
	}

	sql, args, err := r.sb.Update("profiles").
		Set("membership_type", string(tier)).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update membership query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return dberrors.Translate("profiles.update_membership", err)
	}
	if tag.RowsAffected() == 0 {
		return &dberrors.GatewayError{Op: "profiles.update_membership", Code: dberrors.CodeNotFound, Message: "profile not found"}
	}
	return nil
}
