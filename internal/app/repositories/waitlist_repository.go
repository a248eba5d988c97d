package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IWaitlistRepository defines the interface for waitlist signups
type IWaitlistRepository interface {
	Insert(ctx context.Context, email string) (*models.WaitlistEntry, error)
}

// WaitlistRepository handles the 'waitlist' table
type WaitlistRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewWaitlistRepository creates a new WaitlistRepository
func NewWaitlistRepository(db *pgxpool.Pool) *WaitlistRepository {
	return &WaitlistRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert adds an email to the waitlist. A repeated email returns a
// GatewayError with code 23505.
func (r *WaitlistRepository) Insert(ctx context.Context, email string) (*models.WaitlistEntry, error) {
	sql, args, err := r.sb.Insert("waitlist").
		Columns("email").
		Values(strings.ToLower(strings.TrimSpace(email))).
		Suffix("RETURNING id, email, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build waitlist insert query: %w", err)
	}

	entry := &models.WaitlistEntry{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&entry.ID, &entry.Email, &entry.CreatedAt); err != nil {
		return nil, dberrors.Translate("waitlist.insert", err)
	}
	return entry, nil
}
