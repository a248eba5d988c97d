package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IAccountRepository defines the interface for account database operations
type IAccountRepository interface {
	Create(ctx context.Context, email, passwordHash string, meta models.AccountMetadata) (*models.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, meta models.AccountMetadata) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

// AccountRepository handles account database operations
type AccountRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var accountColumns = []string{"id", "email", "password_hash", "metadata", "created_at", "last_login_at"}

// Create inserts a new account. A taken email surfaces as a unique violation.
func (r *AccountRepository) Create(ctx context.Context, email, passwordHash string, meta models.AccountMetadata) (*models.Account, error) {
	sql, args, err := r.sb.Insert("accounts").
		Columns("email", "password_hash", "metadata").
		Values(strings.ToLower(email), passwordHash, meta).
		Suffix("RETURNING " + strings.Join(accountColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create account query: %w", err)
	}

	acc := &models.Account{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&acc.ID, &acc.Email, &acc.PasswordHash, &acc.Metadata, &acc.CreatedAt, &acc.LastLoginAt)
	if err != nil {
		return nil, dberrors.Translate("accounts.insert", err)
	}
	return acc, nil
}

func (r *AccountRepository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*models.Account, error) {
	sql, args, err := r.sb.Select(accountColumns...).From("accounts").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	acc := &models.Account{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&acc.ID, &acc.Email, &acc.PasswordHash, &acc.Metadata, &acc.CreatedAt, &acc.LastLoginAt)
	if err != nil {
		return nil, dberrors.Translate(op, err)
	}
	return acc, nil
}

// GetByID retrieves an account by id
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return r.getOne(ctx, "accounts.get", squirrel.Eq{"id": id})
}

// GetByEmail retrieves an account by email, ignoring case
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, "accounts.get_by_email", squirrel.Eq{"email": strings.ToLower(email)})
}

// UpdateMetadata replaces the owner-editable metadata
func (r *AccountRepository) UpdateMetadata(ctx context.Context, id uuid.UUID, meta models.AccountMetadata) error {
	sql, args, err := r.sb.Update("accounts").
		Set("metadata", meta).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update metadata query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return dberrors.Translate("accounts.update_metadata", err)
	}
	if tag.RowsAffected() == 0 {
		return &dberrors.GatewayError{Op: "accounts.update_metadata", Code: dberrors.CodeNotFound, Message: "account not found"}
	}
	return nil
}

// TouchLastLogin stamps the last sign-in time
func (r *AccountRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.sb.Update("accounts").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build touch last login query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return dberrors.Translate("accounts.touch_last_login", err)
	}
	return nil
}
