package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IEventRepository defines the interface for the internal event store
type IEventRepository interface {
	List(ctx context.Context) ([]models.StoredEvent, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.StoredEvent, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.StoredEvent, error)
	Create(ctx context.Context, e *models.StoredEvent) error
	Update(ctx context.Context, e *models.StoredEvent) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// EventRepository handles the 'events' table
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// selectEvents joins the author display name from profiles
func (r *EventRepository) selectEvents() squirrel.SelectBuilder {
	return r.sb.Select(
		"e.id", "e.title", "e.description", "to_char(e.date, 'YYYY-MM-DD')", "e.time",
		"e.location", "e.url", "e.type", "e.author_id", "COALESCE(p.name, '')",
		"e.created_at", "e.updated_at",
	).
		From("events e").
		LeftJoin("profiles p ON p.id = e.author_id")
}

func scanEvent(row pgx.Row) (*models.StoredEvent, error) {
	e := &models.StoredEvent{}
	var eventType string
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location, &e.URL,
		&eventType, &e.AuthorID, &e.AuthorName, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Type = models.ParseEventType(eventType)
	return e, nil
}

func (r *EventRepository) query(ctx context.Context, op string, b squirrel.SelectBuilder) ([]models.StoredEvent, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dberrors.Translate(op, err)
	}
	defer rows.Close()

	events := []models.StoredEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, dberrors.Translate(op, err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Translate(op, err)
	}
	return events, nil
}

// List returns every stored event ordered by date and time
func (r *EventRepository) List(ctx context.Context) ([]models.StoredEvent, error) {
	return r.query(ctx, "events.list", r.selectEvents().OrderBy("e.date", "e.time"))
}

// ListByAuthor returns the events written by one account
func (r *EventRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.StoredEvent, error) {
	return r.query(ctx, "events.list_by_author",
		r.selectEvents().Where(squirrel.Eq{"e.author_id": authorID}).OrderBy("e.date", "e.time"))
}

// GetByID retrieves one stored event
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StoredEvent, error) {
	sql, args, err := r.selectEvents().Where(squirrel.Eq{"e.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	e, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, dberrors.Translate("events.get", err)
	}
	return e, nil
}

// Create inserts an event and fills in its id and timestamps
func (r *EventRepository) Create(ctx context.Context, e *models.StoredEvent) error {
	sql, args, err := r.sb.Insert("events").
		Columns("title", "description", "date", "time", "location", "url", "type", "author_id").
		Values(e.Title, e.Description, e.Date, e.Time, e.Location, e.URL, string(e.Type), e.AuthorID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return dberrors.Translate("events.insert", err)
	}
	return nil
}

// Update rewrites the editable fields of an event
func (r *EventRepository) Update(ctx context.Context, e *models.StoredEvent) error {
	e.UpdatedAt = time.Now()
	sql, args, err := r.sb.Update("events").
		SetMap(map[string]interface{}{
			"title":       e.Title,
			"description": e.Description,
			"date":        e.Date,
			"time":        e.Time,
			"location":    e.Location,
			"url":         e.URL,
			"type":        string(e.Type),
			"updated_at":  e.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return dberrors.Translate("events.update", err)
	}
	if tag.RowsAffected() == 0 {
		return &dberrors.GatewayError{Op: "events.update", Code: dberrors.CodeNotFound, Message: "event not found"}
	}
	return nil
}

// Delete removes an event
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.sb.Delete("events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete event query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return dberrors.Translate("events.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return &dberrors.GatewayError{Op: "events.delete", Code: dberrors.CodeNotFound, Message: "event not found"}
	}
	return nil
}

// Count returns the number of stored events
func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("events").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count events query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, dberrors.Translate("events.count", err)
	}
	return n, nil
}
