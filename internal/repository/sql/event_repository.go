package sql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

var _ repository.EventRepository = (*EventRepository)(nil)

// EventRepository stores outbox events.
type EventRepository struct {
	db  *sql.DB
	txn *sql.Tx
	now func() time.Time
}

// NewEventRepository creates a new EventRepository instance.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db, now: time.Now}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *EventRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// Create inserts a new event into the database.
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	event.InitMeta(r.now())

	query := `INSERT INTO events (id, event_type, event_data, status, created_at, processed_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	var processedAt interface{}
	if event.ProcessedAt != nil {
		processedAt = formatTime(*event.ProcessedAt)
	}

	_, err = stmt.ExecContext(ctx,
		event.ID.String(),
		event.EventType,
		string(event.EventData),
		string(event.Status),
		formatTime(event.CreatedAt),
		processedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// ListPending returns up to limit pending events, oldest first.
func (r *EventRepository) ListPending(ctx context.Context, limit int) ([]*model.Event, error) {
	query := `SELECT id, event_type, event_data, status, created_at, processed_at
	             FROM events
	             WHERE status = ?
	             ORDER BY created_at ASC
	             LIMIT ?`

	if limit <= 0 {
		limit = repository.DefaultPaginationLimit
	}

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, string(model.EventStatusPending), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return events, nil
}

// UpdateStatus sets the status of an event and stamps processed_at.
func (r *EventRepository) UpdateStatus(ctx context.Context, eventID uuid.UUID, status model.EventStatus) error {
	query := `UPDATE events SET status = ?, processed_at = ? WHERE id = ?`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, string(status), formatTime(r.now()), eventID.String())
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	return nil
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var (
		event            model.Event
		id, data, status string
		createdAt        string
		processedAt      sql.NullString
	)
	if err := row.Scan(&id, &event.EventType, &data, &status, &createdAt, &processedAt); err != nil {
		return nil, err
	}

	var err error
	if event.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid event id %q: %w", id, err)
	}
	event.EventData = json.RawMessage(data)
	event.Status = model.EventStatus(status)
	if event.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if processedAt.Valid {
		processed, err := parseTime(processedAt.String)
		if err != nil {
			return nil, err
		}
		event.ProcessedAt = &processed
	}

	return &event, nil
}
