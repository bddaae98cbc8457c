package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/page-content/pkg/pagecontent"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store implements pagecontent.Store using PostgreSQL. Reorder batches run
// inside a transaction when the store is backed by a pool, so the whole
// batch lands or none of it does.
type Store struct {
	db   DBTX
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL store over an existing connection or
// transaction. Reorder batches are applied on that handle directly.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// NewWithPool creates a new PostgreSQL store with a connection pool.
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{db: pool, pool: pool}
}

// Error handling helper
func (s *Store) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "sort_order") {
				return fmt.Errorf("duplicate order within sibling set: %w", pagecontent.ErrOrderMismatch)
			}
			return fmt.Errorf("duplicate entity")
		case "23503": // foreign_key_violation
			return fmt.Errorf("parent entity not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required column %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return pagecontent.ErrEntityNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

const entityColumns = `id, parent_id, kind, section_type, content, sort_order, is_active, version, created_at, updated_at`

func (s *Store) List(ctx context.Context, parentID uuid.UUID) ([]*pagecontent.Entity, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM content_entities
        WHERE parent_id IS NOT DISTINCT FROM $1
        ORDER BY sort_order ASC`, entityColumns)

	rows, err := s.db.Query(ctx, query, nilUUID(parentID))
	if err != nil {
		return nil, s.handlePostgresError("list", err)
	}
	defer rows.Close()

	var entities []*pagecontent.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, s.handlePostgresError("list", err)
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, s.handlePostgresError("list", err)
	}
	return entities, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*pagecontent.Entity, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_entities WHERE id = $1`, entityColumns)

	entity, err := scanEntity(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, s.handlePostgresError("get", err)
	}
	return entity, nil
}

func (s *Store) Create(ctx context.Context, entity *pagecontent.Entity) error {
	content, err := json.Marshal(entity.Content)
	if err != nil {
		return fmt.Errorf("marshaling content: %w", err)
	}

	query := `
        INSERT INTO content_entities (
            id, parent_id, kind, section_type, content, sort_order, is_active
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING version, created_at, updated_at`

	err = s.db.QueryRow(ctx, query,
		entity.ID, nilUUID(entity.ParentID), string(entity.Kind), string(entity.Type),
		content, entity.Order, entity.IsActive,
	).Scan(&entity.Version, &entity.CreatedAt, &entity.UpdatedAt)
	if err != nil {
		return s.handlePostgresError("create", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, entity *pagecontent.Entity) error {
	content, err := json.Marshal(entity.Content)
	if err != nil {
		return fmt.Errorf("marshaling content: %w", err)
	}

	// The version predicate rejects writes based on a stale read; callers
	// reload and retry on ErrEntityNotFound from here.
	query := `
        UPDATE content_entities
        SET section_type = $1, content = $2, sort_order = $3, is_active = $4,
            version = version + 1, updated_at = now()
        WHERE id = $5 AND version = $6
        RETURNING version, updated_at`

	err = s.db.QueryRow(ctx, query,
		string(entity.Type), content, entity.Order, entity.IsActive,
		entity.ID, entity.Version,
	).Scan(&entity.Version, &entity.UpdatedAt)
	if err != nil {
		return s.handlePostgresError("update", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	// Children go with the row via the self-referencing ON DELETE CASCADE.
	tag, err := s.db.Exec(ctx, `DELETE FROM content_entities WHERE id = $1`, id)
	if err != nil {
		return s.handlePostgresError("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return pagecontent.ErrEntityNotFound
	}
	return nil
}

func (s *Store) Reorder(ctx context.Context, parentID uuid.UUID, changes []pagecontent.OrderChange) error {
	if len(changes) == 0 {
		return nil
	}

	if s.pool != nil {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return s.handlePostgresError("reorder", err)
		}
		defer tx.Rollback(ctx)

		if err := s.applyReorder(ctx, tx, parentID, changes); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return s.handlePostgresError("reorder", err)
		}
		return nil
	}

	// Already inside a caller-managed transaction.
	return s.applyReorder(ctx, s.db, parentID, changes)
}

func (s *Store) applyReorder(ctx context.Context, db DBTX, parentID uuid.UUID, changes []pagecontent.OrderChange) error {
	query := `
        UPDATE content_entities
        SET sort_order = $1, version = version + 1, updated_at = now()
        WHERE id = $2 AND parent_id IS NOT DISTINCT FROM $3`

	for _, change := range changes {
		tag, err := db.Exec(ctx, query, change.Order, change.ID, nilUUID(parentID))
		if err != nil {
			return s.handlePostgresError("reorder", err)
		}
		if tag.RowsAffected() == 0 {
			// A concurrent writer removed or moved this entity; abort the
			// whole batch rather than leaving a partial order.
			return fmt.Errorf("reorder: %w: %s", pagecontent.ErrOrderMismatch, change.ID)
		}
	}
	return nil
}

// nilUUID maps uuid.Nil (root entities) to SQL NULL.
func nilUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func scanEntity(row pgx.Row) (*pagecontent.Entity, error) {
	var (
		entity      pagecontent.Entity
		parentID    *uuid.UUID
		kind        string
		sectionType string
		content     []byte
	)

	err := row.Scan(&entity.ID, &parentID, &kind, &sectionType, &content,
		&entity.Order, &entity.IsActive, &entity.Version,
		&entity.CreatedAt, &entity.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		entity.ParentID = *parentID
	}
	entity.Kind = pagecontent.EntityKind(kind)
	entity.Type = pagecontent.SectionType(sectionType)

	if len(content) > 0 {
		if err := json.Unmarshal(content, &entity.Content); err != nil {
			return nil, fmt.Errorf("unmarshaling content: %w", err)
		}
	} else {
		entity.Content = map[string]any{}
	}
	return &entity, nil
}
