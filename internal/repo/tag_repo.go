package repo

import (
	"context"
	"errors"

	dom "tagdo/internal/domain"
	"tagdo/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgx satisfied by both *pgxpool.Pool and pgx.Tx,
// so tag helpers can run inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type TagRepo interface {
	// FindOrCreate returns the tag with the given canonical name, inserting
	// it first if absent. created reports whether this call inserted the row.
	FindOrCreate(ctx context.Context, name string) (dom.Tag, bool, error)
	List(ctx context.Context) ([]dom.TagCount, error)
	// DeleteIfUnused removes the tag only when no todo references it.
	DeleteIfUnused(ctx context.Context, tagID string) error
}

type PGTagRepo struct {
	db *pgxpool.Pool
}

func NewPGTagRepo(db *pgxpool.Pool) *PGTagRepo {
	return &PGTagRepo{db: db}
}

func (r *PGTagRepo) FindOrCreate(ctx context.Context, name string) (dom.Tag, bool, error) {
	t, err := getTagByName(ctx, r.db, name)
	if err == nil {
		return t, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return dom.Tag{}, false, err
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO tags (id, name) VALUES ($1, $2) RETURNING id, name, created_at`,
		uuid.NewString(), name,
	).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err == nil {
		return t, true, nil
	}
	if utils.IsPGUniqueViolation(err) {
		// Lost the insert race: somebody created the same name between our
		// lookup and insert. The unique constraint is the source of truth.
		t, err = getTagByName(ctx, r.db, name)
		return t, false, err
	}
	return dom.Tag{}, false, err
}

func (r *PGTagRepo) List(ctx context.Context) ([]dom.TagCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.name, COUNT(tt.tag_id)
		FROM tags t
		LEFT JOIN todo_tags tt ON tt.tag_id = t.id
		GROUP BY t.id, t.name
		ORDER BY t.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.TagCount
	for rows.Next() {
		var t dom.TagCount
		if err := rows.Scan(&t.ID, &t.Name, &t.Count); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTagRepo) DeleteIfUnused(ctx context.Context, tagID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM tags WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM todo_tags WHERE tag_id = $1)`,
		tagID)
	return err
}

func getTagByName(ctx context.Context, q querier, name string) (dom.Tag, error) {
	var t dom.Tag
	err := q.QueryRow(ctx,
		`SELECT id, name, created_at FROM tags WHERE name = $1`, name,
	).Scan(&t.ID, &t.Name, &t.CreatedAt)
	return t, err
}

// ensureTag is the transaction-safe find-or-create: ON CONFLICT DO NOTHING
// never aborts the surrounding transaction the way a raw unique violation
// would.
func ensureTag(ctx context.Context, q querier, name string) (dom.Tag, error) {
	var t dom.Tag
	err := q.QueryRow(ctx,
		`INSERT INTO tags (id, name) VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, created_at`,
		uuid.NewString(), name,
	).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return getTagByName(ctx, q, name)
	}
	return t, err
}
