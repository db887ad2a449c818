package repo

import (
	"context"

	dom "tagdo/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TodoRepo interface {
	// Create inserts the todo and, in the same transaction, attaches the
	// given canonical tag names in order (find-or-create per name).
	Create(ctx context.Context, t dom.Todo, tagNames []string) (dom.Todo, error)
	GetByID(ctx context.Context, id string) (dom.Todo, error)
	List(ctx context.Context, f TodoFilter) ([]dom.Todo, error)
	// Update writes the full patch. A non-nil tagNames replaces the whole
	// association set (delete-all + insert-new) atomically with the update.
	Update(ctx context.Context, id string, patch dom.Todo, tagNames *[]string) (dom.Todo, error)
	Delete(ctx context.Context, id string) error
	// AddTags attaches each name, idempotently, keeping attach order.
	AddTags(ctx context.Context, id string, tagNames []string) (dom.Todo, error)
	// RemoveTag deletes one association. Missing todo, missing tag and
	// missing association all surface as pgx.ErrNoRows.
	RemoveTag(ctx context.Context, id, tagID string) error
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo, tagNames []string) (dom.Todo, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Todo{}, err
	}
	defer tx.Rollback(ctx)

	var out dom.Todo
	err = tx.QueryRow(ctx, `
		INSERT INTO todos (id, title, description, completed, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+todoColumns,
		uuid.NewString(), t.Title, t.Description, t.Completed, t.DueDate,
	).Scan(&out.ID, &out.Title, &out.Description, &out.Completed, &out.DueDate,
		&out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return dom.Todo{}, err
	}

	out.Tags, err = attachTags(ctx, tx, out.ID, tagNames)
	if err != nil {
		return dom.Todo{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return dom.Todo{}, err
	}
	return out, nil
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	var t dom.Todo
	err := r.db.QueryRow(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1`, id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.DueDate,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return dom.Todo{}, err
	}
	byTodo, err := loadTags(ctx, r.db, []string{id})
	if err != nil {
		return dom.Todo{}, err
	}
	t.Tags = byTodo[id]
	return t, nil
}

func (r *PGTodoRepo) List(ctx context.Context, f TodoFilter) ([]dom.Todo, error) {
	query, args := f.buildQuery()
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	var ids []string
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.DueDate,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	byTodo, err := loadTags(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Tags = byTodo[list[i].ID]
	}
	return list, nil
}

func (r *PGTodoRepo) Update(ctx context.Context, id string, patch dom.Todo, tagNames *[]string) (dom.Todo, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Todo{}, err
	}
	defer tx.Rollback(ctx)

	var t dom.Todo
	err = tx.QueryRow(ctx, `
		UPDATE todos SET title = $2, description = $3, completed = $4, due_date = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+todoColumns,
		id, patch.Title, patch.Description, patch.Completed, patch.DueDate,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.DueDate,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return dom.Todo{}, err
	}

	if tagNames != nil {
		// Readers must never see the transient empty set, hence same tx.
		if _, err := tx.Exec(ctx, `DELETE FROM todo_tags WHERE todo_id = $1`, id); err != nil {
			return dom.Todo{}, err
		}
		t.Tags, err = attachTags(ctx, tx, id, *tagNames)
		if err != nil {
			return dom.Todo{}, err
		}
	} else {
		byTodo, err := loadTags(ctx, tx, []string{id})
		if err != nil {
			return dom.Todo{}, err
		}
		t.Tags = byTodo[id]
	}

	if err := tx.Commit(ctx); err != nil {
		return dom.Todo{}, err
	}
	return t, nil
}

func (r *PGTodoRepo) Delete(ctx context.Context, id string) error {
	// todo_tags rows go with the todo via ON DELETE CASCADE; tags stay.
	ct, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGTodoRepo) AddTags(ctx context.Context, id string, tagNames []string) (dom.Todo, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Todo{}, err
	}
	defer tx.Rollback(ctx)

	var t dom.Todo
	err = tx.QueryRow(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1`, id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.DueDate,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return dom.Todo{}, err
	}

	for _, name := range tagNames {
		tag, err := ensureTag(ctx, tx, name)
		if err != nil {
			return dom.Todo{}, err
		}
		// Re-attaching an already attached tag is a no-op.
		_, err = tx.Exec(ctx, `
			INSERT INTO todo_tags (todo_id, tag_id, position)
			VALUES ($1, $2, (SELECT COALESCE(MAX(position) + 1, 0) FROM todo_tags WHERE todo_id = $1))
			ON CONFLICT (todo_id, tag_id) DO NOTHING`,
			id, tag.ID)
		if err != nil {
			return dom.Todo{}, err
		}
	}

	byTodo, err := loadTags(ctx, tx, []string{id})
	if err != nil {
		return dom.Todo{}, err
	}
	t.Tags = byTodo[id]

	if err := tx.Commit(ctx); err != nil {
		return dom.Todo{}, err
	}
	return t, nil
}

func (r *PGTodoRepo) RemoveTag(ctx context.Context, id, tagID string) error {
	// One statement covers all three not-found causes (no todo, no tag,
	// no association): each leaves zero rows to delete.
	ct, err := r.db.Exec(ctx,
		`DELETE FROM todo_tags WHERE todo_id = $1 AND tag_id = $2`, id, tagID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// attachTags find-or-creates each canonical name and associates it with the
// todo at consecutive positions. Caller must have deduplicated names.
func attachTags(ctx context.Context, q querier, todoID string, names []string) ([]dom.Tag, error) {
	var tags []dom.Tag
	for i, name := range names {
		tag, err := ensureTag(ctx, q, name)
		if err != nil {
			return nil, err
		}
		_, err = q.Exec(ctx,
			`INSERT INTO todo_tags (todo_id, tag_id, position) VALUES ($1, $2, $3)`,
			todoID, tag.ID, i)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// loadTags returns every listed todo's tags keyed by todo id, each list in
// attach order.
func loadTags(ctx context.Context, q querier, todoIDs []string) (map[string][]dom.Tag, error) {
	rows, err := q.Query(ctx, `
		SELECT tt.todo_id, t.id, t.name, t.created_at
		FROM todo_tags tt
		JOIN tags t ON t.id = tt.tag_id
		WHERE tt.todo_id = ANY($1)
		ORDER BY tt.todo_id, tt.position`, todoIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string][]dom.Tag, len(todoIDs))
	for rows.Next() {
		var todoID string
		var t dom.Tag
		if err := rows.Scan(&todoID, &t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		out[todoID] = append(out[todoID], t)
	}
	return out, rows.Err()
}
