// Package postgres implements the todo store on top of the postgres client.
package postgres

import (
	"context"
	"fmt"

	"github.com/ysaito/todoapi/business/database/postgres"
	"github.com/ysaito/todoapi/business/domain/todo"
	"github.com/ysaito/todoapi/business/domain/values"
)

const todoColumns = "id,user_id,title,description,is_completed,due_date,created_at,updated_at"

// Repository represents the set of APIs used to interact with the todos table.
type Repository struct {
	client *postgres.Client
}

// NewRepository provides APIs to interact with the store.
func NewRepository(pgClient *postgres.Client) *Repository {
	return &Repository{
		client: pgClient,
	}
}

// Create inserts the todo, id and timestamps come back from the database.
func (r *Repository) Create(ctx context.Context, td todo.Todo) (todo.Todo, error) {
	const q = `
	INSERT INTO todos
		(user_id,title,description,due_date)
	VALUES
		($1,$2,$3,$4)
	RETURNING ` + todoColumns

	dt := toDBTodo(td)

	row := r.client.DB.QueryRowContext(ctx, q, dt.UserID, dt.Title, dt.Description, dt.DueDate)

	stored, err := scanTodo(row)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("insert: %w", err)
	}

	return stored.toCoreTodo()
}

// Update writes the mutable fields back.
func (r *Repository) Update(ctx context.Context, td todo.Todo) (todo.Todo, error) {
	const q = `
	UPDATE
		todos
	SET
		title = $1,
		description = $2,
		is_completed = $3,
		due_date = $4,
		updated_at = $5
	WHERE id = $6
	RETURNING ` + todoColumns

	dt := toDBTodo(td)

	row := r.client.DB.QueryRowContext(ctx, q,
		dt.Title,
		dt.Description,
		dt.IsCompleted,
		dt.DueDate,
		dt.UpdatedAt,
		dt.ID,
	)

	stored, err := scanTodo(row)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("update: %w", err)
	}

	return stored.toCoreTodo()
}

// GetByID fetches a single todo, sql.ErrNoRows bubbles up when it is absent.
func (r *Repository) GetByID(ctx context.Context, id values.ID) (todo.Todo, error) {
	const q = `
	SELECT ` + todoColumns + `
	FROM todos
	WHERE id = $1`

	row := r.client.DB.QueryRowContext(ctx, q, id.String())

	stored, err := scanTodo(row)
	if err != nil {
		return todo.Todo{}, err
	}

	return stored.toCoreTodo()
}

// GetByUserID returns the todos owned by the user in creation order.
func (r *Repository) GetByUserID(ctx context.Context, userID values.ID) ([]todo.Todo, error) {
	const q = `
	SELECT ` + todoColumns + `
	FROM todos
	WHERE user_id = $1
	ORDER BY created_at`

	rows, err := r.client.DB.QueryContext(ctx, q, userID.String())
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var todos []todo.Todo
	for rows.Next() {
		stored, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}

		td, err := stored.toCoreTodo()
		if err != nil {
			return nil, err
		}

		todos = append(todos, td)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return todos, nil
}

// Delete removes the row and reports whether anything was deleted.
func (r *Repository) Delete(ctx context.Context, id values.ID) (bool, error) {
	const q = `
	DELETE FROM todos WHERE id = $1`

	result, err := r.client.DB.ExecContext(ctx, q, id.String())
	if err != nil {
		return false, fmt.Errorf("exec context: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (dbTodo, error) {
	var dt dbTodo

	err := row.Scan(
		&dt.ID,
		&dt.UserID,
		&dt.Title,
		&dt.Description,
		&dt.IsCompleted,
		&dt.DueDate,
		&dt.CreatedAt,
		&dt.UpdatedAt,
	)
	if err != nil {
		return dbTodo{}, err
	}

	return dt, nil
}
