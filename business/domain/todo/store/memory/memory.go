// Package memory provides an in memory todo store used for testing.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ysaito/todoapi/business/domain/todo"
	"github.com/ysaito/todoapi/business/domain/values"
)

type Repository struct {
	Todos map[string]todo.Todo
	mu    sync.Mutex
}

// Create stores the todo, assigning id and timestamps the way the database
// would.
func (r *Repository) Create(ctx context.Context, td todo.Todo) (todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Todos == nil {
		r.Todos = make(map[string]todo.Todo)
	}

	id, err := values.ParseID(uuid.NewString())
	if err != nil {
		return todo.Todo{}, err
	}

	now, err := values.ParseTimestamp(time.Now().UTC())
	if err != nil {
		return todo.Todo{}, err
	}

	td.ID = id
	td.CreatedAt = now
	td.UpdatedAt = now

	r.Todos[id.String()] = td
	return td, nil
}

// Update replaces the stored todo, returns sql.ErrNoRows if it is absent.
func (r *Repository) Update(ctx context.Context, td todo.Todo) (todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Todos[td.ID.String()]; !ok {
		return todo.Todo{}, sql.ErrNoRows
	}

	r.Todos[td.ID.String()] = td
	return td, nil
}

// GetByID returns the todo with the given id or sql.ErrNoRows.
func (r *Repository) GetByID(ctx context.Context, id values.ID) (todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	td, ok := r.Todos[id.String()]
	if !ok {
		return todo.Todo{}, sql.ErrNoRows
	}
	return td, nil
}

// GetByUserID returns the todos owned by the user in creation order.
func (r *Repository) GetByUserID(ctx context.Context, userID values.ID) ([]todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var todos []todo.Todo
	for _, td := range r.Todos {
		if td.UserID.Equal(userID) {
			todos = append(todos, td)
		}
	}

	sort.Slice(todos, func(i, j int) bool {
		return todos[i].CreatedAt.Time().Before(todos[j].CreatedAt.Time())
	})

	return todos, nil
}

// Delete removes the todo and reports whether anything was deleted.
func (r *Repository) Delete(ctx context.Context, id values.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Todos[id.String()]; !ok {
		return false, nil
	}

	delete(r.Todos, id.String())
	return true, nil
}
