// Package todo implements the todo domain service.
package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ysaito/todoapi/business/domain/values"
)

var ErrTodoNotFound = errors.New("todo not found")

// store represents the decoupled persistence to interact with.
type store interface {
	Create(ctx context.Context, td Todo) (Todo, error)
	Update(ctx context.Context, td Todo) (Todo, error)
	GetByID(ctx context.Context, id values.ID) (Todo, error)
	GetByUserID(ctx context.Context, userID values.ID) ([]Todo, error)
	Delete(ctx context.Context, id values.ID) (bool, error)
}

// Service represents the set of APIs for accessing todos.
type Service struct {
	store store
}

// NewService creates a *Service and returns it.
func NewService(store store) *Service {
	return &Service{
		store: store,
	}
}

// CreateTodo persists a new todo for the owner in nt.
func (s *Service) CreateTodo(ctx context.Context, nt NewTodo) (Todo, error) {
	td := Todo{
		UserID:      nt.UserID,
		Title:       nt.Title,
		Description: nt.Description,
		DueDate:     nt.DueDate,
	}

	created, err := s.store.Create(ctx, td)
	if err != nil {
		return Todo{}, fmt.Errorf("create: %w", err)
	}

	return created, nil
}

// GetTodoByID fetches the todo with the given id, returns ErrTodoNotFound if
// it does not exist.
func (s *Service) GetTodoByID(ctx context.Context, id values.ID) (Todo, error) {
	td, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Todo{}, ErrTodoNotFound
		}
		return Todo{}, fmt.Errorf("get by id: %w", err)
	}
	return td, nil
}

// GetTodosByUser returns every todo owned by the user, newest last.
func (s *Service) GetTodosByUser(ctx context.Context, userID values.ID) ([]Todo, error) {
	todos, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get by user id: %w", err)
	}
	return todos, nil
}

// CompleteTodo fetches the todo, marks it done and persists the change.
func (s *Service) CompleteTodo(ctx context.Context, id values.ID) (Todo, error) {
	td, err := s.GetTodoByID(ctx, id)
	if err != nil {
		return Todo{}, err
	}

	td.Complete()

	now, err := values.ParseTimestamp(time.Now().UTC())
	if err != nil {
		return Todo{}, fmt.Errorf("timestamp: %w", err)
	}
	td.UpdatedAt = now

	updated, err := s.store.Update(ctx, td)
	if err != nil {
		return Todo{}, fmt.Errorf("update: %w", err)
	}

	return updated, nil
}

// DeleteTodo removes the todo. Returns ErrTodoNotFound when nothing was
// deleted.
func (s *Service) DeleteTodo(ctx context.Context, id values.ID) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if !deleted {
		return ErrTodoNotFound
	}
	return nil
}
