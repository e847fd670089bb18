package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ysaito/todoapi/business/domain/todo"
	"github.com/ysaito/todoapi/business/domain/values"
)

// dbTodo mirrors the todos table row.
type dbTodo struct {
	ID          string
	UserID      string
	Title       string
	Description sql.NullString
	IsCompleted bool
	DueDate     sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func toDBTodo(td todo.Todo) dbTodo {
	dt := dbTodo{
		ID:          td.ID.String(),
		UserID:      td.UserID.String(),
		Title:       td.Title,
		IsCompleted: td.IsCompleted,
		CreatedAt:   td.CreatedAt.Time(),
		UpdatedAt:   td.UpdatedAt.Time(),
	}

	if td.Description != "" {
		dt.Description = sql.NullString{String: td.Description, Valid: true}
	}

	if !td.DueDate.IsZero() {
		dt.DueDate = sql.NullTime{Time: td.DueDate.Time(), Valid: true}
	}

	return dt
}

func (dt dbTodo) toCoreTodo() (todo.Todo, error) {
	id, err := values.ParseID(dt.ID)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("stored id: %w", err)
	}

	userID, err := values.ParseID(dt.UserID)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("stored user_id: %w", err)
	}

	createdAt, err := values.ParseTimestamp(dt.CreatedAt)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("stored created_at: %w", err)
	}

	updatedAt, err := values.ParseTimestamp(dt.UpdatedAt)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("stored updated_at: %w", err)
	}

	td := todo.Todo{
		ID:          id,
		UserID:      userID,
		Title:       dt.Title,
		Description: dt.Description.String,
		IsCompleted: dt.IsCompleted,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}

	if dt.DueDate.Valid {
		dueDate, err := values.ParseTimestamp(dt.DueDate.Time)
		if err != nil {
			return todo.Todo{}, fmt.Errorf("stored due_date: %w", err)
		}
		td.DueDate = dueDate
	}

	return td, nil
}
