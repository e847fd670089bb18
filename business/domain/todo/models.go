package todo

import "github.com/ysaito/todoapi/business/domain/values"

// Todo represents a single todo item owned by a user. ID and the lifecycle
// timestamps are database assigned.
type Todo struct {
	ID          values.ID
	UserID      values.ID
	Title       string
	Description string
	IsCompleted bool
	DueDate     values.Timestamp
	CreatedAt   values.Timestamp
	UpdatedAt   values.Timestamp
}

// Complete marks the todo done. Safe to call repeatedly.
func (t *Todo) Complete() {
	t.IsCompleted = true
}

// NewTodo represents all required data to create a new todo.
type NewTodo struct {
	UserID      values.ID
	Title       string
	Description string
	DueDate     values.Timestamp
}
