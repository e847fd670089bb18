package todos

import (
	"time"

	"github.com/ysaito/todoapi/business/domain/todo"
	"github.com/ysaito/todoapi/business/domain/values"
	"github.com/ysaito/todoapi/foundation/timezone"
)

// Todo represents a todo value that will be sent to client.
type Todo struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	IsCompleted bool    `json:"isCompleted"`
	DueDate     *string `json:"dueDate"`
	CreatedAt   *string `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
}

func toAppTodo(td todo.Todo, convert timezone.Converter) Todo {
	return Todo{
		ID:          td.ID.String(),
		UserID:      td.UserID.String(),
		Title:       td.Title,
		Description: td.Description,
		IsCompleted: td.IsCompleted,
		DueDate:     displayTime(td.DueDate, convert),
		CreatedAt:   displayTime(td.CreatedAt, convert),
		UpdatedAt:   displayTime(td.UpdatedAt, convert),
	}
}

func displayTime(ts values.Timestamp, convert timezone.Converter) *string {
	if ts.IsZero() {
		return nil
	}
	s := convert(ts.Time())
	return &s
}

// NewTodo represents all of the required data to create a new todo.
type NewTodo struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description" validate:"omitempty,max=1024"`
	DueDate     *time.Time `json:"dueDate" validate:"omitempty"`
}

func (nt NewTodo) toServiceNewTodo(owner values.ID) (todo.NewTodo, error) {
	var due values.Timestamp
	if nt.DueDate != nil {
		var err error
		due, err = values.ParseTimestamp(*nt.DueDate)
		if err != nil {
			return todo.NewTodo{}, err
		}
	}

	return todo.NewTodo{
		UserID:      owner,
		Title:       nt.Title,
		Description: nt.Description,
		DueDate:     due,
	}, nil
}
