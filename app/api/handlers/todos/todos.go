// Package todos provides the http handlers around todo items.
package todos

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ysaito/todoapi/app/api/auth"
	"github.com/ysaito/todoapi/app/api/errs"
	"github.com/ysaito/todoapi/business/domain/todo"
	"github.com/ysaito/todoapi/business/domain/user"
	"github.com/ysaito/todoapi/business/domain/values"
	"github.com/ysaito/todoapi/foundation/timezone"
	"github.com/ysaito/todoapi/foundation/web"
)

// Handler represents set of APIs used for todo items.
type Handler struct {
	Validator   *errs.AppValidator
	TodoService *todo.Service
}

// CreateTodo creates a todo owned by the authenticated user.
func (h *Handler) CreateTodo(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	usr, err := auth.GetUser(ctx)
	if err != nil {
		return errs.NewAppError(http.StatusUnauthorized, err.Error())
	}

	var nt NewTodo
	if err := json.NewDecoder(r.Body).Decode(&nt); err != nil {
		return errs.NewAppErrorf(http.StatusBadRequest, "invalid json data: %s", err.Error())
	}

	fields, ok := h.Validator.Check(nt)
	if !ok {
		return errs.NewAppValidationError(http.StatusBadRequest, "invalid data", fields)
	}

	serviceNew, err := nt.toServiceNewTodo(usr.ID)
	if err != nil {
		return errs.NewAppError(http.StatusBadRequest, err.Error())
	}

	td, err := h.TodoService.CreateTodo(ctx, serviceNew)
	if err != nil {
		return errs.NewAppInternalErr(err)
	}

	convert := timezone.ConverterFor(web.GetClientTimezone(ctx))
	return web.Respond(ctx, w, http.StatusCreated, toAppTodo(td, convert))
}

// GetTodoById returns a single todo. Only the owner or a superuser may see it.
func (h *Handler) GetTodoById(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	usr, err := auth.GetUser(ctx)
	if err != nil {
		return errs.NewAppError(http.StatusUnauthorized, err.Error())
	}

	td, appErr := h.fetchOwned(ctx, r.PathValue("id"), usr)
	if appErr != nil {
		return appErr
	}

	convert := timezone.ConverterFor(web.GetClientTimezone(ctx))
	return web.Respond(ctx, w, http.StatusOK, toAppTodo(td, convert))
}

// GetMyTodos lists the todos of the authenticated user.
func (h *Handler) GetMyTodos(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	usr, err := auth.GetUser(ctx)
	if err != nil {
		return errs.NewAppError(http.StatusUnauthorized, err.Error())
	}

	tds, err := h.TodoService.GetTodosByUser(ctx, usr.ID)
	if err != nil {
		return errs.NewAppInternalErr(err)
	}

	convert := timezone.ConverterFor(web.GetClientTimezone(ctx))
	resp := make([]Todo, 0, len(tds))
	for _, td := range tds {
		resp = append(resp, toAppTodo(td, convert))
	}
	return web.Respond(ctx, w, http.StatusOK, resp)
}

// CompleteTodo marks a todo done. Only the owner or a superuser may do it.
func (h *Handler) CompleteTodo(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	usr, err := auth.GetUser(ctx)
	if err != nil {
		return errs.NewAppError(http.StatusUnauthorized, err.Error())
	}

	td, appErr := h.fetchOwned(ctx, r.PathValue("id"), usr)
	if appErr != nil {
		return appErr
	}

	td, err = h.TodoService.CompleteTodo(ctx, td.ID)
	if err != nil {
		if errors.Is(err, todo.ErrTodoNotFound) {
			return errs.NewAppErrorf(http.StatusNotFound, "%q, no todo with this id", td.ID)
		}
		return errs.NewAppInternalErr(err)
	}

	convert := timezone.ConverterFor(web.GetClientTimezone(ctx))
	return web.Respond(ctx, w, http.StatusOK, toAppTodo(td, convert))
}

// DeleteTodoById removes a todo. Only the owner or a superuser may do it.
func (h *Handler) DeleteTodoById(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	usr, err := auth.GetUser(ctx)
	if err != nil {
		return errs.NewAppError(http.StatusUnauthorized, err.Error())
	}

	td, appErr := h.fetchOwned(ctx, r.PathValue("id"), usr)
	if appErr != nil {
		return appErr
	}

	if err := h.TodoService.DeleteTodo(ctx, td.ID); err != nil {
		if errors.Is(err, todo.ErrTodoNotFound) {
			return errs.NewAppErrorf(http.StatusNotFound, "%q, no todo with this id", td.ID)
		}
		return errs.NewAppInternalErr(err)
	}

	return web.Respond(ctx, w, http.StatusNoContent, nil)
}

// fetchOwned loads the todo and enforces the ownership rule.
func (h *Handler) fetchOwned(ctx context.Context, id string, usr user.User) (todo.Todo, error) {
	todoId, err := values.ParseID(id)
	if err != nil {
		return todo.Todo{}, errs.NewAppErrorf(http.StatusBadRequest, "%q, invalid uuid", id)
	}

	td, err := h.TodoService.GetTodoByID(ctx, todoId)
	if err != nil {
		if errors.Is(err, todo.ErrTodoNotFound) {
			return todo.Todo{}, errs.NewAppErrorf(http.StatusNotFound, "%q, no todo with this id", id)
		}
		return todo.Todo{}, errs.NewAppInternalErr(err)
	}

	if !td.UserID.Equal(usr.ID) && !usr.IsSuperUser.Value() {
		//not yours and not an admin, pretend it does not exist
		return todo.Todo{}, errs.NewAppErrorf(http.StatusNotFound, "%q, no todo with this id", id)
	}

	return td, nil
}
