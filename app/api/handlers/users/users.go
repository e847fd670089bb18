// Package users provides the http handlers around user accounts.
package users

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ysaito/todoapi/app/api/auth"
	"github.com/ysaito/todoapi/app/api/errs"
	"github.com/ysaito/todoapi/business/domain/user"
	"github.com/ysaito/todoapi/business/domain/values"
	"github.com/ysaito/todoapi/foundation/timezone"
	"github.com/ysaito/todoapi/foundation/web"
)

// Handler represents set of APIs used for user accounts.
type Handler struct {
	Validator    *errs.AppValidator
	UsersService *user.Service
	Auth         *auth.Auth
}

// Signup creates a user inside the system, returns errors on duplicated emails and invalid inputs.
func (h *Handler) Signup(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nu NewUser

	if err := json.NewDecoder(r.Body).Decode(&nu); err != nil {
		return errs.NewAppErrorf(http.StatusBadRequest, "invalid json data: %s", err.Error())
	}

	//validate
	fields, ok := h.Validator.Check(nu)
	if !ok {
		return errs.NewAppValidationError(http.StatusBadRequest, "invalid data", fields)
	}

	usr, err := h.UsersService.CreateUser(ctx, nu.toServiceNewUser())
	if err != nil {
		if errors.Is(err, user.ErrUniqueEmail) || errors.Is(err, user.ErrUniqueUsername) {
			return errs.NewAppError(http.StatusConflict, err.Error())
		}

		var vErr *values.ValidationError
		if errors.As(err, &vErr) {
			return errs.NewAppError(http.StatusBadRequest, vErr.Error())
		}
		return errs.NewAppInternalErr(err)
	}

	convert := timezone.ConverterFor(web.GetClientTimezone(ctx))
	return web.Respond(ctx, w, http.StatusCreated, toAppUser(usr, convert))
}

// Login checks the credentials and on success responds with a signed access token.
func (h *Handler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var creds Credentials

	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		return errs.NewAppErrorf(http.StatusBadRequest, "invalid json data: %s", err.Error())
	}

	fields, ok := h.Validator.Check(creds)
	if !ok {
		return errs.NewAppValidationError(http.StatusBadRequest, "invalid data", fields)
	}

	email, err := values.ParseEmail(creds.Email)
	if err != nil {
		//unparsable email can not match any account
		return errs.NewAppError(http.StatusUnauthorized, "invalid credentials")
	}

	usr, ok, err := h.UsersService.Authenticate(ctx, email, creds.Password)
	if err != nil {
		return errs.NewAppInternalErr(err)
	}
	if !ok {
		//unknown email and wrong password look the same on purpose
		return errs.NewAppError(http.StatusUnauthorized, "invalid credentials")
	}

	if !usr.IsActive.Value() || usr.IsDeleted() {
		return errs.NewAppError(http.StatusUnauthorized, "invalid credentials")
	}

	tkn, err := h.Auth.IssueToken(usr)
	if err != nil {
		return errs.NewAppInternalErr(fmt.Errorf("issuing token: %w", err))
	}

	return web.Respond(ctx, w, http.StatusOK, Token{AccessToken: tkn, TokenType: "bearer"})
}

// Logout revokes the caller's token for the remainder of its lifetime.
func (h *Handler) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	claims, err := auth.GetClaims(ctx)
	if err != nil {
		return errs.NewAppError(http.StatusUnauthorized, err.Error())
	}

	if err := h.Auth.RevokeToken(ctx, claims); err != nil {
		return errs.NewAppInternalErr(err)
	}

	return web.Respond(ctx, w, http.StatusNoContent, nil)
}

// GetUserById gets the user from db by id and in case there is no user with that id returns an error.
func (h *Handler) GetUserById(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")

	userId, err := values.ParseID(id)
	if err != nil {
		return errs.NewAppErrorf(http.StatusBadRequest, "%q, invalid uuid", id)
	}

	usr, err := h.UsersService.GetUserByID(ctx, userId)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return errs.NewAppErrorf(http.StatusNotFound, "%q, no user with this id", id)
		}
		return errs.NewAppInternalErr(err)
	}

	convert := timezone.ConverterFor(web.GetClientTimezone(ctx))
	return web.Respond(ctx, w, http.StatusOK, toAppUser(usr, convert))
}

// GetAllUsers returns every user in the system ordered by creation time.
func (h *Handler) GetAllUsers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	list, err := h.UsersService.GetAllUsers(ctx)
	if err != nil {
		return errs.NewAppInternalErr(err)
	}

	//filters are views, ?active=true narrows without refetching
	if r.URL.Query().Get("active") == "true" {
		list = list.FilterActive()
	}

	convert := timezone.ConverterFor(web.GetClientTimezone(ctx))

	resp := make([]User, 0, list.Len())
	for _, usr := range list.All() {
		resp = append(resp, toAppUser(usr, convert))
	}

	return web.Respond(ctx, w, http.StatusOK, resp)
}

// ExportUsers streams every user as CSV without loading them all in memory.
func (h *Handler) ExportUsers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="users.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	header := []string{"id", "username", "email", "is_active", "is_superuser", "created_at", "updated_at"}
	if err := cw.Write(header); err != nil {
		return errs.NewAppInternalErr(err)
	}

	convert := timezone.ConverterFor(web.GetClientTimezone(ctx))

	err := h.UsersService.StreamAllUsers(ctx, func(usr user.User) error {
		record := []string{
			usr.ID.String(),
			usr.Username.String(),
			usr.Email.String(),
			usr.IsActive.String(),
			usr.IsSuperUser.String(),
			renderTime(usr.CreatedAt, convert),
			renderTime(usr.UpdatedAt, convert),
		}
		return cw.Write(record)
	})
	if err != nil {
		//headers already went out, nothing left to do but log upstream
		return errs.NewAppInternalErr(err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errs.NewAppInternalErr(err)
	}
	return nil
}

func renderTime(ts values.Timestamp, convert timezone.Converter) string {
	if ts.IsZero() {
		return ""
	}
	return convert(ts.Time())
}

// DeactivateUser flips the user inactive without removing the record.
func (h *Handler) DeactivateUser(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")

	userId, err := values.ParseID(id)
	if err != nil {
		return errs.NewAppErrorf(http.StatusBadRequest, "%q, invalid uuid", id)
	}

	usr, err := h.UsersService.DeactivateUser(ctx, userId)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return errs.NewAppErrorf(http.StatusNotFound, "%q, no user with this id", id)
		}
		return errs.NewAppInternalErr(err)
	}

	convert := timezone.ConverterFor(web.GetClientTimezone(ctx))
	return web.Respond(ctx, w, http.StatusOK, toAppUser(usr, convert))
}

// DeleteUserById removes the user record entirely.
func (h *Handler) DeleteUserById(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")

	userId, err := values.ParseID(id)
	if err != nil {
		return errs.NewAppErrorf(http.StatusBadRequest, "%q, invalid uuid", id)
	}

	if err := h.UsersService.DeleteUser(ctx, userId); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return errs.NewAppErrorf(http.StatusNotFound, "%q, no user with this id", id)
		}
		return errs.NewAppInternalErr(err)
	}

	return web.Respond(ctx, w, http.StatusNoContent, nil)
}
