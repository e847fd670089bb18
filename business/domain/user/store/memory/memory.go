// Package memory provides an in memory user repository used for testing.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ysaito/todoapi/business/domain/user"
	"github.com/ysaito/todoapi/business/domain/values"
)

type Repository struct {
	Users map[string]user.User
	mu    sync.Mutex
}

// Create stores the user, assigning id and lifecycle timestamps the way the
// database would. Collisions on email or username answer with the same
// *pgconn.PgError the unique indexes produce.
func (r *Repository) Create(ctx context.Context, usr user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Users == nil {
		r.Users = make(map[string]user.User)
	}

	for _, existing := range r.Users {
		if existing.Email.Key() == usr.Email.Key() {
			return user.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_idx"}
		}
		if existing.Username.Key() == usr.Username.Key() {
			return user.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_username_lower_idx"}
		}
	}

	id, err := values.ParseID(uuid.NewString())
	if err != nil {
		return user.User{}, err
	}

	now, err := values.ParseTimestamp(time.Now().UTC())
	if err != nil {
		return user.User{}, err
	}

	usr.ID = id
	usr.CreatedAt = now
	usr.UpdatedAt = now

	r.Users[id.String()] = usr
	return usr, nil
}

// Update replaces the stored user, returns sql.ErrNoRows if it is absent.
func (r *Repository) Update(ctx context.Context, usr user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Users[usr.ID.String()]; !ok {
		return user.User{}, sql.ErrNoRows
	}

	r.Users[usr.ID.String()] = usr
	return usr, nil
}

// GetByID returns the user with the given id or sql.ErrNoRows.
func (r *Repository) GetByID(ctx context.Context, id values.ID) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	usr, ok := r.Users[id.String()]
	if !ok {
		return user.User{}, sql.ErrNoRows
	}
	return usr, nil
}

// GetByEmail matches case-insensitively, same as the database unique index.
func (r *Repository) GetByEmail(ctx context.Context, email values.Email) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, usr := range r.Users {
		if usr.Email.Key() == email.Key() {
			return usr, nil
		}
	}
	return user.User{}, sql.ErrNoRows
}

// GetAll returns every user ordered by creation time.
func (r *Repository) GetAll(ctx context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]user.User, 0, len(r.Users))
	for _, usr := range r.Users {
		users = append(users, usr)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Time().Before(users[j].CreatedAt.Time())
	})

	return users, nil
}

// StreamAll walks every user in creation order.
func (r *Repository) StreamAll(ctx context.Context, fn func(user.User) error) error {
	users, err := r.GetAll(ctx)
	if err != nil {
		return err
	}

	for _, usr := range users {
		if err := fn(usr); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the user and reports whether anything was deleted.
func (r *Repository) Delete(ctx context.Context, id values.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Users[id.String()]; !ok {
		return false, nil
	}

	delete(r.Users, id.String())
	return true, nil
}
