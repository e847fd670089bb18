// Package postgres implements the user repository on top of the postgres
// client. Identity and lifecycle timestamps are assigned by the database and
// handed back through RETURNING clauses.
package postgres

import (
	"context"
	"fmt"

	"github.com/ysaito/todoapi/business/database/postgres"
	"github.com/ysaito/todoapi/business/domain/user"
	"github.com/ysaito/todoapi/business/domain/values"
)

const userColumns = "id,username,email,password_hash,is_active,is_superuser,created_at,updated_at,deleted_at"

// Repository represents the set of APIs used to interact with the users table.
type Repository struct {
	client *postgres.Client
}

// NewRepository provides APIs to interact with the store.
func NewRepository(pgClient *postgres.Client) *Repository {
	return &Repository{
		client: pgClient,
	}
}

// Create inserts the user. Only username, email and the password hash come
// from the entity, everything else is database assigned.
func (r *Repository) Create(ctx context.Context, usr user.User) (user.User, error) {
	const q = `
	INSERT INTO users
		(username,email,password_hash)
	VALUES
		($1,$2,$3)
	RETURNING ` + userColumns

	du := toDBUser(usr)

	row := r.client.DB.QueryRowContext(ctx, q, du.Username, du.Email, du.PasswordHash)

	stored, err := scanUser(row)
	if err != nil {
		return user.User{}, fmt.Errorf("insert: %w", err)
	}

	return stored.toCoreUser()
}

// Update writes the mutable fields back. The password hash is deliberately
// not part of the statement, password changes go through a dedicated path.
func (r *Repository) Update(ctx context.Context, usr user.User) (user.User, error) {
	const q = `
	UPDATE
		users
	SET
		username = $1,
		email = $2,
		is_active = $3,
		is_superuser = $4,
		updated_at = $5
	WHERE id = $6
	RETURNING ` + userColumns

	du := toDBUser(usr)

	row := r.client.DB.QueryRowContext(ctx, q,
		du.Username,
		du.Email,
		du.IsActive,
		du.IsSuperUser,
		du.UpdatedAt,
		du.ID,
	)

	stored, err := scanUser(row)
	if err != nil {
		return user.User{}, fmt.Errorf("update: %w", err)
	}

	return stored.toCoreUser()
}

// GetByID fetches a single user, sql.ErrNoRows bubbles up when it is absent.
func (r *Repository) GetByID(ctx context.Context, id values.ID) (user.User, error) {
	const q = `
	SELECT ` + userColumns + `
	FROM users
	WHERE id = $1`

	row := r.client.DB.QueryRowContext(ctx, q, id.String())

	stored, err := scanUser(row)
	if err != nil {
		return user.User{}, err
	}

	return stored.toCoreUser()
}

// GetByEmail matches case-insensitively, backed by the unique index on
// lower(email).
func (r *Repository) GetByEmail(ctx context.Context, email values.Email) (user.User, error) {
	const q = `
	SELECT ` + userColumns + `
	FROM users
	WHERE LOWER(email) = $1`

	row := r.client.DB.QueryRowContext(ctx, q, email.Key())

	stored, err := scanUser(row)
	if err != nil {
		return user.User{}, err
	}

	return stored.toCoreUser()
}

// GetAll returns every user ordered by creation time.
func (r *Repository) GetAll(ctx context.Context) ([]user.User, error) {
	var users []user.User

	err := r.StreamAll(ctx, func(usr user.User) error {
		users = append(users, usr)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}

// StreamAll walks the users table one row at a time in creation order,
// calling fn per user without materializing the whole set.
func (r *Repository) StreamAll(ctx context.Context, fn func(user.User) error) error {
	const q = `
	SELECT ` + userColumns + `
	FROM users
	ORDER BY created_at`

	rows, err := r.client.DB.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		stored, err := scanUser(rows)
		if err != nil {
			return err
		}

		usr, err := stored.toCoreUser()
		if err != nil {
			return err
		}

		if err := fn(usr); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	return nil
}

// Delete removes the row and reports whether anything was deleted.
func (r *Repository) Delete(ctx context.Context, id values.ID) (bool, error) {
	const q = `
	DELETE FROM users WHERE id = $1`

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

// scanner lets scanUser work against both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (dbUser, error) {
	var du dbUser

	err := row.Scan(
		&du.ID,
		&du.Username,
		&du.Email,
		&du.PasswordHash,
		&du.IsActive,
		&du.IsSuperUser,
		&du.CreatedAt,
		&du.UpdatedAt,
		&du.DeletedAt,
	)
	if err != nil {
		return dbUser{}, err
	}

	return du, nil
}
