// Package user implements the user domain: the entity built from values, the
// count-keeping List and the Service holding the application use-cases.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/ysaito/todoapi/business/domain/values"
)

const (
	uniqueViolation = "23505"

	//unique index names from the users migration
	emailUniqueIdx    = "users_email_lower_idx"
	usernameUniqueIdx = "users_username_lower_idx"
)

var (
	ErrUniqueEmail    = errors.New("email is already in use")
	ErrUniqueUsername = errors.New("username is already in use")
	ErrUserNotFound   = errors.New("user not found")
)

// comparing against this hash keeps Authenticate from answering faster for
// unknown emails than for wrong passwords.
var timingHash, _ = bcrypt.GenerateFromPassword([]byte("timing equalizer"), bcrypt.DefaultCost)

// repository represents the persistence capabilities the service consumes.
// The repository owns identity assignment: Create and Update hand back the
// entity as stored, with id and timestamps filled in.
type repository interface {
	Create(ctx context.Context, usr User) (User, error)
	Update(ctx context.Context, usr User) (User, error)
	GetByID(ctx context.Context, id values.ID) (User, error)
	GetByEmail(ctx context.Context, email values.Email) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	StreamAll(ctx context.Context, fn func(User) error) error
	Delete(ctx context.Context, id values.ID) (bool, error)
}

// publisher represents the broker capabilities used to announce user
// lifecycle events.
type publisher interface {
	DeclareQueue(name string) error
	Publish(queue string, msg []byte) error
}

// Service represents the set of APIs needed to interact with the user domain.
type Service struct {
	repo   repository
	events publisher
}

// NewService creates the user service and declares the lifecycle event queue.
func NewService(repo repository, events publisher) (*Service, error) {
	if err := events.DeclareQueue(eventQueue); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	return &Service{
		repo:   repo,
		events: events,
	}, nil
}

// CreateUser validates the raw inputs into values, enforces email and
// username uniqueness and persists the new user. Returns ErrUniqueEmail or
// ErrUniqueUsername on a collision and *values.ValidationError on malformed
// inputs, before any repository call.
func (s *Service) CreateUser(ctx context.Context, nu NewUser) (User, error) {
	username, err := values.ParseUsername(strings.TrimSpace(nu.Username))
	if err != nil {
		return User{}, err
	}

	email, err := values.ParseEmail(nu.Email)
	if err != nil {
		return User{}, err
	}

	password, err := values.ParsePassword(nu.Password)
	if err != nil {
		return User{}, err
	}

	//uniqueness check first, the unique index below is the safety net for the
	//window between this check and the insert
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrUniqueEmail
	} else if !errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("get by email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password.String()), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("generate from password: %w", err)
	}

	hashed, err := values.ParsePassword(string(hash))
	if err != nil {
		return User{}, fmt.Errorf("wrapping password hash: %w", err)
	}

	usr := User{
		Username:    username,
		Email:       email,
		Password:    hashed,
		IsActive:    values.NewIsActive(true),
		IsSuperUser: values.NewIsSuperUser(false),
	}

	created, err := s.repo.Create(ctx, usr)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			//two unique indexes can fire here, the constraint name tells
			//which column the caller actually collided on
			if pgErr.ConstraintName == usernameUniqueIdx {
				return User{}, ErrUniqueUsername
			}
			return User{}, ErrUniqueEmail
		}
		return User{}, fmt.Errorf("create: %w", err)
	}

	if err := s.publish(eventUserCreated, created); err != nil {
		return User{}, fmt.Errorf("publish created event: %w", err)
	}

	return created, nil
}

// GetUserByID fetches the user with the given id, returns ErrUserNotFound if
// it does not exist.
func (s *Service) GetUserByID(ctx context.Context, id values.ID) (User, error) {
	usr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("get by id: %w", err)
	}
	return usr, nil
}

// GetUserByEmail fetches the user with the given email, returns
// ErrUserNotFound if it does not exist.
func (s *Service) GetUserByEmail(ctx context.Context, email values.Email) (User, error) {
	usr, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("get by email: %w", err)
	}
	return usr, nil
}

// GetAllUsers returns every user ordered by creation time.
func (s *Service) GetAllUsers(ctx context.Context) (List, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return List{}, fmt.Errorf("get all: %w", err)
	}
	return NewList(users), nil
}

// StreamAllUsers walks every user ordered by creation time without
// materializing them, calling fn once per user.
func (s *Service) StreamAllUsers(ctx context.Context, fn func(User) error) error {
	if err := s.repo.StreamAll(ctx, fn); err != nil {
		return fmt.Errorf("stream all: %w", err)
	}
	return nil
}

// DeactivateUser fetches the user, flips it inactive and persists the change.
// Returns ErrUserNotFound if the id is absent.
func (s *Service) DeactivateUser(ctx context.Context, id values.ID) (User, error) {
	usr, err := s.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	usr.Deactivate()

	now, err := values.ParseTimestamp(time.Now().UTC())
	if err != nil {
		return User{}, fmt.Errorf("timestamp: %w", err)
	}
	usr.UpdatedAt = now

	updated, err := s.repo.Update(ctx, usr)
	if err != nil {
		return User{}, fmt.Errorf("update: %w", err)
	}

	if err := s.publish(eventUserDeactivated, updated); err != nil {
		return User{}, fmt.Errorf("publish deactivated event: %w", err)
	}

	return updated, nil
}

// DeleteUser removes the user row entirely. Returns ErrUserNotFound when
// nothing was deleted.
func (s *Service) DeleteUser(ctx context.Context, id values.ID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

// Authenticate looks the user up by email and verifies the password. A
// missing user and a wrong password both come back as ok=false with a nil
// error, the caller cannot tell which case occurred.
func (s *Service) Authenticate(ctx context.Context, email values.Email, password string) (User, bool, error) {
	usr, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = bcrypt.CompareHashAndPassword(timingHash, []byte(password))
			return User{}, false, nil
		}
		return User{}, false, fmt.Errorf("get by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.Password.String()), []byte(password)); err != nil {
		return User{}, false, nil
	}

	return usr, true, nil
}
