package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ysaito/todoapi/business/dbtest"
	"github.com/ysaito/todoapi/business/domain/user"
	"github.com/ysaito/todoapi/business/domain/user/store/postgres"
	"github.com/ysaito/todoapi/business/domain/values"
	"golang.org/x/crypto/bcrypt"
)

func makeUser(t *testing.T, username string, email string) user.User {
	t.Helper()

	name, err := values.ParseUsername(username)
	if err != nil {
		t.Fatalf("expected the username to be parsed: %s", err)
	}
	addr, err := values.ParseEmail(email)
	if err != nil {
		t.Fatalf("expected the email to be parsed: %s", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("test12345"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("expected the password to be hashed: %s", err)
	}
	pass, err := values.ParsePassword(string(hash))
	if err != nil {
		t.Fatalf("expected the hash to be wrapped: %s", err)
	}

	return user.User{
		Username:    name,
		Email:       addr,
		Password:    pass,
		IsActive:    values.NewIsActive(true),
		IsSuperUser: values.NewIsSuperUser(false),
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()

	pgClient := dbtest.NewDatabaseClient(t, "test_create_user")
	repo := postgres.NewRepository(pgClient)

	usr := makeUser(t, "john_doe", "john@example.com")

	created, err := repo.Create(context.Background(), usr)
	if err != nil {
		t.Fatalf("should be able to create a user in db with valid data: %s", err)
	}

	if created.ID.IsZero() {
		t.Error("expected the database to assign an id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected the database to assign timestamps")
	}
	if !created.IsActive.Value() {
		t.Error("expected the database default to be active")
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	t.Parallel()

	pgClient := dbtest.NewDatabaseClient(t, "test_create_dup_user")
	repo := postgres.NewRepository(pgClient)

	if _, err := repo.Create(context.Background(), makeUser(t, "john_doe", "john@example.com")); err != nil {
		t.Fatalf("should be able to create the first user: %s", err)
	}

	//different case, same address, the unique index on LOWER(email) fires
	_, err := repo.Create(context.Background(), makeUser(t, "john_two", "JOHN@example.com"))
	if err == nil {
		t.Fatal("expected the duplicate email to be rejected")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Fatalf("expected a *pgconn.PgError, got %T", err)
	}
	if pgErr.Code != "23505" {
		t.Errorf("pgErr.Code= %s, got %s", "23505", pgErr.Code)
	}
}

func TestCreateDuplicateUsername(t *testing.T) {
	t.Parallel()

	pgClient := dbtest.NewDatabaseClient(t, "test_create_dup_username")
	repo := postgres.NewRepository(pgClient)

	if _, err := repo.Create(context.Background(), makeUser(t, "john_doe", "john@example.com")); err != nil {
		t.Fatalf("should be able to create the first user: %s", err)
	}

	//fresh email, same username in a different case, the unique index on
	//LOWER(username) fires and names itself in the error
	_, err := repo.Create(context.Background(), makeUser(t, "JOHN_DOE", "john.two@example.com"))
	if err == nil {
		t.Fatal("expected the duplicate username to be rejected")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Fatalf("expected a *pgconn.PgError, got %T", err)
	}
	if pgErr.Code != "23505" {
		t.Errorf("pgErr.Code= %s, got %s", "23505", pgErr.Code)
	}
	if pgErr.ConstraintName != "users_username_lower_idx" {
		t.Errorf("pgErr.ConstraintName= %s, got %s", "users_username_lower_idx", pgErr.ConstraintName)
	}
}

func TestGetByIDAndEmail(t *testing.T) {
	t.Parallel()

	pgClient := dbtest.NewDatabaseClient(t, "test_get_user")
	repo := postgres.NewRepository(pgClient)

	created, err := repo.Create(context.Background(), makeUser(t, "john_doe", "john@example.com"))
	if err != nil {
		t.Fatalf("should be able to create a user: %s", err)
	}

	got, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("should be able to fetch user %q: %s", created.ID, err)
	}
	if !got.Equal(created) {
		t.Error("expected the fetched user to equal the created one")
	}

	//lookup is case-insensitive
	email, err := values.ParseEmail("JOHN@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("expected the email to be parsed: %s", err)
	}
	got, err = repo.GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("should be able to fetch user by email: %s", err)
	}
	if !got.ID.Equal(created.ID) {
		t.Errorf("got.ID= %s, got %s", created.ID, got.ID)
	}

	//unknown id
	ghost, err := values.ParseID("a18fe19d-797a-42f5-85f6-6cac36eae323")
	if err != nil {
		t.Fatalf("expected the id to be parsed: %s", err)
	}
	if _, err := repo.GetByID(context.Background(), ghost); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	pgClient := dbtest.NewDatabaseClient(t, "test_update_user")
	repo := postgres.NewRepository(pgClient)

	created, err := repo.Create(context.Background(), makeUser(t, "john_doe", "john@example.com"))
	if err != nil {
		t.Fatalf("should be able to create a user: %s", err)
	}

	created.Deactivate()

	updated, err := repo.Update(context.Background(), created)
	if err != nil {
		t.Fatalf("expected the updates to apply: %s", err)
	}
	if updated.IsActive.Value() {
		t.Error("expected the user to be inactive after update")
	}

	got, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("expected to fetch the updated user: %s", err)
	}
	if got.IsActive.Value() {
		t.Error("expected the stored user to be inactive")
	}
	//the password column is not part of the update statement
	if !got.Password.Equal(created.Password) {
		t.Error("expected the password to be untouched by update")
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	pgClient := dbtest.NewDatabaseClient(t, "test_delete_user")
	repo := postgres.NewRepository(pgClient)

	created, err := repo.Create(context.Background(), makeUser(t, "john_doe", "john@example.com"))
	if err != nil {
		t.Fatalf("should be able to create a user: %s", err)
	}

	deleted, err := repo.Delete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("should be able to delete user: %s", err)
	}
	if !deleted {
		t.Fatal("expected the delete to report a removed row")
	}

	if _, err := repo.GetByID(context.Background(), created.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected error to be %v but got %v", sql.ErrNoRows, err)
	}

	deleted, err = repo.Delete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("a second delete must not fail: %s", err)
	}
	if deleted {
		t.Fatal("expected the second delete to remove nothing")
	}
}

func TestStreamAll(t *testing.T) {
	t.Parallel()

	pgClient := dbtest.NewDatabaseClient(t, "test_stream_users")
	repo := postgres.NewRepository(pgClient)

	//the migrations seed one admin account
	inserted := []string{"user_one", "user_two", "user_three"}
	for i, username := range inserted {
		usr := makeUser(t, username, username+"@example.com")
		if _, err := repo.Create(context.Background(), usr); err != nil {
			t.Fatalf("should be able to create user %d: %s", i, err)
		}
	}

	var streamed []user.User
	err := repo.StreamAll(context.Background(), func(usr user.User) error {
		streamed = append(streamed, usr)
		return nil
	})
	if err != nil {
		t.Fatalf("expected to stream all users: %s", err)
	}

	want := len(inserted) + 1
	if len(streamed) != want {
		t.Fatalf("len(streamed)= %d, got %d", want, len(streamed))
	}

	all, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("expected to fetch all users: %s", err)
	}
	if len(all) != want {
		t.Fatalf("len(all)= %d, got %d", want, len(all))
	}

	//creation order
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.Time().Before(all[i-1].CreatedAt.Time()) {
			t.Fatal("expected users ordered by creation time")
		}
	}
}
