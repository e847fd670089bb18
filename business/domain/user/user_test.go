package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	brokerMemory "github.com/ysaito/todoapi/business/broker/memory"
	"github.com/ysaito/todoapi/business/domain/user"
	"github.com/ysaito/todoapi/business/domain/user/store/memory"
	"github.com/ysaito/todoapi/business/domain/values"
)

func newTestService(t *testing.T) (*user.Service, *memory.Repository, *brokerMemory.Client) {
	repo := &memory.Repository{}
	broker := &brokerMemory.Client{}

	service, err := user.NewService(repo, broker)
	if err != nil {
		t.Fatalf("expected to create the user service: %s", err)
	}
	return service, repo, broker
}

func TestCreateUser(t *testing.T) {
	service, repo, broker := newTestService(t)

	nu := user.NewUser{
		Username: "  john_doe  ",
		Email:    "John@Example.com",
		Password: "test12345",
	}

	usr, err := service.CreateUser(context.Background(), nu)
	if err != nil {
		t.Fatalf("expected the user to be created: %s", err)
	}

	if usr.ID.IsZero() {
		t.Error("expected the repository to assign an id")
	}
	if usr.CreatedAt.IsZero() || usr.UpdatedAt.IsZero() {
		t.Error("expected the repository to assign timestamps")
	}
	if got := usr.Username.String(); got != "john_doe" {
		t.Errorf("usr.Username= %q, got %q", "john_doe", got)
	}
	if !usr.IsActive.Value() {
		t.Error("expected new users to be active")
	}
	if usr.IsSuperUser.Value() {
		t.Error("expected new users not to be superusers")
	}
	if usr.Password.String() == nu.Password {
		t.Error("expected the stored password to be hashed")
	}
	if len(repo.Users) != 1 {
		t.Errorf("len(repo.Users)= %d, got %d", 1, len(repo.Users))
	}

	//lifecycle event
	msgs := broker.Messages("user-events")
	if len(msgs) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(msgs))
	}
	var event struct {
		Type  string `json:"type"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(msgs[0], &event); err != nil {
		t.Fatalf("expected the event to be json: %s", err)
	}
	if event.Type != "user.created" {
		t.Errorf("event.Type= %q, got %q", "user.created", event.Type)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	service, _, _ := newTestService(t)

	nu := user.NewUser{
		Username: "jane_doe",
		Email:    "jane@example.com",
		Password: "test12345",
	}

	if _, err := service.CreateUser(context.Background(), nu); err != nil {
		t.Fatalf("expected the first user to be created: %s", err)
	}

	//same address, different case
	nu.Username = "jane_two"
	nu.Email = "JANE@EXAMPLE.COM"

	_, err := service.CreateUser(context.Background(), nu)
	if !errors.Is(err, user.ErrUniqueEmail) {
		t.Fatalf("expected ErrUniqueEmail, got %v", err)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	service, repo, _ := newTestService(t)

	nu := user.NewUser{
		Username: "jane_doe",
		Email:    "jane@example.com",
		Password: "test12345",
	}

	if _, err := service.CreateUser(context.Background(), nu); err != nil {
		t.Fatalf("expected the first user to be created: %s", err)
	}

	//same username, different case, fresh email: only the username index fires
	nu.Username = "JANE_DOE"
	nu.Email = "jane.two@example.com"

	_, err := service.CreateUser(context.Background(), nu)
	if !errors.Is(err, user.ErrUniqueUsername) {
		t.Fatalf("expected ErrUniqueUsername, got %v", err)
	}
	if errors.Is(err, user.ErrUniqueEmail) {
		t.Fatal("a username collision must not be reported as an email collision")
	}
	if len(repo.Users) != 1 {
		t.Errorf("len(repo.Users)= %d, got %d", 1, len(repo.Users))
	}
}

func TestCreateUserValidatesBeforeStore(t *testing.T) {
	service, repo, broker := newTestService(t)

	tests := map[string]user.NewUser{
		"short username":   {Username: "ab", Email: "a@b.com", Password: "test12345"},
		"bad charset":      {Username: "john doe", Email: "a@b.com", Password: "test12345"},
		"email without at": {Username: "john_doe", Email: "nodomain", Password: "test12345"},
		"short password":   {Username: "john_doe", Email: "a@b.com", Password: "short"},
	}

	for name, nu := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := service.CreateUser(context.Background(), nu)

			var vErr *values.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected a *values.ValidationError, got %v", err)
			}
		})
	}

	if len(repo.Users) != 0 {
		t.Errorf("expected no users to be stored, got %d", len(repo.Users))
	}
	if msgs := broker.Messages("user-events"); len(msgs) != 0 {
		t.Errorf("expected no events to be published, got %d", len(msgs))
	}
}

func TestAuthenticate(t *testing.T) {
	service, _, _ := newTestService(t)

	nu := user.NewUser{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "test12345",
	}
	created, err := service.CreateUser(context.Background(), nu)
	if err != nil {
		t.Fatalf("expected the user to be created: %s", err)
	}

	email, err := values.ParseEmail("john@example.com")
	if err != nil {
		t.Fatalf("expected the email to be parsed: %s", err)
	}

	//success
	usr, ok, err := service.Authenticate(context.Background(), email, "test12345")
	if err != nil {
		t.Fatalf("expected authenticate to not fail: %s", err)
	}
	if !ok {
		t.Fatal("expected the credentials to match")
	}
	if !usr.ID.Equal(created.ID) {
		t.Errorf("usr.ID= %s, got %s", created.ID, usr.ID)
	}

	//wrong password
	_, ok, err = service.Authenticate(context.Background(), email, "wrongpass")
	if err != nil {
		t.Fatalf("wrong password is a normal no, not an error: %s", err)
	}
	if ok {
		t.Fatal("expected the credentials to not match")
	}

	//unknown email looks exactly the same
	unknown, err := values.ParseEmail("ghost@example.com")
	if err != nil {
		t.Fatalf("expected the email to be parsed: %s", err)
	}
	_, ok, err = service.Authenticate(context.Background(), unknown, "test12345")
	if err != nil {
		t.Fatalf("unknown email is a normal no, not an error: %s", err)
	}
	if ok {
		t.Fatal("expected no match for an unknown email")
	}
}

func TestDeactivateUser(t *testing.T) {
	service, _, broker := newTestService(t)

	created, err := service.CreateUser(context.Background(), user.NewUser{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "test12345",
	})
	if err != nil {
		t.Fatalf("expected the user to be created: %s", err)
	}

	deactivated, err := service.DeactivateUser(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("expected the user to be deactivated: %s", err)
	}
	if deactivated.IsActive.Value() {
		t.Error("expected the user to be inactive")
	}
	if !deactivated.UpdatedAt.Time().After(created.UpdatedAt.Time()) && !deactivated.UpdatedAt.Equal(created.UpdatedAt) {
		t.Error("expected UpdatedAt to move forward")
	}

	//deactivating twice is fine
	again, err := service.DeactivateUser(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("expected a second deactivate to succeed: %s", err)
	}
	if again.IsActive.Value() {
		t.Error("expected the user to stay inactive")
	}

	msgs := broker.Messages("user-events")
	//created + 2 deactivated
	if len(msgs) != 3 {
		t.Errorf("expected 3 published events, got %d", len(msgs))
	}

	//unknown id
	ghost, err := values.ParseID("a18fe19d-797a-42f5-85f6-6cac36eae323")
	if err != nil {
		t.Fatalf("expected the id to be parsed: %s", err)
	}
	if _, err := service.DeactivateUser(context.Background(), ghost); !errors.Is(err, user.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	service, repo, _ := newTestService(t)

	created, err := service.CreateUser(context.Background(), user.NewUser{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "test12345",
	})
	if err != nil {
		t.Fatalf("expected the user to be created: %s", err)
	}

	if err := service.DeleteUser(context.Background(), created.ID); err != nil {
		t.Fatalf("expected the user to be deleted: %s", err)
	}
	if len(repo.Users) != 0 {
		t.Errorf("expected the repo to be empty, got %d users", len(repo.Users))
	}

	if err := service.DeleteUser(context.Background(), created.ID); !errors.Is(err, user.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetAllUsers(t *testing.T) {
	service, _, _ := newTestService(t)

	inputs := []user.NewUser{
		{Username: "user_one", Email: "one@example.com", Password: "test12345"},
		{Username: "user_two", Email: "two@example.com", Password: "test12345"},
	}
	for _, nu := range inputs {
		if _, err := service.CreateUser(context.Background(), nu); err != nil {
			t.Fatalf("expected the user %q to be created: %s", nu.Username, err)
		}
	}

	list, err := service.GetAllUsers(context.Background())
	if err != nil {
		t.Fatalf("expected to fetch all users: %s", err)
	}
	if list.Len() != len(inputs) {
		t.Errorf("list.Len()= %d, got %d", len(inputs), list.Len())
	}

	var streamed int
	err = service.StreamAllUsers(context.Background(), func(user.User) error {
		streamed++
		return nil
	})
	if err != nil {
		t.Fatalf("expected to stream all users: %s", err)
	}
	if streamed != len(inputs) {
		t.Errorf("streamed= %d, got %d", len(inputs), streamed)
	}
}
