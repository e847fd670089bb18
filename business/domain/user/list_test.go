package user_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ysaito/todoapi/business/domain/user"
	"github.com/ysaito/todoapi/business/domain/values"
)

func makeUser(t *testing.T, username string, email string, active bool, deleted bool) user.User {
	t.Helper()

	name, err := values.ParseUsername(username)
	if err != nil {
		t.Fatalf("expected the username to be parsed: %s", err)
	}
	addr, err := values.ParseEmail(email)
	if err != nil {
		t.Fatalf("expected the email to be parsed: %s", err)
	}
	pass, err := values.ParsePassword("test12345")
	if err != nil {
		t.Fatalf("expected the password to be parsed: %s", err)
	}

	usr := user.User{
		Username:    name,
		Email:       addr,
		Password:    pass,
		IsActive:    values.NewIsActive(active),
		IsSuperUser: values.NewIsSuperUser(false),
	}

	if deleted {
		ts, err := values.ParseTimestamp(time.Now().UTC())
		if err != nil {
			t.Fatalf("expected the timestamp to be parsed: %s", err)
		}
		usr.DeletedAt = ts
	}
	return usr
}

func TestListAddRemove(t *testing.T) {
	list := user.NewList(nil)
	if list.Len() != 0 {
		t.Fatalf("list.Len()= %d, got %d", 0, list.Len())
	}

	a := makeUser(t, "user_a", "a@example.com", true, false)
	b := makeUser(t, "user_b", "b@example.com", true, false)

	list.Add(a)
	list.Add(b)
	if list.Len() != 2 {
		t.Fatalf("list.Len()= %d, got %d", 2, list.Len())
	}

	if err := list.Remove(a); err != nil {
		t.Fatalf("expected the user to be removed: %s", err)
	}
	if list.Len() != 1 {
		t.Errorf("list.Len()= %d, got %d", 1, list.Len())
	}

	//removing it again is an error, not a silent no-op
	if err := list.Remove(a); !errors.Is(err, user.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if list.Len() != 1 {
		t.Errorf("a failed remove must not touch the count, got %d", list.Len())
	}
}

func TestListRemoveKeepsSourceIntact(t *testing.T) {
	a := makeUser(t, "user_a", "a@example.com", true, false)
	b := makeUser(t, "user_b", "b@example.com", true, false)
	c := makeUser(t, "user_c", "c@example.com", true, false)

	source := []user.User{a, b, c}
	list := user.NewList(source)

	if err := list.Remove(a); err != nil {
		t.Fatalf("expected the user to be removed: %s", err)
	}

	//the slice the list was built from is the caller's, removal must not
	//shift its elements around
	for i, want := range []user.User{a, b, c} {
		if !source[i].Equal(want) {
			t.Errorf("source[%d] changed, expected %s got %s", i, want.Username, source[i].Username)
		}
	}

	if list.Len() != 2 {
		t.Errorf("list.Len()= %d, got %d", 2, list.Len())
	}
}

func TestListFilters(t *testing.T) {
	active := makeUser(t, "user_active", "active@example.com", true, false)
	inactive := makeUser(t, "user_off", "off@example.com", false, false)
	deleted := makeUser(t, "user_gone", "gone@example.com", true, true)

	list := user.NewList([]user.User{active, inactive, deleted})

	actives := list.FilterActive()
	if actives.Len() != 2 {
		t.Errorf("actives.Len()= %d, got %d", 2, actives.Len())
	}
	if got := len(actives.All()); got != actives.Len() {
		t.Errorf("count %d diverged from held users %d", actives.Len(), got)
	}

	inactives := list.FilterInactive()
	if inactives.Len() != 1 {
		t.Errorf("inactives.Len()= %d, got %d", 1, inactives.Len())
	}

	alive := list.FilterNotSoftDeleted()
	if alive.Len() != 2 {
		t.Errorf("alive.Len()= %d, got %d", 2, alive.Len())
	}

	//the original list is untouched
	if list.Len() != 3 {
		t.Errorf("list.Len()= %d, got %d", 3, list.Len())
	}
}

func TestListGetByID(t *testing.T) {
	usr := makeUser(t, "user_a", "a@example.com", true, false)

	id, err := values.ParseID("3dc3bbbc-811a-4bb8-a6fc-fccd709e8158")
	if err != nil {
		t.Fatalf("expected the id to be parsed: %s", err)
	}
	usr.ID = id

	list := user.NewList([]user.User{usr})

	got, ok := list.GetByID(id.String())
	if !ok {
		t.Fatal("expected the user to be found")
	}
	if !got.Equal(usr) {
		t.Error("expected the found user to equal the stored one")
	}

	if _, ok := list.GetByID("a18fe19d-797a-42f5-85f6-6cac36eae323"); ok {
		t.Fatal("expected no user for an unknown id")
	}
}
