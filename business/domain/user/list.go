package user

// List is an ordered collection of users that keeps its count in sync with
// the users it actually holds.
type List struct {
	users []User
	count int
}

// NewList builds a List from the given users.
func NewList(users []User) List {
	return List{
		users: users,
		count: len(users),
	}
}

// Add appends the user and bumps the count by one.
func (l *List) Add(usr User) {
	l.users = append(l.users, usr)
	l.count++
}

// Remove drops the first user that is structurally equal to the given one and
// decrements the count. Returns ErrUserNotFound when no match exists. The
// removal copies, the slice NewList was built from is never shifted in place.
func (l *List) Remove(usr User) error {
	for i, candidate := range l.users {
		if candidate.Equal(usr) {
			users := make([]User, 0, len(l.users)-1)
			users = append(users, l.users[:i]...)
			users = append(users, l.users[i+1:]...)
			l.users = users
			l.count--
			return nil
		}
	}
	return ErrUserNotFound
}

// GetByID returns the user with the given id and whether it was found.
func (l List) GetByID(id string) (User, bool) {
	for _, usr := range l.users {
		if usr.ID.String() == id {
			return usr, true
		}
	}
	return User{}, false
}

// FilterActive returns a new list holding only the active users.
func (l List) FilterActive() List {
	return l.filter(func(usr User) bool { return usr.IsActive.Value() })
}

// FilterInactive returns a new list holding only the inactive users.
func (l List) FilterInactive() List {
	return l.filter(func(usr User) bool { return !usr.IsActive.Value() })
}

// FilterNotSoftDeleted returns a new list holding only the users that have
// not been soft deleted.
func (l List) FilterNotSoftDeleted() List {
	return l.filter(func(usr User) bool { return !usr.IsDeleted() })
}

func (l List) filter(keep func(User) bool) List {
	filtered := make([]User, 0, len(l.users))
	for _, usr := range l.users {
		if keep(usr) {
			filtered = append(filtered, usr)
		}
	}
	return NewList(filtered)
}

// Len returns the maintained count, always equal to the number of users held.
func (l List) Len() int {
	return l.count
}

// All returns a snapshot of the users in order.
func (l List) All() []User {
	out := make([]User, len(l.users))
	copy(out, l.users)
	return out
}
