package user

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	eventQueue           = "user-events"
	eventUserCreated     = "user.created"
	eventUserDeactivated = "user.deactivated"
)

// event is the lifecycle message published to the broker. Consumers only get
// the identifying fields, never credentials.
type event struct {
	Type     string    `json:"type"`
	UserID   string    `json:"userId"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

func (s *Service) publish(eventType string, usr User) error {
	evt := event{
		Type:     eventType,
		UserID:   usr.ID.String(),
		Email:    usr.Email.String(),
		Username: usr.Username.String(),
		At:       time.Now().UTC(),
	}

	bs, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := s.events.Publish(eventQueue, bs); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
