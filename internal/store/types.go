package store

import (
	"errors"
	"time"
)

var ErrNotConfigured = errors.New("store: storage is not configured")

// Contact is a stored row. Rows come back in insertion order.
type Contact struct {
	ID           string
	Name         string
	PhoneNumber  string
	ProfileImage *string
	CreatedAt    time.Time
}

type ContactInsert struct {
	ID           string
	Name         string
	PhoneNumber  string
	ProfileImage *string
	Now          time.Time
}

func (in ContactInsert) Row() Contact {
	return Contact{
		ID:           in.ID,
		Name:         in.Name,
		PhoneNumber:  in.PhoneNumber,
		ProfileImage: CloneString(in.ProfileImage),
		CreatedAt:    in.Now.UTC(),
	}
}

func CloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
