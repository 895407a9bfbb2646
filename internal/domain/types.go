package domain

import (
	"errors"
	"strings"
	"time"

	"phonebook/internal/phone"
)

// Contact is one phone book entry. ProfileImage holds the base64 form of the
// image; nil means the contact has no image.
type Contact struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phoneNumber"`
	ProfileImage *string   `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (c Contact) HasImage() bool { return c.ProfileImage != nil }

// AddContactRequest carries raw image bytes; the service encodes them. A
// non-nil ProfileImage is stored even when empty.
type AddContactRequest struct {
	Name         string
	PhoneNumber  string
	ProfileImage []byte
}

func (r AddContactRequest) Validate() error {
	if r.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if r.PhoneNumber == "" {
		return &ValidationError{Field: "phoneNumber", Reason: "required"}
	}
	return nil
}

// Normalized trims the fields, validates them and puts the phone number in
// stored form. Errors are *ValidationError.
func (r AddContactRequest) Normalized() (AddContactRequest, error) {
	r.Name = strings.TrimSpace(r.Name)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	if err := r.Validate(); err != nil {
		return r, err
	}
	number, err := phone.Normalize(r.PhoneNumber)
	if err != nil {
		reason := "must contain digits"
		switch {
		case errors.Is(err, phone.ErrTooManyDigits):
			reason = "too many digits"
		case errors.Is(err, phone.ErrInvalidCharacters):
			reason = "only digits, spaces and dashes are allowed"
		}
		return r, &ValidationError{Field: "phoneNumber", Reason: reason}
	}
	r.PhoneNumber = number
	return r, nil
}

var (
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failed")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PersistenceError wraps a storage backend failure. The failed operation left
// previously stored contacts untouched.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// Wire types for the HTTP API.

type CreateContactRequest struct {
	Name         string `json:"name"`
	PhoneNumber  string `json:"phoneNumber"`
	ProfileImage string `json:"profileImage,omitempty"`
	RandomAvatar bool   `json:"randomAvatar,omitempty"`
}

type ListContactsResponse struct {
	Contacts []Contact `json:"contacts"`
}

type PhoneEditRequest struct {
	Current string `json:"current"`
	Insert  string `json:"insert,omitempty"`
	Delete  bool   `json:"delete,omitempty"`
}

type PhoneEditResponse struct {
	Text     string `json:"text"`
	Accepted bool   `json:"accepted"`
}

// ContactAddedEvent is published after a contact is stored.
type ContactAddedEvent struct {
	ContactID   string    `json:"contactId"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phoneNumber"`
	HasImage    bool      `json:"hasImage"`
	CreatedAt   time.Time `json:"createdAt"`
}
