package service

import (
	"context"
	"log/slog"
	"time"

	"phonebook/internal/domain"
	"phonebook/internal/imagecodec"
	"phonebook/internal/observability"
	"phonebook/internal/store"
	"phonebook/internal/util"
)

type Store interface {
	InsertContact(ctx context.Context, in store.ContactInsert) error
	ListContacts(ctx context.Context) ([]store.Contact, error)
}

type Events interface {
	PublishContactAdded(ctx context.Context, ev domain.ContactAddedEvent) error
}

type NopEvents struct{}

func (NopEvents) PublishContactAdded(context.Context, domain.ContactAddedEvent) error { return nil }

// ContactService is the contact book: append-only writes, full-list reads.
type ContactService struct {
	Store  Store
	Events Events
	IDGen  func() string
	Now    func() time.Time
}

func (s *ContactService) Add(ctx context.Context, req domain.AddContactRequest) (domain.Contact, error) {
	req, err := req.Normalized()
	if err != nil {
		observability.ContactsAdded.WithLabelValues("invalid").Inc()
		return domain.Contact{}, err
	}

	var image *string
	if req.ProfileImage != nil {
		enc := imagecodec.Encode(req.ProfileImage)
		image = &enc
	}

	in := store.ContactInsert{
		ID:           s.newID(),
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
		ProfileImage: image,
		Now:          s.now(),
	}
	if err := s.Store.InsertContact(ctx, in); err != nil {
		observability.ContactsAdded.WithLabelValues("error").Inc()
		return domain.Contact{}, &domain.PersistenceError{Op: "add contact", Err: err}
	}
	observability.ContactsAdded.WithLabelValues("ok").Inc()

	c := toDomain(in.Row())
	s.publishAdded(ctx, c)
	return c, nil
}

// List returns every stored contact in insertion order.
func (s *ContactService) List(ctx context.Context) ([]domain.Contact, error) {
	rows, err := s.Store.ListContacts(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list contacts", Err: err}
	}
	out := make([]domain.Contact, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDomain(r))
	}
	return out, nil
}

func (s *ContactService) publishAdded(ctx context.Context, c domain.Contact) {
	if s.Events == nil {
		return
	}
	err := s.Events.PublishContactAdded(ctx, domain.ContactAddedEvent{
		ContactID:   c.ID,
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		HasImage:    c.HasImage(),
		CreatedAt:   c.CreatedAt,
	})
	if err != nil {
		observability.EventPublishes.WithLabelValues("error").Inc()
		slog.Warn("publish contact added failed", "err", err, "contact_id", c.ID)
		return
	}
	observability.EventPublishes.WithLabelValues("ok").Inc()
}

func (s *ContactService) newID() string {
	if s.IDGen != nil {
		return s.IDGen()
	}
	return util.NewContactID()
}

func (s *ContactService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return util.NowUTC()
}

func toDomain(r store.Contact) domain.Contact {
	return domain.Contact{
		ID:           r.ID,
		Name:         r.Name,
		PhoneNumber:  r.PhoneNumber,
		ProfileImage: store.CloneString(r.ProfileImage),
		CreatedAt:    r.CreatedAt,
	}
}
