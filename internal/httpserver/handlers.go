package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"phonebook/internal/domain"
	"phonebook/internal/imagecodec"
	"phonebook/internal/observability"
	"phonebook/internal/phone"
	"phonebook/internal/providers/pokeapi"
)

type Contacts interface {
	Add(ctx context.Context, req domain.AddContactRequest) (domain.Contact, error)
	List(ctx context.Context) ([]domain.Contact, error)
}

type Avatars interface {
	FetchRandom(ctx context.Context) (pokeapi.Image, error)
}

type API struct {
	Contacts Contacts
	// Avatars may be nil; random avatars are then unavailable.
	Avatars       Avatars
	AvatarTimeout time.Duration
}

func (a *API) Register(r *mux.Router) {
	r.HandleFunc("/v1/contacts", a.handleCreateContact).Methods(http.MethodPost)
	r.HandleFunc("/v1/contacts", a.handleListContacts).Methods(http.MethodGet)
	r.HandleFunc("/v1/phone/edits", a.handlePhoneEdit).Methods(http.MethodPost)
	r.HandleFunc("/v1/avatars/random", a.handleRandomAvatar).Methods(http.MethodGet)
}

func (a *API) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrInvalidJSON, http.StatusBadRequest)
		return
	}

	add, err := domain.AddContactRequest{Name: req.Name, PhoneNumber: req.PhoneNumber}.Normalized()
	if err != nil {
		writeContactError(w, err, "add contact failed")
		return
	}

	if req.ProfileImage != "" {
		b, err := imagecodec.Decode(req.ProfileImage)
		if err != nil {
			http.Error(w, ErrInvalidImage, http.StatusBadRequest)
			return
		}
		add.ProfileImage = b
	} else if req.RandomAvatar {
		// fetched only for requests that will be stored
		add.ProfileImage = a.randomAvatar(r.Context())
	}

	c, err := a.Contacts.Add(r.Context(), add)
	if err != nil {
		writeContactError(w, err, "add contact failed")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (a *API) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := a.Contacts.List(r.Context())
	if err != nil {
		writeContactError(w, err, "list contacts failed")
		return
	}
	writeJSON(w, http.StatusOK, domain.ListContactsResponse{Contacts: contacts})
}

func (a *API) handlePhoneEdit(w http.ResponseWriter, r *http.Request) {
	var req domain.PhoneEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrInvalidJSON, http.StatusBadRequest)
		return
	}
	edit, kind := phone.Insert(req.Insert), "insert"
	if req.Delete {
		edit, kind = phone.Backspace(), "delete"
	}
	text, accepted := phone.Apply(req.Current, edit)
	observability.PhoneEdits.WithLabelValues(kind, strconv.FormatBool(accepted)).Inc()
	writeJSON(w, http.StatusOK, domain.PhoneEditResponse{Text: text, Accepted: accepted})
}

func (a *API) handleRandomAvatar(w http.ResponseWriter, r *http.Request) {
	if a.Avatars == nil {
		http.Error(w, ErrNoAvatars, http.StatusServiceUnavailable)
		return
	}
	ctx, cancel := a.avatarContext(r.Context())
	defer cancel()
	img, err := a.Avatars.FetchRandom(ctx)
	if err != nil {
		slog.Warn("random avatar fetch failed", "err", err)
		http.Error(w, ErrAvatarFetch, http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("X-Pokemon-Id", strconv.Itoa(img.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Bytes)
}

// randomAvatar is best-effort: any failure means the contact is saved
// without an image.
func (a *API) randomAvatar(ctx context.Context) []byte {
	if a.Avatars == nil {
		return nil
	}
	ctx, cancel := a.avatarContext(ctx)
	defer cancel()
	img, err := a.Avatars.FetchRandom(ctx)
	if err != nil {
		slog.Warn("random avatar fetch failed, saving without image", "err", err)
		return nil
	}
	return img.Bytes
}

func (a *API) avatarContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.AvatarTimeout > 0 {
		return context.WithTimeout(ctx, a.AvatarTimeout)
	}
	return context.WithCancel(ctx)
}

func writeContactError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrPersistence):
		slog.Error(msg, "err", err)
		http.Error(w, ErrStorage, http.StatusServiceUnavailable)
	default:
		slog.Error(msg, "err", err)
		http.Error(w, ErrInternal, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
