package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
	"github.com/wemitwqw/calorie-tracker-go/internal/store"
)

// ErrInvalidEmail is returned before any remote call when the email is
// empty or has no "@".
var ErrInvalidEmail = errors.New("invalid email address")

// AdminService manages the email whitelist. Mutations patch the whitelist
// store incrementally, the same way the meal and product services patch
// theirs.
type AdminService struct {
	whitelist *store.WhitelistStore
	sessions  *store.SessionStore
	gateway   WhitelistGateway
	logger    zerolog.Logger
}

// NewAdminService creates an admin service over the injected gateway.
func NewAdminService(whitelist *store.WhitelistStore, sessions *store.SessionStore, gateway WhitelistGateway, logger zerolog.Logger) *AdminService {
	return &AdminService{
		whitelist: whitelist,
		sessions:  sessions,
		gateway:   gateway,
		logger:    logger.With().Str("service", "admin").Logger(),
	}
}

// FetchWhitelist loads the whitelist, newest-added first.
func (s *AdminService) FetchWhitelist(ctx context.Context) error {
	entries, err := s.gateway.ListWhitelist(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("fetch whitelist failed")
		return err
	}
	s.whitelist.SetEntries(entries)
	return nil
}

// AddEmail whitelists an email. The address is lowercased and trimmed
// before writing; notes are trimmed with empty stored as null.
func (s *AdminService) AddEmail(ctx context.Context, email, notes string) (models.WhitelistEntry, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return models.WhitelistEntry{}, ErrInvalidEmail
	}

	addedBy := s.sessions.UserID()
	if addedBy == "" {
		return models.WhitelistEntry{}, ErrNoSession
	}

	entry := models.WhitelistEntry{
		Email:   email,
		AddedBy: addedBy,
	}
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		entry.Notes = &trimmed
	}

	created, err := s.gateway.InsertWhitelistEntry(ctx, entry)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("add whitelist entry failed")
		return models.WhitelistEntry{}, err
	}
	s.whitelist.AddEntry(created)
	return created, nil
}

// RemoveEmail deletes the entry with the exact email and removes it from
// the store.
func (s *AdminService) RemoveEmail(ctx context.Context, email string) error {
	if err := s.gateway.DeleteWhitelistEntry(ctx, email); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("remove whitelist entry failed")
		return err
	}
	s.whitelist.RemoveEntry(email)
	return nil
}
