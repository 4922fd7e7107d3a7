package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dataroom-ai/dataroom-server/models"
	"github.com/dataroom-ai/dataroom-server/repository"
	"github.com/dataroom-ai/dataroom-server/utils"
)

// InviteOutcome is the per-recipient result of a dispatch run. Exactly one of
// Token and Error is set; AlreadyInvited marks a reused pending membership.
type InviteOutcome struct {
	Raw            string  `json:"raw"`
	Email          *string `json:"email"`
	Token          *string `json:"token"`
	Error          *string `json:"error,omitempty"`
	AlreadyInvited bool    `json:"already_invited"`
}

type InviteResult struct {
	Outcomes []InviteOutcome `json:"outcomes"`
	Sent     int             `json:"sent"`
}

type InviteService struct {
	profiles    repository.ProfileRepository
	memberships repository.MembershipRepository
	logger      *zap.Logger
}

func NewInviteService(profiles repository.ProfileRepository, memberships repository.MembershipRepository, logger *zap.Logger) *InviteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InviteService{profiles: profiles, memberships: memberships, logger: logger}
}

// Send parses the raw recipient input and, for every entry, resolves it to an
// email and creates or reuses a pending membership. Recipients are processed
// sequentially and independently: a failure on one never blocks the others.
func (s *InviteService) Send(ctx context.Context, roomID, inviterID, rawRecipients string) (*InviteResult, error) {
	recipients := ParseRecipients(rawRecipients)
	if len(recipients) == 0 {
		return nil, fmt.Errorf("%w: no recipients given", ErrValidation)
	}

	result := &InviteResult{Outcomes: make([]InviteOutcome, 0, len(recipients))}
	for _, rec := range recipients {
		outcome := s.dispatch(ctx, roomID, inviterID, rec)
		if outcome.Error == nil && !outcome.AlreadyInvited {
			result.Sent++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	return result, nil
}

func (s *InviteService) dispatch(ctx context.Context, roomID, inviterID string, rec Recipient) InviteOutcome {
	outcome := InviteOutcome{Raw: rec.Raw}

	email, handle, err := s.resolve(ctx, rec)
	if err != nil {
		msg := err.Error()
		outcome.Error = &msg
		return outcome
	}
	outcome.Email = &email

	// Pre-check for an existing membership so a repeat invite reuses the row.
	existing, err := s.memberships.GetByRoomAndEmail(ctx, roomID, email)
	if err == nil {
		outcome.Token = &existing.Token
		outcome.AlreadyInvited = true
		return outcome
	}
	if !errors.Is(err, repository.ErrNotFound) {
		msg := err.Error()
		outcome.Error = &msg
		return outcome
	}

	token, err := utils.GenerateOpaqueToken()
	if err != nil {
		msg := err.Error()
		outcome.Error = &msg
		return outcome
	}

	m := &models.Membership{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		InvitedBy: inviterID,
		Email:     email,
		Handle:    handle,
		Role:      models.MembershipRoleInvestor,
		Status:    models.MembershipPending,
		Token:     token,
	}
	if err := s.memberships.Create(ctx, m); err != nil {
		// A concurrent invite can win the race between the pre-check and the
		// insert; the unique (room, email) constraint turns that into the
		// already-invited outcome.
		if errors.Is(err, repository.ErrDuplicate) {
			if existing, lookupErr := s.memberships.GetByRoomAndEmail(ctx, roomID, email); lookupErr == nil {
				outcome.Token = &existing.Token
				outcome.AlreadyInvited = true
				return outcome
			}
		}
		msg := err.Error()
		outcome.Error = &msg
		return outcome
	}

	s.logger.Info("invite created",
		zap.String("room_id", roomID),
		zap.String("email", email))
	outcome.Token = &m.Token
	return outcome
}

// resolve turns a parsed recipient into an email address. Email recipients
// resolve to themselves; handles go through a profile lookup. The returned
// handle is non-nil only for handle-typed recipients, so the original handle
// can be matched when that user logs in.
func (s *InviteService) resolve(ctx context.Context, rec Recipient) (string, *string, error) {
	if rec.Type == RecipientEmail {
		return rec.Value, nil, nil
	}

	profile, err := s.profiles.GetByHandle(ctx, rec.Value)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, fmt.Errorf("no user found with handle @%s", rec.Value)
	}
	if err != nil {
		return "", nil, err
	}
	if profile.Email == nil || *profile.Email == "" {
		return "", nil, fmt.Errorf("@%s has no email on file; invite them by email address instead", rec.Value)
	}

	handle := rec.Value
	return *profile.Email, &handle, nil
}

// Accept redeems an invite token for the authenticated caller. Accepting an
// already-accepted invite is a no-op that returns the room id again; the
// accepting user id is only ever written on the first accept.
func (s *InviteService) Accept(ctx context.Context, token, userID string) (string, error) {
	if token == "" {
		return "", ErrInviteInvalid
	}

	m, err := s.memberships.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInviteInvalid
	}
	if err != nil {
		return "", err
	}

	if m.Status == models.MembershipAccepted {
		return m.RoomID, nil
	}

	if err := s.memberships.MarkAccepted(ctx, m.ID, userID); err != nil {
		return "", err
	}

	s.logger.Info("invite accepted",
		zap.String("room_id", m.RoomID),
		zap.String("user_id", userID))
	return m.RoomID, nil
}
