package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataroom-ai/dataroom-server/models"
	"github.com/dataroom-ai/dataroom-server/repository"
	"github.com/dataroom-ai/dataroom-server/services"
)

type fakeProfileRepo struct {
	byHandle map[string]*models.Profile
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	for _, p := range f.byHandle {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfileRepo) GetByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	if p, ok := f.byHandle[handle]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

type fakeMembershipRepo struct {
	rows          []*models.Membership
	acceptedCalls int
}

func (f *fakeMembershipRepo) GetByRoomAndEmail(ctx context.Context, roomID, email string) (*models.Membership, error) {
	for _, m := range f.rows {
		if m.RoomID == roomID && m.Email == email {
			return m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMembershipRepo) GetByToken(ctx context.Context, token string) (*models.Membership, error) {
	for _, m := range f.rows {
		if m.Token == token {
			return m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMembershipRepo) Create(ctx context.Context, m *models.Membership) error {
	for _, existing := range f.rows {
		if existing.RoomID == m.RoomID && existing.Email == m.Email {
			return repository.ErrDuplicate
		}
	}
	copied := *m
	f.rows = append(f.rows, &copied)
	return nil
}

func (f *fakeMembershipRepo) MarkAccepted(ctx context.Context, id, userID string) error {
	f.acceptedCalls++
	for _, m := range f.rows {
		if m.ID == id {
			m.Status = models.MembershipAccepted
			m.AcceptedBy = &userID
			return nil
		}
	}
	return repository.ErrNotFound
}

func newInviteService(profiles *fakeProfileRepo, memberships *fakeMembershipRepo) *services.InviteService {
	return services.NewInviteService(profiles, memberships, nil)
}

func TestSend_EmailRecipient(t *testing.T) {
	memberships := &fakeMembershipRepo{}
	svc := newInviteService(&fakeProfileRepo{}, memberships)

	result, err := svc.Send(context.Background(), "room-1", "inviter-1", "investor@fund.com")
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)

	out := result.Outcomes[0]
	assert.Nil(t, out.Error)
	assert.Equal(t, "investor@fund.com", *out.Email)
	assert.NotNil(t, out.Token)
	assert.False(t, out.AlreadyInvited)
	assert.Equal(t, 1, result.Sent)

	require.Len(t, memberships.rows, 1)
	assert.Equal(t, models.MembershipRoleInvestor, memberships.rows[0].Role)
	assert.Equal(t, models.MembershipPending, memberships.rows[0].Status)
	assert.Nil(t, memberships.rows[0].Handle)
}

func TestSend_HandleRecipientCarriesHandle(t *testing.T) {
	email := "bob@fund.com"
	profiles := &fakeProfileRepo{byHandle: map[string]*models.Profile{
		"bob": {ID: "u-bob", Handle: "bob", Email: &email},
	}}
	memberships := &fakeMembershipRepo{}
	svc := newInviteService(profiles, memberships)

	result, err := svc.Send(context.Background(), "room-1", "inviter-1", "@bob")
	require.NoError(t, err)

	out := result.Outcomes[0]
	require.Nil(t, out.Error)
	assert.Equal(t, "bob@fund.com", *out.Email)

	require.Len(t, memberships.rows, 1)
	require.NotNil(t, memberships.rows[0].Handle)
	assert.Equal(t, "bob", *memberships.rows[0].Handle)
}

func TestSend_UnknownHandle(t *testing.T) {
	svc := newInviteService(&fakeProfileRepo{}, &fakeMembershipRepo{})

	result, err := svc.Send(context.Background(), "room-1", "inviter-1", "@ghost")
	require.NoError(t, err)

	out := result.Outcomes[0]
	require.NotNil(t, out.Error)
	assert.Equal(t, "no user found with handle @ghost", *out.Error)
	assert.Nil(t, out.Token)
	assert.Equal(t, 0, result.Sent)
}

func TestSend_HandleWithoutEmail(t *testing.T) {
	profiles := &fakeProfileRepo{byHandle: map[string]*models.Profile{
		"carol": {ID: "u-carol", Handle: "carol"},
	}}
	svc := newInviteService(profiles, &fakeMembershipRepo{})

	result, err := svc.Send(context.Background(), "room-1", "inviter-1", "@carol")
	require.NoError(t, err)

	out := result.Outcomes[0]
	require.NotNil(t, out.Error)
	assert.Contains(t, *out.Error, "no email on file")
	assert.Nil(t, out.Token)
}

func TestSend_Idempotent(t *testing.T) {
	memberships := &fakeMembershipRepo{}
	svc := newInviteService(&fakeProfileRepo{}, memberships)

	first, err := svc.Send(context.Background(), "room-1", "inviter-1", "investor@fund.com")
	require.NoError(t, err)
	firstToken := *first.Outcomes[0].Token

	second, err := svc.Send(context.Background(), "room-1", "inviter-1", "investor@fund.com")
	require.NoError(t, err)

	out := second.Outcomes[0]
	assert.True(t, out.AlreadyInvited)
	assert.Equal(t, firstToken, *out.Token)
	assert.Equal(t, 0, second.Sent)
	assert.Len(t, memberships.rows, 1)
}

func TestSend_IndependentFailure(t *testing.T) {
	svc := newInviteService(&fakeProfileRepo{}, &fakeMembershipRepo{})

	result, err := svc.Send(context.Background(), "room-1", "inviter-1", "@ghost, good@fund.com")
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)

	assert.NotNil(t, result.Outcomes[0].Error)
	assert.Nil(t, result.Outcomes[1].Error)
	assert.NotNil(t, result.Outcomes[1].Token)
	assert.Equal(t, 1, result.Sent)
}

func TestSend_DuplicateInsertTreatedAsAlreadyInvited(t *testing.T) {
	// Simulate losing the race between the pre-check and the insert: the row
	// exists but the pre-check misses it on the first pass.
	memberships := &racingMembershipRepo{
		fakeMembershipRepo: fakeMembershipRepo{},
		hidden: &models.Membership{
			ID: "m-1", RoomID: "room-1", Email: "investor@fund.com",
			Status: models.MembershipPending, Token: "existing-token",
		},
	}
	svc := services.NewInviteService(&fakeProfileRepo{}, memberships, nil)

	result, err := svc.Send(context.Background(), "room-1", "inviter-1", "investor@fund.com")
	require.NoError(t, err)

	out := result.Outcomes[0]
	require.Nil(t, out.Error)
	assert.True(t, out.AlreadyInvited)
	assert.Equal(t, "existing-token", *out.Token)
}

// racingMembershipRepo hides its row from the first GetByRoomAndEmail call and
// rejects the subsequent insert as a duplicate.
type racingMembershipRepo struct {
	fakeMembershipRepo
	hidden *models.Membership
	calls  int
}

func (f *racingMembershipRepo) GetByRoomAndEmail(ctx context.Context, roomID, email string) (*models.Membership, error) {
	f.calls++
	if f.calls == 1 {
		return nil, repository.ErrNotFound
	}
	if f.hidden.RoomID == roomID && f.hidden.Email == email {
		return f.hidden, nil
	}
	return nil, repository.ErrNotFound
}

func (f *racingMembershipRepo) Create(ctx context.Context, m *models.Membership) error {
	if f.hidden.RoomID == m.RoomID && f.hidden.Email == m.Email {
		return repository.ErrDuplicate
	}
	return f.fakeMembershipRepo.Create(ctx, m)
}

func TestSend_NoRecipients(t *testing.T) {
	svc := newInviteService(&fakeProfileRepo{}, &fakeMembershipRepo{})

	_, err := svc.Send(context.Background(), "room-1", "inviter-1", " , \n ")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestAccept_UnknownToken(t *testing.T) {
	memberships := &fakeMembershipRepo{}
	svc := newInviteService(&fakeProfileRepo{}, memberships)

	_, err := svc.Accept(context.Background(), "nope", "u-1")
	assert.ErrorIs(t, err, services.ErrInviteInvalid)
	assert.Zero(t, memberships.acceptedCalls)
}

func TestAccept_EmptyToken(t *testing.T) {
	svc := newInviteService(&fakeProfileRepo{}, &fakeMembershipRepo{})

	_, err := svc.Accept(context.Background(), "", "u-1")
	assert.ErrorIs(t, err, services.ErrInviteInvalid)
}

func TestAccept_Idempotent(t *testing.T) {
	memberships := &fakeMembershipRepo{rows: []*models.Membership{{
		ID:     "m-1",
		RoomID: "room-1",
		Email:  "investor@fund.com",
		Status: models.MembershipPending,
		Token:  "tok-1",
	}}}
	svc := newInviteService(&fakeProfileRepo{}, memberships)

	roomID, err := svc.Accept(context.Background(), "tok-1", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "room-1", roomID)
	assert.Equal(t, 1, memberships.acceptedCalls)
	assert.Equal(t, models.MembershipAccepted, memberships.rows[0].Status)
	assert.Equal(t, "u-1", *memberships.rows[0].AcceptedBy)

	// Second accept returns the same room id and performs no write.
	roomID, err = svc.Accept(context.Background(), "tok-1", "u-2")
	require.NoError(t, err)
	assert.Equal(t, "room-1", roomID)
	assert.Equal(t, 1, memberships.acceptedCalls)
	assert.Equal(t, "u-1", *memberships.rows[0].AcceptedBy)
}
