package services

import (
	"context"
	"testing"

	"github.com/Ruben10-R/pro-league/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type participantFixture struct {
	svc             ParticipantService
	userRepo        *fakeUserRepo
	teamRepo        *fakeTeamRepo
	tournamentRepo  *fakeTournamentRepo
	participantRepo *fakeParticipantRepo
}

func newParticipantFixture() *participantFixture {
	f := &participantFixture{
		userRepo:        newFakeUserRepo(),
		teamRepo:        newFakeTeamRepo(),
		tournamentRepo:  newFakeTournamentRepo(),
		participantRepo: newFakeParticipantRepo(),
	}
	f.svc = NewParticipantService(f.participantRepo, f.tournamentRepo, f.userRepo, f.teamRepo, fakeTransactor{}, newTestHub())
	return f
}

func (f *participantFixture) addUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x"}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user
}

func (f *participantFixture) addTournament(t *testing.T, mutate func(*models.Tournament)) *models.Tournament {
	t.Helper()
	tournament := &models.Tournament{
		Name:      "Open Cup",
		GameType:  "chess",
		Format:    models.FormatSingleElimination,
		Status:    models.TournamentStatusRegistrationOpen,
		CreatedBy: 999,
	}
	if mutate != nil {
		mutate(tournament)
	}
	require.NoError(t, f.tournamentRepo.Create(context.Background(), tournament))
	return tournament
}

func (f *participantFixture) addTeam(t *testing.T, captainID int) *models.Team {
	t.Helper()
	team := &models.Team{Name: "Rooks", CaptainID: &captainID}
	require.NoError(t, f.teamRepo.Create(context.Background(), nil, team))
	return team
}

func TestRegisterSolo(t *testing.T) {
	f := newParticipantFixture()
	ctx := context.Background()

	user := f.addUser(t, "solo@example.com")
	tournament := f.addTournament(t, nil)

	p, err := f.svc.Register(ctx, tournament.ID, user.ID, nil)
	require.NoError(t, err)

	require.NotNil(t, p.UserID)
	assert.Equal(t, user.ID, *p.UserID)
	assert.Nil(t, p.TeamID)
	assert.Equal(t, models.ParticipantStatusRegistered, p.Status)
	assert.False(t, p.RegisteredAt.IsZero())
	require.NotNil(t, p.User)
	assert.Equal(t, user.ID, p.User.ID)
}

func TestRegisterReadsTournamentInsideTransaction(t *testing.T) {
	f := newParticipantFixture()
	ctx := context.Background()

	user := f.addUser(t, "locked@example.com")
	tournament := f.addTournament(t, nil)

	_, err := f.svc.Register(ctx, tournament.ID, user.ID, nil)
	require.NoError(t, err)

	// The gate's tournament read must carry the transaction executor:
	// that read is the one the repository locks with FOR UPDATE, which
	// keeps a concurrent gate from also passing the capacity check.
	assert.NotNil(t, f.tournamentRepo.lastExec)

	// Plain reads stay outside any transaction.
	_, err = f.svc.ListByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Nil(t, f.tournamentRepo.lastExec)
}

func TestRegisterRequiresOpenStatus(t *testing.T) {
	f := newParticipantFixture()
	ctx := context.Background()
	user := f.addUser(t, "early@example.com")

	// Dates do not matter, only the status gates registration.
	for _, status := range []models.TournamentStatus{
		models.TournamentStatusDraft,
		models.TournamentStatusRegistrationClosed,
		models.TournamentStatusInProgress,
		models.TournamentStatusCompleted,
		models.TournamentStatusCancelled,
	} {
		tournament := f.addTournament(t, func(tr *models.Tournament) { tr.Status = status })
		_, err := f.svc.Register(ctx, tournament.ID, user.ID, nil)
		assert.ErrorIs(t, err, ErrRegistrationNotOpen, "status %s", status)
	}
}

func TestRegisterCapacity(t *testing.T) {
	f := newParticipantFixture()
	ctx := context.Background()

	max := 2
	tournament := f.addTournament(t, func(tr *models.Tournament) { tr.MaxParticipants = &max })

	u1 := f.addUser(t, "p1@example.com")
	u2 := f.addUser(t, "p2@example.com")
	u3 := f.addUser(t, "p3@example.com")

	_, err := f.svc.Register(ctx, tournament.ID, u1.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, tournament.ID, u2.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, tournament.ID, u3.ID, nil)
	assert.ErrorIs(t, err, ErrTournamentFull)

	count, err := f.participantRepo.CountByTournament(ctx, nil, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRegisterDuplicate(t *testing.T) {
	f := newParticipantFixture()
	ctx := context.Background()

	user := f.addUser(t, "dup@example.com")
	tournament := f.addTournament(t, nil)

	_, err := f.svc.Register(ctx, tournament.ID, user.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, tournament.ID, user.ID, nil)
	assert.ErrorIs(t, err, ErrRegistrationConflict)
}

func TestRegisterEntrantKindMustMatch(t *testing.T) {
	f := newParticipantFixture()
	ctx := context.Background()

	user := f.addUser(t, "kind@example.com")
	team := f.addTeam(t, user.ID)

	teamBased := f.addTournament(t, func(tr *models.Tournament) { tr.IsTeamBased = true })
	_, err := f.svc.Register(ctx, teamBased.ID, user.ID, nil)
	assert.ErrorIs(t, err, ErrTeamRegistrationOnly)

	solo := f.addTournament(t, nil)
	_, err = f.svc.Register(ctx, solo.ID, user.ID, &team.ID)
	assert.ErrorIs(t, err, ErrSoloRegistrationOnly)
}

func TestRegisterTeam(t *testing.T) {
	f := newParticipantFixture()
	ctx := context.Background()

	captain := f.addUser(t, "captain@example.com")
	team := f.addTeam(t, captain.ID)
	tournament := f.addTournament(t, func(tr *models.Tournament) { tr.IsTeamBased = true })

	p, err := f.svc.Register(ctx, tournament.ID, captain.ID, &team.ID)
	require.NoError(t, err)

	require.NotNil(t, p.TeamID)
	assert.Equal(t, team.ID, *p.TeamID)
	assert.Nil(t, p.UserID)

	// The same team cannot register twice, whoever submits it.
	other := f.addUser(t, "member@example.com")
	_, err = f.svc.Register(ctx, tournament.ID, other.ID, &team.ID)
	assert.ErrorIs(t, err, ErrRegistrationConflict)
}

func TestRegisterUnknownTournament(t *testing.T) {
	f := newParticipantFixture()
	user := f.addUser(t, "lost@example.com")

	_, err := f.svc.Register(context.Background(), 42, user.ID, nil)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestParticipantUpdateCreatorOnly(t *testing.T) {
	f := newParticipantFixture()
	ctx := context.Background()

	creator := f.addUser(t, "creator@example.com")
	player := f.addUser(t, "player@example.com")
	tournament := f.addTournament(t, func(tr *models.Tournament) { tr.CreatedBy = creator.ID })

	p, err := f.svc.Register(ctx, tournament.ID, player.ID, nil)
	require.NoError(t, err)

	seed := 3
	status := models.ParticipantStatusConfirmed

	// The player themselves may not update seed or status.
	_, err = f.svc.Update(ctx, p.ID, player.ID, UpdateParticipantInput{Seed: &seed})
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	updated, err := f.svc.Update(ctx, p.ID, creator.ID, UpdateParticipantInput{Seed: &seed, Status: &status})
	require.NoError(t, err)
	require.NotNil(t, updated.Seed)
	assert.Equal(t, 3, *updated.Seed)
	assert.Equal(t, models.ParticipantStatusConfirmed, updated.Status)

	bad := models.ParticipantStatus("benched")
	_, err = f.svc.Update(ctx, p.ID, creator.ID, UpdateParticipantInput{Status: &bad})
	assert.ErrorIs(t, err, ErrParticipantInvalidState)
}

func TestWithdrawSolo(t *testing.T) {
	f := newParticipantFixture()
	ctx := context.Background()

	player := f.addUser(t, "withdraw@example.com")
	stranger := f.addUser(t, "stranger@example.com")
	tournament := f.addTournament(t, nil)

	p, err := f.svc.Register(ctx, tournament.ID, player.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.Withdraw(ctx, p.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	withdrawn, err := f.svc.Withdraw(ctx, p.ID, player.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantStatusWithdrew, withdrawn.Status)

	// The row survives withdrawal.
	stored, err := f.participantRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantStatusWithdrew, stored.Status)
}

func TestWithdrawTeamCaptainOnly(t *testing.T) {
	f := newParticipantFixture()
	ctx := context.Background()

	captain := f.addUser(t, "cap@example.com")
	member := f.addUser(t, "mem@example.com")
	team := f.addTeam(t, captain.ID)
	tournament := f.addTournament(t, func(tr *models.Tournament) { tr.IsTeamBased = true })

	p, err := f.svc.Register(ctx, tournament.ID, captain.ID, &team.ID)
	require.NoError(t, err)

	_, err = f.svc.Withdraw(ctx, p.ID, member.ID)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	withdrawn, err := f.svc.Withdraw(ctx, p.ID, captain.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantStatusWithdrew, withdrawn.Status)
}
