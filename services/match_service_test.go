package services

import (
	"context"
	"testing"
	"time"

	"github.com/Ruben10-R/pro-league/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchFixture struct {
	svc             MatchService
	userRepo        *fakeUserRepo
	teamRepo        *fakeTeamRepo
	tournamentRepo  *fakeTournamentRepo
	participantRepo *fakeParticipantRepo
	matchRepo       *fakeMatchRepo

	creator *models.User
	other   *models.User
}

func newMatchFixture(t *testing.T) (*matchFixture, *models.Tournament) {
	t.Helper()
	f := &matchFixture{
		userRepo:        newFakeUserRepo(),
		teamRepo:        newFakeTeamRepo(),
		tournamentRepo:  newFakeTournamentRepo(),
		participantRepo: newFakeParticipantRepo(),
		matchRepo:       newFakeMatchRepo(),
	}
	f.svc = NewMatchService(f.matchRepo, f.tournamentRepo, f.participantRepo, f.userRepo, f.teamRepo, newTestHub())

	ctx := context.Background()
	f.creator = &models.User{Email: "creator@example.com", PasswordHash: "x"}
	require.NoError(t, f.userRepo.Create(ctx, f.creator))
	f.other = &models.User{Email: "other@example.com", PasswordHash: "x"}
	require.NoError(t, f.userRepo.Create(ctx, f.other))

	tournament := &models.Tournament{
		Name:      "Cup",
		GameType:  "chess",
		Format:    models.FormatSingleElimination,
		Status:    models.TournamentStatusInProgress,
		CreatedBy: f.creator.ID,
	}
	require.NoError(t, f.tournamentRepo.Create(ctx, tournament))
	return f, tournament
}

func (f *matchFixture) addParticipant(t *testing.T, tournamentID, userID int) *models.Participant {
	t.Helper()
	p := &models.Participant{
		TournamentID: tournamentID,
		UserID:       &userID,
		Status:       models.ParticipantStatusRegistered,
	}
	require.NoError(t, f.participantRepo.Create(context.Background(), nil, p))
	return p
}

func TestMatchCreateCreatorOnly(t *testing.T) {
	f, tournament := newMatchFixture(t)
	ctx := context.Background()

	input := CreateMatchInput{TournamentID: tournament.ID, Round: 1}

	_, err := f.svc.Create(ctx, f.other.ID, input)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	match, err := f.svc.Create(ctx, f.creator.ID, input)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusScheduled, match.Status)
	assert.Equal(t, 1, match.Round)
}

func TestMatchUpdateMergesFields(t *testing.T) {
	f, tournament := newMatchFixture(t)
	ctx := context.Background()

	p1 := f.addParticipant(t, tournament.ID, f.creator.ID)
	p2 := f.addParticipant(t, tournament.ID, f.other.ID)

	match, err := f.svc.Create(ctx, f.creator.ID, CreateMatchInput{
		TournamentID:   tournament.ID,
		Round:          1,
		Participant1ID: &p1.ID,
		Participant2ID: &p2.ID,
	})
	require.NoError(t, err)

	score1, score2 := 2, 1
	status := models.MatchStatusCompleted
	completedAt := time.Now()

	updated, err := f.svc.Update(ctx, match.ID, f.creator.ID, UpdateMatchInput{
		WinnerID:          &p1.ID,
		Participant1Score: &score1,
		Participant2Score: &score2,
		Status:            &status,
		CompletedAt:       &completedAt,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.WinnerID)
	assert.Equal(t, p1.ID, *updated.WinnerID)
	assert.Equal(t, 2, *updated.Participant1Score)
	assert.Equal(t, 1, *updated.Participant2Score)
	assert.Equal(t, models.MatchStatusCompleted, updated.Status)
	// Fields left out of the payload keep their stored values.
	require.NotNil(t, updated.Participant1ID)
	assert.Equal(t, p1.ID, *updated.Participant1ID)
	require.NotNil(t, updated.Winner)
	assert.Equal(t, p1.ID, updated.Winner.ID)
}

func TestMatchUpdateWinnerNotCrossChecked(t *testing.T) {
	f, tournament := newMatchFixture(t)
	ctx := context.Background()

	p1 := f.addParticipant(t, tournament.ID, f.creator.ID)
	p2 := f.addParticipant(t, tournament.ID, f.other.ID)

	match, err := f.svc.Create(ctx, f.creator.ID, CreateMatchInput{
		TournamentID:   tournament.ID,
		Round:          1,
		Participant1ID: &p1.ID,
		Participant2ID: &p2.ID,
	})
	require.NoError(t, err)

	// winnerId is stored as given even when it is neither participant.
	outsider := 9999
	updated, err := f.svc.Update(ctx, match.ID, f.creator.ID, UpdateMatchInput{WinnerID: &outsider})
	require.NoError(t, err)
	require.NotNil(t, updated.WinnerID)
	assert.Equal(t, outsider, *updated.WinnerID)
	assert.Nil(t, updated.Winner)
}

func TestMatchCompletedStaysEditable(t *testing.T) {
	f, tournament := newMatchFixture(t)
	ctx := context.Background()

	match, err := f.svc.Create(ctx, f.creator.ID, CreateMatchInput{TournamentID: tournament.ID, Round: 1})
	require.NoError(t, err)

	completed := models.MatchStatusCompleted
	_, err = f.svc.Update(ctx, match.ID, f.creator.ID, UpdateMatchInput{Status: &completed})
	require.NoError(t, err)

	score := 5
	updated, err := f.svc.Update(ctx, match.ID, f.creator.ID, UpdateMatchInput{Participant1Score: &score})
	require.NoError(t, err)
	assert.Equal(t, 5, *updated.Participant1Score)
	assert.Equal(t, models.MatchStatusCompleted, updated.Status)
}

func TestMatchUpdateInvalidStatus(t *testing.T) {
	f, tournament := newMatchFixture(t)
	ctx := context.Background()

	match, err := f.svc.Create(ctx, f.creator.ID, CreateMatchInput{TournamentID: tournament.ID, Round: 1})
	require.NoError(t, err)

	bad := models.MatchStatus("postponed")
	_, err = f.svc.Update(ctx, match.ID, f.creator.ID, UpdateMatchInput{Status: &bad})
	assert.ErrorIs(t, err, ErrMatchInvalidStatus)
}

func TestMatchListOrderedByRound(t *testing.T) {
	f, tournament := newMatchFixture(t)
	ctx := context.Background()

	for _, round := range []int{3, 1, 2} {
		_, err := f.svc.Create(ctx, f.creator.ID, CreateMatchInput{TournamentID: tournament.ID, Round: round})
		require.NoError(t, err)
	}

	matches, err := f.svc.List(ctx, &tournament.ID, 1, 50)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, 1, matches[0].Round)
	assert.Equal(t, 2, matches[1].Round)
	assert.Equal(t, 3, matches[2].Round)
}

func TestMatchDeleteCreatorOnly(t *testing.T) {
	f, tournament := newMatchFixture(t)
	ctx := context.Background()

	match, err := f.svc.Create(ctx, f.creator.ID, CreateMatchInput{TournamentID: tournament.ID, Round: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, match.ID, f.other.ID), ErrForbiddenOperation)
	require.NoError(t, f.svc.Delete(ctx, match.ID, f.creator.ID))

	_, err = f.svc.GetByID(ctx, match.ID)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
