package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ruben10-R/pro-league/live"
	"github.com/Ruben10-R/pro-league/models"
	"github.com/Ruben10-R/pro-league/repositories"
)

const defaultMatchPageSize = 50

type MatchService interface {
	Create(ctx context.Context, actorID int, input CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, tournamentID *int, page, limit int) ([]models.Match, error)
	Update(ctx context.Context, id, actorID int, input UpdateMatchInput) (*models.Match, error)
	Delete(ctx context.Context, id, actorID int) error
}

type CreateMatchInput struct {
	TournamentID    int        `json:"tournamentId"`
	Round           int        `json:"round"`
	BracketPosition *string    `json:"bracketPosition"`
	Participant1ID  *int       `json:"participant1Id"`
	Participant2ID  *int       `json:"participant2Id"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	Location        *string    `json:"location"`
	Notes           *string    `json:"notes"`
}

// UpdateMatchInput is a pure field merge: any supplied subset lands on
// the stored row. winnerId is deliberately not checked against the
// match's own participants, and a completed match stays editable.
type UpdateMatchInput struct {
	Round             *int                `json:"round"`
	BracketPosition   *string             `json:"bracketPosition"`
	Participant1ID    *int                `json:"participant1Id"`
	Participant2ID    *int                `json:"participant2Id"`
	WinnerID          *int                `json:"winnerId"`
	Participant1Score *int                `json:"participant1Score"`
	Participant2Score *int                `json:"participant2Score"`
	Status            *models.MatchStatus `json:"status"`
	ScheduledAt       *time.Time          `json:"scheduledAt"`
	StartedAt         *time.Time          `json:"startedAt"`
	CompletedAt       *time.Time          `json:"completedAt"`
	Location          *string             `json:"location"`
	Notes             *string             `json:"notes"`
}

type matchService struct {
	matchRepo       repositories.MatchRepository
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	userRepo        repositories.UserRepository
	teamRepo        repositories.TeamRepository
	hub             *live.Hub
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	hub *live.Hub,
) MatchService {
	return &matchService{
		matchRepo:       matchRepo,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		teamRepo:        teamRepo,
		hub:             hub,
	}
}

func (s *matchService) Create(ctx context.Context, actorID int, input CreateMatchInput) (*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, input.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}
	if tournament.CreatedBy != actorID {
		return nil, ErrForbiddenOperation
	}

	match := &models.Match{
		TournamentID:    input.TournamentID,
		Round:           input.Round,
		BracketPosition: input.BracketPosition,
		Participant1ID:  input.Participant1ID,
		Participant2ID:  input.Participant2ID,
		Status:          models.MatchStatusScheduled,
		ScheduledAt:     input.ScheduledAt,
		Location:        input.Location,
		Notes:           input.Notes,
	}

	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	if err := s.loadMatchRelations(ctx, match); err != nil {
		return nil, err
	}

	s.hub.Publish(live.Event{
		Type:         live.EventMatchCreated,
		TournamentID: match.TournamentID,
		Payload:      match,
	})
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.getMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadMatchRelations(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) List(ctx context.Context, tournamentID *int, page, limit int) ([]models.Match, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultMatchPageSize
	}

	matches, err := s.matchRepo.List(ctx, tournamentID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (s *matchService) Update(ctx context.Context, id, actorID int, input UpdateMatchInput) (*models.Match, error) {
	match, err := s.getMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.requireTournamentCreator(ctx, match.TournamentID, actorID); err != nil {
		return nil, err
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrMatchInvalidStatus
		}
		match.Status = *input.Status
	}
	if input.Round != nil {
		match.Round = *input.Round
	}
	if input.BracketPosition != nil {
		match.BracketPosition = input.BracketPosition
	}
	if input.Participant1ID != nil {
		match.Participant1ID = input.Participant1ID
	}
	if input.Participant2ID != nil {
		match.Participant2ID = input.Participant2ID
	}
	if input.WinnerID != nil {
		match.WinnerID = input.WinnerID
	}
	if input.Participant1Score != nil {
		match.Participant1Score = input.Participant1Score
	}
	if input.Participant2Score != nil {
		match.Participant2Score = input.Participant2Score
	}
	if input.ScheduledAt != nil {
		match.ScheduledAt = input.ScheduledAt
	}
	if input.StartedAt != nil {
		match.StartedAt = input.StartedAt
	}
	if input.CompletedAt != nil {
		match.CompletedAt = input.CompletedAt
	}
	if input.Location != nil {
		match.Location = input.Location
	}
	if input.Notes != nil {
		match.Notes = input.Notes
	}

	if err := s.matchRepo.Update(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	if err := s.loadMatchRelations(ctx, match); err != nil {
		return nil, err
	}

	s.hub.Publish(live.Event{
		Type:         live.EventMatchUpdated,
		TournamentID: match.TournamentID,
		Payload:      match,
	})
	return match, nil
}

func (s *matchService) Delete(ctx context.Context, id, actorID int) error {
	match, err := s.getMatch(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireTournamentCreator(ctx, match.TournamentID, actorID); err != nil {
		return err
	}
	if err := s.matchRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	return nil
}

func (s *matchService) getMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	return match, nil
}

// Match mutation rights derive from the parent tournament's creator.
func (s *matchService) requireTournamentCreator(ctx context.Context, tournamentID, actorID int) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to load parent tournament: %w", err)
	}
	if tournament.CreatedBy != actorID {
		return ErrForbiddenOperation
	}
	return nil
}

func (s *matchService) loadMatchRelations(ctx context.Context, match *models.Match) error {
	load := func(id *int) (*models.Participant, error) {
		if id == nil {
			return nil, nil
		}
		p, err := s.participantRepo.GetByID(ctx, *id)
		if err != nil {
			if errors.Is(err, repositories.ErrParticipantNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to load match participant %d: %w", *id, err)
		}
		relations := []models.Participant{*p}
		if err := loadParticipantRelations(ctx, s.userRepo, s.teamRepo, relations, false); err != nil {
			return nil, err
		}
		return &relations[0], nil
	}

	var err error
	if match.Participant1, err = load(match.Participant1ID); err != nil {
		return err
	}
	if match.Participant2, err = load(match.Participant2ID); err != nil {
		return err
	}
	if match.Winner, err = load(match.WinnerID); err != nil {
		return err
	}
	return nil
}
