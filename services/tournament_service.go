package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ruben10-R/pro-league/live"
	"github.com/Ruben10-R/pro-league/models"
	"github.com/Ruben10-R/pro-league/repositories"
	"golang.org/x/sync/errgroup"
)

type TournamentService interface {
	Create(ctx context.Context, creatorID int, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	// Exists checks the tournament row is present without the detail
	// view's preloads.
	Exists(ctx context.Context, id int) error
	List(ctx context.Context, status *models.TournamentStatus, page, limit int) ([]models.Tournament, error)
	Update(ctx context.Context, id, actorID int, input UpdateTournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id, actorID int) error
}

type CreateTournamentInput struct {
	Name              string                  `json:"name"`
	Description       *string                 `json:"description"`
	GameType          string                  `json:"gameType"`
	Format            models.TournamentFormat `json:"format"`
	MaxParticipants   *int                    `json:"maxParticipants"`
	IsTeamBased       bool                    `json:"isTeamBased"`
	TeamSize          *int                    `json:"teamSize"`
	Rules             *string                 `json:"rules"`
	Prizes            *string                 `json:"prizes"`
	RegistrationStart *time.Time              `json:"registrationStart"`
	RegistrationEnd   *time.Time              `json:"registrationEnd"`
	StartDate         *time.Time              `json:"startDate"`
	EndDate           *time.Time              `json:"endDate"`
}

// UpdateTournamentInput merges onto the stored row: nil fields are
// left untouched. Status accepts any valid enum value; there is no
// transition ordering.
type UpdateTournamentInput struct {
	Name              *string                  `json:"name"`
	Description       *string                  `json:"description"`
	GameType          *string                  `json:"gameType"`
	Format            *models.TournamentFormat `json:"format"`
	Status            *models.TournamentStatus `json:"status"`
	MaxParticipants   *int                     `json:"maxParticipants"`
	IsTeamBased       *bool                    `json:"isTeamBased"`
	TeamSize          *int                     `json:"teamSize"`
	Rules             *string                  `json:"rules"`
	Prizes            *string                  `json:"prizes"`
	RegistrationStart *time.Time               `json:"registrationStart"`
	RegistrationEnd   *time.Time               `json:"registrationEnd"`
	StartDate         *time.Time               `json:"startDate"`
	EndDate           *time.Time               `json:"endDate"`
}

type tournamentService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	userRepo        repositories.UserRepository
	teamRepo        repositories.TeamRepository
	hub             *live.Hub
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	hub *live.Hub,
) TournamentService {
	return &tournamentService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		userRepo:        userRepo,
		teamRepo:        teamRepo,
		hub:             hub,
	}
}

func (s *tournamentService) Create(ctx context.Context, creatorID int, input CreateTournamentInput) (*models.Tournament, error) {
	if !input.Format.Valid() {
		return nil, ErrTournamentInvalidFormat
	}

	tournament := &models.Tournament{
		Name:              input.Name,
		Description:       input.Description,
		GameType:          input.GameType,
		Format:            input.Format,
		Status:            models.TournamentStatusDraft,
		MaxParticipants:   input.MaxParticipants,
		IsTeamBased:       input.IsTeamBased,
		TeamSize:          input.TeamSize,
		Rules:             input.Rules,
		Prizes:            input.Prizes,
		RegistrationStart: input.RegistrationStart,
		RegistrationEnd:   input.RegistrationEnd,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		CreatedBy:         creatorID,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	if err := loadCreator(ctx, s.userRepo, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}

	// The detail view preloads creator, participants and matches; the
	// three reads are independent, so run them concurrently.
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return loadCreator(gCtx, s.userRepo, tournament)
	})

	g.Go(func() error {
		participants, err := s.participantRepo.ListByTournament(gCtx, id)
		if err != nil {
			return fmt.Errorf("failed to load participants: %w", err)
		}
		if err := loadParticipantRelations(gCtx, s.userRepo, s.teamRepo, participants, false); err != nil {
			return err
		}
		tournament.Participants = participants
		return nil
	})

	g.Go(func() error {
		matches, err := s.matchRepo.List(gCtx, &id, defaultMatchPageSize, 0)
		if err != nil {
			return fmt.Errorf("failed to load matches: %w", err)
		}
		tournament.Matches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) Exists(ctx context.Context, id int) error {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to load tournament: %w", err)
	}
	return nil
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus, page, limit int) ([]models.Tournament, error) {
	if status != nil && !status.Valid() {
		return nil, ErrTournamentInvalidStatus
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	tournaments, err := s.tournamentRepo.List(ctx, status, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}

	for i := range tournaments {
		if err := loadCreator(ctx, s.userRepo, &tournaments[i]); err != nil {
			return nil, err
		}
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id, actorID int, input UpdateTournamentInput) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}

	if tournament.CreatedBy != actorID {
		return nil, ErrForbiddenOperation
	}

	if input.Format != nil {
		if !input.Format.Valid() {
			return nil, ErrTournamentInvalidFormat
		}
		tournament.Format = *input.Format
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrTournamentInvalidStatus
		}
		tournament.Status = *input.Status
	}
	if input.Name != nil {
		tournament.Name = *input.Name
	}
	if input.Description != nil {
		tournament.Description = input.Description
	}
	if input.GameType != nil {
		tournament.GameType = *input.GameType
	}
	if input.MaxParticipants != nil {
		tournament.MaxParticipants = input.MaxParticipants
	}
	if input.IsTeamBased != nil {
		tournament.IsTeamBased = *input.IsTeamBased
	}
	if input.TeamSize != nil {
		tournament.TeamSize = input.TeamSize
	}
	if input.Rules != nil {
		tournament.Rules = input.Rules
	}
	if input.Prizes != nil {
		tournament.Prizes = input.Prizes
	}
	if input.RegistrationStart != nil {
		tournament.RegistrationStart = input.RegistrationStart
	}
	if input.RegistrationEnd != nil {
		tournament.RegistrationEnd = input.RegistrationEnd
	}
	if input.StartDate != nil {
		tournament.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		tournament.EndDate = input.EndDate
	}

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}

	if err := loadCreator(ctx, s.userRepo, tournament); err != nil {
		return nil, err
	}

	s.hub.Publish(live.Event{
		Type:         live.EventTournamentUpdated,
		TournamentID: tournament.ID,
		Payload:      tournament,
	})
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, id, actorID int) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to load tournament: %w", err)
	}

	if tournament.CreatedBy != actorID {
		return ErrForbiddenOperation
	}

	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	return nil
}
