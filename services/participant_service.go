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

type ParticipantService interface {
	// Register runs the registration gate for the acting user, with an
	// optional team entrant, and creates the participant row on success.
	Register(ctx context.Context, tournamentID, actorID int, teamID *int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error)
	Update(ctx context.Context, participantID, actorID int, input UpdateParticipantInput) (*models.Participant, error)
	Withdraw(ctx context.Context, participantID, actorID int) (*models.Participant, error)
}

type UpdateParticipantInput struct {
	Seed   *int                      `json:"seed"`
	Status *models.ParticipantStatus `json:"status"`
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	userRepo        repositories.UserRepository
	teamRepo        repositories.TeamRepository
	transactor      repositories.Transactor
	hub             *live.Hub
}

func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	transactor repositories.Transactor,
	hub *live.Hub,
) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		userRepo:        userRepo,
		teamRepo:        teamRepo,
		transactor:      transactor,
		hub:             hub,
	}
}

// Register applies the gate checks in order, each one terminal:
// registration must be open, the cap must not be reached, the entrant
// must not already be registered, and the entrant kind must match the
// tournament's team-based flag. The whole gate runs inside a single
// transaction whose tournament read locks the row (FOR UPDATE), so
// concurrent registrations serialize on the capacity check, and the
// partial unique indexes on (tournament_id, user_id) /
// (tournament_id, team_id) back the duplicate check.
func (s *participantService) Register(ctx context.Context, tournamentID, actorID int, teamID *int) (*models.Participant, error) {
	var participant *models.Participant

	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.tournamentRepo.GetByID(ctx, exec, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to load tournament: %w", err)
		}

		if tournament.Status != models.TournamentStatusRegistrationOpen {
			return ErrRegistrationNotOpen
		}

		if tournament.MaxParticipants != nil {
			count, err := s.participantRepo.CountByTournament(ctx, exec, tournamentID)
			if err != nil {
				return err
			}
			if count >= *tournament.MaxParticipants {
				return ErrTournamentFull
			}
		}

		if teamID != nil {
			existing, err := s.participantRepo.FindByTeamAndTournament(ctx, exec, *teamID, tournamentID)
			if err != nil && !errors.Is(err, repositories.ErrParticipantNotFound) {
				return err
			}
			if existing != nil {
				return ErrRegistrationConflict
			}
		} else {
			existing, err := s.participantRepo.FindByUserAndTournament(ctx, exec, actorID, tournamentID)
			if err != nil && !errors.Is(err, repositories.ErrParticipantNotFound) {
				return err
			}
			if existing != nil {
				return ErrRegistrationConflict
			}
		}

		if tournament.IsTeamBased && teamID == nil {
			return ErrTeamRegistrationOnly
		}
		if !tournament.IsTeamBased && teamID != nil {
			return ErrSoloRegistrationOnly
		}

		participant = &models.Participant{
			TournamentID: tournamentID,
			Status:       models.ParticipantStatusRegistered,
			RegisteredAt: time.Now(),
		}
		if tournament.IsTeamBased {
			participant.TeamID = teamID
		} else {
			userID := actorID
			participant.UserID = &userID
		}

		if err := s.participantRepo.Create(ctx, exec, participant); err != nil {
			if errors.Is(err, repositories.ErrParticipantConflict) {
				return ErrRegistrationConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	relations := []models.Participant{*participant}
	if err := loadParticipantRelations(ctx, s.userRepo, s.teamRepo, relations, false); err != nil {
		return nil, err
	}
	participant = &relations[0]

	s.hub.Publish(live.Event{
		Type:         live.EventParticipantRegistered,
		TournamentID: tournamentID,
		Payload:      participant,
	})
	return participant, nil
}

func (s *participantService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	if err := loadParticipantRelations(ctx, s.userRepo, s.teamRepo, participants, true); err != nil {
		return nil, err
	}
	return participants, nil
}

// Update merges seed and status onto the row. Only the creator of the
// parent tournament may do this.
func (s *participantService) Update(ctx context.Context, participantID, actorID int, input UpdateParticipantInput) (*models.Participant, error) {
	participant, err := s.getParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, participant.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load parent tournament: %w", err)
	}
	if tournament.CreatedBy != actorID {
		return nil, ErrForbiddenOperation
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrParticipantInvalidState
		}
		participant.Status = *input.Status
	}
	if input.Seed != nil {
		participant.Seed = input.Seed
	}

	if err := s.participantRepo.Update(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to update participant: %w", err)
	}

	relations := []models.Participant{*participant}
	if err := loadParticipantRelations(ctx, s.userRepo, s.teamRepo, relations, false); err != nil {
		return nil, err
	}
	participant = &relations[0]

	s.hub.Publish(live.Event{
		Type:         live.EventParticipantUpdated,
		TournamentID: participant.TournamentID,
		Payload:      participant,
	})
	return participant, nil
}

// Withdraw flips the participant's status to withdrew. It is the one
// mutation not gated on the tournament creator: the solo user itself,
// or the captain of a team entrant, may withdraw.
func (s *participantService) Withdraw(ctx context.Context, participantID, actorID int) (*models.Participant, error) {
	participant, err := s.getParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}

	allowed := participant.UserID != nil && *participant.UserID == actorID
	if !allowed && participant.TeamID != nil {
		team, err := s.teamRepo.GetByID(ctx, *participant.TeamID)
		if err != nil && !errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("failed to load participant team: %w", err)
		}
		allowed = team != nil && team.CaptainID != nil && *team.CaptainID == actorID
	}
	if !allowed {
		return nil, ErrForbiddenOperation
	}

	participant.Status = models.ParticipantStatusWithdrew
	if err := s.participantRepo.Update(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to withdraw participant: %w", err)
	}

	s.hub.Publish(live.Event{
		Type:         live.EventParticipantUpdated,
		TournamentID: participant.TournamentID,
		Payload:      participant,
	})
	return participant, nil
}

func (s *participantService) getParticipant(ctx context.Context, id int) (*models.Participant, error) {
	participant, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}
	return participant, nil
}
