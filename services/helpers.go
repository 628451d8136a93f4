package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ruben10-R/pro-league/models"
	"github.com/Ruben10-R/pro-league/repositories"
)

// loadParticipantRelations attaches the user or team behind each
// participant. One query per relation: the data set per tournament is
// small and the storage layer stays free of wide joins.
func loadParticipantRelations(
	ctx context.Context,
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	participants []models.Participant,
	includeTeamMembers bool,
) error {
	for i := range participants {
		p := &participants[i]
		switch {
		case p.UserID != nil:
			user, err := userRepo.GetByID(ctx, *p.UserID)
			if err != nil {
				if errors.Is(err, repositories.ErrUserNotFound) {
					continue
				}
				return fmt.Errorf("failed to load participant user %d: %w", *p.UserID, err)
			}
			p.User = user.Public()
		case p.TeamID != nil:
			team, err := teamRepo.GetByID(ctx, *p.TeamID)
			if err != nil {
				if errors.Is(err, repositories.ErrTeamNotFound) {
					continue
				}
				return fmt.Errorf("failed to load participant team %d: %w", *p.TeamID, err)
			}
			if includeTeamMembers {
				members, err := teamRepo.ListMembers(ctx, team.ID)
				if err != nil {
					return fmt.Errorf("failed to load team members for team %d: %w", team.ID, err)
				}
				team.Members = members
			}
			p.Team = team
		}
	}
	return nil
}

func loadCreator(ctx context.Context, userRepo repositories.UserRepository, t *models.Tournament) error {
	creator, err := userRepo.GetByID(ctx, t.CreatedBy)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load tournament creator: %w", err)
	}
	t.Creator = creator.Public()
	return nil
}
