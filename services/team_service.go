package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/Ruben10-R/pro-league/models"
	"github.com/Ruben10-R/pro-league/repositories"
	"github.com/Ruben10-R/pro-league/storage"
	"github.com/google/uuid"
)

type TeamService interface {
	Create(ctx context.Context, captainID int, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, page, limit int) ([]models.Team, error)
	Update(ctx context.Context, id, actorID int, input UpdateTeamInput) (*models.Team, error)
	Delete(ctx context.Context, id, actorID int) error

	AddMember(ctx context.Context, teamID, actorID int, input AddMemberInput) (*models.Team, error)
	RemoveMember(ctx context.Context, teamID, actorID, userID int) (*models.Team, error)
	UploadLogo(ctx context.Context, teamID, actorID int, contentType string, ext string, file io.Reader) (*models.Team, error)
}

type CreateTeamInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type UpdateTeamInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type AddMemberInput struct {
	UserID int                   `json:"userId"`
	Role   models.TeamMemberRole `json:"role"`
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	userRepo   repositories.UserRepository
	transactor repositories.Transactor
	uploader   storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	transactor repositories.Transactor,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		userRepo:   userRepo,
		transactor: transactor,
		uploader:   uploader,
	}
}

// Create inserts the team and its captain membership row in one
// transaction, so a team never exists without its captain listed as a
// member.
func (s *teamService) Create(ctx context.Context, captainID int, input CreateTeamInput) (*models.Team, error) {
	team := &models.Team{
		Name:        input.Name,
		Description: input.Description,
		CaptainID:   &captainID,
	}

	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
		member := &models.TeamMember{
			TeamID:   team.ID,
			UserID:   captainID,
			Role:     models.TeamRoleCaptain,
			JoinedAt: time.Now(),
		}
		if err := s.teamRepo.AddMember(ctx, exec, member); err != nil {
			return fmt.Errorf("failed to add captain membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadTeam(ctx, team)
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.getTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.loadTeam(ctx, team)
}

func (s *teamService) List(ctx context.Context, page, limit int) ([]models.Team, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	teams, err := s.teamRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for i := range teams {
		s.fillLogoURL(&teams[i])
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, id, actorID int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.requireCaptain(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		team.Name = *input.Name
	}
	if input.Description != nil {
		team.Description = input.Description
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return s.loadTeam(ctx, team)
}

func (s *teamService) Delete(ctx context.Context, id, actorID int) error {
	team, err := s.requireCaptain(ctx, id, actorID)
	if err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	if team.LogoKey != nil {
		// The row is gone either way; a stale object is only logged.
		_ = s.uploader.Delete(ctx, *team.LogoKey)
	}
	return nil
}

func (s *teamService) AddMember(ctx context.Context, teamID, actorID int, input AddMemberInput) (*models.Team, error) {
	team, err := s.requireCaptain(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.TeamRoleMember
	}
	if !role.Valid() {
		return nil, ErrTeamInvalidRole
	}

	member := &models.TeamMember{
		TeamID:   teamID,
		UserID:   input.UserID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if err := s.teamRepo.AddMember(ctx, nil, member); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamMemberConflict):
			return nil, ErrTeamMemberConflict
		case errors.Is(err, repositories.ErrTeamMemberUserInvalid):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}

	return s.loadTeam(ctx, team)
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, actorID, userID int) (*models.Team, error) {
	team, err := s.requireCaptain(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}
	if team.CaptainID != nil && *team.CaptainID == userID {
		return nil, ErrCannotRemoveCaptain
	}

	if err := s.teamRepo.RemoveMember(ctx, teamID, userID); err != nil {
		if errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, fmt.Errorf("failed to remove team member: %w", err)
	}

	return s.loadTeam(ctx, team)
}

func (s *teamService) UploadLogo(ctx context.Context, teamID, actorID int, contentType string, ext string, file io.Reader) (*models.Team, error) {
	team, err := s.requireCaptain(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}

	key := path.Join("teams", "logos", uuid.NewString()+ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	oldKey := team.LogoKey
	team.LogoKey = &key
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to store team logo key: %w", err)
	}
	if oldKey != nil && *oldKey != key {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	return s.loadTeam(ctx, team)
}

func (s *teamService) getTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	return team, nil
}

func (s *teamService) requireCaptain(ctx context.Context, teamID, actorID int) (*models.Team, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.CaptainID == nil || *team.CaptainID != actorID {
		return nil, ErrForbiddenOperation
	}
	return team, nil
}

// loadTeam attaches captain, members and the public logo URL.
func (s *teamService) loadTeam(ctx context.Context, team *models.Team) (*models.Team, error) {
	if team.CaptainID != nil {
		captain, err := s.userRepo.GetByID(ctx, *team.CaptainID)
		if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to load team captain: %w", err)
		}
		team.Captain = captain.Public()
	}

	members, err := s.teamRepo.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team members: %w", err)
	}
	team.Members = members

	s.fillLogoURL(team)
	return team, nil
}

func (s *teamService) fillLogoURL(team *models.Team) {
	if team.LogoKey != nil {
		url := s.uploader.GetPublicURL(*team.LogoKey)
		team.LogoURL = &url
	}
}
