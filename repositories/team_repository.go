package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ruben10-R/pro-league/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamMemberConflict    = errors.New("user is already a member of this team")
	ErrTeamMemberNotFound    = errors.New("team member not found")
	ErrTeamMemberUserInvalid = errors.New("team member user conflict or invalid")
)

type TeamRepository interface {
	// Create and AddMember accept an executor so team creation can
	// insert the team and its captain membership in one transaction.
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, limit, offset int) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id int) error

	AddMember(ctx context.Context, exec SQLExecutor, member *models.TeamMember) error
	RemoveMember(ctx context.Context, teamID, userID int) error
	ListMembers(ctx context.Context, teamID int) ([]models.TeamMember, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (name, description, logo_key, captain_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		team.Name,
		team.Description,
		team.LogoKey,
		team.CaptainID,
	).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, name, description, logo_key, captain_id, created_at, updated_at
		FROM teams
		WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.LogoKey,
		&team.CaptainID,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	return team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context, limit, offset int) ([]models.Team, error) {
	query := `
		SELECT id, name, description, logo_key, captain_id, created_at, updated_at
		FROM teams
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(
			&team.ID,
			&team.Name,
			&team.Description,
			&team.LogoKey,
			&team.CaptainID,
			&team.CreatedAt,
			&team.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1,
			description = $2,
			logo_key = $3,
			updated_at = now()
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query,
		team.Name,
		team.Description,
		team.LogoKey,
		team.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AddMember(ctx context.Context, exec SQLExecutor, member *models.TeamMember) error {
	query := `
		INSERT INTO team_members (team_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.getExecutor(exec).ExecContext(ctx, query,
		member.TeamID,
		member.UserID,
		member.Role,
		member.JoinedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation on (team_id, user_id)
				return ErrTeamMemberConflict
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "team_members_user_id_fkey" {
					return ErrTeamMemberUserInvalid
				}
				if pqErr.Constraint == "team_members_team_id_fkey" {
					return ErrTeamNotFound
				}
			}
		}
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) RemoveMember(ctx context.Context, teamID, userID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	return checkAffectedRows(result, ErrTeamMemberNotFound)
}

func (r *postgresTeamRepository) ListMembers(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	query := `
		SELECT tm.team_id, tm.user_id, tm.role, tm.joined_at, u.id, u.full_name
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	members := make([]models.TeamMember, 0)
	for rows.Next() {
		var m models.TeamMember
		var u models.PublicUser
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.Role, &m.JoinedAt, &u.ID, &u.FullName); err != nil {
			return nil, fmt.Errorf("failed to scan team member row: %w", err)
		}
		m.User = &u
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}
