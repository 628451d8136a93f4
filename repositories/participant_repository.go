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
	ErrParticipantNotFound          = errors.New("participant not found")
	ErrParticipantConflict          = errors.New("participant conflict: user or team already registered for this tournament")
	ErrParticipantTypeViolation     = errors.New("participant type violation: exactly one of user_id or team_id must be set")
	ErrParticipantTournamentInvalid = errors.New("participant tournament conflict or invalid")
)

type ParticipantRepository interface {
	// The methods taking an executor make up the registration gate:
	// count, duplicate lookup and insert run inside one transaction.
	Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	FindByUserAndTournament(ctx context.Context, exec SQLExecutor, userID, tournamentID int) (*models.Participant, error)
	FindByTeamAndTournament(ctx context.Context, exec SQLExecutor, teamID, tournamentID int) (*models.Participant, error)

	GetByID(ctx context.Context, id int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error)
	Update(ctx context.Context, p *models.Participant) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const participantColumns = `
	id, tournament_id, user_id, team_id, seed, status, registered_at, created_at, updated_at`

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	query := `
		INSERT INTO tournament_participants
			(tournament_id, user_id, team_id, seed, status, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		p.TournamentID,
		p.UserID,
		p.TeamID,
		p.Seed,
		p.Status,
		p.RegisteredAt,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation on the partial unique indexes
				return ErrParticipantConflict
			case "23514": // check_violation
				if pqErr.Constraint == "chk_participant_entrant" {
					return ErrParticipantTypeViolation
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "tournament_participants_tournament_id_fkey" {
					return ErrParticipantTournamentInvalid
				}
			}
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tournament_participants WHERE tournament_id = $1`, tournamentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

func (r *postgresParticipantRepository) FindByUserAndTournament(ctx context.Context, exec SQLExecutor, userID, tournamentID int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + `
		FROM tournament_participants
		WHERE tournament_id = $1 AND user_id = $2`
	return r.scanParticipant(ctx, exec, query, tournamentID, userID)
}

func (r *postgresParticipantRepository) FindByTeamAndTournament(ctx context.Context, exec SQLExecutor, teamID, tournamentID int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + `
		FROM tournament_participants
		WHERE tournament_id = $1 AND team_id = $2`
	return r.scanParticipant(ctx, exec, query, tournamentID, teamID)
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + `
		FROM tournament_participants
		WHERE id = $1`
	return r.scanParticipant(ctx, nil, query, id)
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error) {
	query := `SELECT ` + participantColumns + `
		FROM tournament_participants
		WHERE tournament_id = $1
		ORDER BY registered_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := make([]models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(
			&p.ID, &p.TournamentID, &p.UserID, &p.TeamID, &p.Seed,
			&p.Status, &p.RegisteredAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *postgresParticipantRepository) Update(ctx context.Context, p *models.Participant) error {
	query := `
		UPDATE tournament_participants SET
			seed = $1,
			status = $2,
			updated_at = now()
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, p.Seed, p.Status, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) scanParticipant(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) (*models.Participant, error) {
	p := &models.Participant{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.TournamentID, &p.UserID, &p.TeamID, &p.Seed,
		&p.Status, &p.RegisteredAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant: %w", err)
	}
	return p, nil
}
