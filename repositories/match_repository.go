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
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchTournamentInvalid  = errors.New("match tournament conflict or invalid")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, m *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, tournamentID *int, limit, offset int) ([]models.Match, error)
	Update(ctx context.Context, m *models.Match) error
	Delete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `
	id, tournament_id, round, bracket_position, participant_1_id,
	participant_2_id, winner_id, participant_1_score, participant_2_score,
	status, scheduled_at, started_at, completed_at, location, notes,
	created_at, updated_at`

func (r *postgresMatchRepository) Create(ctx context.Context, m *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, round, bracket_position, participant_1_id,
			 participant_2_id, winner_id, participant_1_score,
			 participant_2_score, status, scheduled_at, started_at,
			 completed_at, location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		m.TournamentID, m.Round, m.BracketPosition, m.Participant1ID,
		m.Participant2ID, m.WinnerID, m.Participant1Score, m.Participant2Score,
		m.Status, m.ScheduledAt, m.StartedAt, m.CompletedAt, m.Location, m.Notes,
	).Scan(&m.ID, &m.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "matches_tournament_id_fkey":
				return ErrMatchTournamentInvalid
			case "matches_participant_1_id_fkey", "matches_participant_2_id_fkey", "matches_winner_id_fkey":
				return ErrMatchParticipantInvalid
			}
		}
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.TournamentID, &m.Round, &m.BracketPosition, &m.Participant1ID,
		&m.Participant2ID, &m.WinnerID, &m.Participant1Score, &m.Participant2Score,
		&m.Status, &m.ScheduledAt, &m.StartedAt, &m.CompletedAt, &m.Location,
		&m.Notes, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	return m, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, tournamentID *int, limit, offset int) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches`
	args := []interface{}{}
	if tournamentID != nil {
		query += ` WHERE tournament_id = $1`
		args = append(args, *tournamentID)
	}
	query += fmt.Sprintf(` ORDER BY round ASC, id ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.Round, &m.BracketPosition, &m.Participant1ID,
			&m.Participant2ID, &m.WinnerID, &m.Participant1Score, &m.Participant2Score,
			&m.Status, &m.ScheduledAt, &m.StartedAt, &m.CompletedAt, &m.Location,
			&m.Notes, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, m *models.Match) error {
	query := `
		UPDATE matches SET
			round = $1, bracket_position = $2, participant_1_id = $3,
			participant_2_id = $4, winner_id = $5, participant_1_score = $6,
			participant_2_score = $7, status = $8, scheduled_at = $9,
			started_at = $10, completed_at = $11, location = $12, notes = $13,
			updated_at = now()
		WHERE id = $14`

	result, err := r.db.ExecContext(ctx, query,
		m.Round, m.BracketPosition, m.Participant1ID, m.Participant2ID,
		m.WinnerID, m.Participant1Score, m.Participant2Score, m.Status,
		m.ScheduledAt, m.StartedAt, m.CompletedAt, m.Location, m.Notes,
		m.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrMatchParticipantInvalid
		}
		return fmt.Errorf("failed to update match: %w", err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
