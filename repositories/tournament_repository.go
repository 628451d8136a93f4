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
	ErrTournamentNotFound       = errors.New("tournament not found")
	ErrTournamentCreatorInvalid = errors.New("tournament creator conflict or invalid")
)

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	// GetByID accepts an optional executor. When one is supplied the
	// row is read FOR UPDATE, so the registration gate's
	// count-then-insert serializes against concurrent registrations.
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus, limit, offset int) ([]models.Tournament, error)
	Update(ctx context.Context, t *models.Tournament) error
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, name, description, game_type, format, status, max_participants,
	is_team_based, team_size, rules, prizes, registration_start,
	registration_end, start_date, end_date, created_by, created_at, updated_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments
			(name, description, game_type, format, status, max_participants,
			 is_team_based, team_size, rules, prizes, registration_start,
			 registration_end, start_date, end_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name,
		t.Description,
		t.GameType,
		t.Format,
		t.Status,
		t.MaxParticipants,
		t.IsTeamBased,
		t.TeamSize,
		t.Rules,
		t.Prizes,
		t.RegistrationStart,
		t.RegistrationEnd,
		t.StartDate,
		t.EndDate,
		t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" && pqErr.Constraint == "tournaments_created_by_fkey" {
			return ErrTournamentCreatorInvalid
		}
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	if exec != nil {
		// Under READ COMMITTED two concurrent gates would otherwise
		// both read count < max_participants and overrun the cap.
		query += ` FOR UPDATE`
	}

	t := &models.Tournament{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.GameType, &t.Format, &t.Status,
		&t.MaxParticipants, &t.IsTeamBased, &t.TeamSize, &t.Rules, &t.Prizes,
		&t.RegistrationStart, &t.RegistrationEnd, &t.StartDate, &t.EndDate,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament: %w", err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, status *models.TournamentStatus, limit, offset int) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.GameType, &t.Format, &t.Status,
			&t.MaxParticipants, &t.IsTeamBased, &t.TeamSize, &t.Rules, &t.Prizes,
			&t.RegistrationStart, &t.RegistrationEnd, &t.StartDate, &t.EndDate,
			&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	// created_by is deliberately absent: the creator is immutable.
	query := `
		UPDATE tournaments SET
			name = $1, description = $2, game_type = $3, format = $4,
			status = $5, max_participants = $6, is_team_based = $7,
			team_size = $8, rules = $9, prizes = $10, registration_start = $11,
			registration_end = $12, start_date = $13, end_date = $14,
			updated_at = now()
		WHERE id = $15`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Description, t.GameType, t.Format, t.Status,
		t.MaxParticipants, t.IsTeamBased, t.TeamSize, t.Rules, t.Prizes,
		t.RegistrationStart, t.RegistrationEnd, t.StartDate, t.EndDate,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tournament: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
