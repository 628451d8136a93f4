package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/Ruben10-R/pro-league/live"
	"github.com/Ruben10-R/pro-league/models"
	"github.com/Ruben10-R/pro-league/repositories"
	"github.com/Ruben10-R/pro-league/storage"
)

// In-memory repository fakes. They reproduce the sentinel errors of
// the Postgres implementations, including the unique and check
// constraints the registration gate relies on.

func newTestHub() *live.Hub {
	return live.NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeTxExecutor stands in for the *sql.Tx a real transactor hands to
// the callback; repositories only check it for non-nilness in tests.
type fakeTxExecutor struct{}

func (fakeTxExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (fakeTxExecutor) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (fakeTxExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

type fakeTransactor struct{}

func (fakeTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(fakeTxExecutor{})
}

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	for id, existing := range r.users {
		if id != user.ID && existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

type fakeTokenRepo struct {
	tokens map[string]*models.AuthToken
	nextID int
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*models.AuthToken), nextID: 1}
}

func (r *fakeTokenRepo) Create(ctx context.Context, token *models.AuthToken) error {
	token.ID = r.nextID
	r.nextID++
	cp := *token
	r.tokens[token.TokenHash] = &cp
	return nil
}

func (r *fakeTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*models.AuthToken, error) {
	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, repositories.ErrTokenNotFound
	}
	cp := *token
	return &cp, nil
}

func (r *fakeTokenRepo) DeleteByHash(ctx context.Context, tokenHash string) error {
	if _, ok := r.tokens[tokenHash]; !ok {
		return repositories.ErrTokenNotFound
	}
	delete(r.tokens, tokenHash)
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	var removed int64
	for hash, token := range r.tokens {
		if token.ExpiresAt.Before(time.Now()) {
			delete(r.tokens, hash)
			removed++
		}
	}
	return removed, nil
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	nextID      int
	// Executor seen by the most recent GetByID, so tests can check a
	// read took part in its caller's transaction.
	lastExec repositories.SQLExecutor
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament), nextID: 1}
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	t.ID = r.nextID
	r.nextID++
	cp := *t
	r.tournaments[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.lastExec = exec
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) List(ctx context.Context, status *models.TournamentStatus, limit, offset int) ([]models.Tournament, error) {
	ids := make([]int, 0, len(r.tournaments))
	for id, t := range r.tournaments {
		if status != nil && t.Status != *status {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var out []models.Tournament
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *r.tournaments[id])
	}
	return out, nil
}

func (r *fakeTournamentRepo) Update(ctx context.Context, t *models.Tournament) error {
	if _, ok := r.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	cp := *t
	r.tournaments[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

type fakeTeamRepo struct {
	teams   map[int]*models.Team
	members []models.TeamMember
	nextID  int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team), nextID: 1}
}

func (r *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	team.ID = r.nextID
	r.nextID++
	cp := *team
	r.teams[team.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *team
	return &cp, nil
}

func (r *fakeTeamRepo) List(ctx context.Context, limit, offset int) ([]models.Team, error) {
	ids := make([]int, 0, len(r.teams))
	for id := range r.teams {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var out []models.Team
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *r.teams[id])
	}
	return out, nil
}

func (r *fakeTeamRepo) Update(ctx context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	cp := *team
	r.teams[team.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	kept := r.members[:0]
	for _, m := range r.members {
		if m.TeamID != id {
			kept = append(kept, m)
		}
	}
	r.members = kept
	return nil
}

func (r *fakeTeamRepo) AddMember(ctx context.Context, exec repositories.SQLExecutor, member *models.TeamMember) error {
	for _, m := range r.members {
		if m.TeamID == member.TeamID && m.UserID == member.UserID {
			return repositories.ErrTeamMemberConflict
		}
	}
	r.members = append(r.members, *member)
	return nil
}

func (r *fakeTeamRepo) RemoveMember(ctx context.Context, teamID, userID int) error {
	for i, m := range r.members {
		if m.TeamID == teamID && m.UserID == userID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return nil
		}
	}
	return repositories.ErrTeamMemberNotFound
}

func (r *fakeTeamRepo) ListMembers(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	var out []models.TeamMember
	for _, m := range r.members {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeParticipantRepo struct {
	participants map[int]*models.Participant
	nextID       int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[int]*models.Participant), nextID: 1}
}

func (r *fakeParticipantRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Participant) error {
	if (p.UserID == nil) == (p.TeamID == nil) {
		return repositories.ErrParticipantTypeViolation
	}
	for _, existing := range r.participants {
		if existing.TournamentID != p.TournamentID {
			continue
		}
		if p.UserID != nil && existing.UserID != nil && *existing.UserID == *p.UserID {
			return repositories.ErrParticipantConflict
		}
		if p.TeamID != nil && existing.TeamID != nil && *existing.TeamID == *p.TeamID {
			return repositories.ErrParticipantConflict
		}
	}
	p.ID = r.nextID
	r.nextID++
	cp := *p
	r.participants[p.ID] = &cp
	return nil
}

func (r *fakeParticipantRepo) CountByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	count := 0
	for _, p := range r.participants {
		if p.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeParticipantRepo) FindByUserAndTournament(ctx context.Context, exec repositories.SQLExecutor, userID, tournamentID int) (*models.Participant, error) {
	for _, p := range r.participants {
		if p.TournamentID == tournamentID && p.UserID != nil && *p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) FindByTeamAndTournament(ctx context.Context, exec repositories.SQLExecutor, teamID, tournamentID int) (*models.Participant, error) {
	for _, p := range r.participants {
		if p.TournamentID == tournamentID && p.TeamID != nil && *p.TeamID == teamID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	p, ok := r.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeParticipantRepo) ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error) {
	ids := make([]int, 0, len(r.participants))
	for id, p := range r.participants {
		if p.TournamentID == tournamentID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	var out []models.Participant
	for _, id := range ids {
		out = append(out, *r.participants[id])
	}
	return out, nil
}

func (r *fakeParticipantRepo) Update(ctx context.Context, p *models.Participant) error {
	if _, ok := r.participants[p.ID]; !ok {
		return repositories.ErrParticipantNotFound
	}
	cp := *p
	r.participants[p.ID] = &cp
	return nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
}

func (r *fakeMatchRepo) Create(ctx context.Context, m *models.Match) error {
	m.ID = r.nextID
	r.nextID++
	cp := *m
	r.matches[m.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMatchRepo) List(ctx context.Context, tournamentID *int, limit, offset int) ([]models.Match, error) {
	var all []models.Match
	for _, m := range r.matches {
		if tournamentID != nil && m.TournamentID != *tournamentID {
			continue
		}
		all = append(all, *m)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Round != all[j].Round {
			return all[i].Round < all[j].Round
		}
		return all[i].ID < all[j].ID
	})

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeMatchRepo) Update(ctx context.Context, m *models.Match) error {
	if _, ok := r.matches[m.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	cp := *m
	r.matches[m.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

type fakeUploader struct {
	objects map[string][]byte
	deleted []string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string][]byte)}
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.objects[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}
