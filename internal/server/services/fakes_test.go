package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/learninfinity/learninfinity/internal/common"
	"github.com/learninfinity/learninfinity/internal/dbx"
	"github.com/learninfinity/learninfinity/internal/server/config"
	"github.com/learninfinity/learninfinity/internal/server/models"
	skillsrepo "github.com/learninfinity/learninfinity/internal/server/repositories/skills"
	usersrepo "github.com/learninfinity/learninfinity/internal/server/repositories/users"
)

// --- in-memory fakes with real guard semantics ---

type fakeUsersRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*models.User{}}
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	stored := copyUser(u)
	stored.IsActive = true
	stored.LastLogin = u.JoinedDate
	f.users[u.ID] = stored
	return copyUser(stored), nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyUser(u), nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id string, name, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if name != "" {
		u.Name = name
	}
	if email != "" {
		u.Email = email
	}
	return copyUser(u), nil
}

func (f *fakeUsersRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.LastLogin = at
	}
	return nil
}

func (f *fakeUsersRepo) DeductCredit(ctx context.Context, id string, at time.Time) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if u.Credits <= 0 {
		return nil, common.ErrInsufficientCredits
	}
	u.Credits--
	u.TotalHoursLearned++
	u.LastLogin = at
	return copyUser(u), nil
}

func (f *fakeUsersRepo) AddCredits(ctx context.Context, id string, hours int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Credits += hours
	u.TotalHoursTaught += hours
	u.SessionsCompleted++
	return copyUser(u), nil
}

type fakeSkillsRepo struct {
	mu    sync.Mutex
	lists map[string]map[string][]models.Skill // userID -> side -> ordered skills
}

func newFakeSkillsRepo() *fakeSkillsRepo {
	return &fakeSkillsRepo{lists: map[string]map[string][]models.Skill{}}
}

func (f *fakeSkillsRepo) ListBySide(ctx context.Context, userID, side string) ([]models.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.lists[userID][side]
	out := make([]models.Skill, len(list))
	copy(out, list)
	return out, nil
}

func (f *fakeSkillsRepo) Add(ctx context.Context, userID, side string, skill models.Skill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lists[userID] == nil {
		f.lists[userID] = map[string][]models.Skill{}
	}
	f.lists[userID][side] = append(f.lists[userID][side], skill)
	return nil
}

func (f *fakeSkillsRepo) Remove(ctx context.Context, userID, side, skillID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.lists[userID][side]
	for i, s := range list {
		if s.ID == skillID {
			f.lists[userID][side] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSkillsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository         { return m.u }
func (m *fakeRepoManager) Skills(db dbx.DBTX) skillsrepo.Repository       { return m.s }

// --- helpers ---

// testDB opens an in-memory sqlite handle; the fakes ignore it, but WithTx
// needs something that can Begin/Commit.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:services_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

func seedUser(t *testing.T, f *fakeUsersRepo, id string, credits int64) *models.User {
	t.Helper()
	u := &models.User{
		ID: id, Name: "Alice", Email: id + "@example.com",
		Credits: credits, JoinedDate: time.Now(), IsActive: true,
	}
	_, err := f.Create(context.Background(), u)
	require.NoError(t, err)
	return u
}
