// Package dbtest runs database.Database on a throwaway SQLite file so service and handler
// tests exercise the real GORM repositories, unique indexes and foreign keys.
package dbtest

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const pragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(OFF)"

// Open migrates a fresh SQLite database under t.TempDir and returns it. The file is closed
// when the test ends.
func Open(t testing.TB) database.Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "baglist.db")+pragmas), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// SQLite takes one writer at a time
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := database.New(db)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

// Store is an opened database that a test can make fail on purpose. Supported operations:
// "store.Ping", "store.Transaction", "profiles.FindByID", "profiles.FindByAccountID",
// "sections.Renumber" and "tags.ListByBagList".
type Store struct {
	database.Store
	db     database.Database
	faults *faults
}

var _ database.Store = (*Store)(nil)

func New(t testing.TB) *Store {
	t.Helper()
	db := Open(t)
	return &Store{Store: db, db: db, faults: &faults{byOp: map[string]error{}}}
}

type faults struct {
	mu   sync.Mutex
	byOp map[string]error
}

// FailOn makes every later call of op return err. A nil err clears it.
func (s *Store) FailOn(op string, err error) {
	s.faults.mu.Lock()
	defer s.faults.mu.Unlock()
	if err == nil {
		delete(s.faults.byOp, op)
		return
	}
	s.faults.byOp[op] = err
}

func (f *faults) err(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byOp[op]
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.faults.err("store.Ping"); err != nil {
		return err
	}
	return s.db.Ping(ctx)
}

// Transaction hands fn a Store bound to the transaction that shares this Store's failures.
func (s *Store) Transaction(ctx context.Context, fn func(tx database.Store) error) error {
	if err := s.faults.err("store.Transaction"); err != nil {
		return err
	}
	return s.Store.Transaction(ctx, func(tx database.Store) error {
		return fn(&Store{Store: tx, db: s.db, faults: s.faults})
	})
}

func (s *Store) Profiles() database.ProfileRepository {
	return profileRepo{ProfileRepository: s.Store.Profiles(), faults: s.faults}
}

func (s *Store) Sections() database.SectionRepository {
	return sectionRepo{SectionRepository: s.Store.Sections(), faults: s.faults}
}

func (s *Store) Tags() database.TagRepository {
	return tagRepo{TagRepository: s.Store.Tags(), faults: s.faults}
}

type profileRepo struct {
	database.ProfileRepository
	faults *faults
}

func (r profileRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if err := r.faults.err("profiles.FindByID"); err != nil {
		return nil, err
	}
	return r.ProfileRepository.FindByID(ctx, id)
}

func (r profileRepo) FindByAccountID(ctx context.Context, accountID string) (*models.Profile, error) {
	if err := r.faults.err("profiles.FindByAccountID"); err != nil {
		return nil, err
	}
	return r.ProfileRepository.FindByAccountID(ctx, accountID)
}

type sectionRepo struct {
	database.SectionRepository
	faults *faults
}

func (r sectionRepo) Renumber(ctx context.Context, baglistID uuid.UUID, orderedIDs []uuid.UUID) error {
	if err := r.faults.err("sections.Renumber"); err != nil {
		return err
	}
	return r.SectionRepository.Renumber(ctx, baglistID, orderedIDs)
}

type tagRepo struct {
	database.TagRepository
	faults *faults
}

func (r tagRepo) ListByBagList(ctx context.Context, baglistID uuid.UUID) ([]*models.Tag, error) {
	if err := r.faults.err("tags.ListByBagList"); err != nil {
		return nil, err
	}
	return r.TagRepository.ListByBagList(ctx, baglistID)
}
