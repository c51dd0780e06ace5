package database_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/rpupo63/baglist-backend/database"
	"github.com/rpupo63/baglist-backend/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestProfileFindByHandle_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := database.NewProfileRepo(gormDB)

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "account_id", "handle", "display_name", "created_at", "updated_at"}).
		AddRow(id, "account-1", "ana", "Ana", now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE handle = $1`)).
		WillReturnRows(rows)

	profile, err := repo.FindByHandle(context.Background(), "ana")
	assert.NoError(t, err)
	assert.Equal(t, id, profile.ID)
	assert.Equal(t, "account-1", profile.AccountID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := database.NewProfileRepo(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	profile, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, profile)
}

func TestBagListFindByIDForUpdate_LocksRow(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := database.NewBagListRepo(gormDB)

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "owner_id", "title", "slug", "visibility", "created_at", "updated_at"}).
		AddRow(id, uuid.New(), "Japan Trip", "japan-trip", models.VisibilityPublic, now, now)

	mock.ExpectQuery(`SELECT \* FROM "baglists" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(rows)

	baglist, err := repo.FindByIDForUpdate(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, "japan-trip", baglist.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBagListSlugsWithPrefix(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := database.NewBagListRepo(gormDB)

	ownerID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "slug" FROM "baglists" WHERE owner_id = $1 AND slug LIKE $2`)).
		WithArgs(ownerID, "japan-trip%").
		WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("japan-trip").AddRow("japan-trip-copy"))

	slugs, err := repo.SlugsWithPrefix(context.Background(), ownerID, "japan-trip")
	assert.NoError(t, err)
	assert.Equal(t, []string{"japan-trip", "japan-trip-copy"}, slugs)
}

func TestSectionNextPosition(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := database.NewSectionRepo(gormDB)

	baglistID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(position), -1) + 1 FROM "baglist_sections" WHERE baglist_id = $1`)).
		WithArgs(baglistID).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(3))

	next, err := repo.NextPosition(context.Background(), baglistID)
	assert.NoError(t, err)
	assert.Equal(t, 3, next)
}

func TestSectionRenumber_TwoPasses(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := database.NewSectionRepo(gormDB)

	baglistID := uuid.New()
	first, second := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "baglist_sections" SET "position"=-position - 1`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "baglist_sections" SET "position"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "baglist_sections" SET "position"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Renumber(context.Background(), baglistID, []uuid.UUID{second, first})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRenumber_MissingRowRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := database.NewItemRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "baglist_items" SET "position"=-position - 1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "baglist_items" SET "position"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Renumber(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionDelete_DetachesItems(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := database.NewSectionRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "baglist_items" SET "section_id"=`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "baglist_item_field_values" WHERE field_id IN (SELECT`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "section_field_defs" WHERE section_id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "baglist_sections" WHERE id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionDelete_Missing(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := database.NewSectionRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "baglist_items"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "baglist_item_field_values"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "section_field_defs"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "baglist_sections"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDatabasePing(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	db := database.New(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1`)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	assert.NoError(t, db.Ping(context.Background()))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1`)).
		WillReturnError(errors.New("connection refused"))
	assert.Error(t, db.Ping(context.Background()))
}

func TestDatabaseTransaction_RollsBackOnError(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	db := database.New(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectRollback()

	err := db.Transaction(context.Background(), func(tx database.Store) error {
		_, err := tx.Profiles().FindByAccountID(context.Background(), "account-1")
		return err
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
