package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockRepository(t *testing.T) (CollectionRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewCollectionRepository(db), mock
}

func TestBulkInsert_CommitsWholeBatch(t *testing.T) {
	repo, mock := setupMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `collection_records`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `collection_records`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	rows := []map[string]any{
		{"collection_code": "WK07", "s1": int64(20240214003007), "added_at": time.Now()},
		{"collection_code": "WK07", "s1": int64(20240214003008), "added_at": time.Now()},
	}
	require.NoError(t, repo.BulkInsert(rows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkInsert_RollsBackOnAnyFailure(t *testing.T) {
	repo, mock := setupMockRepository(t)

	boom := errors.New("constraint violation")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `collection_records`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `collection_records`").
		WillReturnError(boom)
	mock.ExpectRollback()

	rows := []map[string]any{
		{"collection_code": "WK07", "s1": int64(1)},
		{"collection_code": "WK07", "s1": int64(2)},
	}
	err := repo.BulkInsert(rows)
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkInsert_EmptyBatchTouchesNothing(t *testing.T) {
	repo, mock := setupMockRepository(t)

	require.NoError(t, repo.BulkInsert(nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateColumns_MissingRecord(t *testing.T) {
	repo, mock := setupMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `collection_records`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateColumns(9999, map[string]any{"s4": "nobody"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
