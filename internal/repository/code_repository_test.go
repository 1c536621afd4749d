package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bilogames/account-service/internal/domain"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationCodeRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVerificationCodeRepository(db)

	expires := time.Now().Add(15 * time.Minute)
	mock.ExpectExec(`(?s)INSERT\s+INTO\s+email_verification_codes.*ON\s+CONFLICT\s+\(user_id\)\s+DO\s+UPDATE`).
		WithArgs(sqlmock.AnyArg(), "u-1", "123456", expires, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	code := &domain.EmailVerificationCode{UserID: "u-1", Code: "123456", ExpiresAt: expires}
	require.NoError(t, repo.Upsert(context.Background(), code))
	assert.NotEmpty(t, code.ID)
}

func TestVerificationCodeRepository_UpsertUnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVerificationCodeRepository(db)

	mock.ExpectExec(`INSERT\s+INTO\s+email_verification_codes`).
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Upsert(context.Background(), &domain.EmailVerificationCode{UserID: "gone", Code: "123456"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerificationCodeRepository_Consume(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVerificationCodeRepository(db)

	now := time.Now()
	query := `(?s)DELETE\s+FROM\s+email_verification_codes\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+code\s*=\s*\$2\s+AND\s+expires_at\s*>\s*\$3`

	mock.ExpectExec(query).
		WithArgs("u-1", "123456", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs("u-1", "123456", now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Consume(context.Background(), "u-1", "123456", now))
	assert.ErrorIs(t, repo.Consume(context.Background(), "u-1", "123456", now), ErrNotFound)
}

func TestVerificationCodeRepository_DeleteByUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVerificationCodeRepository(db)

	mock.ExpectExec(`DELETE\s+FROM\s+email_verification_codes\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteByUserID(context.Background(), "u-1"))
}

func TestResetCodeRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResetCodeRepository(db)

	expires := time.Now().Add(15 * time.Minute)
	mock.ExpectExec(`(?s)INSERT\s+INTO\s+password_reset_codes.*ON\s+CONFLICT\s+\(email\)\s+DO\s+UPDATE.*used\s*=\s*FALSE`).
		WithArgs(sqlmock.AnyArg(), "u-1", "jean@example.com", "654321", expires, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	code := &domain.PasswordResetCode{UserID: "u-1", Email: "jean@example.com", Code: "654321", ExpiresAt: expires, Used: true}
	require.NoError(t, repo.Upsert(context.Background(), code))
	assert.False(t, code.Used)
}

func TestResetCodeRepository_FindRedeemable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResetCodeRepository(db)

	now := time.Now()
	query := `(?s)FROM\s+password_reset_codes\s+WHERE\s+email\s*=\s*\$1\s+AND\s+code\s*=\s*\$2\s+AND\s+used\s*=\s*FALSE\s+AND\s+expires_at\s*>\s*\$3`

	rows := sqlmock.NewRows([]string{"id", "user_id", "email", "code", "used", "expires_at", "created_at"}).
		AddRow("c-1", "u-1", "jean@example.com", "654321", false, now.Add(time.Minute), now)
	mock.ExpectQuery(query).
		WithArgs("jean@example.com", "654321", now).
		WillReturnRows(rows)
	mock.ExpectQuery(query).
		WithArgs("jean@example.com", "000000", now).
		WillReturnError(sql.ErrNoRows)

	code, err := repo.FindRedeemable(context.Background(), "jean@example.com", "654321", now)
	require.NoError(t, err)
	assert.Equal(t, "c-1", code.ID)
	assert.True(t, code.IsRedeemable(now))

	_, err = repo.FindRedeemable(context.Background(), "jean@example.com", "000000", now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResetCodeRepository_MarkUsed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResetCodeRepository(db)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	query := `UPDATE\s+password_reset_codes\s+SET\s+used\s*=\s*TRUE\s+WHERE\s+id\s*=\s*\$1\s+AND\s+used\s*=\s*FALSE\s+AND\s+expires_at\s*>\s*\$2`
	mock.ExpectExec(query).WithArgs("c-1", now).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs("c-1", now).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.MarkUsed(context.Background(), "c-1", now))
	assert.ErrorIs(t, repo.MarkUsed(context.Background(), "c-1", now), ErrNotFound)
}

func TestResetCodeRepository_DeleteByUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewResetCodeRepository(db)

	mock.ExpectExec(`DELETE\s+FROM\s+password_reset_codes\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	assert.NoError(t, repo.DeleteByUserID(context.Background(), "u-1"))
}
