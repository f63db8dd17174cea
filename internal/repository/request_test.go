package repository

import (
	"context"
	"regexp"
	"testing"

	"sehhaty/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRequestRepository_GetForAccount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "account_id", "type", "status"}).
			AddRow(7, 3, "appointment", "pending")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "requests" WHERE id = $1 AND account_id = $2`)).
			WithArgs(7, 3, 1).
			WillReturnRows(rows)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "attachments" WHERE "attachments"."request_id" = $1`)).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"id", "request_id"}))

		request, err := repo.GetForAccount(ctx, 7, 3)
		assert.NoError(t, err)
		require.NotNil(t, request)
		assert.Equal(t, models.RequestTypeAppointment, request.Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Owned By Someone Else", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "requests" WHERE id = $1 AND account_id = $2`)).
			WithArgs(7, 4, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		request, err := repo.GetForAccount(ctx, 7, 4)
		assert.Nil(t, request)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRequestRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	request := &models.Request{AccountID: 3, Type: models.RequestTypeConsultation, Status: models.RequestStatusPending}
	require.NoError(t, request.SetData(map[string]string{"specialty": "cardiology", "description": "chest pain", "preferredContact": "phone"}))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "requests"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	err := repo.Create(ctx, request)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_ListForAccount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "account_id", "type", "status"}).
		AddRow(12, 3, "medical_excuse", "completed").
		AddRow(11, 3, "consultation", "pending")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "requests" WHERE account_id = $1 ORDER BY created_at DESC`)).
		WithArgs(3).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "attachments" WHERE "attachments"."request_id" IN ($1,$2)`)).
		WithArgs(12, 11).
		WillReturnRows(sqlmock.NewRows([]string{"id", "request_id"}).AddRow(5, 12))

	requests, err := repo.ListForAccount(ctx, 3)
	assert.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, uint(12), requests[0].ID)
	assert.Len(t, requests[0].Attachments, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_ListAll_Filters(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	t.Run("Status Filter", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "account_id", "type", "status"}).
			AddRow(20, 3, "appointment", "pending")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "requests" WHERE requests.status = $1 ORDER BY requests.created_at DESC`)).
			WithArgs("pending").
			WillReturnRows(rows)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE "accounts"."id" = $1`)).
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}).AddRow(3, "Khalid Alotaibi"))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "attachments" WHERE "attachments"."request_id" = $1`)).
			WithArgs(20).
			WillReturnRows(sqlmock.NewRows([]string{"id", "request_id"}))

		requests, err := repo.ListAll(ctx, RequestFilter{Status: models.RequestStatusPending})
		assert.NoError(t, err)
		require.Len(t, requests, 1)
		require.NotNil(t, requests[0].Account)
		assert.Equal(t, "Khalid Alotaibi", requests[0].Account.FullName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Search Joins Accounts", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`JOIN accounts ON accounts.id = requests.account_id`)).
			WithArgs("%Khalid%", "%Khalid%", "%Khalid%", "%Khalid%").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		requests, err := repo.ListAll(ctx, RequestFilter{Search: "Khalid"})
		assert.NoError(t, err)
		assert.Empty(t, requests)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRequestRepository_Statistics(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "requests"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status AS key, COUNT(*) AS count FROM "requests" GROUP BY "status"`)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).
			AddRow("pending", 6).
			AddRow("completed", 4))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT type AS key, COUNT(*) AS count FROM "requests" GROUP BY "type"`)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).
			AddRow("appointment", 7).
			AddRow("consultation", 3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "requests" WHERE created_at >= $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "requests" WHERE created_at >= $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	stats, err := repo.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Total)
	assert.Equal(t, int64(6), stats.ByStatus[models.RequestStatusPending])
	assert.Equal(t, int64(7), stats.ByType[models.RequestTypeAppointment])
	assert.Equal(t, int64(2), stats.Today)
	assert.Equal(t, int64(5), stats.LastWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}
