package calendar

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetBlockedDates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE blocked_date >= $1 AND blocked_date <= $2 AND (court_id IS NULL OR court_id = $3) ORDER BY blocked_date ASC")).
		WithArgs(from, to, int64(1)).
		WillReturnRows(mock.NewRows([]string{"id", "blocked_date", "court_id", "reason"}).
			AddRow(int64(1), time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), nil, "Tournament").
			AddRow(int64(2), time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), int64(1), "Resurfacing"))

	blocked, err := NewRepository(db).GetBlockedDates(context.Background(), 1, from, to)
	require.NoError(t, err)
	require.Len(t, blocked, 2)

	assert.Nil(t, blocked[0].CourtID)
	assert.True(t, blocked[0].AppliesTo(5))
	require.NotNil(t, blocked[1].CourtID)
	assert.False(t, blocked[1].AppliesTo(5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
