package sequence

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_NextCodes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT nextval($1::regclass)")).
		WithArgs("recurring_group_code_seq").
		WillReturnRows(mock.NewRows([]string{"nextval"}).AddRow(int64(12)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT nextval($1::regclass)")).
		WithArgs("booking_code_seq").
		WillReturnRows(mock.NewRows([]string{"nextval"}).AddRow(int64(123456)))

	code, err := repo.NextGroupCode(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, "RB-20240101-00012", code)

	code, err = repo.NextBookingCode(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, "BK-20240101-123456", code)
}

func TestRepository_NextGroupCode_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("nextval").WillReturnError(errors.New("connection reset"))

	_, err = NewRepository(db).NextGroupCode(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrExecQuery)
}
