package pagination_test

import (
	"testing"
	"time"

	"github.com/tidyops/cleanops_backend/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	scheduledDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2024, 5, 28, 14, 30, 12, 345678000, time.UTC)

	token := pagination.EncodeToken(scheduledDate, createdAt)
	gotDate, gotCreated, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, scheduledDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeTokenInvalid(t *testing.T) {
	_, _, err := pagination.DecodeToken("not-base64!!!")
	assert.Error(t, err)

	_, _, err = pagination.DecodeToken("aGVsbG8=") // "hello", no separator
	assert.Error(t, err)
}

func TestDateBasedToken(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	token := pagination.EncodeDateBasedToken(date)
	got, err := pagination.DecodeDateBasedToken(token)
	require.NoError(t, err)
	assert.True(t, date.Equal(got))
}
