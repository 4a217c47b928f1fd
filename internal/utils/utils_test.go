package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-directory/internal/utils"
)

func TestParseStartTime(t *testing.T) {
	want := time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC)

	for _, input := range []string{
		"2035-04-01 20:00:00",
		"2035-04-01T20:00:00Z",
		"2035-04-01T22:00:00+02:00",
		"2035-04-01T20:00",
		" 2035-04-01 20:00 ",
	} {
		got, err := utils.ParseStartTime(input)
		require.NoError(t, err, input)
		assert.True(t, want.Equal(got), input)
	}

	_, err := utils.ParseStartTime("next tuesday")
	assert.Error(t, err)
}

func TestFormatStartTime(t *testing.T) {
	at := time.Date(2035, 4, 1, 22, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "2035-04-01 20:30:00", utils.FormatStartTime(at))
}

func TestResponses(t *testing.T) {
	ok := utils.SuccessResponse("Venue X was successfully listed!", map[string]int64{"id": 1})
	assert.True(t, ok.Success)
	assert.NotZero(t, ok.Timestamp)

	failed := utils.ErrorResponse("Venue could not be deleted.", "not_found")
	assert.False(t, failed.Success)
	assert.Equal(t, "not_found", failed.Error)
}
