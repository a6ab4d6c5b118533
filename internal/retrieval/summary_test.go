package retrieval

import (
	"testing"

	"tululu/internal/domain"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	var s Summary
	assert.NoError(t, s.Err())
	assert.Empty(t, s.Records())
	assert.NotNil(t, s.Records(), "an empty run still writes a json array")

	s.Add(domain.Success(domain.BookRecord{ID: 1, Title: "First"}))
	s.Add(domain.NotFound(2, errors.New("redirected")))
	s.Add(domain.TransientFailure(3, 1, errors.New("reset")))
	s.Add(domain.Success(domain.BookRecord{ID: 3, Title: "Third"}))
	assert.NoError(t, s.Err(), "missing books are not failures")

	s.Add(domain.FatalFailure(4, errors.New("parse")))
	s.Add(domain.FatalFailure(7, errors.New("500")))

	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.NotFound)
	assert.Equal(t, 1, s.Retries)
	assert.Equal(t, 2, s.Failed)

	records := s.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "First", records[0].Title)
	assert.Equal(t, "Third", records[1].Title)

	err := s.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFatalFailures)
	assert.Contains(t, err.Error(), "4, 7")
}

func TestPolicyFromConfig(t *testing.T) {
	p := PolicyFromConfig(&domain.Config{RetryBackoff: 5, MaxRetries: 3})
	assert.Equal(t, RetryPolicy{Backoff: 5, MaxRetries: 3}, p)
	assert.Equal(t, uint(4), p.attempts())
	assert.Greater(t, RetryPolicy{}.attempts(), uint(1<<31))
}
