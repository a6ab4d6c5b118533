package retrieval

import (
	"strconv"
	"strings"

	"tululu/internal/domain"

	"github.com/pkg/errors"
)

var ErrFatalFailures = errors.New("some books could not be retrieved")

// Summary tallies the outcomes of a run.
type Summary struct {
	Succeeded int
	NotFound  int
	Retries   int
	Failed    int

	records   []domain.BookRecord
	failedIDs []int
}

func (s *Summary) Add(outcome domain.Outcome) {
	switch outcome.Kind {
	case domain.OutcomeSuccess:
		s.Succeeded++
		if outcome.Record != nil {
			s.records = append(s.records, *outcome.Record)
		}
	case domain.OutcomeNotFound:
		s.NotFound++
	case domain.OutcomeTransientFailure:
		s.Retries++
	case domain.OutcomeFatalFailure:
		s.Failed++
		s.failedIDs = append(s.failedIDs, outcome.ID)
	}
}

// Records returns the retrieved books in the order they were added.
func (s *Summary) Records() []domain.BookRecord {
	if s.records == nil {
		return []domain.BookRecord{}
	}
	return s.records
}

// Err is non-nil when at least one book failed for good. Missing books don't count.
func (s *Summary) Err() error {
	if s.Failed == 0 {
		return nil
	}

	ids := make([]string, 0, len(s.failedIDs))
	for _, id := range s.failedIDs {
		ids = append(ids, strconv.Itoa(id))
	}

	return errors.Wrapf(ErrFatalFailures, "failed ids: %s", strings.Join(ids, ", "))
}
