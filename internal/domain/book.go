package domain

import "context"

// Source retrieves a single book from a catalog.
type Source interface {
	String() string
	Retrieve(ctx context.Context, id int) (BookRecord, error)
}

type BookRecord struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	ImageURL  string   `json:"img_src"`
	TextPath  string   `json:"book_path,omitempty"`
	ImagePath string   `json:"img_path,omitempty"`
	Genres    []string `json:"genres"`
	Comments  []string `json:"comments"`
}

// Artifact is a file that was completely written to disk.
type Artifact struct {
	Path string
	Size int64
}

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeNotFound
	OutcomeTransientFailure
	OutcomeFatalFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not found"
	case OutcomeTransientFailure:
		return "transient failure"
	case OutcomeFatalFailure:
		return "fatal failure"
	default:
		return "unknown"
	}
}

// Outcome is the result of one attempt at one book id. Record is set only for
// OutcomeSuccess, Err for every other kind.
type Outcome struct {
	Kind    OutcomeKind
	ID      int
	Attempt int
	Record  *BookRecord
	Err     error
}

func Success(record BookRecord) Outcome {
	return Outcome{Kind: OutcomeSuccess, ID: record.ID, Attempt: 1, Record: &record}
}

func NotFound(id int, err error) Outcome {
	return Outcome{Kind: OutcomeNotFound, ID: id, Attempt: 1, Err: err}
}

func TransientFailure(id, attempt int, err error) Outcome {
	return Outcome{Kind: OutcomeTransientFailure, ID: id, Attempt: attempt, Err: err}
}

func FatalFailure(id int, err error) Outcome {
	return Outcome{Kind: OutcomeFatalFailure, ID: id, Attempt: 1, Err: err}
}
