package output

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/traitforge/pkg/errors"
)

// Report is the end-of-run summary written to <output>/report.json.
type Report struct {
	RunID      string    `json:"run_id"`
	Seed       string    `json:"seed"`
	StartAt    int       `json:"start_at"`
	Amount     int       `json:"amount"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Genome phase
	Draws      uint64 `json:"draws"`
	Conflicts  int    `json:"conflicts"`
	Duplicates int    `json:"duplicates"`

	// Render phase; zero when images were skipped
	Rendered int       `json:"rendered"`
	Failed   []Failure `json:"failed"`
}

// Failure is a token whose image could not be produced.
type Failure struct {
	TokenID int    `json:"token_id"`
	Code    string `json:"code"`
	Reason  string `json:"reason"`
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// FailedIDs returns the ids of the failed tokens in report order.
func (r *Report) FailedIDs() []int {
	ids := make([]int, len(r.Failed))
	for i, f := range r.Failed {
		ids[i] = f.TokenID
	}
	return ids
}

// WriteReport writes r to <dir>/report.json.
func WriteReport(dir string, r *Report) error {
	if r.Failed == nil {
		r.Failed = []Failure{}
	}
	return exportJSON(filepath.Join(dir, ReportFile), r)
}

// ReadReport loads <dir>/report.json.
func ReadReport(dir string) (*Report, error) {
	path := filepath.Join(dir, ReportFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	var r Report
	if err := decodeJSON(f, &r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", path)
	}
	return &r, nil
}
