package core

import (
	"net/mail"
	"strings"
)

// Batch and field bounds enforced on generator output.
const (
	MinBatchSize = 1
	MaxBatchSize = 20

	maxSubjectLen     = 200
	maxSenderNameLen  = 120
	maxSenderAddrLen  = 254
	maxBodyLen        = 20000
	maxExplanationLen = 2000
)

// CandidateValidator schema-checks generator output and backfills missing
// features and difficulty from the heuristic analyzer.
type CandidateValidator struct {
	analyzer Analyzer
}

// NewCandidateValidator creates a validator backed by the given analyzer.
func NewCandidateValidator(analyzer Analyzer) *CandidateValidator {
	return &CandidateValidator{analyzer: analyzer}
}

// ValidateBatch checks every candidate and returns the survivors as training
// items alongside the per-item failures. Individual failures never abort the
// batch; only a batch with zero survivors fails, with ErrNoValidCandidates.
func (v *CandidateValidator) ValidateBatch(batch []CandidateItem) ([]TrainingItem, []ValidationError, error) {
	var (
		survivors []TrainingItem
		failures  []ValidationError
	)

	for i, c := range batch {
		if verr, ok := checkCandidate(i, c); !ok {
			failures = append(failures, verr)
			continue
		}
		survivors = append(survivors, v.normalize(c))
	}

	if len(survivors) == 0 {
		return nil, failures, ErrNoValidCandidates
	}
	return survivors, failures, nil
}

// normalize converts a schema-valid candidate into a training item,
// backfilling features and difficulty from the analyzer when the generator
// left them out.
func (v *CandidateValidator) normalize(c CandidateItem) TrainingItem {
	item := TrainingItem{
		Subject:     strings.TrimSpace(c.Subject),
		SenderName:  strings.TrimSpace(c.SenderName),
		SenderEmail: strings.ToLower(strings.TrimSpace(c.SenderEmail)),
		BodyMarkup:  c.BodyMarkup,
		IsPhish:     c.IsPhish,
		Explanation: strings.TrimSpace(c.Explanation),
		Features:    c.Features,
		Difficulty:  c.Difficulty,
	}

	if len(item.Features) == 0 || !item.Difficulty.Valid() {
		res := v.analyzer.Analyze(item.Subject, item.BodyMarkup, item.SenderEmail, item.SenderName)
		if len(item.Features) == 0 {
			labels := make([]string, len(res.TopReasons))
			for i, f := range res.TopReasons {
				labels[i] = f.Label
			}
			item.Features = labels
		}
		if !item.Difficulty.Valid() {
			item.Difficulty = res.Difficulty
		}
	}
	return item
}

// checkCandidate runs the per-item schema checks: required fields non-empty,
// a syntactically valid sender address, bounded string lengths.
func checkCandidate(index int, c CandidateItem) (ValidationError, bool) {
	fail := func(field, reason string) (ValidationError, bool) {
		return ValidationError{Index: index, Field: field, Reason: reason}, false
	}

	subject := strings.TrimSpace(c.Subject)
	switch {
	case subject == "":
		return fail("subject", "empty")
	case len(subject) > maxSubjectLen:
		return fail("subject", "too long")
	}

	name := strings.TrimSpace(c.SenderName)
	switch {
	case name == "":
		return fail("sender_name", "empty")
	case len(name) > maxSenderNameLen:
		return fail("sender_name", "too long")
	}

	addr := strings.TrimSpace(c.SenderEmail)
	switch {
	case addr == "":
		return fail("sender_email", "empty")
	case len(addr) > maxSenderAddrLen:
		return fail("sender_email", "too long")
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return fail("sender_email", "not a valid address")
	}

	switch {
	case strings.TrimSpace(c.BodyMarkup) == "":
		return fail("body_markup", "empty")
	case len(c.BodyMarkup) > maxBodyLen:
		return fail("body_markup", "too long")
	}

	explanation := strings.TrimSpace(c.Explanation)
	switch {
	case explanation == "":
		return fail("explanation", "empty")
	case len(explanation) > maxExplanationLen:
		return fail("explanation", "too long")
	}

	if c.Difficulty != 0 && !c.Difficulty.Valid() {
		return fail("difficulty", "unknown tier")
	}

	return ValidationError{}, true
}
