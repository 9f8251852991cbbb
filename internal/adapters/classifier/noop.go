// Package classifier implements the optional external ML classifier port.
package classifier

import (
	"context"

	"github.com/phishdrill/phishdrill/internal/core"
)

// Noop is the unconfigured classifier. It returns a neutral verdict with no
// reasons; callers must treat it as "no insight," not as a 50% signal.
type Noop struct{}

// NewNoop creates a no-op classifier.
func NewNoop() *Noop {
	return &Noop{}
}

// Classify returns the neutral verdict.
func (n *Noop) Classify(_ context.Context, _, _, _ string) (*core.ClassifierVerdict, error) {
	return &core.ClassifierVerdict{ProbPhish: 0.5}, nil
}
