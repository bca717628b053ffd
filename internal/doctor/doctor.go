// Package doctor runs health checks against the hrs configuration and the
// sandbox API it points at.
package doctor

import (
	"context"
	"net/http"

	"github.com/steveyegge/hrs/internal/config"
)

// Status is the outcome of a check.
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	default:
		return "error"
	}
}

// CheckContext is passed to every check.
type CheckContext struct {
	Ctx    context.Context
	Config *config.Config
	// Client performs reachability probes.
	Client *http.Client
}

// CheckResult is what a check reports.
type CheckResult struct {
	Name    string
	Status  Status
	Message string
	FixHint string
}

// Check is one diagnostic.
type Check interface {
	Name() string
	Description() string
	Run(ctx *CheckContext) *CheckResult
}

// BaseCheck provides Name and Description for embedding.
type BaseCheck struct {
	CheckName        string
	CheckDescription string
}

func (b BaseCheck) Name() string        { return b.CheckName }
func (b BaseCheck) Description() string { return b.CheckDescription }

// DefaultChecks returns the checks run by `hrs doctor`, in order.
func DefaultChecks() []Check {
	return []Check{
		NewConfigCheck(),
		NewProxyCheck(),
		NewAPICheck(),
	}
}

// Run executes checks in order and returns their results.
func Run(ctx *CheckContext, checks []Check) []*CheckResult {
	results := make([]*CheckResult, 0, len(checks))
	for _, c := range checks {
		results = append(results, c.Run(ctx))
	}
	return results
}

// Worst returns the most severe status among results.
func Worst(results []*CheckResult) Status {
	worst := StatusOK
	for _, r := range results {
		if r.Status > worst {
			worst = r.Status
		}
	}
	return worst
}
