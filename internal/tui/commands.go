package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/steveyegge/hrs/internal/directory"
)

// provisionedMsg carries the token of a successful provisioning.
type provisionedMsg struct {
	token string
}

// directoryLoadedMsg carries the individuals of a directory fetch.
type directoryLoadedMsg struct {
	records []directory.Record
}

// detailMsg carries one enrichment response for an individual.
type detailMsg struct {
	op     directory.Operation
	id     string
	fields directory.Record
}

// failedMsg reports a failed remote call.
type failedMsg struct {
	op  directory.Operation
	err error
}

func provisionCmd(ctx context.Context, f directory.Fetcher, providerID string) tea.Cmd {
	return func() tea.Msg {
		token, err := f.Provision(ctx, providerID)
		if err != nil {
			return failedMsg{op: directory.OpProvision, err: err}
		}
		return provisionedMsg{token: token}
	}
}

func directoryCmd(ctx context.Context, f directory.Fetcher, token string) tea.Cmd {
	return func() tea.Msg {
		records, err := f.Directory(ctx, token)
		if err != nil {
			return failedMsg{op: directory.OpDirectory, err: err}
		}
		return directoryLoadedMsg{records: records}
	}
}

// enrichCmd issues the individual and employment calls concurrently. Their
// results come back as separate messages and are merged by Update, which
// bubbletea runs on a single goroutine.
func enrichCmd(ctx context.Context, f directory.Fetcher, token, id string) tea.Cmd {
	return tea.Batch(
		detailCmd(ctx, directory.OpIndividual, f.Individual, token, id),
		detailCmd(ctx, directory.OpEmployment, f.Employment, token, id),
	)
}

func detailCmd(ctx context.Context, op directory.Operation, fetch func(context.Context, string, string) (directory.Record, error), token, id string) tea.Cmd {
	return func() tea.Msg {
		fields, err := fetch(ctx, token, id)
		if err != nil {
			return failedMsg{op: op, err: err}
		}
		return detailMsg{op: op, id: id, fields: fields}
	}
}
