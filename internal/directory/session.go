package directory

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Fetcher performs the remote calls a session needs.
type Fetcher interface {
	Provision(ctx context.Context, providerID string) (string, error)
	Directory(ctx context.Context, token string) ([]Record, error)
	Individual(ctx context.Context, token, id string) (Record, error)
	Employment(ctx context.Context, token, id string) (Record, error)
}

// Phase is the coarse progress of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseProvisioning
	PhaseDirectoryLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseProvisioning:
		return "provisioning"
	case PhaseDirectoryLoading:
		return "directory_loading"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Operation names a remote call for error reporting.
type Operation int

const (
	OpProvision Operation = iota
	OpDirectory
	OpIndividual
	OpEmployment
)

// User-facing failure messages, one per operation.
const (
	MsgProvisionFailed  = "Sorry we are unable to fetch from sandbox/create"
	MsgDirectoryFailed  = "Sorry we are unable to fetch from /employer/directory"
	MsgIndividualFailed = "We were unable to fetch from /employer/individual."
	MsgEmploymentFailed = "We were unable to fetch from /employer/employment."
)

// FailureMessage returns the text shown in the error dialog.
func (o Operation) FailureMessage() string {
	switch o {
	case OpProvision:
		return MsgProvisionFailed
	case OpDirectory:
		return MsgDirectoryFailed
	case OpIndividual:
		return MsgIndividualFailed
	case OpEmployment:
		return MsgEmploymentFailed
	default:
		return "Something went wrong."
	}
}

func (o Operation) String() string {
	switch o {
	case OpProvision:
		return "provision"
	case OpDirectory:
		return "directory"
	case OpIndividual:
		return "individual"
	case OpEmployment:
		return "employment"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the session state for rendering.
type Snapshot struct {
	Provider     string
	Phase        Phase
	Loading      bool
	ErrorMessage string
	DialogOpen   bool
	// Records is nil until the first successful directory fetch.
	Records Collection
}

// Session is the state of one sandbox connection. All methods are safe for
// concurrent use; every state change happens under one mutex so concurrent
// merges never lose updates.
type Session struct {
	fetcher Fetcher
	logger  zerolog.Logger
	sticky  bool

	mu         sync.Mutex
	provider   string
	token      string
	phase      Phase
	loading    bool
	errMsg     string
	dialogOpen bool
	records    Collection
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger failures are traced to.
func WithLogger(logger zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithStickyLoading keeps the loading flag set after a failed provisioning
// or directory call instead of clearing it.
func WithStickyLoading(sticky bool) SessionOption {
	return func(s *Session) {
		s.sticky = sticky
	}
}

// WithProvider sets the initially selected provider.
func WithProvider(id string) SessionOption {
	return func(s *Session) {
		s.provider = id
	}
}

// NewSession creates an idle session.
func NewSession(f Fetcher, opts ...SessionOption) *Session {
	s := &Session{
		fetcher: f,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records Collection
	if s.records != nil {
		records = make(Collection, len(s.records))
		copy(records, s.records)
	}
	return Snapshot{
		Provider:     s.provider,
		Phase:        s.phase,
		Loading:      s.loading,
		ErrorMessage: s.errMsg,
		DialogOpen:   s.dialogOpen,
		Records:      records,
	}
}

// Token returns the access token of the last successful provisioning.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SelectProvider changes the provider used by the next submit.
func (s *Session) SelectProvider(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = id
}

// BeginSubmit records the start of provisioning for the provider.
func (s *Session) BeginSubmit(providerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = providerID
	s.phase = PhaseProvisioning
	s.loading = true
}

// ApplyToken stores the access token and moves on to the directory fetch.
func (s *Session) ApplyToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.phase = PhaseDirectoryLoading
}

// ApplyDirectory replaces the whole collection and clears loading.
func (s *Session) ApplyDirectory(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(Collection, len(records))
	copy(s.records, records)
	s.loading = false
	s.phase = PhaseReady
}

// ApplyDetail merges fields into the record with the given id. It reports
// whether a record matched; an unknown id leaves the collection unchanged.
func (s *Session) ApplyDetail(id string, fields Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	s.records, ok = s.records.Merge(id, fields)
	return ok
}

// Fail records a failed remote call and opens the error dialog. The latest
// failure's message replaces any earlier one.
func (s *Session) Fail(op Operation, err error) {
	s.logger.Error().Err(err).Str("endpoint", op.String()).Msg("remote call failed")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = op.FailureMessage()
	s.dialogOpen = true
	if !s.sticky && (op == OpProvision || op == OpDirectory) {
		s.loading = false
	}
}

// Acknowledge closes the error dialog.
func (s *Session) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialogOpen = false
}

// Submit provisions a sandbox for the provider and then loads the directory.
// The directory is only requested after provisioning succeeded.
func (s *Session) Submit(ctx context.Context, providerID string) error {
	s.BeginSubmit(providerID)

	token, err := s.fetcher.Provision(ctx, providerID)
	if err != nil {
		s.Fail(OpProvision, err)
		return err
	}
	s.ApplyToken(token)

	records, err := s.fetcher.Directory(ctx, token)
	if err != nil {
		s.Fail(OpDirectory, err)
		return err
	}
	s.ApplyDirectory(records)
	return nil
}

// Enrich loads the personal and employment detail of one individual. Both
// calls run concurrently and neither blocks the other; each success is
// merged as soon as it arrives.
func (s *Session) Enrich(ctx context.Context, id string) error {
	token := s.Token()

	type call struct {
		op    Operation
		fetch func(context.Context, string, string) (Record, error)
	}
	calls := []call{
		{OpIndividual, s.fetcher.Individual},
		{OpEmployment, s.fetcher.Employment},
	}

	errs := make([]error, len(calls))
	var wg sync.WaitGroup
	for i, c := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fields, err := c.fetch(ctx, token, id)
			if err != nil {
				s.Fail(c.op, err)
				errs[i] = err
				return
			}
			s.ApplyDetail(id, fields)
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}
