package session

import (
	"context"
	"errors"
	"mime"
	"sync"
	"time"

	"github.com/dvloznov/statement-analyzer/internal/domain"
	"github.com/dvloznov/statement-analyzer/internal/extraction"
	"github.com/dvloznov/statement-analyzer/internal/logger"
)

// State is the lifecycle position of an analysis session.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// PDFMimeType is the only document type accepted for analysis.
const PDFMimeType = "application/pdf"

// User-facing messages. Details of the failure are only ever logged.
const (
	MsgInvalidFile      = "Please upload a valid PDF file."
	MsgProcessingFailed = "Failed to process the bank statement. Please try again with a different file."
)

var (
	// ErrBusy is returned when a statement is submitted while another one is
	// still being analyzed in the same session.
	ErrBusy = errors.New("session: analysis already in progress")

	// ErrAbandoned is returned when the session was cleared or restarted
	// while the extraction call was in flight. Its result has been dropped.
	ErrAbandoned = errors.New("session: analysis abandoned")

	// ErrNotFound is returned by Store lookups for unknown sessions.
	ErrNotFound = errors.New("session: not found")
)

// Extractor is the extraction operation the shell depends on.
type Extractor interface {
	Extract(ctx context.Context, document []byte, mimeType string) ([]domain.Transaction, error)
}

// Upload is a user-selected file.
type Upload struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Validate rejects anything that is not a non-empty PDF. It never touches
// the network.
func (u Upload) Validate() error {
	if len(u.Data) == 0 {
		return extraction.InvalidInput("no file provided")
	}
	mediaType, _, err := mime.ParseMediaType(u.MIMEType)
	if err != nil {
		return extraction.InvalidInput("unreadable mime type %q", u.MIMEType)
	}
	if mediaType != PDFMimeType {
		return extraction.InvalidInput("file type %q is not supported", mediaType)
	}
	return nil
}

// View is an immutable snapshot of a session.
type View struct {
	ID           string
	State        State
	FileName     string
	Transactions []domain.Transaction
	Summary      domain.Summary
	Error        string
	ErrorKind    extraction.ErrorKind
	UpdatedAt    time.Time
}

// Session holds the transactions of one analysis at a time and allows at most
// one extraction call in flight.
type Session struct {
	id        string
	extractor Extractor

	mu         sync.Mutex
	state      State
	fileName   string
	txs        []domain.Transaction
	errMsg     string
	errKind    extraction.ErrorKind
	generation uint64
	updatedAt  time.Time
}

// New creates an idle session.
func New(id string, extractor Extractor) *Session {
	return &Session{
		id:        id,
		extractor: extractor,
		state:     StateIdle,
		updatedAt: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Analyze runs one extraction for upload and stores the outcome.
//
// The upload is validated before any call to the extractor. The extractor is
// called without holding the session lock; if Clear or another Analyze ran in
// the meantime, the result is dropped and ErrAbandoned returned.
func (s *Session) Analyze(ctx context.Context, upload Upload) error {
	log := logger.FromContext(ctx).With().
		Str("session_id", s.id).
		Str("file", upload.Name).
		Logger()

	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return ErrBusy
	}

	s.generation++
	s.txs = nil
	s.fileName = upload.Name
	s.updatedAt = time.Now()

	if err := upload.Validate(); err != nil {
		s.state = StateError
		s.errMsg = MsgInvalidFile
		s.errKind = extraction.KindInvalidInput
		s.mu.Unlock()
		log.Warn().Err(err).Str("mime_type", upload.MIMEType).Msg("Rejected upload")
		return err
	}

	s.state = StateLoading
	s.errMsg = ""
	s.errKind = ""
	gen := s.generation
	s.mu.Unlock()

	log.Info().Int("bytes", len(upload.Data)).Msg("Starting statement analysis")
	start := time.Now()

	txs, err := s.extractor.Extract(ctx, upload.Data, PDFMimeType)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		log.Info().Msg("Discarding result of abandoned analysis")
		return ErrAbandoned
	}

	s.updatedAt = time.Now()
	if err != nil {
		s.state = StateError
		s.errMsg = MsgProcessingFailed
		s.errKind = extraction.KindOf(err)

		ev := log.Error().Err(err).Str("kind", string(s.errKind)).Dur("duration", time.Since(start))
		if raw := extraction.RawResponse(err); raw != "" {
			ev = ev.Str("raw_response", raw)
		}
		ev.Msg("Statement analysis failed")
		return err
	}

	s.state = StateSuccess
	s.txs = txs

	log.Info().
		Int("transactions", len(txs)).
		Dur("duration", time.Since(start)).
		Msg("Statement analysis completed")
	return nil
}

// Clear returns the session to idle, dropping its transactions and the
// result of any in-flight analysis.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.state = StateIdle
	s.fileName = ""
	s.txs = nil
	s.errMsg = ""
	s.errKind = ""
	s.updatedAt = time.Now()
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	txs := make([]domain.Transaction, len(s.txs))
	copy(txs, s.txs)

	v := View{
		ID:           s.id,
		State:        s.state,
		FileName:     s.fileName,
		Transactions: txs,
		Error:        s.errMsg,
		ErrorKind:    s.errKind,
		UpdatedAt:    s.updatedAt,
	}
	s.mu.Unlock()

	// Aggregation runs on the copy, outside the lock.
	v.Summary = domain.Summarize(txs)
	return v
}

func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt, s.state != StateLoading
}
