package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-analyzer/internal/api/middleware"
	"github.com/dvloznov/statement-analyzer/internal/domain"
	"github.com/dvloznov/statement-analyzer/internal/extraction"
	"github.com/dvloznov/statement-analyzer/internal/session"
)

// multipartMemory is how much of a multipart upload is kept in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// errNoFile is returned by readUpload when the form carries no file.
var errNoFile = errors.New("no file in form")

// SessionsHandler handles the JSON session endpoints.
type SessionsHandler struct {
	store *session.Store
	log   zerolog.Logger
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(store *session.Store, log zerolog.Logger) *SessionsHandler {
	return &SessionsHandler{
		store: store,
		log:   log,
	}
}

// CreateSession handles POST /api/sessions
func (h *SessionsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.store.Create()

	h.log.Debug().
		Str("session_id", sess.ID()).
		Str("request_id", r.Header.Get(middleware.RequestIDHeader)).
		Msg("Session created")

	middleware.WriteJSON(w, http.StatusCreated, CreateSessionResponse{SessionID: sess.ID()})
}

// GetSession handles GET /api/sessions/{id}
func (h *SessionsHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toSessionResponse(sess.Snapshot()))
}

// AnalyzeStatement handles POST /api/sessions/{id}/statement
//
// The request blocks until the model has answered. A missing file is
// reported like any other invalid upload.
func (h *SessionsHandler) AnalyzeStatement(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	upload, err := readUpload(r)
	if err != nil && !errors.Is(err, errNoFile) {
		h.writeUploadError(w, r, err)
		return
	}

	err = sess.Analyze(r.Context(), upload)
	view := toSessionResponse(sess.Snapshot())

	switch {
	case err == nil:
		middleware.WriteJSON(w, http.StatusOK, view)
	case errors.Is(err, session.ErrBusy):
		middleware.WriteError(w, http.StatusConflict, "An analysis is already in progress for this session")
	case errors.Is(err, session.ErrAbandoned):
		middleware.WriteError(w, http.StatusConflict, "The analysis was cancelled before it finished")
	case extraction.KindOf(err) == extraction.KindInvalidInput:
		middleware.WriteJSON(w, http.StatusBadRequest, view)
	default:
		middleware.WriteJSON(w, http.StatusBadGateway, view)
	}
}

// ClearStatement handles DELETE /api/sessions/{id}/statement
func (h *SessionsHandler) ClearStatement(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	sess.Clear()
	middleware.WriteJSON(w, http.StatusOK, toSessionResponse(sess.Snapshot()))
}

// DeleteSession handles DELETE /api/sessions/{id}
func (h *SessionsHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(mux.Vars(r)["id"]); err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionsHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.store.Get(mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return sess, true
}

func (h *SessionsHandler) writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File is too large, the limit is %d bytes", maxErr.Limit))
		return
	}

	h.log.Warn().
		Err(err).
		Str("request_id", r.Header.Get(middleware.RequestIDHeader)).
		Msg("Failed to read upload")
	middleware.WriteError(w, http.StatusBadRequest, session.MsgInvalidFile)
}

// readUpload reads the "file" field of a multipart form.
func readUpload(r *http.Request) (session.Upload, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return session.Upload{}, errNoFile
		}
		return session.Upload{}, fmt.Errorf("readUpload: parse form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return session.Upload{}, errNoFile
		}
		return session.Upload{}, fmt.Errorf("readUpload: open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return session.Upload{}, fmt.Errorf("readUpload: read file: %w", err)
	}

	return session.Upload{
		Name:     header.Filename,
		MIMEType: header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

// CategoriesHandler lists the fixed category set.
type CategoriesHandler struct{}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler() *CategoriesHandler {
	return &CategoriesHandler{}
}

// ListCategories handles GET /api/categories
func (h *CategoriesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	names := domain.CategoryNames()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": names,
		"count":      len(names),
	})
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
