package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-analyzer/internal/api/middleware"
	"github.com/dvloznov/statement-analyzer/internal/domain"
	"github.com/dvloznov/statement-analyzer/internal/session"
)

// SessionCookie holds the browser's session ID.
const SessionCookie = "sa_session"

type legendEntry struct {
	Name  string
	Class string
}

type transactionRow struct {
	Date        string
	Description string
	Category    string
	BadgeClass  string
	Amount      string
	Negative    bool
}

type pageData struct {
	HasSession    bool
	Loading       bool
	FileName      string
	Error         string
	TotalExpenses string
	TotalIncome   string
	Legend        []legendEntry
	Transactions  []transactionRow
}

// PageHandler serves the single-page browser UI.
type PageHandler struct {
	store     *session.Store
	templates *template.Template
	log       zerolog.Logger
}

// NewPageHandler parses the page templates from templatesFS.
func NewPageHandler(store *session.Store, templatesFS fs.FS, log zerolog.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("NewPageHandler: parse templates: %w", err)
	}
	return &PageHandler{
		store:     store,
		templates: tmpl,
		log:       log,
	}, nil
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := pageData{Legend: legend()}
	if sess := h.sessionFromCookie(r); sess != nil {
		data = buildPageData(sess.Snapshot())
	}

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		h.log.Error().Err(err).Msg("Failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// Upload handles POST /upload. Submitting the form without a file clears the
// current analysis.
func (h *PageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFromCookie(r)
	if sess == nil {
		sess = h.store.Create()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	upload, err := readUpload(r)
	switch {
	case errors.Is(err, errNoFile):
		sess.Clear()
	case err != nil:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, fmt.Sprintf("File is too large, the limit is %d bytes", maxErr.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		h.log.Warn().Err(err).Str("request_id", r.Header.Get(middleware.RequestIDHeader)).Msg("Failed to read upload")
		_ = sess.Analyze(r.Context(), session.Upload{})
	default:
		// Outcome, including failures, is reflected in the session state.
		_ = sess.Analyze(r.Context(), upload)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Clear handles POST /clear
func (h *PageHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if sess := h.sessionFromCookie(r); sess != nil {
		sess.Clear()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) sessionFromCookie(r *http.Request) *session.Session {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	sess, err := h.store.Get(c.Value)
	if err != nil {
		return nil
	}
	return sess
}

func legend() []legendEntry {
	cats := domain.Categories()
	entries := make([]legendEntry, 0, len(cats))
	for _, c := range cats {
		entries = append(entries, legendEntry{Name: c.String(), Class: BadgeClass(c)})
	}
	return entries
}

func buildPageData(v session.View) pageData {
	rows := make([]transactionRow, 0, len(v.Transactions))
	for _, t := range v.Transactions {
		rows = append(rows, transactionRow{
			Date:        t.Date.String(),
			Description: t.Description,
			Category:    t.Category.String(),
			BadgeClass:  BadgeClass(t.Category),
			Amount:      domain.FormatUSD(t.Amount),
			Negative:    t.Amount.IsNegative(),
		})
	}

	return pageData{
		HasSession:    true,
		Loading:       v.State == session.StateLoading,
		FileName:      v.FileName,
		Error:         v.Error,
		TotalExpenses: domain.FormatUSD(v.Summary.TotalExpenses),
		TotalIncome:   domain.FormatUSD(v.Summary.TotalIncome),
		Legend:        legend(),
		Transactions:  rows,
	}
}
