package web

import (
	"database/sql"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/unclip/internal/config"
	"github.com/hpungsan/unclip/internal/ops"
)

// Handlers contains HTTP route handlers for the run browser.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleList handles GET /runs — stored runs, newest first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := ops.ListInput{
		Method: q.Get("method"),
		Source: q.Get("source"),
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	}

	result, err := ops.List(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData:   PageData{Title: "Runs", Version: h.renderer.version, Nav: "runs"},
		Items:      result.Items,
		Pagination: result.Pagination,
		Method:     q.Get("method"),
		Source:     q.Get("source"),
	})
}

// HandleStats handles GET /runs/stats — aggregate counts over stored runs.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := ops.StatsInput{
		Method: q.Get("method"),
		Source: q.Get("source"),
		Top:    parseIntParam(r, "top", ops.DefaultTopForms),
	}

	result, err := ops.Stats(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "stats", StatsPageData{
		PageData: PageData{Title: "Stats", Version: h.renderer.version, Nav: "stats"},
		Stats:    result,
		Method:   q.Get("method"),
		Source:   q.Get("source"),
	})
}

// HandleDetail handles GET /runs/{id} — the rendered report for one run.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if wantsJSON(r) {
		run, err := ops.Fetch(r.Context(), h.db, ops.FetchInput{ID: id})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		renderJSON(w, http.StatusOK, run)
		return
	}

	rep, err := ops.Report(r.Context(), h.db, ops.ReportInput{ID: id, HTML: true})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// goldmark omits raw HTML by default; run text is only ever inside code blocks.
	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData:     PageData{Title: "Run " + shortID(rep.ID), Version: h.renderer.version, Nav: "runs"},
		ID:           rep.ID,
		RenderedHTML: template.HTML(rep.HTML),
	})
}

// HandleDelete handles DELETE /runs/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/runs", http.StatusSeeOther)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// shortID truncates a ULID for page titles.
func shortID(id string) string {
	if len(id) > 10 {
		return id[:10] + "..."
	}
	return id
}
