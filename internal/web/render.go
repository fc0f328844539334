package web

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"github.com/nikolalohinski/gonja/v2"
	"github.com/nikolalohinski/gonja/v2/exec"

	"github.com/dmitrijs2005/postapp/internal/client/services"
	"github.com/dmitrijs2005/postapp/internal/client/timeline"
	"github.com/dmitrijs2005/postapp/internal/common"
)

//go:embed templates/page.html
var pageSource string

func parsePage() (*exec.Template, error) {
	tpl, err := gonja.FromString(pageSource)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return tpl, nil
}

// Page names understood by the template.
const (
	pageMain     = "main"
	pageAbout    = "about"
	pageContact  = "contact"
	pageNotFound = "notfound"
)

type page struct {
	Name   string
	Title  string
	Notice string
	Error  string
	Path   string
	Days   []timeline.Day
}

// pageData flattens p and st into the template context.
func pageData(p page, st *services.UserState, refresh time.Duration) map[string]interface{} {
	data := map[string]interface{}{
		"title":           p.Title,
		"page":            p.Name,
		"refresh_seconds": int(refresh / time.Second),
		"signed_in":       st.Session.SignedIn,
		"user":            st.Session.UserName,
		"token":           st.Session.ShortToken(),
		"notice":          p.Notice,
		"error":           p.Error,
		"path":            p.Path,
		"view":            viewFor(st).String(),
		"pending_user":    "",
		"min_password":    common.MinPasswordLength,
		"days":            daysData(p.Days),
	}
	if w, ok := st.Workflow.Pending(); ok {
		data["pending_user"] = w.UserName
	}
	return data
}

func daysData(days []timeline.Day) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(days))
	for _, d := range days {
		entries := make([]map[string]interface{}, 0, len(d.Entries))
		for _, e := range d.Entries {
			entries = append(entries, map[string]interface{}{
				"author": e.Author,
				"time":   e.Time,
				"id":     e.ID,
				"text":   e.Text,
			})
		}
		out = append(out, map[string]interface{}{"label": d.Label, "entries": entries})
	}
	return out
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, p page, st *services.UserState) {
	var buf bytes.Buffer
	if err := s.tpl.Execute(&buf, exec.NewContext(pageData(p, st, s.config.RefreshInterval))); err != nil {
		s.logger.Error(r.Context(), "render page", "page", p.Name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
