package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/teamroster/internal/core"
	"github.com/JonMunkholm/teamroster/internal/logging"
	"github.com/JonMunkholm/teamroster/internal/web/templates"
)

// maxBodyBytes bounds JSON and form request bodies.
const maxBodyBytes = 1 << 20

// exportFilename is the attachment name of CSV downloads.
const exportFilename = "team-members.csv"

// notices are the fixed messages a form redirect may ask the page to show.
var notices = map[string]string{
	"added":     "Member added.",
	"refreshed": "Roster refreshed.",
}

// TeamResponse is the JSON body of GET /api/team.
type TeamResponse struct {
	Members       []core.TeamMember    `json:"members"`
	Total         int                  `json:"total"`
	RosterTotal   int                  `json:"rosterTotal"`
	Catalog       []string             `json:"catalog"`
	Mode          core.PassMode        `json:"mode"`
	Unconfigured  bool                 `json:"unconfigured"`
	FailedSources []core.SourceFailure `json:"failedSources,omitempty"`
}

// OptionsResponse is the JSON body of GET /api/team/options.
type OptionsResponse struct {
	Positions   []string `json:"positions"`
	Departments []string `json:"departments"`
	Sources     []string `json:"sources"`
	Catalog     []string `json:"catalog"`
}

// RefreshResponse is the JSON body of POST /api/team/refresh.
type RefreshResponse struct {
	Mode          core.PassMode        `json:"mode"`
	Unconfigured  bool                 `json:"unconfigured"`
	Members       int                  `json:"members"`
	Catalog       []string             `json:"catalog"`
	FailedSources []core.SourceFailure `json:"failedSources,omitempty"`
	DurationMS    int64                `json:"durationMs"`
}

// filterFromQuery reads the q, position, department and source parameters.
func filterFromQuery(r *http.Request) core.FilterSpec {
	q := r.URL.Query()
	return core.FilterSpec{
		FreeText:   strings.TrimSpace(q.Get("q")),
		Position:   strings.TrimSpace(q.Get("position")),
		Department: strings.TrimSpace(q.Get("department")),
		Source:     strings.TrimSpace(q.Get("source")),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ----------------------------------------------------------------------------
// Pages
// ----------------------------------------------------------------------------

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderTeamPage(w, r, http.StatusOK, notices[r.URL.Query().Get("notice")], nil)
}

func (s *Server) renderTeamPage(w http.ResponseWriter, r *http.Request, status int, notice string, formErr *core.UserMessage) {
	res := s.service.Roster(r.Context())
	spec := filterFromQuery(r)

	data := templates.TeamPageData{
		Members:       core.Filter(res.Members, spec),
		Stats:         core.Stats(res.Members, res.Catalog),
		Filter:        spec,
		Positions:     core.DistinctValues(res.Members, core.FieldPosition),
		Departments:   core.DistinctValues(res.Members, core.FieldDepartment),
		Sources:       res.Catalog,
		Unconfigured:  res.Unconfigured,
		FailedSources: res.FailedSources,
		Notice:        notice,
		FormError:     formErr,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.TeamPage(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render team page", "error", err)
	}
}

// handleAddMemberForm accepts the page's add-member form and redirects back
// on success.
func (s *Server) handleAddMemberForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.respondErrorStatus(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	candidate := core.TeamMember{
		Name:          r.PostFormValue("name"),
		Email:         r.PostFormValue("email"),
		ContactNumber: r.PostFormValue("contactNumber"),
		Position:      r.PostFormValue("position"),
		Department:    r.PostFormValue("department"),
		Location:      r.PostFormValue("location"),
		JoinDate:      r.PostFormValue("joinDate"),
		Status:        core.MemberStatus(r.PostFormValue("status")),
		Skills:        r.PostFormValue("skills"),
		Experience:    r.PostFormValue("experience"),
	}

	m, err := s.service.AddMember(r.Context(), candidate, r.PostFormValue("sourceName"))
	if err != nil {
		msg := core.MapError(err)
		logging.FromContext(r.Context()).Warn("add member form rejected", "error", err, "code", msg.Code)
		s.renderTeamPage(w, r, statusFor(err), "", &msg)
		return
	}

	logging.WithFields(r.Context(), "member_id", m.ID, "source", m.SourceName).Info("member added")
	http.Redirect(w, r, "/?notice=added", http.StatusSeeOther)
}

func (s *Server) handleRefreshForm(w http.ResponseWriter, r *http.Request) {
	s.service.Refresh(r.Context())
	http.Redirect(w, r, "/?notice=refreshed", http.StatusSeeOther)
}

// ----------------------------------------------------------------------------
// API
// ----------------------------------------------------------------------------

func (s *Server) handleListTeam(w http.ResponseWriter, r *http.Request) {
	res := s.service.Roster(r.Context())
	members := core.Filter(res.Members, filterFromQuery(r))

	writeJSON(w, http.StatusOK, TeamResponse{
		Members:       members,
		Total:         len(members),
		RosterTotal:   len(res.Members),
		Catalog:       nonNil(res.Catalog),
		Mode:          res.Mode,
		Unconfigured:  res.Unconfigured,
		FailedSources: res.FailedSources,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	res := s.service.Refresh(r.Context())

	logging.FromContext(r.Context()).Info("refresh requested",
		"mode", res.Mode,
		"members", len(res.Members),
		"failed_sources", len(res.FailedSources),
	)

	writeJSON(w, http.StatusOK, RefreshResponse{
		Mode:          res.Mode,
		Unconfigured:  res.Unconfigured,
		Members:       len(res.Members),
		Catalog:       nonNil(res.Catalog),
		FailedSources: res.FailedSources,
		DurationMS:    res.Duration.Milliseconds(),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	res := s.service.Roster(r.Context())

	writeJSON(w, http.StatusOK, OptionsResponse{
		Positions:   nonNil(core.DistinctValues(res.Members, core.FieldPosition)),
		Departments: nonNil(core.DistinctValues(res.Members, core.FieldDepartment)),
		Sources:     nonNil(core.DistinctValues(res.Members, core.FieldSource)),
		Catalog:     nonNil(res.Catalog),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	res := s.service.Roster(r.Context())
	writeJSON(w, http.StatusOK, core.Stats(res.Members, res.Catalog))
}

// handleExport downloads the filtered view as CSV. The document is built
// before any header is written so an ExportError still gets a JSON body.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res := s.service.Roster(r.Context())
	members := core.Filter(res.Members, filterFromQuery(r))

	doc, err := core.ExportCSV(members)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc)); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "error", err)
	}
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var candidate core.TeamMember
	if err := decodeJSON(w, r, &candidate); err != nil {
		s.respondErrorStatus(w, r, err, http.StatusBadRequest)
		return
	}

	m, err := s.service.AddMember(r.Context(), candidate, candidate.SourceName)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.WithFields(r.Context(), "member_id", m.ID, "source", m.SourceName).Info("member added")
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch core.MemberPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.respondErrorStatus(w, r, err, http.StatusBadRequest)
		return
	}

	m, err := s.service.UpdateMember(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.WithFields(r.Context(), "member_id", id).Info("member updated")
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.service.DeleteMember(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.WithFields(r.Context(), "member_id", id).Info("member deleted")
	w.WriteHeader(http.StatusNoContent)
}

// decodeJSON reads a single JSON object into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("invalid request body: trailing data")
	}
	return nil
}
