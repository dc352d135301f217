// ABOUTME: Web UI server with embedded templates
// ABOUTME: Serves the call dashboard, CRM screens, script authoring, the live call page, and metrics
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harperreed/callcoach/callflow"
	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/content"
	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/models"
	"github.com/harperreed/callcoach/viz"
)

//go:embed templates/*
var templatesFS embed.FS

type Server struct {
	coach     *coach.Coach
	templates *template.Template
	generator *viz.GraphGenerator
	metrics   *Metrics
	mux       *http.ServeMux
}

func NewServer(c *coach.Coach) (*Server, error) {
	// Helper functions for templates
	funcMap := template.FuncMap{
		"percent": func(f float64) string {
			return fmt.Sprintf("%.0f%%", f*100)
		},
		"add": func(a, b int) int {
			return a + b
		},
		"date": func(t *time.Time) string {
			if t == nil {
				return "never"
			}
			return t.Format("2006-01-02")
		},
		"sectionTitle": func(s string) string {
			return strings.ReplaceAll(s, "_", " ")
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		coach:     c,
		templates: tmpl,
		generator: viz.NewGraphGenerator(c.DB),
		metrics:   NewMetrics(),
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleDashboard)
	s.mux.HandleFunc("/contacts", s.handleContacts)
	s.mux.HandleFunc("/companies", s.handleCompanies)
	s.mux.HandleFunc("/scripts", s.handleScripts)
	s.mux.HandleFunc("/scripts/toggle", s.handleScriptToggle)
	s.mux.HandleFunc("/call", s.handleCall)
	s.mux.HandleFunc("/call/log", s.handleCallLog)
	s.mux.HandleFunc("/call/pitch", s.handlePitch)
	s.mux.HandleFunc("/flows/graph", s.handleFlowGraph)
	s.mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
}

// Handler exposes the routes for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting web server", "url", "http://"+displayAddr(addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// WatchDocs reloads the library whenever documents under dir change.
func (s *Server) WatchDocs(ctx context.Context, dir string) error {
	w, err := content.NewWatcher(dir, 0, s.reloadLibrary)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

func (s *Server) reloadLibrary(ctx context.Context) {
	lib, err := s.coach.Library.Reload(ctx)
	if err != nil {
		s.metrics.LibraryReloads.WithLabelValues("error").Inc()
		log.Error("web: library reload failed", "err", err)
		return
	}
	s.metrics.LibraryReloads.WithLabelValues("ok").Inc()
	s.metrics.LibraryFlows.Set(float64(len(lib.Flows)))
	log.Info("web: library reloaded", "flows", len(lib.Flows), "missing", len(lib.Missing))
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	// data carries ContentTemplate naming the content block layout.html includes
	err := s.templates.ExecuteTemplate(w, name, data)
	if err != nil {
		log.Error("template error", "template", name, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	stats, err := viz.GenerateDashboardStats(s.coach.DB)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Stats":           stats,
		"Title":           "Dashboard",
		"ContentTemplate": "dashboard-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

type contactView struct {
	ID          string
	Name        string
	Title       string
	Email       string
	Phone       string
	CompanyName string
	LastCalled  *time.Time
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	contacts, err := db.FindContacts(s.coach.DB, query, nil, 100)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	contactViews := make([]contactView, 0, len(contacts))
	for _, contact := range contacts {
		companyName := contact.Organization
		if contact.CompanyID != nil {
			company, _ := db.GetCompany(s.coach.DB, *contact.CompanyID)
			if company != nil {
				companyName = company.Name
			}
		}

		contactViews = append(contactViews, contactView{
			ID:          contact.ID.String(),
			Name:        contact.DisplayName(),
			Title:       contact.Title,
			Email:       contact.Email,
			Phone:       contact.Phone,
			CompanyName: companyName,
			LastCalled:  contact.LastContactedAt,
		})
	}

	data := map[string]interface{}{
		"Contacts":        contactViews,
		"Query":           query,
		"Title":           "Contacts",
		"ContentTemplate": "contacts-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	companies, err := db.FindCompanies(s.coach.DB, query, 100)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Companies":       companies,
		"Query":           query,
		"Title":           "Companies",
		"ContentTemplate": "companies-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

// handleScripts lists authored scripts; POST authors a new one.
func (s *Server) handleScripts(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		if err := s.createScript(r); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/scripts", http.StatusSeeOther)
		return
	}

	q := r.URL.Query()
	scripts, err := db.ListScripts(s.coach.DB, db.ScriptFilter{
		Product:     q.Get("product"),
		SectionType: q.Get("section"),
		Limit:       200,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Scripts":         scripts,
		"Sections":        coach.Sections,
		"Title":           "Scripts",
		"ContentTemplate": "scripts-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

// createScript builds content from labelled variation fields, the same
// shape the CLI writes.
func (s *Server) createScript(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}
	name := strings.TrimSpace(r.FormValue("name"))
	product := strings.TrimSpace(r.FormValue("product"))
	section := strings.TrimSpace(r.FormValue("section"))
	if name == "" || product == "" || section == "" {
		return fmt.Errorf("name, product, and section are required")
	}

	var variations []callflow.Variation
	labels := r.Form["label"]
	for i, text := range r.Form["content"] {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		label := ""
		if i < len(labels) {
			label = strings.TrimSpace(labels[i])
		}
		variations = append(variations, callflow.Variation{Label: label, Content: text})
	}
	if len(variations) == 0 {
		return fmt.Errorf("at least one variation is required")
	}

	script := &models.Script{
		Name:        name,
		Product:     product,
		Approach:    strings.TrimSpace(r.FormValue("approach")),
		SectionType: callflow.NormalizeSectionType(section),
		TriggerType: strings.TrimSpace(r.FormValue("trigger")),
		Competitor:  strings.TrimSpace(r.FormValue("competitor")),
		Content:     callflow.FormatVariations(variations, section),
		IsActive:    true,
	}
	if script.Competitor != "" {
		script.CompetitorID = callflow.Slugify(script.Competitor)
	}
	if err := db.CreateScript(s.coach.DB, script); err != nil {
		return fmt.Errorf("failed to create script: %w", err)
	}
	s.coach.Invalidate()
	log.Info("web: script created", "id", script.ID, "section", script.SectionType)
	return nil
}

func (s *Server) handleScriptToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := uuid.Parse(r.FormValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	active := r.FormValue("active") == "true"

	if err := db.SetScriptActive(s.coach.DB, id, active); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.coach.Invalidate()
	http.Redirect(w, r, "/scripts", http.StatusSeeOther)
}

// callPage is everything the live call screen shows.
type callPage struct {
	Title           string
	ContentTemplate string

	Flows       []callflow.CallFlow
	Flow        *callflow.CallFlow
	Sections    []string
	Section     string
	ContactID   string
	ContactName string
	Notes       string
	Said        string
	Context     callflow.TemplateContext
	Rendered    *coach.Rendered
	Answers     []coach.ObjectionAnswer
	Outcomes    []string
	Pitch       string
	Message     string
}

func (s *Server) buildCallPage(r *http.Request) (*callPage, int, error) {
	q := r.URL.Query()
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			return nil, http.StatusBadRequest, err
		}
		q = r.Form
	}

	lib, err := s.coach.Flows(r.Context())
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	s.metrics.LibraryFlows.Set(float64(len(lib.Flows)))

	flow, err := s.coach.SelectFlow(r.Context(), q.Get("flow"), q.Get("product"), q.Get("approach"))
	if err != nil {
		return nil, http.StatusNotFound, err
	}

	section := q.Get("section")
	if section == "" {
		section = callflow.SectionOpening
	}

	page := &callPage{
		Title:           "Call",
		ContentTemplate: "call-content",
		Flows:           lib.Flows,
		Flow:            flow,
		Sections:        coach.Sections,
		Section:         callflow.NormalizeSectionType(section),
		Notes:           q.Get("notes"),
		Said:            q.Get("said"),
		Outcomes: []string{
			models.OutcomeConnected, models.OutcomeMeetingSet, models.OutcomeFollowUp,
			models.OutcomeVoicemail, models.OutcomeNoAnswer, models.OutcomeNotInterest,
		},
	}

	var contactID *uuid.UUID
	if raw := q.Get("contact"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("invalid contact ID: %w", err)
		}
		contact, err := db.GetContact(s.coach.DB, id)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		if contact == nil {
			return nil, http.StatusNotFound, fmt.Errorf("contact not found: %s", id)
		}
		contactID = &id
		page.ContactID = id.String()
		page.ContactName = contact.DisplayName()
	}

	page.Context, err = s.coach.TemplateContext(contactID, flow.Product, page.Notes)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	page.Rendered, err = coach.Render(flow, page.Section, q.Get("competitor"), page.Context)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	s.metrics.Renders.WithLabelValues(page.Section).Inc()
	for _, item := range page.Rendered.Items {
		s.coach.RecordUsage(item.Origin)
	}

	if said := strings.TrimSpace(page.Said); said != "" {
		page.Answers = s.coach.FindObjectionResponse(r.Context(), flow, said, page.Context)
		s.metrics.ObjectionLookups.WithLabelValues(strconv.FormatBool(len(page.Answers) > 0)).Inc()
	}

	return page, http.StatusOK, nil
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	page, status, err := s.buildCallPage(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	s.renderTemplate(w, "layout.html", page)
}

func (s *Server) handleCallLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contactID, err := uuid.Parse(r.FormValue("contact"))
	if err != nil {
		http.Error(w, "Invalid contact ID", http.StatusBadRequest)
		return
	}
	outcome := r.FormValue("outcome")
	if !models.ValidOutcome(outcome) {
		http.Error(w, "Invalid outcome", http.StatusBadRequest)
		return
	}

	call := &models.CallLog{
		ContactID: contactID,
		Product:   r.FormValue("product"),
		Approach:  r.FormValue("approach"),
		Outcome:   outcome,
		Notes:     strings.TrimSpace(r.FormValue("notes")),
	}
	if minutes, err := strconv.Atoi(r.FormValue("minutes")); err == nil && minutes > 0 {
		call.DurationSeconds = minutes * 60
	}

	if err := s.coach.LogCall(call); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.metrics.CallsLogged.WithLabelValues(outcome).Inc()

	_, err = w.Write([]byte(`<p class="ok">✓ Call logged</p>`))
	if err != nil {
		log.Error("error writing response", "err", err)
	}
}

func (s *Server) handlePitch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page, status, err := s.buildCallPage(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	pitch, usage, err := s.coach.GeneratePitch(r.Context(), page.Flow, page.Context, page.Notes, r.FormValue("focus"))
	if err != nil {
		page.Message = "Pitch unavailable: " + err.Error()
	} else {
		page.Pitch = pitch
		s.metrics.LLMTokens.WithLabelValues("prompt").Add(float64(usage.Prompt))
		s.metrics.LLMTokens.WithLabelValues("candidates").Add(float64(usage.Candidates))
	}
	s.renderTemplate(w, "layout.html", page)
}

func (s *Server) handleFlowGraph(w http.ResponseWriter, r *http.Request) {
	flow, err := s.coach.SelectFlow(r.Context(), r.URL.Query().Get("flow"), r.URL.Query().Get("product"), r.URL.Query().Get("approach"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	dot, err := s.generator.GenerateFlowGraph(flow)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(dot))
}
