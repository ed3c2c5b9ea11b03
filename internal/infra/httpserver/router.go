package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/brandsentry/brandsentry/internal/application/analysis"
	domai "github.com/brandsentry/brandsentry/internal/domain/ai"
	domain "github.com/brandsentry/brandsentry/internal/domain/analysis"
	"github.com/brandsentry/brandsentry/internal/domain/brand"
	"github.com/brandsentry/brandsentry/internal/domain/domains"
)

type Router struct {
	svc *appanalysis.Service
}

func NewRouter(svc *appanalysis.Service) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/runs/latest", r.wrap(r.handleLatest))
		rt.Get("/runs", r.wrap(r.handlePaginate))
		rt.Get("/runs/{id}", r.wrap(r.handleGet))
		rt.Get("/summary", r.wrap(r.handleSummary))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, domai.ErrNotConfigured):
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
			case errors.Is(err, brand.ErrNoBrandName), errors.Is(err, domains.ErrFileNotFound):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// POST /v1/{tenant}/analyze
// Body mirrors the CLI flags; domains_file must be readable by the server.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	var body struct {
		DomainsFile string `json:"domains_file"`
		BrandName   string `json:"brand_name"`
		CompanyName string `json:"company_name"`
		Industry    string `json:"industry"`
		Description string `json:"description"`
		BatchSize   int    `json:"batch_size"`
		Output      string `json:"output"`
		Analyst     string `json:"analyst"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if body.DomainsFile == "" {
		return fmt.Errorf("domains_file is required")
	}
	if body.BrandName == "" {
		return brand.ErrNoBrandName
	}

	mode := domai.Mode(body.Analyst)
	if !domai.ValidMode(mode) {
		mode = domai.DefaultMode
	}
	if body.BatchSize == 0 {
		body.BatchSize = appanalysis.DefaultBatchSize
	}

	result, err := r.svc.Analyze(req.Context(), appanalysis.AnalyzeCommand{
		TenantID:    tenant,
		DomainsFile: body.DomainsFile,
		BrandName:   body.BrandName,
		CompanyName: body.CompanyName,
		Industry:    body.Industry,
		Description: body.Description,
		BatchSize:   body.BatchSize,
		OutputPath:  body.Output,
		AnalystMode: mode,
	})
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(result)
}

// GET /v1/{tenant}/runs/latest?limit=
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	runs, err := r.svc.Latest(req.Context(), tenant, limit)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(runs)
}

// GET /v1/{tenant}/runs?page=&page_size=
func (r *Router) handlePaginate(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.svc.Paginate(req.Context(), tenant, page, size)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/runs/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")

	run, err := r.svc.Get(req.Context(), tenant, domain.RunID(id))
	if err != nil {
		return err
	}
	if run == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(run)
}

// GET /v1/{tenant}/summary?since_days=
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	days, _ := strconv.Atoi(req.URL.Query().Get("since_days"))

	summary, err := r.svc.Summary(req.Context(), tenant, days)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(summary)
}
