package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/sol-wrapped/pkg/model"
	"github.com/sol-wrapped/pkg/wrapped"
)

// SummaryComputer is the one operation the dashboard needs from the pipeline.
type SummaryComputer interface {
	ComputeWalletSummary(ctx context.Context, address string) (model.Summary, error)
}

type Dashboard struct {
	svc       SummaryComputer
	summaries *cache.Cache
	port      int
}

// New builds the dashboard. Summaries are memoized in memory for ttl; ttl <= 0
// disables memoization.
func New(svc SummaryComputer, port int, ttl time.Duration) *Dashboard {
	d := &Dashboard{svc: svc, port: port}
	if ttl > 0 {
		d.summaries = cache.New(ttl, 2*ttl)
	}
	return d
}

func (d *Dashboard) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/wrapped/{address}", d.handleSummary)
	r.Get("/api/wrapped/{address}/months/{month}", d.handleMonth)
	return r
}

func (d *Dashboard) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", d.port),
		Handler:           d.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", srv.Addr).Msg("🌐 dashboard started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (d *Dashboard) handleSummary(w http.ResponseWriter, r *http.Request) {
	s, ok := d.summary(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (d *Dashboard) handleMonth(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "month must be a number 0-11")
		return
	}
	s, ok := d.summary(w, r)
	if !ok {
		return
	}
	view, err := wrapped.FilterByMonth(s, month)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// summary computes (or reuses) the summary and writes the error response itself.
func (d *Dashboard) summary(w http.ResponseWriter, r *http.Request) (model.Summary, bool) {
	address := chi.URLParam(r, "address")
	if d.summaries != nil {
		if v, found := d.summaries.Get(address); found {
			return v.(model.Summary), true
		}
	}

	s, err := d.svc.ComputeWalletSummary(r.Context(), address)
	switch {
	case err == nil:
	case errors.Is(err, wrapped.ErrInvalidAddress):
		writeError(w, http.StatusBadRequest, "INVALID_WALLET_ADDRESS")
		return model.Summary{}, false
	case errors.Is(err, wrapped.ErrHoldingsUnavailable):
		log.Warn().Err(err).Str("addr", address).Msg("holdings unavailable")
		writeError(w, http.StatusBadGateway, "failed to fetch wallet data")
		return model.Summary{}, false
	default:
		log.Error().Err(err).Str("addr", address).Msg("summary failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch wallet data")
		return model.Summary{}, false
	}

	if d.summaries != nil {
		d.summaries.SetDefault(address, s)
	}
	return s, true
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		l := log.With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
	})
}

func cors(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
