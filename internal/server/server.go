package server

import (
    "encoding/json"
    "net/http"
    "strings"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/google/uuid"
    "github.com/jackc/pgx/v5/pgxpool"

    "courierrates/internal/shipping"
    "courierrates/internal/store"
)

type Server struct {
    rules        shipping.RuleStore
    audit        shipping.AuditSink
    baseCurrency string
}

// New builds the HTTP handler on a Postgres-backed rule store.
func New(db *pgxpool.Pool, baseCurrency string) http.Handler {
    pg := store.New(db)
    return NewWithStore(pg, pg, baseCurrency)
}

// NewWithStore allows injecting custom store and audit-sink
// implementations. The sink may be nil; selections are then not
// recorded.
func NewWithStore(rules shipping.RuleStore, audit shipping.AuditSink, baseCurrency string) http.Handler {
    if baseCurrency == "" {
        baseCurrency = "USD"
    }
    s := &Server{rules: rules, audit: audit, baseCurrency: baseCurrency}
    r := chi.NewRouter()
    // Observability: Request ID and basic logger
    r.Use(requestIDMiddleware)
    r.Use(middleware.Logger)
    r.Get("/healthz", s.handleHealth)
    r.Post("/shipping/options", s.handleOptions)
    r.Post("/shipping/select", s.handleSelect)
    return r
}

// newSession wires a fresh session per request; sessions carry binding
// state and must not outlive the request.
func (s *Server) newSession() *shipping.Session {
    matcher := shipping.NewMatcher(s.rules)
    calc := shipping.NewCalculator(s.baseCurrency)
    return shipping.NewSession(s.rules, matcher, calc, s.audit)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
    w.WriteHeader(http.StatusOK)
    w.Write([]byte("ok"))
}

type OptionsResponse struct {
    Options []shipping.Option `json:"options"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
    req, err := ParseQuoteRequest(r.Body)
    if err != nil {
        writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
        return
    }

    sess := s.newSession()
    bindContext(sess, req)

    opts, err := sess.Options(r.Context())
    if err != nil {
        writeErrorJSON(w, http.StatusInternalServerError, "db_error", "db error")
        return
    }
    if opts == nil {
        opts = []shipping.Option{}
    }
    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(OptionsResponse{Options: opts})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
    req, err := ParseQuoteRequest(r.Body)
    if err != nil {
        writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
        return
    }
    if strings.TrimSpace(req.Courier) == "" {
        writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "courier required")
        return
    }

    sess := s.newSession()
    bindContext(sess, req)

    sel, err := sess.Select(r.Context(), req.Courier)
    if err != nil {
        writeErrorJSON(w, http.StatusInternalServerError, "db_error", "db error")
        return
    }
    if sel == nil {
        // Absent result is the normal not-found case: no bound context,
        // unknown courier, or no rule matched.
        writeErrorJSON(w, http.StatusNotFound, "no_matching_option", "no matching option")
        return
    }
    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(sel)
}

// bindContext applies the parsed purchase context and country pair to
// a session. Explicit from/to override anything the order supplied.
func bindContext(sess *shipping.Session, req QuoteRequest) {
    switch pc := req.Context.(type) {
    case shipping.Order:
        sess.ForOrder(pc)
    case shipping.Cart:
        sess.ForCart(pc)
    }
    if req.FromCountry != "" {
        sess.From(req.FromCountry)
    }
    if req.ToCountry != "" {
        sess.To(req.ToCountry)
    }
}

// writeErrorJSON writes a standardized JSON error response:
// {"error": {"code": string, "message": string}}
func writeErrorJSON(w http.ResponseWriter, status int, code string, message string) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(map[string]any{
        "error": map[string]string{
            "code":    code,
            "message": message,
        },
    })
}

// requestIDMiddleware ensures X-Request-ID is set on the response.
// If provided in the request header, it is propagated; otherwise a UUID is generated.
func requestIDMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
        if rid == "" {
            rid = uuid.New().String()
        }
        w.Header().Set("X-Request-ID", rid)
        next.ServeHTTP(w, r)
    })
}
