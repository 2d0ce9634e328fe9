package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bryanwahyu/drcalm/internal/domain/analysis"
	"github.com/bryanwahyu/drcalm/internal/domain/illustration"
	"github.com/bryanwahyu/drcalm/internal/middleware"
)

// UpstreamMessage is shown to users whenever the analysis could not be
// produced.
const UpstreamMessage = "抱歉，AI 服务暂时无法连接，请稍后再试。"

const defaultMaxBodyBytes = 64 << 10

var (
	errBadJSON      = errors.New("invalid request body")
	errBodyTooLarge = errors.New("request body too large")
)

// Analyzer is the use-case behind POST /api/analyze.
type Analyzer interface {
	Analyze(ctx context.Context, request string) (*analysis.Result, error)
}

// Deps groups what the router serves.
type Deps struct {
	Analyzer       Analyzer
	Catalog        illustration.Catalog
	Metrics        *middleware.Metrics
	Health         map[string]middleware.HealthChecker
	Logger         *zap.Logger
	AllowedOrigins []string
	MaxBodyBytes   int64
}

type Router struct {
	analyzer     Analyzer
	catalog      illustration.Catalog
	log          *zap.Logger
	maxBodyBytes int64
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func NewRouter(d Deps) http.Handler {
	r := &Router{
		analyzer:     d.Analyzer,
		catalog:      d.Catalog,
		log:          d.Logger,
		maxBodyBytes: d.MaxBodyBytes,
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.maxBodyBytes <= 0 {
		r.maxBodyBytes = defaultMaxBodyBytes
	}
	metrics := d.Metrics
	if metrics == nil {
		metrics = middleware.NewMetrics()
	}
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Logging(r.log))
	mux.Use(metrics.Middleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method Not Allowed"})
	})
	mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not Found"})
	})

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(d.Health))
	mux.Get("/metrics", metrics.Handler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/symptoms", r.wrap(r.handleSymptoms))
		rt.Get("/illustrations", r.wrap(r.handleIllustrations))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, analysis.ErrEmptyRequest):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Empty text", Message: "请描述您的症状。"})
		case errors.Is(err, errBadJSON):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid JSON", Message: err.Error()})
		case errors.Is(err, middleware.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid input", Message: err.Error()})
		case errors.Is(err, errBodyTooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "Request Entity Too Large"})
		default:
			fields := []zap.Field{
				zap.String("request_id", middleware.RequestIDFromContext(req.Context())),
				zap.Error(err),
			}
			if errors.Is(err, analysis.ErrQuotaExceeded) {
				r.log.Warn("ai quota exceeded", fields...)
			} else {
				r.log.Error("analyze error", fields...)
			}
			writeJSON(w, http.StatusBadGateway, errorBody{Error: "AI upstream error", Message: UpstreamMessage})
		}
	}
}

// analyzeRequest carries either free text or guided picker selections.
// Text wins when both are present.
type analyzeRequest struct {
	Text string `json:"text"`
	analysis.GuidedQuery
}

// POST /api/analyze
// Body: {"text": "..."} or {"bodyPart": "Abdomen", "symptoms": ["胃痛"], "notes": "..."}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxBodyBytes)

	var body analyzeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}

	text, err := requestText(body)
	if err != nil {
		return err
	}

	res, err := r.analyzer.Analyze(req.Context(), text)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

func requestText(body analyzeRequest) (string, error) {
	text := middleware.SanitizeString(body.Text)
	if text == "" {
		q := body.GuidedQuery
		if err := middleware.ValidateGuidedQuery(&q); err != nil {
			return "", err
		}
		text = analysis.BuildQuery(q)
	}
	if text == "" {
		return "", analysis.ErrEmptyRequest
	}
	if err := middleware.ValidateText(text); err != nil {
		return "", err
	}
	return text, nil
}

type bodyPartOptions struct {
	BodyPart analysis.BodyPart `json:"bodyPart"`
	Symptoms []string          `json:"symptoms"`
}

// GET /api/symptoms
func (r *Router) handleSymptoms(w http.ResponseWriter, req *http.Request) error {
	out := make([]bodyPartOptions, 0, len(analysis.BodyParts))
	for _, p := range analysis.BodyParts {
		out = append(out, bodyPartOptions{BodyPart: p, Symptoms: analysis.SymptomOptions[p]})
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

// GET /api/illustrations
func (r *Router) handleIllustrations(w http.ResponseWriter, req *http.Request) error {
	entries := map[string]string{}
	if r.catalog != nil {
		entries = r.catalog.Entries()
	}
	writeJSON(w, http.StatusOK, entries)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
