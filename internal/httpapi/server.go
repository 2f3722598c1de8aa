package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"diagnosd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Health() types.HealthResponse
	Features() types.FeaturesResponse
	Models() []types.Model
	PredictClassical(ctx context.Context, features []float64) (types.PredictResponse, error)
	PredictQuantum(ctx context.Context, features []float64) (types.PredictResponse, error)
	Ready() bool
}

const rootMessage = "Health Hub ML Prediction API"

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/", handleRoot)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, svc.Health()) })
	r.Get("/features", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, svc.Features()) })
	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.ModelsResponse{Models: svc.Models()})
	})
	r.Post("/predict/classical", predictHandler("classical", svc.PredictClassical))
	r.Post("/predict/quantum", predictHandler("quantum", svc.PredictQuantum))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("no model loaded"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// handleRoot godoc
//
//	@Summary	Service banner
//	@Tags		meta
//	@Produce	json
//	@Success	200	{object}	types.RootResponse
//	@Router		/ [get]
func handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.RootResponse{Message: rootMessage, Docs: "/docs", Health: "/health"})
}

// predictBody mirrors types.PredictRequest with nullable items, so a JSON
// null is rejected instead of decoding to 0.
type predictBody struct {
	Features []*float64 `json:"features"`
}

func (b predictBody) values() ([]float64, bool) {
	out := make([]float64, len(b.Features))
	for i, v := range b.Features {
		if v == nil {
			return nil, false
		}
		out[i] = *v
	}
	return out, true
}

type predictFunc func(ctx context.Context, features []float64) (types.PredictResponse, error)

// predictHandler godoc
//
//	@Summary	Predict a diagnosis group
//	@Tags		predict
//	@Accept		json
//	@Produce	json
//	@Param		request	body		types.PredictRequest	true	"Feature vector"
//	@Success	200		{object}	types.PredictResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Failure	415		{object}	types.ErrorResponse
//	@Failure	500		{object}	types.ErrorResponse
//	@Failure	503		{object}	types.ErrorResponse
//	@Router		/predict/classical [post]
//	@Router		/predict/quantum [post]
func predictHandler(model string, predict predictFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Content-Type check
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		// Limit body size (configurable, default 1MiB)
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req predictBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			// Oversized bodies also land here; the size is not disclosed.
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(req.Features) == 0 {
			writeJSONError(w, http.StatusBadRequest, "features is required")
			return
		}
		features, ok := req.values()
		if !ok {
			writeJSONError(w, http.StatusBadRequest, "features must be numbers")
			return
		}

		lvl := requestLogLevel(r)
		// Join server base context with request context so shutdown cancels work too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if predictTimeout > 0 {
			var tcancel context.CancelFunc
			ctx, tcancel = context.WithTimeout(ctx, predictTimeout)
			defer tcancel()
		}

		start := time.Now()
		resp, err := predict(ctx, features)
		if err != nil {
			// If context was canceled (client disconnect or shutdown), just return.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := statusOf(err)
			if errors.Is(err, context.DeadlineExceeded) {
				status = http.StatusGatewayTimeout
			}
			outcome := "error"
			if status == http.StatusServiceUnavailable {
				outcome = "unavailable"
			}
			ObservePrediction(model, outcome, time.Since(start))
			writeJSONError(w, status, err.Error())
			logPrediction(r, lvl, model, status, start, err)
			return
		}
		ObservePrediction(model, "ok", time.Since(start))
		writeJSON(w, resp)
		logPrediction(r, lvl, model, http.StatusOK, start, nil)
	}
}
