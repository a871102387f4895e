// Package server serves cost estimation over HTTP.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/koron-go/gqlcost/v2/internal/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodySize limits request bodies.
const maxBodySize = 1 << 20

// NewRouter returns the handler of the service:
//
//	POST /cost     estimate the cost of a request
//	GET  /healthz  liveness
//	GET  /metrics  prometheus metrics
func NewRouter(e *Estimator, logger logrus.FieldLogger, metrics *observability.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.AllowAll().Handler)
	if metrics != nil {
		r.Use(observability.MetricsMiddleware(metrics))
	}
	r.Use(observability.LoggingMiddleware(logger))

	r.Post("/cost", costHandler(e, logger))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func costHandler(e *Estimator, logger logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
			writeJSON(w, logger, http.StatusBadRequest, &Response{
				MaximumCost: e.opts.MaximumCost,
				Errors:      gqlerror.List{gqlerror.Errorf("invalid request body: %s", err)},
			})
			return
		}
		resp := e.Estimate(&req)
		logger.WithFields(logrus.Fields{
			"operation": req.OperationName,
			"cost":      resp.Cost,
			"exceeded":  resp.Exceeded(),
		}).Info("estimated")
		writeJSON(w, logger, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, logger logrus.FieldLogger, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.WithError(err).Error("error encoding response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
