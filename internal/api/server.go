// Package api exposes the online scorer over HTTP: a scoring endpoint,
// the loaded parameter artifact, and a health probe.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/detect"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/fuzzy"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/monitoring"
)

type Server struct {
	eng    *fuzzy.Engine
	latch  *detect.Hysteresis
	params *fuzzy.ParameterSet
}

func NewServer(eng *fuzzy.Engine, latch *detect.Hysteresis, params *fuzzy.ParameterSet) *Server {
	return &Server{
		eng:    eng,
		latch:  latch,
		params: params,
	}
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/score", s.handleScore)
	mux.HandleFunc("/api/params", s.handleParams)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf("[%d] %s %s %vms",
			lrw.statusCode, r.Method, r.RequestURI,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// scoreRequest is one observation to score. Accel is the acceleration
// magnitude in g, gyro the rotation-rate magnitude in deg/s.
type scoreRequest struct {
	Accel float64 `json:"accel_g"`
	Gyro  float64 `json:"gyro_dps"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
	Fall  bool    `json:"fall"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	score := s.eng.Evaluate(req.Accel, req.Gyro)
	resp := scoreResponse{
		Score: score,
		Fall:  s.latch.Update(score),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		monitoring.Logf("api: failed to write score response: %v", err)
	}
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data, err := s.params.Marshal()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to encode parameters")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"active":    s.latch.Active(),
		"fallbacks": s.eng.Fallbacks.Value(),
	})
}
