package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skufinskiy/itnelep-tools/pkg/archive"
	"github.com/skufinskiy/itnelep-tools/pkg/export"
	"github.com/skufinskiy/itnelep-tools/pkg/kit"
	"github.com/skufinskiy/itnelep-tools/pkg/lexicon"
)

const maxBody = 1 << 20

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// NewRouter returns an http.Handler with all greeter API routes. gatherer
// may be nil to leave /metrics out.
func NewRouter(svc *Service, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	h := &handler{
		compose:    svc.composeEndpoint(),
		extract:    svc.extractEndpoint(),
		abbreviate: svc.abbreviateEndpoint(),
		svc:        svc,
	}

	mux.HandleFunc("GET /v1/greetings", methodNotAllowed)
	mux.HandleFunc("POST /v1/greetings", h.handleCompose)
	mux.HandleFunc("POST /v1/extract", h.handleExtract)
	mux.HandleFunc("POST /v1/abbreviate", h.handleAbbreviate)
	mux.HandleFunc("GET /v1/runs", h.handleListRuns)
	mux.HandleFunc("GET /v1/runs/{id}", h.handleRun)
	mux.HandleFunc("GET /v1/health", h.handleHealth)
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return cors(kit.RequestID(mux))
}

type handler struct {
	compose    kit.Endpoint
	extract    kit.Endpoint
	abbreviate kit.Endpoint
	svc        *Service
}

// --- compose ---

func (h *handler) handleCompose(w http.ResponseWriter, r *http.Request) {
	var req composeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.compose(r.Context(), &req)
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "xlsx" {
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, resp.(*composeResponse).Results); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", xlsxType)
		w.Header().Set("Content-Disposition", `attachment; filename="greetings.xlsx"`)
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- extract ---

func (h *handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.extract(r.Context(), &req)
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- abbreviate ---

func (h *handler) handleAbbreviate(w http.ResponseWriter, r *http.Request) {
	var req abbreviateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.abbreviate(r.Context(), &req)
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- archive ---

type runsResponse struct {
	Runs []archive.Run `json:"runs"`
}

type runResponse struct {
	Run       archive.Run        `json:"run"`
	Greetings []archive.Greeting `json:"greetings"`
}

func (h *handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if h.svc.Archive == nil {
		writeError(w, http.StatusNotFound, "archive disabled")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	runs, err := h.svc.Archive.ListRuns(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runsResponse{Runs: runs})
}

func (h *handler) handleRun(w http.ResponseWriter, r *http.Request) {
	if h.svc.Archive == nil {
		writeError(w, http.StatusNotFound, "archive disabled")
		return
	}
	id := r.PathValue("id")
	run, err := h.svc.Archive.Run(id)
	if err != nil {
		if errors.Is(err, archive.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	gs, err := h.svc.Archive.Greetings(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runResponse{Run: run, Greetings: gs})
}

// --- health ---

type healthResponse struct {
	Status              string             `json:"status"`
	InflectionAvailable bool               `json:"inflection_available"`
	Archive             bool               `json:"archive"`
	Lexicon             []lexicon.ListInfo `json:"lexicon,omitempty"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:              "ok",
		InflectionAvailable: h.svc.Engine.InflectionAvailable(),
		Archive:             h.svc.Archive != nil,
	}
	if h.svc.Lexicon != nil {
		resp.Lexicon = h.svc.Lexicon.Lists()
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- helpers ---

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeEndpointError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if clientError(err) {
		code = http.StatusBadRequest
	}
	writeError(w, code, err.Error())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
