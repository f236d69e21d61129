// Package server exposes the plan editor web UI and the simulation API.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/haschdl/casa-finan/internal/config"
	"github.com/haschdl/casa-finan/internal/metrics"
	"github.com/haschdl/casa-finan/internal/session"
	"github.com/haschdl/casa-finan/internal/simulation"
	"github.com/haschdl/casa-finan/pkg/constants"
	"github.com/haschdl/casa-finan/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger        *zap.Logger
	store         session.Store
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the web UI and the
// simulation API.
func NewHandler(logger *zap.Logger, store session.Store, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = session.NewMemoryStore()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, store: store, maxUploadSize: maxUploadSize, version: trimmedVersion}

	router := mux.NewRouter()

	// Simulation API endpoint (file upload)
	router.HandleFunc("/api/simulate", h.handleSimulate).Methods(http.MethodPost)

	// Simulation API endpoint for editor-driven updates
	router.HandleFunc("/api/editor/simulate", h.handleSimulateEditor).Methods(http.MethodPost)

	// Plan serialization endpoint for editor downloads
	router.HandleFunc("/api/editor/export", h.handlePlanExport).Methods(http.MethodPost)

	// Default plan used to seed the editor
	router.HandleFunc("/api/defaults", h.handleDefaults).Methods(http.MethodGet)

	// Saved plan sessions
	router.HandleFunc("/api/sessions", h.handleSessionCreate).Methods(http.MethodPost)
	router.HandleFunc("/api/sessions/{id}", h.handleSessionGet).Methods(http.MethodGet)
	router.HandleFunc("/api/sessions/{id}", h.handleSessionUpdate).Methods(http.MethodPut)
	router.HandleFunc("/api/sessions/{id}", h.handleSessionDelete).Methods(http.MethodDelete)
	router.HandleFunc("/api/sessions/{id}/simulate", h.handleSessionSimulate).Methods(http.MethodPost)

	// Version endpoint for UI metadata
	router.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)

	// Prometheus exposition
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// Static assets (web UI). Registered on exact paths rather than a
	// catch-all prefix so mismatched methods on API routes still yield 405.
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	staticHandler := http.FileServer(http.FS(sub))
	router.Handle("/", staticHandler).Methods(http.MethodGet)
	router.Handle("/index.html", staticHandler).Methods(http.MethodGet)

	router.Use(h.instrument)

	return router
}

type simulateResponse struct {
	Payers     []payerResult          `json:"payers"`
	Rows       []balanceRow           `json:"rows"`
	CSV        string                 `json:"csv"`
	Warnings   []string               `json:"warnings,omitempty"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

type payerResult struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	DownPayment        float64       `json:"downPayment"`
	StartingBalance    float64       `json:"startingBalance"`
	FirstInstallment   float64       `json:"firstInstallment"`
	LastInstallment    float64       `json:"lastInstallment"`
	TotalPaid          float64       `json:"totalPaid"`
	TotalInterest      float64       `json:"totalInterest"`
	TotalExtraPayments float64       `json:"totalExtraPayments"`
	LastPaymentMonth   int           `json:"lastPaymentMonth"`
	LastPaymentLabel   string        `json:"lastPaymentLabel,omitempty"`
	Schedule           []scheduleRow `json:"schedule"`
}

type scheduleRow struct {
	Month        int     `json:"month"`
	Date         string  `json:"date"`
	Balance      float64 `json:"balance"`
	Amortization float64 `json:"amortization"`
	Interest     float64 `json:"interest"`
	Installment  float64 `json:"installment"`
}

type balanceRow struct {
	Month    int       `json:"month"`
	Date     string    `json:"date"`
	Balances []float64 `json:"balances"`
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), "server.handleSimulate")
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), "server.handleSimulate")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing plan file", "server.handleSimulate")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && h.logger != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleSimulate"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read plan: %v", err), "server.handleSimulate")
		return
	}

	planBytes := buf.Bytes()
	planMap, err := decodeYAMLToMap(planBytes)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("error reading plan data, %v", err), "server.handleSimulate")
		return
	}

	h.runSimulation(w, planBytes, planMap, start, "server.handleSimulate", "upload")
}

func (h *handler) handleSimulateEditor(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode plan: %v", err), "server.handleSimulateEditor")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	planPayload := payload
	if rawPlan, ok := payload["plan"]; ok {
		planMap, ok := rawPlan.(map[string]interface{})
		if !ok {
			h.respondError(w, http.StatusBadRequest, "invalid plan payload: expected object", "server.handleSimulateEditor")
			return
		}
		planPayload = planMap
	}

	planBytes, err := yaml.Marshal(planPayload)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to encode plan: %v", err), "server.handleSimulateEditor")
		return
	}

	planMap, err := decodeYAMLToMap(planBytes)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse plan: %v", err), "server.handleSimulateEditor")
		return
	}

	h.runSimulation(w, planBytes, planMap, start, "server.handleSimulateEditor", "editor")
}

func (h *handler) handlePlanExport(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode plan: %v", err), "server.handlePlanExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedPlanYAML(payload)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to encode plan: %v", err), "server.handlePlanExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"planYaml": string(yamlBytes),
	})
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"plan": config.DefaultPlan(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Plan *config.Plan `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		metrics.SessionOperations.WithLabelValues("create", "error").Inc()
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode session: %v", err), "server.handleSessionCreate")
		return
	}

	plan := config.DefaultPlan()
	if payload.Plan != nil {
		plan = payload.Plan
	}
	plan.Normalize()

	sess := &session.Session{
		ID:        uuid.NewString(),
		Plan:      *plan,
		UpdatedAt: time.Now().UTC(),
	}
	if err := h.store.Put(r.Context(), sess); err != nil {
		metrics.SessionOperations.WithLabelValues("create", "error").Inc()
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save session: %v", err), "server.handleSessionCreate")
		return
	}

	metrics.SessionOperations.WithLabelValues("create", "ok").Inc()
	h.writeJSON(w, http.StatusCreated, sess)
}

func (h *handler) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sess, err := h.store.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		metrics.SessionOperations.WithLabelValues("get", "miss").Inc()
		h.respondError(w, http.StatusNotFound, fmt.Sprintf("session %s not found", id), "server.handleSessionGet")
		return
	}
	if err != nil {
		metrics.SessionOperations.WithLabelValues("get", "error").Inc()
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load session: %v", err), "server.handleSessionGet")
		return
	}

	metrics.SessionOperations.WithLabelValues("get", "ok").Inc()
	h.writeJSON(w, http.StatusOK, sess)
}

func (h *handler) handleSessionUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var payload struct {
		Plan *config.Plan `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode session: %v", err), "server.handleSessionUpdate")
		return
	}
	if payload.Plan == nil {
		h.respondError(w, http.StatusBadRequest, "missing plan", "server.handleSessionUpdate")
		return
	}

	if _, err := h.store.Get(r.Context(), id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			metrics.SessionOperations.WithLabelValues("put", "miss").Inc()
			h.respondError(w, http.StatusNotFound, fmt.Sprintf("session %s not found", id), "server.handleSessionUpdate")
			return
		}
		metrics.SessionOperations.WithLabelValues("put", "error").Inc()
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load session: %v", err), "server.handleSessionUpdate")
		return
	}

	plan := *payload.Plan
	plan.Normalize()

	sess := &session.Session{
		ID:        id,
		Plan:      plan,
		UpdatedAt: time.Now().UTC(),
	}
	if err := h.store.Put(r.Context(), sess); err != nil {
		metrics.SessionOperations.WithLabelValues("put", "error").Inc()
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save session: %v", err), "server.handleSessionUpdate")
		return
	}

	metrics.SessionOperations.WithLabelValues("put", "ok").Inc()
	h.writeJSON(w, http.StatusOK, sess)
}

func (h *handler) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := h.store.Delete(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		metrics.SessionOperations.WithLabelValues("delete", "miss").Inc()
		h.respondError(w, http.StatusNotFound, fmt.Sprintf("session %s not found", id), "server.handleSessionDelete")
		return
	}
	if err != nil {
		metrics.SessionOperations.WithLabelValues("delete", "error").Inc()
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to delete session: %v", err), "server.handleSessionDelete")
		return
	}

	metrics.SessionOperations.WithLabelValues("delete", "ok").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleSessionSimulate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := mux.Vars(r)["id"]

	sess, err := h.store.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		metrics.SessionOperations.WithLabelValues("get", "miss").Inc()
		h.respondError(w, http.StatusNotFound, fmt.Sprintf("session %s not found", id), "server.handleSessionSimulate")
		return
	}
	if err != nil {
		metrics.SessionOperations.WithLabelValues("get", "error").Inc()
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load session: %v", err), "server.handleSessionSimulate")
		return
	}
	metrics.SessionOperations.WithLabelValues("get", "ok").Inc()

	planBytes, err := yaml.Marshal(sess.Plan)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode session plan: %v", err), "server.handleSessionSimulate")
		return
	}

	planMap, err := decodeYAMLToMap(planBytes)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to parse session plan: %v", err), "server.handleSessionSimulate")
		return
	}

	h.runSimulation(w, planBytes, planMap, start, "server.handleSessionSimulate", "session")
}

func (h *handler) runSimulation(w http.ResponseWriter, planBytes []byte, planMap map[string]interface{}, start time.Time, op string, trigger string) {
	plan, err := config.LoadPlanFromReader(bytes.NewReader(planBytes))
	if err != nil {
		metrics.Simulations.WithLabelValues(trigger, "error").Inc()
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	plan.Normalize()

	if err := plan.Validate(); err != nil {
		metrics.Simulations.WithLabelValues(trigger, "error").Inc()
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if _, err := plan.StartTime(); err != nil {
		metrics.Simulations.WithLabelValues(trigger, "error").Inc()
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid start date: %v", err), op)
		return
	}

	warnings := plan.Warnings()

	simStart := time.Now()
	result, err := simulation.Run(h.logger, *plan)
	if err != nil {
		metrics.Simulations.WithLabelValues(trigger, "error").Inc()
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute schedules: %v", err), op)
		return
	}
	metrics.SimulationDuration.Observe(time.Since(simStart).Seconds())
	metrics.Simulations.WithLabelValues(trigger, "success").Inc()

	elapsed := time.Since(start)

	if planMap == nil {
		planMap = make(map[string]interface{})
	}

	response := simulateResponse{
		Payers:     buildPayerResults(result),
		Rows:       buildBalanceRows(result),
		CSV:        output.CsvString(result),
		Warnings:   warnings,
		Duration:   elapsed.String(),
		Config:     planMap,
		ConfigYAML: string(planBytes),
	}

	if h.logger != nil {
		h.logger.Info("simulation computed",
			zap.String("op", op),
			zap.Int("payers", len(response.Payers)),
			zap.Int("rows", len(response.Rows)),
			zap.Duration("duration", elapsed),
		)
	}

	h.writeJSON(w, http.StatusOK, response)
}

func buildPayerResults(result *simulation.Result) []payerResult {
	payers := make([]payerResult, 0, len(result.Payers))
	for _, payer := range result.Payers {
		entry := payerResult{
			ID:                 payer.PayerID,
			Name:               payer.PayerName,
			DownPayment:        payer.DownPayment,
			StartingBalance:    payer.StartingBalance,
			FirstInstallment:   payer.Summary.FirstInstallment,
			LastInstallment:    payer.Summary.LastInstallment,
			TotalPaid:          payer.Summary.TotalPaid,
			TotalInterest:      payer.Summary.TotalInterest,
			TotalExtraPayments: payer.Summary.TotalExtraPayments,
			LastPaymentMonth:   payer.LastPaymentMonth,
			LastPaymentLabel:   payer.LastPaymentLabel,
			Schedule:           make([]scheduleRow, 0, len(payer.Rows)),
		}
		for _, row := range payer.Rows {
			entry.Schedule = append(entry.Schedule, scheduleRow{
				Month:        row.MonthIndex,
				Date:         row.MonthLabel,
				Balance:      row.Balance,
				Amortization: row.Amortization,
				Interest:     row.Interest,
				Installment:  row.Installment,
			})
		}
		payers = append(payers, entry)
	}
	return payers
}

func buildBalanceRows(result *simulation.Result) []balanceRow {
	series := result.MonthlySeries()
	rows := make([]balanceRow, 0, len(series))
	for _, point := range series {
		rows = append(rows, balanceRow{
			Month:    point.MonthIndex,
			Date:     point.MonthLabel,
			Balances: point.Balances,
		})
	}
	return rows
}

func marshalOrderedPlanYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{
		"totalBalance", "annualInterestRate", "termMonths", "startDate",
		"payers", "extraPayments", "logging", "output",
	} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedPlan{items: items}
	return yaml.Marshal(ordered)
}

type orderedPlan struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedPlan) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return normalizeDates(result).(map[string]interface{}), nil
}

// normalizeDates restores the plain text form of unquoted dates, which the
// YAML parser resolves into time.Time when decoding into untyped maps.
func normalizeDates(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		for key, item := range v {
			v[key] = normalizeDates(item)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = normalizeDates(item)
		}
		return v
	case time.Time:
		return v.Format(config.StartDateLayout)
	default:
		return value
	}
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	if h.logger != nil {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
