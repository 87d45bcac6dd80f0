package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/kubiyabot/actor-sdk/apiclient/entities"
)

// MockPlatformServer mocks the actor platform HTTP API for testing.
// A started run is READY; the first poll moves it to its actor's final status.
type MockPlatformServer struct {
	server *httptest.Server
	mu     sync.RWMutex

	// State
	actors    map[string]ActorBehavior
	runs      map[string]*entities.Run
	records   map[string]storedRecord
	token     string
	reqLog    []RequestLog
	errorMode bool
	nextRunID int
}

// ActorBehavior describes how a mocked actor's runs end
type ActorBehavior struct {
	FinalStatus entities.RunStatus
	Output      interface{}
}

type storedRecord struct {
	contentType string
	body        []byte
}

// RequestLog records API requests for testing
type RequestLog struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// NewMockPlatformServer creates a new mock platform server
func NewMockPlatformServer() *MockPlatformServer {
	m := &MockPlatformServer{
		actors:  make(map[string]ActorBehavior),
		runs:    make(map[string]*entities.Run),
		records: make(map[string]storedRecord),
		token:   "test-token",
	}

	router := mux.NewRouter()
	router.HandleFunc("/v2/acts/{actorId}/runs", m.handleRunActor).Methods(http.MethodPost)
	router.HandleFunc("/v2/acts/{actorId}/runs/{runId}", m.handleGetRun).Methods(http.MethodGet)
	router.HandleFunc("/v2/key-value-stores/{storeId}/records/{key}", m.handleGetRecord).Methods(http.MethodGet)
	router.HandleFunc("/v2/key-value-stores/{storeId}/records/{key}", m.handlePutRecord).Methods(http.MethodPut)
	router.HandleFunc("/v2/key-value-stores/{storeId}/records/{key}", m.handleDeleteRecord).Methods(http.MethodDelete)
	router.Use(m.middleware)

	m.server = httptest.NewServer(router)
	return m
}

// URL returns the base URL of the mock server
func (m *MockPlatformServer) URL() string {
	return m.server.URL
}

// Token returns the token the server accepts
func (m *MockPlatformServer) Token() string {
	return m.token
}

// Close shuts down the mock server
func (m *MockPlatformServer) Close() {
	m.server.Close()
}

// AddActor registers an actor; actorID uses the "~" form for named actors
func (m *MockPlatformServer) AddActor(actorID string, behavior ActorBehavior) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actors[actorID] = behavior
}

// SetRecord stores a record directly
func (m *MockPlatformServer) SetRecord(storeID, key, contentType string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[storeID+"/"+key] = storedRecord{contentType: contentType, body: body}
}

// Record returns a stored record body and whether it exists
func (m *MockPlatformServer) Record(storeID, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[storeID+"/"+key]
	return rec.body, ok
}

// SetErrorMode makes every request fail with a 500
func (m *MockPlatformServer) SetErrorMode(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorMode = enabled
}

// GetRequestLog returns a copy of all logged requests
func (m *MockPlatformServer) GetRequestLog() []RequestLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RequestLog(nil), m.reqLog...)
}

func (m *MockPlatformServer) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		m.mu.Lock()
		m.reqLog = append(m.reqLog, RequestLog{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
		errorMode := m.errorMode
		m.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+m.token {
			respondError(w, http.StatusUnauthorized, "token-not-valid", "Authentication token is not valid")
			return
		}
		if errorMode {
			respondError(w, http.StatusInternalServerError, "internal-error", "mock error mode")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *MockPlatformServer) handleRunActor(w http.ResponseWriter, r *http.Request) {
	actorID := mux.Vars(r)["actorId"]

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.actors[actorID]; !ok {
		respondError(w, http.StatusNotFound, "record-not-found", "Actor was not found")
		return
	}

	m.nextRunID++
	run := &entities.Run{
		ID:                     fmt.Sprintf("run-%d", m.nextRunID),
		ActorID:                actorID,
		Status:                 entities.RunStatusReady,
		DefaultKeyValueStoreID: fmt.Sprintf("store-%d", m.nextRunID),
	}
	m.runs[run.ID] = run

	respondJSON(w, http.StatusCreated, run)
}

func (m *MockPlatformServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[vars["runId"]]
	if !ok || run.ActorID != vars["actorId"] {
		respondError(w, http.StatusNotFound, "record-not-found", "Actor run was not found")
		return
	}

	if !run.Status.IsTerminal() {
		behavior := m.actors[run.ActorID]
		run.Status = behavior.FinalStatus
		if behavior.Output != nil && run.Status.IsSucceeded() {
			body, _ := json.Marshal(behavior.Output)
			m.records[run.DefaultKeyValueStoreID+"/"+entities.OutputRecordKey] = storedRecord{
				contentType: "application/json; charset=utf-8",
				body:        body,
			}
		}
	}

	respondJSON(w, http.StatusOK, run)
}

func (m *MockPlatformServer) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	body, ok := m.recordFor(vars["storeId"], vars["key"])
	if !ok {
		respondError(w, http.StatusNotFound, "record-not-found", "Record was not found")
		return
	}
	w.Header().Set("Content-Type", body.contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body.body)
}

func (m *MockPlatformServer) handlePutRecord(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	body, _ := io.ReadAll(r.Body)
	m.SetRecord(vars["storeId"], vars["key"], r.Header.Get("Content-Type"), body)
	w.WriteHeader(http.StatusCreated)
}

func (m *MockPlatformServer) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, vars["storeId"]+"/"+vars["key"])
	w.WriteHeader(http.StatusNoContent)
}

func (m *MockPlatformServer) recordFor(storeID, key string) (storedRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[storeID+"/"+key]
	return rec, ok
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func respondError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"type": errType, "message": message},
	})
}
