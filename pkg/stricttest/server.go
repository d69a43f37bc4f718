// Package stricttest provides an in-process fake of the strict processing
// service for testing SDK consumers without a live backend. The fake honors
// the real service's auth resolution order (API key, then bearer token),
// issues signed JWTs from /token and records every processing request it
// receives.
package stricttest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/strictproc/strict-go/pkg/strict"
)

// Server is a fake strict service. The exported fields configure behavior
// and must not be changed after the first request.
type Server struct {
	// APIKey is the key accepted on X-API-Key. Empty disables key auth.
	APIKey string
	// Username and Password are the credentials accepted by /token.
	Username string
	Password string
	// ProcessorUsed overrides the processor reported in responses. When
	// unset, the fake echoes the requested processor, defaulting to hybrid.
	ProcessorUsed strict.ProcessorType
	// RetriesAttempted is reported verbatim in processing responses.
	RetriesAttempted int
	// OmitRetries drops retries_attempted from response bodies, emulating
	// older service versions.
	OmitRetries bool

	secret []byte
	hs     *httptest.Server

	mu        sync.Mutex
	processed []strict.ProcessingRequest
}

// New starts a fake service with the given API key and login credentials.
func New(apiKey, username, password string) *Server {
	s := &Server{
		APIKey:   apiKey,
		Username: username,
		Password: password,
		secret:   []byte("stricttest-secret"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/token", s.handleToken)
	mux.HandleFunc("/process/request", s.handleProcess)
	mux.HandleFunc("/validate/signal", s.handleValidateSignal)
	s.hs = httptest.NewServer(mux)
	return s
}

// URL returns the fake service's base URL.
func (s *Server) URL() string { return s.hs.URL }

// Close shuts the fake service down.
func (s *Server) Close() { s.hs.Close() }

// Client returns a strict.Client preconfigured with the fake's URL and
// API key.
func (s *Server) Client(opts ...strict.Option) *strict.Client {
	return strict.New(s.hs.URL, s.APIKey, opts...)
}

// Processed returns a copy of all processing requests received so far.
func (s *Server) Processed() []strict.ProcessingRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]strict.ProcessingRequest, len(s.processed))
	copy(out, s.processed)
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, strict.HealthResponse{Status: "ok", Version: strict.Version})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("username") != s.Username || r.PostForm.Get("password") != s.Password {
		http.Error(w, "Incorrect username or password", http.StatusUnauthorized)
		return
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": s.Username,
		"exp": time.Now().Add(30 * time.Minute).Unix(),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		http.Error(w, "token signing failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, strict.Token{AccessToken: signed, TokenType: "bearer"})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var req strict.ProcessingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if req.InputData == "" {
		http.Error(w, "input_data must not be empty", http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	s.processed = append(s.processed, req)
	s.mu.Unlock()

	used := strict.ProcessorHybrid
	if req.ProcessorType != nil {
		used = *req.ProcessorType
	}
	if s.ProcessorUsed != "" {
		used = s.ProcessorUsed
	}

	out := strict.OutputSchema{
		Result: map[string]any{"echo": req.InputData},
		Validation: strict.ValidationResult{
			Status:    strict.StatusSuccess,
			IsValid:   true,
			InputHash: inputHash(req.InputData),
			Errors:    []string{},
		},
		ProcessorUsed:    used,
		ProcessingTimeMs: 1.0,
		RetriesAttempted: s.RetriesAttempted,
	}

	if s.OmitRetries {
		// Re-encode through a map so the field is genuinely absent.
		tree := map[string]any{}
		data, _ := json.Marshal(out)
		_ = json.Unmarshal(data, &tree)
		delete(tree, "retries_attempted")
		writeJSON(w, tree)
		return
	}
	writeJSON(w, out)
}

func (s *Server) handleValidateSignal(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var cfg strict.SignalConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, strict.ValidationResponse{Valid: false, Errors: []string{err.Error()}})
		return
	}

	var errs []string
	if cfg.SignalType == strict.SignalAnalog && cfg.SamplingRate <= 2*cfg.Frequency {
		errs = append(errs, "Nyquist criterion violated")
	}
	if len(errs) > 0 {
		writeJSON(w, strict.ValidationResponse{Valid: false, Errors: errs})
		return
	}

	data, _ := json.Marshal(cfg)
	validated := map[string]any{}
	_ = json.Unmarshal(data, &validated)
	writeJSON(w, strict.ValidationResponse{Valid: true, Errors: []string{}, ValidatedData: validated})
}

// authorized checks X-API-Key first, then a bearer token signed by this
// fake, matching the service's resolution order.
func (s *Server) authorized(r *http.Request) bool {
	if s.APIKey != "" && r.Header.Get("X-API-Key") == s.APIKey {
		return true
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		_, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		return err == nil
	}
	return s.APIKey == "" && auth == ""
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func inputHash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:16]
}
