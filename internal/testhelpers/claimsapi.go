package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// Fake credentials accepted by FakeClaimsAPI.
const (
	FakeEmail    = "test@example.com"
	FakePassword = "testpass123"
	FakeToken    = "fake-token"
)

// FakeUser is the user FakeClaimsAPI returns on login.
var FakeUser = map[string]any{ //nolint:gochecknoglobals // test fixture
	"id":       "2",
	"username": "testuser",
	"email":    FakeEmail,
	"role":     "user",
	"state":    "Madhya Pradesh",
	"district": "Mandla",
	"block":    "Bichhiya",
}

// ApprovedClaim is the claim MP001234567890 served by FakeClaimsAPI.
func ApprovedClaim() map[string]any {
	return map[string]any{
		"id":             "7b0f4d6e-9a8b-4c2d-8e1f-1a2b3c4d5e6f",
		"claim_number":   "MP001234567890",
		"claim_type":     "IFR",
		"applicant_name": "Ramesh Kumar",
		"village":        "Khatia",
		"district":       "Mandla",
		"state":          "Madhya Pradesh",
		"area":           "2.50",
		"status":         "approved",
		"submitted_date": "2024-01-15T10:30:00.000Z",
	}
}

// FakeSummary is the report summary served by FakeClaimsAPI.
func FakeSummary() map[string]any {
	return map[string]any{
		"timeseries": []map[string]any{
			{"month": "Jan", "beneficiaries": 400},
			{"month": "Feb", "beneficiaries": 300},
			{"month": "Mar", "beneficiaries": 600},
		},
		"byType": []map[string]any{
			{"type": "Granted", "value": 60},
			{"type": "Potential", "value": 40},
		},
		"topDistricts": []map[string]any{
			{"name": "Mandla", "beneficiaries": 1200},
			{"name": "Dindori", "beneficiaries": 900},
		},
	}
}

// FakeClaimsAPI is an in-memory stand-in for the claims REST API.
type FakeClaimsAPI struct {
	server *httptest.Server

	mu          sync.Mutex
	claims      map[string]map[string]any
	statuses    map[string]int
	delays      map[string]time.Duration
	submissions []map[string]any
	requests    []string
	summaryHits int
}

// NewFakeClaimsAPI starts the fake API serving ApprovedClaim. Close it with Close.
func NewFakeClaimsAPI() *FakeClaimsAPI {
	f := &FakeClaimsAPI{
		server:      nil,
		mu:          sync.Mutex{},
		claims:      map[string]map[string]any{"MP001234567890": ApprovedClaim()},
		statuses:    map[string]int{},
		delays:      map[string]time.Duration{},
		submissions: nil,
		requests:    nil,
		summaryHits: 0,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", f.login)
	mux.HandleFunc("GET /api/claims/track/{claimNumber}", f.authenticated(f.track))
	mux.HandleFunc("POST /api/claims/submit", f.authenticated(f.submit))
	mux.HandleFunc("GET /api/fra/reports/summary", f.authenticated(f.summary))
	f.server = httptest.NewServer(mux)
	return f
}

// URL is the API base URL including the /api prefix.
func (f *FakeClaimsAPI) URL() string {
	return f.server.URL + "/api"
}

func (f *FakeClaimsAPI) Close() {
	f.server.Close()
}

// AddClaim serves claim under its claim_number.
func (f *FakeClaimsAPI) AddClaim(claim map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	number, _ := claim["claim_number"].(string)
	f.claims[number] = claim
}

// RespondWith makes lookups of claimNumber answer with the status code.
func (f *FakeClaimsAPI) RespondWith(claimNumber string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[claimNumber] = status
}

// Delay makes lookups of claimNumber wait before answering.
func (f *FakeClaimsAPI) Delay(claimNumber string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays[claimNumber] = d
}

// Requests lists "METHOD path" of every request received.
func (f *FakeClaimsAPI) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// Submissions lists the decoded bodies of claim submissions.
func (f *FakeClaimsAPI) Submissions() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.submissions...)
}

// SummaryHits counts the summary requests that reached the API.
func (f *FakeClaimsAPI) SummaryHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summaryHits
}

func (f *FakeClaimsAPI) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// authenticated mimics the API middleware: 401 without a token and 403 with a wrong one.
func (f *FakeClaimsAPI) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Access token required"})
			return
		}
		if token != FakeToken {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Invalid or expired token"})
			return
		}
		next(w, r)
	}
}

func (f *FakeClaimsAPI) login(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
		return
	}
	if body.Email != FakeEmail || body.Password != FakePassword {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Login successful", "user": FakeUser, "token": FakeToken})
}

func (f *FakeClaimsAPI) track(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("claimNumber")
	f.mu.Lock()
	claim, found := f.claims[number]
	status, hasStatus := f.statuses[number]
	delay := f.delays[number]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if hasStatus {
		writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Claim not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"claim": claim,
		"statusHistory": []map[string]any{
			{"status": "submitted", "date": claim["submitted_date"], "description": "Claim submitted successfully"},
			{"status": claim["status"], "date": claim["submitted_date"], "description": "Current status"},
		},
	})
}

func (f *FakeClaimsAPI) submit(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
		return
	}
	f.mu.Lock()
	f.submissions = append(f.submissions, body)
	number := "MP" + strings.Repeat("0", 11) + string(rune('0'+len(f.submissions)%10))
	f.mu.Unlock()

	claim := map[string]any{"claim_number": number, "status": "submitted"}
	for k, v := range body {
		claim[k] = v
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Claim submitted successfully", "claim": claim})
}

func (f *FakeClaimsAPI) summary(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	f.summaryHits++
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, FakeSummary())
}
