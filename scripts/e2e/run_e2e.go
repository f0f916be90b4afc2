// Package main runs smoke scenarios against a running relay.
//
// Scenarios that only exercise validation never reach Sheets or Vapi. The
// live scenarios write a real row and place a real call, so they only run
// when E2E_LIVE=true and E2E_PHONE is set.
//
// Usage:
//
//	API_BASE_URL=http://localhost:3000 go run scripts/e2e/run_e2e.go [scenario-name]
//	API_BASE_URL=... E2E_LIVE=true E2E_PHONE=+14155552671 go run scripts/e2e/run_e2e.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var (
	apiBase   string
	live      bool
	livePhone string
	client    = &http.Client{Timeout: 30 * time.Second}
)

type scenario struct {
	Name string
	Live bool
	Fn   func(t *T)
}

// T is a lightweight test context for a single scenario.
type T struct {
	passed int
	failed int
	name   string
}

func (t *T) check(name string, ok bool) {
	if ok {
		fmt.Printf("    PASS: %s\n", name)
		t.passed++
	} else {
		fmt.Printf("    FAIL: %s\n", name)
		t.failed++
	}
}

func (t *T) fatalf(format string, args ...interface{}) {
	fmt.Printf("    FATAL: "+format+"\n", args...)
	t.failed++
}

type result struct {
	status int
	header http.Header
	body   map[string]interface{}
	raw    string
}

func do(method, path string, payload interface{}) (*result, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, apiBase+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Origin", "https://e2e.invalid")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	out := &result{status: resp.StatusCode, header: resp.Header, raw: string(raw)}
	if len(bytes.TrimSpace(raw)) > 0 {
		_ = json.Unmarshal(raw, &out.body)
	}
	return out, nil
}

func lead(overrides map[string]interface{}) map[string]interface{} {
	body := map[string]interface{}{
		"name":     "E2E Smoke",
		"business": "Relay Checks",
		"location": "Nowhere",
		"email":    "e2e@example.com",
		"phone":    "+14155552671",
		"need":     "smoke test",
		"source":   "e2e",
	}
	for k, v := range overrides {
		if v == nil {
			delete(body, k)
			continue
		}
		body[k] = v
	}
	return body
}

func hasCORS(r *result) bool {
	return r.header.Get("Access-Control-Allow-Origin") != "" &&
		r.header.Get("Access-Control-Allow-Headers") == "Content-Type" &&
		r.header.Get("Access-Control-Allow-Methods") == "POST, OPTIONS"
}

func scenarioHealth(t *T) {
	r, err := do(http.MethodGet, "/health", nil)
	if err != nil {
		t.fatalf("health: %v", err)
		return
	}
	t.check("health returns 200", r.status == http.StatusOK)
	t.check("health reports ok", r.body["status"] == "ok")
}

func scenarioPreflight(t *T) {
	for _, path := range []string{"/api/lead", "/api/call-me", "/anything"} {
		r, err := do(http.MethodOptions, path, nil)
		if err != nil {
			t.fatalf("preflight %s: %v", path, err)
			return
		}
		t.check("preflight "+path+" returns 204", r.status == http.StatusNoContent)
		t.check("preflight "+path+" has no body", r.raw == "")
		t.check("preflight "+path+" carries CORS headers", hasCORS(r))
	}
}

func scenarioLeadMissingField(t *T) {
	r, err := do(http.MethodPost, "/api/lead", lead(map[string]interface{}{"email": nil}))
	if err != nil {
		t.fatalf("lead: %v", err)
		return
	}
	if r.status == http.StatusInternalServerError {
		t.check("server has SHEETS_WEBAPP_URL configured", r.body["error"] != "Missing SHEETS_WEBAPP_URL")
		return
	}
	t.check("missing email returns 400", r.status == http.StatusBadRequest)
	t.check("error names the field", r.body["error"] == "Missing field: email")
	t.check("error response carries CORS headers", hasCORS(r))
}

func scenarioLeadInvalidPhone(t *T) {
	r, err := do(http.MethodPost, "/api/lead", lead(map[string]interface{}{"phone": "555-1234"}))
	if err != nil {
		t.fatalf("lead: %v", err)
		return
	}
	if r.status == http.StatusInternalServerError {
		t.check("server has SHEETS_WEBAPP_URL configured", false)
		return
	}
	t.check("bad phone returns 400", r.status == http.StatusBadRequest)
	t.check("error explains E.164", strings.Contains(fmt.Sprint(r.body["error"]), "E.164"))
}

func scenarioCallInvalidPhone(t *T) {
	r, err := do(http.MethodPost, "/api/call-me", map[string]interface{}{"phone": "+0123456789"})
	if err != nil {
		t.fatalf("call-me: %v", err)
		return
	}
	if r.status == http.StatusInternalServerError {
		t.check("server has Vapi configured", false)
		return
	}
	t.check("bad phone returns 400", r.status == http.StatusBadRequest)
}

func scenarioInvalidJSON(t *T) {
	req, _ := http.NewRequest(http.MethodPost, apiBase+"/api/call-me", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.fatalf("call-me: %v", err)
		return
	}
	resp.Body.Close()
	t.check("malformed body is rejected", resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusInternalServerError)
}

func scenarioLiveLead(t *T) {
	r, err := do(http.MethodPost, "/api/lead", lead(map[string]interface{}{"phone": livePhone}))
	if err != nil {
		t.fatalf("lead: %v", err)
		return
	}
	t.check("lead accepted", r.status == http.StatusOK)
	t.check("ok flag set", r.body["ok"] == true)
	_, hasSheets := r.body["sheets"]
	t.check("sheets response relayed", hasSheets)
}

func scenarioLiveCall(t *T) {
	r, err := do(http.MethodPost, "/api/call-me", map[string]interface{}{"phone": livePhone})
	if err != nil {
		t.fatalf("call-me: %v", err)
		return
	}
	t.check("call accepted", r.status == http.StatusOK)
	vapi, _ := r.body["vapi"].(map[string]interface{})
	t.check("vapi call id returned", vapi["id"] != nil)
}

func main() {
	apiBase = strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if apiBase == "" {
		apiBase = "http://localhost:3000"
	}
	live = strings.EqualFold(os.Getenv("E2E_LIVE"), "true")
	livePhone = strings.TrimSpace(os.Getenv("E2E_PHONE"))
	if live && livePhone == "" {
		fmt.Println("E2E_LIVE requires E2E_PHONE")
		os.Exit(2)
	}

	scenarios := []scenario{
		{Name: "health", Fn: scenarioHealth},
		{Name: "preflight", Fn: scenarioPreflight},
		{Name: "lead-missing-field", Fn: scenarioLeadMissingField},
		{Name: "lead-invalid-phone", Fn: scenarioLeadInvalidPhone},
		{Name: "call-invalid-phone", Fn: scenarioCallInvalidPhone},
		{Name: "invalid-json", Fn: scenarioInvalidJSON},
		{Name: "live-lead", Live: true, Fn: scenarioLiveLead},
		{Name: "live-call", Live: true, Fn: scenarioLiveCall},
	}

	only := ""
	if len(os.Args) > 1 {
		only = os.Args[1]
	}

	var passed, failed, ran int
	for _, sc := range scenarios {
		if only != "" && sc.Name != only {
			continue
		}
		if sc.Live && !live {
			fmt.Printf("SKIP %s (set E2E_LIVE=true)\n", sc.Name)
			continue
		}
		fmt.Printf("RUN  %s\n", sc.Name)
		t := &T{name: sc.Name}
		sc.Fn(t)
		passed += t.passed
		failed += t.failed
		ran++
	}

	fmt.Printf("\n%d scenarios, %d checks passed, %d failed\n", ran, passed, failed)
	if ran == 0 {
		fmt.Printf("no scenario named %q\n", only)
		os.Exit(2)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
