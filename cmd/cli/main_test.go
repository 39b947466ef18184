package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--url", serverURL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestBalancesCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/participants" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"name":"Sam","total_lent":"60","total_paid":"15","outstanding":"45","credit":"0","net":"45","open_items":2}]`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "balances")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "NAME") || !strings.Contains(out, "Sam") || !strings.Contains(out, "45.00") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestBalancesCmd_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "balances")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if strings.TrimSpace(out) != "No participants" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestSettleCmd(t *testing.T) {
	var (
		gotPath string
		gotKey  string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("Idempotency-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"name":"Sam Lee","amount":"50","applied":"45","credit":"5",
			"applications":[{"transaction_id":"tx1","item_id":"i1","amount":"45"}],"transactions":[]}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "settle", "Sam Lee", "50", "--date", "2023-10-25", "--idempotency-key", "k1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if gotPath != "/api/v1/participants/Sam Lee/settlements" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "k1" {
		t.Fatalf("expected idempotency key k1, got %q", gotKey)
	}
	if gotBody["amount"] != "50" || gotBody["date"] != "2023-10-25" {
		t.Fatalf("unexpected body %v", gotBody)
	}
	if !strings.Contains(out, "applied 45.00, credit 5.00") || !strings.Contains(out, "tx1") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSettleCmd_InvalidAmount(t *testing.T) {
	_, err := runCLI(t, "http://127.0.0.1:0", "settle", "Sam", "abc")
	if err == nil || !strings.Contains(err.Error(), "invalid amount") {
		t.Fatalf("expected invalid amount error, got %v", err)
	}
}

func TestSettleCmd_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"participant not found","message":"participant has no split items"}`)
	}))
	defer srv.Close()

	_, err := runCLI(t, srv.URL, "settle", "Nobody", "10")
	if err == nil || !strings.Contains(err.Error(), "participant not found (status 404)") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestImportCmd_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "october.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/imports/document" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file: %v", err)
		} else {
			defer file.Close()
			data, _ := io.ReadAll(file)
			if header.Filename != "october.pdf" || string(data) != "%PDF-1.4" {
				t.Errorf("unexpected upload %s %q", header.Filename, data)
			}
		}
		if r.FormValue("account_id") != "acc1" {
			t.Errorf("expected account_id acc1, got %q", r.FormValue("account_id"))
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"imp1","accepted":[],"duplicates":[],"dropped":[{"index":2,"reason":"missing required field"}],"needs_review":true}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "import", path, "--account", "acc1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "Import imp1: 0 accepted, 0 duplicates, 1 dropped") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "dropped #2: missing required field") || !strings.Contains(out, "need review") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestImportCmd_GCSURI(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"imp2","accepted":[],"duplicates":[],"dropped":[],"needs_review":false}`)
	}))
	defer srv.Close()

	if _, err := runCLI(t, srv.URL, "import", "gs://statements/october.pdf"); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if got["uri"] != "gs://statements/october.pdf" {
		t.Fatalf("unexpected body %v", got)
	}
	if _, ok := got["account_id"]; ok {
		t.Fatalf("account_id should be omitted, got %v", got)
	}
}

func TestImportCmd_MissingFile(t *testing.T) {
	_, err := runCLI(t, "http://127.0.0.1:0", "import", filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestConsistencyCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"checked":12,"consistent":true,"problems":[],"checked_at":"2023-10-25T10:00:00Z"}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "consistency")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "PASSED (12 transactions)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestConsistencyCmd_Failed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"checked":3,"consistent":false,"checked_at":"2023-10-25T10:00:00Z",
			"problems":[{"transaction_id":"tx1","item_id":"i2","problem":"paid exceeds amount"}]}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, srv.URL, "consistency")
	if !errors.Is(err, errInconsistent) {
		t.Fatalf("expected errInconsistent, got %v", err)
	}
	if !strings.Contains(out, "tx1 item i2: paid exceeds amount") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
