package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"moneta/internal/backup"
	"moneta/internal/backup/memory"
	"moneta/internal/core"
	applog "moneta/internal/log"
	"moneta/internal/report"
	"moneta/internal/services"
	"moneta/internal/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, *Server) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}

	logger := applog.New(applog.DefaultConfig())
	finance := services.NewFinanceService(repo, nil, logger)
	reports := services.NewReportService(repo, "TWD", time.Minute, 16, logger)
	backups := backup.NewService(repo, memory.NewStore(), "user-1", logger)

	srv := NewServer(":0", finance, reports, backups, logger)
	ts := httptest.NewServer(srv.Server.Handler)
	t.Cleanup(func() {
		ts.Close()
		srv.limiter.Stop()
		repo.Close()
	})
	return ts, srv
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func TestAccountCRUD(t *testing.T) {
	ts, _ := newTestServer(t)

	var created core.Account
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/accounts",
		core.Account{Name: "Cash", Currency: "TWD", Balance: 100}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	var got core.Account
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/accounts/"+created.ID, nil, &got)
	if resp.StatusCode != http.StatusOK || got.Name != "Cash" {
		t.Fatalf("get status=%d account=%+v", resp.StatusCode, got)
	}

	got.Balance = 250
	resp = doJSON(t, http.MethodPut, ts.URL+"/api/accounts/"+created.ID, got, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}

	var all []core.Account
	doJSON(t, http.MethodGet, ts.URL+"/api/accounts", nil, &all)
	if len(all) != 1 || all[0].Balance != 250 {
		t.Fatalf("list = %+v", all)
	}

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/accounts/"+created.ID, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/accounts/"+created.ID, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", resp.StatusCode)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/transactions",
		core.Transaction{Amount: -5, Type: core.Expense, Date: time.Now(), Description: "x"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRejectsUnknownJSONFields(t *testing.T) {
	ts, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"name":"Cash","currency":"TWD","bogus":1}`)
	resp, err := http.Post(ts.URL+"/api/accounts", "application/json", body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBudgetReportEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	var acc core.Account
	doJSON(t, http.MethodPost, ts.URL+"/api/accounts", core.Account{Name: "Cash", Currency: "TWD"}, &acc)
	doJSON(t, http.MethodPost, ts.URL+"/api/transactions", core.Transaction{
		Amount: 120, Type: core.Expense, Date: time.Now().Add(-time.Hour),
		Description: "food lunch", AccountID: acc.ID,
	}, nil)
	doJSON(t, http.MethodPost, ts.URL+"/api/budgets", core.Budget{
		Category: "food", Amount: 100, Period: core.Monthly, Currency: "TWD",
	}, nil)

	var rep report.BudgetReport
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/reports/budgets", nil, &rep)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(rep.Budgets) != 1 {
		t.Fatalf("budgets = %+v", rep.Budgets)
	}
	if rep.Budgets[0].Spent != 120 || !rep.Budgets[0].Exceeded {
		t.Errorf("budget status = %+v", rep.Budgets[0])
	}
}

func TestSummaryRejectsBadPeriod(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/reports/summary?period=week", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBackupAndRestoreEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	var acc core.Account
	doJSON(t, http.MethodPost, ts.URL+"/api/accounts", core.Account{Name: "Cash", Currency: "TWD"}, &acc)

	var backedUp struct {
		SnapshotID string `json:"snapshot_id"`
	}
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/backup", nil, &backedUp)
	if resp.StatusCode != http.StatusOK || backedUp.SnapshotID == "" {
		t.Fatalf("backup status=%d body=%+v", resp.StatusCode, backedUp)
	}

	// Mutate, then restore: the account set rolls back to the snapshot.
	doJSON(t, http.MethodDelete, ts.URL+"/api/accounts/"+acc.ID, nil, nil)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/restore", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("restore status = %d", resp.StatusCode)
	}
	var all []core.Account
	doJSON(t, http.MethodGet, ts.URL+"/api/accounts", nil, &all)
	if len(all) != 1 || all[0].ID != acc.ID {
		t.Fatalf("accounts after restore = %+v", all)
	}
}

func TestRestoreWithoutSnapshotIs404(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/restore", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestMutationRateLimit(t *testing.T) {
	ts, _ := newTestServer(t)

	var last int
	for i := 0; i < 61; i++ {
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/accounts",
			core.Account{Name: fmt.Sprintf("acc-%d", i), Currency: "TWD"}, nil)
		last = resp.StatusCode
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("61st mutation status = %d, want 429", last)
	}
}
