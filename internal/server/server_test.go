package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskflow/internal/auth"
	"taskflow/internal/repository"
	"taskflow/internal/server"
	"taskflow/internal/service"
	"taskflow/internal/testutil"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	auditSvc := service.NewAuditService(repository.NewAuditRepository(db))
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return server.New(
		service.NewAuthService(userRepo, tokens),
		service.NewTaskService(taskRepo, auditSvc),
		service.NewAdminService(userRepo, taskRepo, auditSvc),
		tokens,
		nil,
	)
}

func do(t *testing.T, s *server.Server, method, path, token, body string) (int, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: bad envelope %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env
}

func register(t *testing.T, s *server.Server, name, email, password string) {
	t.Helper()
	code, env := do(t, s, http.MethodPost, "/api/auth/register", "",
		`{"name":"`+name+`","email":"`+email+`","password":"`+password+`"}`)
	if code != http.StatusCreated || !env.Success {
		t.Fatalf("register %s: code=%d env=%+v", email, code, env)
	}
}

func login(t *testing.T, s *server.Server, email, password string) string {
	t.Helper()
	code, env := do(t, s, http.MethodPost, "/api/auth/login", "",
		`{"email":"`+email+`","password":"`+password+`"}`)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("login %s: code=%d env=%+v", email, code, env)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("login %s: no token in %s", email, env.Data)
	}
	return data.Token
}

func TestUnauthenticatedRequestsGet401(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodGet, "/api/tasks/some-id"},
		{http.MethodPut, "/api/tasks/some-id"},
		{http.MethodDelete, "/api/tasks/some-id"},
		{http.MethodPost, "/api/upload"},
		{http.MethodGet, "/api/admin/stats"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodDelete, "/api/admin/users/some-id"},
		{http.MethodGet, "/api/admin/audit"},
		{http.MethodPost, "/api/auth/refresh"},
	} {
		code, env := do(t, s, tc.method, tc.path, "", "")
		if code != http.StatusUnauthorized {
			t.Errorf("%s %s: code = %d, want 401", tc.method, tc.path, code)
		}
		if env.Success {
			t.Errorf("%s %s: success = true in failure envelope", tc.method, tc.path)
		}
	}
}

func TestGarbageTokenGets401(t *testing.T) {
	s := newTestServer(t)
	code, _ := do(t, s, http.MethodGet, "/api/tasks", "not-a-real-token", "")
	if code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", code)
	}
}

func TestRegisterValidationEnvelope(t *testing.T) {
	s := newTestServer(t)
	code, env := do(t, s, http.MethodPost, "/api/auth/register", "",
		`{"name":"A","email":"nope","password":"short1"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", code)
	}
	if env.Success || len(env.Details) == 0 {
		t.Errorf("expected per-field details, got %+v", env)
	}
	fields := map[string]bool{}
	for _, d := range env.Details {
		fields[d.Field] = true
	}
	for _, want := range []string{"name", "email", "password"} {
		if !fields[want] {
			t.Errorf("missing detail for field %q: %+v", want, env.Details)
		}
	}
}

func TestDuplicateEmailGets409(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "Alice", "alice@example.com", "Valid123")
	code, env := do(t, s, http.MethodPost, "/api/auth/register", "",
		`{"name":"Alice Again","email":"alice@example.com","password":"Valid123"}`)
	if code != http.StatusConflict || env.Success {
		t.Errorf("code=%d env=%+v, want 409 failure", code, env)
	}
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "Alice", "alice@example.com", "Valid123")
	register(t, s, "Bob", "bob@example.com", "Valid123")
	aliceToken := login(t, s, "alice@example.com", "Valid123")
	bobToken := login(t, s, "bob@example.com", "Valid123")

	// Create: client-supplied userId must be ignored.
	code, env := do(t, s, http.MethodPost, "/api/tasks", aliceToken,
		`{"title":"Buy milk","priority":"HIGH","userId":"someone-else"}`)
	if code != http.StatusCreated || !env.Success {
		t.Fatalf("create: code=%d env=%+v", code, env)
	}
	var task struct {
		ID     string `json:"id"`
		UserID string `json:"userId"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if task.UserID == "someone-else" || task.UserID == "" {
		t.Errorf("owner = %q, want the session user", task.UserID)
	}
	if task.Status != "TODO" {
		t.Errorf("status = %q, want TODO default", task.Status)
	}

	// Bob cannot see, change, or delete it.
	if code, _ := do(t, s, http.MethodGet, "/api/tasks/"+task.ID, bobToken, ""); code != http.StatusForbidden {
		t.Errorf("bob read: code = %d, want 403", code)
	}
	if code, _ := do(t, s, http.MethodPut, "/api/tasks/"+task.ID, bobToken, `{"title":"hijack"}`); code != http.StatusForbidden {
		t.Errorf("bob update: code = %d, want 403", code)
	}
	if code, _ := do(t, s, http.MethodDelete, "/api/tasks/"+task.ID, bobToken, ""); code != http.StatusForbidden {
		t.Errorf("bob delete: code = %d, want 403", code)
	}

	// Missing id reports 404 even to a would-be-forbidden actor.
	if code, _ := do(t, s, http.MethodGet, "/api/tasks/missing", bobToken, ""); code != http.StatusNotFound {
		t.Errorf("missing task: code = %d, want 404", code)
	}

	// Bad enum on update is a validation failure.
	code, env = do(t, s, http.MethodPut, "/api/tasks/"+task.ID, aliceToken, `{"status":"DONE"}`)
	if code != http.StatusBadRequest || len(env.Details) == 0 {
		t.Errorf("bad status: code=%d env=%+v, want 400 with details", code, env)
	}

	// Owner deletes own task.
	if code, _ := do(t, s, http.MethodDelete, "/api/tasks/"+task.ID, aliceToken, ""); code != http.StatusOK {
		t.Errorf("alice delete: code = %d, want 200", code)
	}
}

func TestAdminEndpointsForbiddenForUsers(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "Alice", "alice@example.com", "Valid123")
	token := login(t, s, "alice@example.com", "Valid123")

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin/stats"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodPut, "/api/admin/users/some-id/role"},
		{http.MethodDelete, "/api/admin/users/some-id"},
		{http.MethodGet, "/api/admin/audit"},
	} {
		body := ""
		if tc.method == http.MethodPut {
			body = `{"role":"ADMIN"}`
		}
		code, _ := do(t, s, tc.method, tc.path, token, body)
		if code != http.StatusForbidden {
			t.Errorf("%s %s: code = %d, want 403", tc.method, tc.path, code)
		}
	}
}

func TestUploadUnavailableWithoutUploader(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "Alice", "alice@example.com", "Valid123")
	token := login(t, s, "alice@example.com", "Valid123")

	code, env := do(t, s, http.MethodPost, "/api/upload", token, "")
	if code != http.StatusServiceUnavailable || env.Success {
		t.Errorf("code=%d env=%+v, want 503 failure", code, env)
	}
}

func TestRefreshIssuesNewToken(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "Alice", "alice@example.com", "Valid123")
	token := login(t, s, "alice@example.com", "Valid123")

	code, env := do(t, s, http.MethodPost, "/api/auth/refresh", token, "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("refresh: code=%d env=%+v", code, env)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("refresh returned no token: %s", env.Data)
	}
}
