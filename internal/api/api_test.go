package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"itemstore/internal/domain"
	"itemstore/internal/testutil"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// recordingMailer captures outgoing password reset emails instead of sending.
type recordingMailer struct {
	recipients []string
	lastToken  string
}

func (m *recordingMailer) SendPasswordReset(to, token string) error {
	m.recipients = append(m.recipients, to)
	m.lastToken = token
	return nil
}

// testEnv bundles a running server with its database and fixtures.
type testEnv struct {
	server  *httptest.Server
	db      *gorm.DB
	factory *testutil.Factory
	mailer  *recordingMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	rdb := testutil.NewTestRedis(t)
	mailer := &recordingMailer{}

	router := NewRouter(db, rdb, mailer, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{
		server:  server,
		db:      db,
		factory: testutil.NewFactory(t, db),
		mailer:  mailer,
	}
}

// superuserHeaders creates a superuser and logs them in.
func (e *testEnv) superuserHeaders(t *testing.T) (*domain.User, string) {
	t.Helper()
	user, password := e.factory.CreateRandomUser(t, testutil.UserOpts{IsSuperuser: testutil.Ptr(true)})
	return user, testutil.AuthHeaders(t, e.server.URL, user.Email, password)
}

// normalUserHeaders creates an active non-superuser and logs them in.
func (e *testEnv) normalUserHeaders(t *testing.T) (*domain.User, string) {
	t.Helper()
	user, password := e.factory.CreateRandomUser(t, testutil.UserOpts{})
	return user, testutil.AuthHeaders(t, e.server.URL, user.Email, password)
}

// doJSON performs a request with an optional bearer header and JSON body,
// returning the status code and decoded body.
func (e *testEnv) doJSON(t *testing.T, method, path, authHeader string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && err != io.EOF {
		t.Fatalf("decoding response body: %v", err)
	}
	return resp.StatusCode, decoded
}
