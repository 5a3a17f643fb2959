package testutil

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

// AuthHeaders logs in over HTTP with form credentials and returns the bearer
// Authorization header value for subsequent requests.
func AuthHeaders(t *testing.T, baseURL, email, password string) string {
	t.Helper()

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	resp, err := http.Post(
		baseURL+"/api/v1/login/access-token",
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	if body.AccessToken == "" {
		t.Fatal("empty access token from login")
	}

	return "Bearer " + body.AccessToken
}
