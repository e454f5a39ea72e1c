package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"hbnb/internal/auth"
	"hbnb/internal/domain/memory"
	"hbnb/internal/domain/storage"
	"hbnb/internal/facade"
	"hbnb/internal/ratelimiter"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)

// newTestApplication wires the API over in-memory storage. The returned func
// moves the facade clock, which starts at testNow.
func newTestApplication(t *testing.T, cfg config) (*application, func(time.Time)) {
	t.Helper()

	var now atomic.Int64
	now.Store(testNow.UnixNano())
	clock := func() time.Time { return time.Unix(0, now.Load()).UTC() }

	logger := zap.NewNop().Sugar()
	f, err := facade.New(storage.NewMemoryContainer(memory.New()), logger, facade.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(f.Wait)

	if cfg.rateLimiter.RequestsPerTimeFrame == 0 {
		cfg.rateLimiter = ratelimiter.Config{RequestsPerTimeFrame: 100, TimeFrame: time.Minute}
	}

	return &application{
		config:        cfg,
		logger:        logger,
		facade:        f,
		authenticator: auth.NewJWTAuthenticator("secret", "refresh-secret", "HBnB", "HBnB", time.Hour, 24*time.Hour),
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(cfg.rateLimiter.RequestsPerTimeFrame, cfg.rateLimiter.TimeFrame),
	}, func(t time.Time) { now.Store(t.UnixNano()) }
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("expected the response code to be %d and we got %d", expected, actual)
	}
}

// call sends body as JSON, authenticated with token when it is not empty.
func call(t *testing.T, mux http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return executeRequest(req, mux)
}

// decode unwraps the {"data": ...} envelope into out.
func decode(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	env := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

type session struct {
	id    string
	token string
}

// signup registers a user through the API and logs them in.
func signup(t *testing.T, mux http.Handler, first, email string) session {
	t.Helper()

	rr := call(t, mux, http.MethodPost, "/v1/authentication/user", "", map[string]string{
		"first_name": first,
		"last_name":  "Tester",
		"email":      email,
		"password":   "password1",
	})
	checkResponseCode(t, http.StatusCreated, rr.Code)

	return login(t, mux, email, "password1")
}

func login(t *testing.T, mux http.Handler, email, password string) session {
	t.Helper()

	rr := call(t, mux, http.MethodPost, "/v1/authentication/token", "", map[string]string{
		"email":    email,
		"password": password,
	})
	checkResponseCode(t, http.StatusOK, rr.Code)

	var tok struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(t, rr, &tok)
	return session{id: tok.User.ID, token: tok.AccessToken}
}

func createPlace(t *testing.T, mux http.Handler, owner session) string {
	t.Helper()

	rr := call(t, mux, http.MethodPost, "/v1/places", owner.token, map[string]any{
		"title":       "Cabin by the lake",
		"description": "Quiet wooden cabin",
		"price":       120,
		"latitude":    46.2,
		"longitude":   6.1,
	})
	checkResponseCode(t, http.StatusCreated, rr.Code)

	var p struct {
		ID string `json:"id"`
	}
	decode(t, rr, &p)
	return p.ID
}

func bookingBody(placeID string, start, end int) map[string]string {
	return map[string]string{
		"place_id":   placeID,
		"start_date": fmt.Sprintf("2025-01-%02d", start),
		"end_date":   fmt.Sprintf("2025-01-%02d", end),
	}
}
