package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnlingo/learnlingo/internal/shared"
)

type stackFixture struct {
	server   *httptest.Server
	client   *http.Client
	sessions *shared.SessionManager
}

func newStackFixture(t *testing.T, mount func(r chi.Router)) *stackFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sessions := shared.NewSessionManager(rdb, "learnlingo_session", time.Hour, false)
	csrf := shared.NewCSRFManager("csrf-secret")

	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:         &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second},
		SessionManager: sessions,
		CSRFManager:    csrf,
	}) {
		r.Use(mw)
	}
	r.Get("/token", func(w http.ResponseWriter, r *http.Request) {
		token, err := csrf.EnsureToken(shared.SessionFromContext(r.Context()))
		require.NoError(t, err)
		_, _ = io.WriteString(w, token)
	})
	mount(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar := newJar(t)
	return &stackFixture{
		server:   server,
		client:   &http.Client{Jar: jar},
		sessions: sessions,
	}
}

func (f *stackFixture) token(t *testing.T) string {
	t.Helper()
	resp, err := f.client.Get(f.server.URL + "/token")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return string(body)
}

func TestSessionPersistsAcrossRequests(t *testing.T) {
	f := newStackFixture(t, func(r chi.Router) {
		r.Get("/set", func(w http.ResponseWriter, r *http.Request) {
			shared.SessionFromContext(r.Context()).Set("greeting", "hello")
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/get", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, shared.SessionFromContext(r.Context()).Get("greeting"))
		})
	})

	resp, err := f.client.Get(f.server.URL + "/set")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = f.client.Get(f.server.URL + "/get")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "hello", string(body))
}

func TestCSRFRejectsPostWithoutToken(t *testing.T) {
	f := newStackFixture(t, func(r chi.Router) {
		r.Post("/mutate", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	f.token(t)

	resp, err := f.client.PostForm(f.server.URL+"/mutate", url.Values{})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = f.client.PostForm(f.server.URL+"/mutate", url.Values{shared.CSRFFormField: {"forged"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCSRFAcceptsFormFieldAndHeader(t *testing.T) {
	f := newStackFixture(t, func(r chi.Router) {
		r.Post("/mutate", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	token := f.token(t)

	resp, err := f.client.PostForm(f.server.URL+"/mutate", url.Values{shared.CSRFFormField: {token}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/mutate", strings.NewReader(""))
	require.NoError(t, err)
	req.Header.Set(shared.CSRFHeader, token)
	resp, err = f.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCSRFSkipsBearerRequests(t *testing.T) {
	f := newStackFixture(t, func(r chi.Router) {
		r.Post("/auth/session", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/auth/session", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSecureHeadersApplied(t *testing.T) {
	f := newStackFixture(t, func(chi.Router) {})

	resp, err := f.client.Get(f.server.URL + "/token")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}
