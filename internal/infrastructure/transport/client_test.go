package transport

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	ok    bool
	err   error
}

func (s staticTokens) AccessToken(context.Context) (string, bool, error) { return s.token, s.ok, s.err }

func newTestClient(t *testing.T, h http.HandlerFunc, tokens AccessTokenSource) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", Timeout: time.Second}, tokens, zerolog.Nop()), srv
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}, staticTokens{token: "abc.def.ghi", ok: true})

	var out map[string]string
	require.NoError(t, c.Get(context.Background(), "/health", nil, &out))
	assert.Equal(t, "Bearer abc.def.ghi", gotAuth)
	assert.Equal(t, "ok", out["status"])
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	for name, src := range map[string]AccessTokenSource{
		"nil source":   nil,
		"absent token": staticTokens{},
		"read failure": staticTokens{err: errors.New("storage unavailable")},
	} {
		t.Run(name, func(t *testing.T) {
			called := false
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				called = true
				assert.Empty(t, r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusNoContent)
			}, src)

			require.NoError(t, c.Post(context.Background(), "auth/logout", nil, nil))
			assert.True(t, called)
		})
	}
}

func TestDo_SendsJSONBodyAndQuery(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/loans", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"loan-1"}`))
	}, nil)

	var out struct{ ID string }
	require.NoError(t, c.Post(context.Background(), "/loans", map[string]string{"instanceId": "i-1"}, &out))
	assert.Equal(t, "loan-1", out.ID)

	c2, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "active", r.URL.Query().Get("status"))
		_, _ = w.Write([]byte(`{}`))
	}, nil)
	require.NoError(t, c2.Get(context.Background(), "/loans", url.Values{"status": {"active"}}, nil))
}

func TestDo_HTTPError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
	}, nil)

	err := c.Post(context.Background(), "/auth/login", map[string]string{"email": "x"}, nil)
	require.Error(t, err)

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, string(he.Body))
	assert.Equal(t, "invalid credentials", err.Error())
	assert.Equal(t, "http", Kind(err))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
}

func TestDo_HTTPErrorMessageFallbacks(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/echo" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}, nil)

	err := c.Get(context.Background(), "/echo", nil, nil)
	assert.Equal(t, "Not Found", err.Error())

	err = c.Get(context.Background(), "/proxy", nil, nil)
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Empty(t, he.Message)
	assert.Contains(t, err.Error(), "502")
}

func TestDo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := New(Config{BaseURL: base, Timeout: time.Second}, nil, zerolog.Nop())
	err := c.Get(context.Background(), "/health", nil, nil)

	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "network", Kind(err))
	assert.Zero(t, StatusCode(err))
}

func TestDo_TimeoutIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	c := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil, zerolog.Nop())
	err := c.Get(context.Background(), "/slow", nil, nil)
	assert.Equal(t, "network", Kind(err))
}

func TestDo_SetupErrors(t *testing.T) {
	c := New(Config{BaseURL: "not a url"}, nil, zerolog.Nop())
	err := c.Get(context.Background(), "/health", nil, nil)
	var se *SetupError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "setup", Kind(err))

	ok, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	}, nil)
	err = ok.Post(context.Background(), "/x", map[string]any{"ch": make(chan int)}, nil)
	require.ErrorAs(t, err, &se)
}

func TestDo_DecodeFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}, nil)

	var out map[string]any
	err := c.Get(context.Background(), "/x", nil, &out)
	require.Error(t, err)
	assert.Equal(t, "unknown", Kind(err))
}

func TestNew_DefaultTimeout(t *testing.T) {
	c := New(Config{BaseURL: "http://localhost"}, nil, zerolog.Nop())
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
	assert.Equal(t, "http://localhost", c.baseURL)
}

func TestDo_UniqueRequestIDs(t *testing.T) {
	var ids []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get(HeaderRequestID))
		w.WriteHeader(http.StatusNoContent)
	}, nil)

	require.NoError(t, c.Get(context.Background(), "/health", nil, nil))
	require.NoError(t, c.Get(context.Background(), "/health", nil, nil))
	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.NotEqual(t, ids[0], ids[1])
}

func TestDo_FailureLogsCarryKind(t *testing.T) {
	var logs bytes.Buffer
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL, Timeout: time.Second}, nil, zerolog.New(&logs))

	require.Error(t, c.Get(context.Background(), "/users", nil, nil))
	assert.Contains(t, logs.String(), `"kind":"http"`)

	logs.Reset()
	bad := New(Config{BaseURL: "not a url"}, nil, zerolog.New(&logs))
	require.Error(t, bad.Get(context.Background(), "/users", nil, nil))
	assert.Contains(t, logs.String(), `"kind":"setup"`)
}
