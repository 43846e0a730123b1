package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urlkit/urlkit/cache"
)

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"name":"octocat","id":1}`))
		case "/echo":
			body, _ := io.ReadAll(r.Body)
			w.Header().Set("X-Method", r.Method)
			w.Header().Set("X-Query", r.URL.RawQuery)
			w.Write(body)
		case "/missing":
			http.Error(w, "not found", http.StatusNotFound)
		case "/broken":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/moved":
			http.Redirect(w, r, "/final", http.StatusMovedPermanently)
		case "/final":
			w.Write([]byte("landed"))
		default:
			w.Write([]byte("root"))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGet(t *testing.T) {
	server := echoServer(t)
	api, err := New(server.URL)
	require.NoError(t, err)
	defer api.Session().Close()

	endpoint, err := api.Div("json")
	require.NoError(t, err)

	resp, err := endpoint.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NoError(t, resp.RaiseForStatus())

	var user struct {
		Name string `json:"name"`
		ID   int    `json:"id"`
	}
	require.NoError(t, resp.JSON(&user))
	assert.Equal(t, "octocat", user.Name)
	assert.Equal(t, 1, user.ID)
}

func TestGetSendsURLQuery(t *testing.T) {
	server := echoServer(t)
	api, err := New(server.URL + "/echo?page=2&per_page=50")
	require.NoError(t, err)

	resp, err := api.Get(context.Background())
	require.NoError(t, err)

	query := resp.Header.Get("X-Query")
	assert.Contains(t, query, "page=2")
	assert.Contains(t, query, "per_page=50")
}

func TestVerbs(t *testing.T) {
	server := echoServer(t)
	api, err := New(server.URL)
	require.NoError(t, err)
	endpoint, err := api.Div("echo")
	require.NoError(t, err)

	ctx := context.Background()
	tests := []struct {
		method string
		do     func() (*Response, error)
	}{
		{"POST", func() (*Response, error) { return endpoint.Post(ctx, WithBody("payload")) }},
		{"PUT", func() (*Response, error) { return endpoint.Put(ctx, WithBody("payload")) }},
		{"PATCH", func() (*Response, error) { return endpoint.Patch(ctx, WithBody("payload")) }},
		{"DELETE", func() (*Response, error) { return endpoint.Delete(ctx) }},
		{"OPTIONS", func() (*Response, error) { return endpoint.Options(ctx) }},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			resp, err := tt.do()
			require.NoError(t, err)
			assert.Equal(t, tt.method, resp.Header.Get("X-Method"))
		})
	}

	t.Run("HEAD", func(t *testing.T) {
		resp, err := endpoint.Head(ctx)
		require.NoError(t, err)
		assert.Equal(t, "HEAD", resp.Header.Get("X-Method"))
		assert.Empty(t, resp.Body)
	})

	t.Run("POST echoes body", func(t *testing.T) {
		resp, err := endpoint.Post(ctx, WithBody("hello"))
		require.NoError(t, err)
		assert.Equal(t, "hello", resp.String())
	})
}

func TestStatusErrors(t *testing.T) {
	server := echoServer(t)
	api, err := New(server.URL)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		endpoint, err := api.Div("missing")
		require.NoError(t, err)
		resp, err := endpoint.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		raised := resp.RaiseForStatus()
		var clientErr *ClientError
		require.ErrorAs(t, raised, &clientErr)
		assert.True(t, clientErr.IsNotFound())
		assert.Contains(t, raised.Error(), "client error")
	})

	t.Run("server error", func(t *testing.T) {
		endpoint, err := api.Div("broken")
		require.NoError(t, err)
		resp, err := endpoint.Get(ctx)
		require.NoError(t, err)

		raised := resp.RaiseForStatus()
		var serverErr *ServerError
		require.ErrorAs(t, raised, &serverErr)
		assert.Equal(t, http.StatusInternalServerError, serverErr.Response.StatusCode)
	})
}

func TestAlgebraSharesSession(t *testing.T) {
	server := echoServer(t)
	api, err := New(server.URL)
	require.NoError(t, err)

	child, err := api.Div("a")
	require.NoError(t, err)
	grandchild, err := child.JoinURL("b", "c")
	require.NoError(t, err)

	assert.Same(t, api.Session(), child.Session())
	assert.Same(t, api.Session(), grandchild.Session())
	assert.Same(t, api.Session(), grandchild.Parent().Session())

	renamed, err := grandchild.WithName("d")
	require.NoError(t, err)
	assert.Same(t, api.Session(), renamed.Session())
	assert.Equal(t, "d", renamed.Name())
}

func TestTrailingSlash(t *testing.T) {
	var lastPath atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastPath.Store(r.URL.Path)
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	api, err := NewTrailing(server.URL + "/collection")
	require.NoError(t, err)
	assert.True(t, api.Trailing())

	_, err = api.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/collection/", lastPath.Load())

	t.Run("division keeps trailing behavior", func(t *testing.T) {
		child, err := api.Div("items")
		require.NoError(t, err)
		_, err = child.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "/collection/items/", lastPath.Load())
	})
}

func TestResolve(t *testing.T) {
	server := echoServer(t)
	api, err := New(server.URL)
	require.NoError(t, err)
	moved, err := api.Div("moved")
	require.NoError(t, err)

	resolved, err := moved.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "final", resolved.Name())
	assert.Same(t, api.Session(), resolved.Session())

	t.Run("non-200 does not resolve", func(t *testing.T) {
		missing, err := api.Div("missing")
		require.NoError(t, err)

		_, err = missing.Resolve(context.Background())
		var clientErr *ClientError
		require.ErrorAs(t, err, &clientErr)
		assert.True(t, clientErr.IsNotFound())
	})

	t.Run("server error does not resolve", func(t *testing.T) {
		broken, err := api.Div("broken")
		require.NoError(t, err)

		_, err = broken.Resolve(context.Background())
		var serverErr *ServerError
		assert.ErrorAs(t, err, &serverErr)
	})
}

func TestSessionHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Got-Token", r.Header.Get("Authorization"))
		w.Header().Set("X-Got-Agent", r.Header.Get("User-Agent"))
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	api, err := New(server.URL,
		WithBearerAuth("secret-token"),
		WithUserAgent("urlkit-test/1.0"),
	)
	require.NoError(t, err)

	resp, err := api.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", resp.Header.Get("X-Got-Token"))
	assert.Equal(t, "urlkit-test/1.0", resp.Header.Get("X-Got-Agent"))

	t.Run("per-request header", func(t *testing.T) {
		_, err := api.Get(context.Background(), WithRequestHeader("Accept", "application/json"))
		assert.NoError(t, err)
	})
}

func TestSessionMinInterval(t *testing.T) {
	server := echoServer(t)
	const interval = 60 * time.Millisecond

	api, err := New(server.URL, WithMinInterval(interval))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = api.Get(ctx)
	require.NoError(t, err)

	start := time.Now()
	_, err = api.Get(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), interval-10*time.Millisecond)
}

func TestSessionWithCache(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("cached payload"))
	}))
	defer server.Close()

	c, err := cache.New("client-test", cache.WithDir(t.TempDir()))
	require.NoError(t, err)

	api, err := New(server.URL, WithCache(c))
	require.NoError(t, err)

	ctx := context.Background()
	first, err := api.Get(ctx)
	require.NoError(t, err)
	assert.False(t, first.FromCache())
	assert.Equal(t, "cached payload", first.String())

	second, err := api.Get(ctx)
	require.NoError(t, err)
	assert.True(t, second.FromCache())
	assert.Equal(t, "cached payload", second.String())
	assert.Equal(t, int64(1), hits.Load())
}

func TestBindReusesSession(t *testing.T) {
	session := NewSession(WithTimeout(5 * time.Second))
	server := echoServer(t)

	api, err := New(server.URL)
	require.NoError(t, err)
	bound := Bind(api.URL, session)
	assert.Same(t, session, bound.Session())

	resp, err := bound.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	api, err := New(server.URL, WithRetry(0, 0, 0))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = api.Get(ctx)
	assert.Error(t, err)
}
