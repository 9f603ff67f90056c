package fetch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"safefetch/internal/domain/entity"
	"safefetch/internal/infra/fetcher"
	"safefetch/internal/infra/reducer"
	fetchuc "safefetch/internal/usecase/fetch"
	"safefetch/pkg/security/netpolicy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><head>
<title> Example Page </title>
<meta name="description" content="An example">
<meta name="keywords" content="go, proxy">
</head><body>
<nav>Menu</nav>
<script>alert(1)</script>
<article><h1>Heading</h1><p>Body text</p></article>
</body></html>`

// newPipeline wires the real validator, fetcher and reducer. The policy
// leaves loopback open so the httptest upstream is reachable.
func newPipeline(t *testing.T, policy *netpolicy.Policy) *http.ServeMux {
	t.Helper()
	cfg := fetcher.DefaultConfig()
	svc := fetchuc.NewService(
		fetcher.NewURLValidator(policy, nil, time.Second),
		fetcher.NewHTTPFetcher(cfg),
		reducer.New(),
		2*time.Second,
		nil,
	)
	mux := http.NewServeMux()
	Register(mux, svc, nil)
	return mux
}

func openPolicy(t *testing.T) *netpolicy.Policy {
	t.Helper()
	p, err := netpolicy.New(netpolicy.DefaultAllowedSchemes, netpolicy.DefaultBlockedPorts, nil)
	require.NoError(t, err)
	return p
}

func TestPipeline_EndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(page))
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	mux := newPipeline(t, openPolicy(t))

	t.Run("text with main content", func(t *testing.T) {
		target := url.QueryEscape(upstream.URL + "/page")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fetch?textOnly=true&extractMainContent=true&url="+target, nil))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got entity.FetchResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

		assert.Equal(t, upstream.URL+"/page", got.URL)
		assert.Equal(t, 200, got.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", got.ContentType)
		assert.Equal(t, "Example Page", got.Title)
		assert.Equal(t, "An example", got.Description)
		assert.Equal(t, []string{"go", "proxy"}, got.Keywords)
		assert.Contains(t, got.Content, "Body text")
		assert.NotContains(t, got.Content, "alert")
		assert.NotContains(t, got.Content, "Menu")
		assert.Equal(t, "Heading\nBody text", got.MainContent)
	})

	t.Run("upstream status is mirrored", func(t *testing.T) {
		target := url.QueryEscape(upstream.URL + "/missing")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fetch?url="+target, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to fetch content: NotFound"}`, rec.Body.String())
	})
}

func TestPipeline_DefaultPolicyBlocksLoopback(t *testing.T) {
	var hits int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer upstream.Close()

	mux := newPipeline(t, netpolicy.Default())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fetch?url="+url.QueryEscape(upstream.URL), nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Access to private/internal networks is not allowed."}`, rec.Body.String())
	assert.Zero(t, hits)
}
