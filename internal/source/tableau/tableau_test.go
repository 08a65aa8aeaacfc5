package tableau

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsa-labs/dashcat/internal/catalog"
	"github.com/dsa-labs/dashcat/internal/source"
	"github.com/dsa-labs/dashcat/internal/testutil"
)

func testAdapter(t *testing.T, serverURL string) *Adapter {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	return &Adapter{
		client:     source.NewClient(logger, source.WithRateLimit(1000, 100)),
		logger:     logger,
		serverURL:  serverURL,
		siteID:     "analytics",
		tokenName:  "ci",
		tokenValue: "secret",
	}
}

func tableauServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/3.21/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		creds := req["credentials"].(map[string]any)
		assert.Equal(t, "ci", creds["personalAccessTokenName"])

		_, _ = fmt.Fprint(w, `{"credentials": {"token": "tok-1", "site": {"id": "site-luid"}}}`)
	})

	mux.HandleFunc("/api/3.21/auth/signout", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-1", r.Header.Get("X-Tableau-Auth"))
	})

	mux.HandleFunc("/api/3.21/sites/site-luid/workbooks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-1", r.Header.Get("X-Tableau-Auth"))
		switch r.URL.Query().Get("pageNumber") {
		case "1":
			// Tableau reports pagination counters as strings.
			_, _ = fmt.Fprint(w, `{
				"pagination": {"pageNumber": "1", "pageSize": "100", "totalAvailable": "3"},
				"workbooks": {"workbook": [
					{"name": "Revenue", "webpageUrl": "https://tab/r", "updatedAt": "2025-06-01T10:00:00Z",
					 "project": {"name": "Finance"}, "owner": {"id": "u1", "name": "Jordan Smith"}},
					{"name": "Yield", "webpageUrl": "https://tab/y", "updatedAt": "not-a-time",
					 "project": {"name": "AdOps Tools"}, "owner": {"id": "u2", "name": "Casey Lee"}}
				]}
			}`)
		case "2":
			_, _ = fmt.Fprint(w, `{
				"pagination": {"pageNumber": "2", "pageSize": "100", "totalAvailable": "3"},
				"workbooks": {"workbook": [
					{"name": "Churn", "webpageUrl": "https://tab/c", "owner": {"id": "u1", "name": "Jordan Smith"}}
				]}
			}`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("pageNumber"))
		}
	})

	mux.HandleFunc("/api/3.21/sites/site-luid/users/u1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"user": {"email": "jsmith@example.com", "name": "Jordan Smith"}}`)
	})
	mux.HandleFunc("/api/3.21/sites/site-luid/users/u2", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	return httptest.NewServer(mux)
}

func TestFetchAssets(t *testing.T) {
	srv := tableauServer(t)
	defer srv.Close()

	// The listing endpoint serves pageSize=100 regardless of the requested
	// size, so two pages cover the stated total of 3.
	assets, err := testAdapter(t, srv.URL).FetchAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 3)

	rev := assets[0]
	assert.Equal(t, catalog.ToolTableau, rev.Tool)
	assert.Equal(t, "Revenue", rev.Name)
	assert.Equal(t, "jsmith@example.com", rev.Owner, "email preferred over owner name")
	assert.Equal(t, "Finance", rev.Project)
	require.NotNil(t, rev.UpdatedAt)
	assert.Equal(t, "https://tab/r", rev.URL)

	// Failed user lookup falls back to the workbook's owner name;
	// a malformed timestamp stays unset.
	yield := assets[1]
	assert.Equal(t, "Casey Lee", yield.Owner)
	assert.Nil(t, yield.UpdatedAt)

	assert.Equal(t, "Churn", assets[2].Name)
}

func TestFetchAssetsAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	assets, err := testAdapter(t, srv.URL).FetchAssets(context.Background())
	assert.NoError(t, err, "auth failure degrades, it does not propagate")
	assert.Empty(t, assets)
}

func TestNewRequiresAllCredentials(t *testing.T) {
	logger := testutil.NewTestLogger(t)

	_, ok := New(source.Credentials{
		"tableau_server_url": "https://tab.example.com",
		"tableau_site_id":    "analytics",
		"tableau_token_name": "ci",
	}, logger)
	assert.False(t, ok, "missing token value disables the source")

	src, ok := New(source.Credentials{
		"tableau_server_url":  "https://tab.example.com/",
		"tableau_site_id":     "analytics",
		"tableau_token_name":  "ci",
		"tableau_token_value": "secret",
	}, logger)
	require.True(t, ok)
	assert.Equal(t, "tableau", src.Name())
}
