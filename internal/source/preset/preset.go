// Package preset fetches dashboards from a Preset (managed Superset)
// workspace. It registers itself as the "preset" source on import.
package preset

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/dsa-labs/dashcat/internal/catalog"
	"github.com/dsa-labs/dashcat/internal/source"
)

// API keys authenticate against the Preset Manager API, not the workspace
// itself.
const defaultAuthURL = "https://api.app.preset.io/v1/auth/"

const pageSize = 100

func init() {
	source.Register("preset", New)
}

// Adapter is the Preset source.
type Adapter struct {
	client       *source.Client
	logger       *slog.Logger
	authURL      string
	apiKey       string
	apiSecret    string
	workspaceURL string
}

// New builds the adapter from credentials; key, secret, and workspace URL
// are all required.
func New(creds source.Credentials, logger *slog.Logger) (source.Source, bool) {
	if !creds.Has("preset_api_key", "preset_api_secret", "preset_workspace_url") {
		return nil, false
	}
	return &Adapter{
		client:       source.NewClient(logger.With("source", "preset")),
		logger:       logger.With("source", "preset"),
		authURL:      defaultAuthURL,
		apiKey:       creds.Get("preset_api_key"),
		apiSecret:    creds.Get("preset_api_secret"),
		workspaceURL: strings.TrimRight(creds.Get("preset_workspace_url"), "/"),
	}, true
}

// Name implements source.Source.
func (a *Adapter) Name() string { return "preset" }

type authResponse struct {
	Payload struct {
		Token string `json:"token"`
	} `json:"payload"`
}

type dashboardOwner struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type dashboard struct {
	Title        string           `json:"dashboard_title"`
	URL          string           `json:"url"`
	ChangedOnUTC string           `json:"changed_on_utc"`
	ChangedOn    string           `json:"changed_on"`
	Published    *bool            `json:"published"`
	Owners       []dashboardOwner `json:"owners"`
}

type dashboardsResponse struct {
	Result []dashboard `json:"result"`
	Count  int         `json:"count"`
}

// FetchAssets authenticates and pages through the workspace's dashboard
// list. Failures degrade to an empty result.
func (a *Adapter) FetchAssets(ctx context.Context) ([]catalog.Asset, error) {
	token, err := a.login(ctx)
	if err != nil {
		a.logger.Error("auth failed", "error", err)
		return nil, nil
	}

	dashboards, err := a.listDashboards(ctx, token)
	if err != nil {
		a.logger.Error("dashboards fetch failed", "error", err)
		return nil, nil
	}

	assets := make([]catalog.Asset, 0, len(dashboards))
	for _, d := range dashboards {
		updated := d.ChangedOnUTC
		if updated == "" {
			updated = d.ChangedOn
		}
		assets = append(assets, catalog.Asset{
			Tool:      catalog.ToolPreset,
			Name:      d.Title,
			Owner:     ownerIdentifier(d.Owners),
			UpdatedAt: source.ParseTimestamp(updated),
			URL:       a.fullURL(d.URL),
			Published: d.Published,
		})
	}
	return assets, nil
}

func (a *Adapter) login(ctx context.Context) (string, error) {
	var resp authResponse
	body := map[string]string{"name": a.apiKey, "secret": a.apiSecret}
	if err := a.client.PostJSON(ctx, a.authURL, body, nil, &resp); err != nil {
		return "", err
	}
	if resp.Payload.Token == "" {
		return "", fmt.Errorf("auth response missing token")
	}
	return resp.Payload.Token, nil
}

// listDashboards pages with Superset's Rison-style query parameter until
// the stated count is reached or a page comes back empty.
func (a *Adapter) listDashboards(ctx context.Context, token string) ([]dashboard, error) {
	headers := source.BearerHeader(token)
	endpoint := a.workspaceURL + "/api/v1/dashboard/"

	var all []dashboard
	for page := 0; ; page++ {
		params := url.Values{
			"q": {fmt.Sprintf("(page:%d,page_size:%d)", page, pageSize)},
		}
		var resp dashboardsResponse
		if err := a.client.GetJSON(ctx, endpoint, params, headers, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Result...)
		if len(all) >= resp.Count || len(resp.Result) == 0 {
			return all, nil
		}
	}
}

// ownerIdentifier normalizes the first listed owner: email when present,
// else a "First Last" string, else the username.
func ownerIdentifier(owners []dashboardOwner) string {
	if len(owners) == 0 {
		return ""
	}
	o := owners[0]
	if o.Email != "" {
		return o.Email
	}
	if name := strings.TrimSpace(o.FirstName + " " + o.LastName); name != "" {
		return name
	}
	return o.Username
}

// fullURL joins Preset's relative dashboard paths to the workspace URL.
func (a *Adapter) fullURL(raw string) string {
	if strings.HasPrefix(raw, "/") {
		return a.workspaceURL + raw
	}
	return raw
}
