// Package databricks fetches Lakeview (AI/BI) dashboards from a Databricks
// workspace. It registers itself as the "databricks" source on import.
package databricks

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dsa-labs/dashcat/internal/catalog"
	"github.com/dsa-labs/dashcat/internal/source"
)

const (
	pageSize = 100

	// detailConcurrency caps the per-dashboard detail lookups, independently
	// of the outer per-source fan-out.
	detailConcurrency = 10
)

// Dashboards live under the owner's workspace folder, e.g.
// /Users/casey@example.com/Revenue Overview.
var userPathRe = regexp.MustCompile(`/Users/([^/]+@[^/]+)/`)

func init() {
	source.Register("databricks", New)
}

// Adapter is the Databricks Lakeview source.
type Adapter struct {
	client *source.Client
	logger *slog.Logger
	host   string
	token  string
}

// New builds the adapter from credentials; host and token are required.
func New(creds source.Credentials, logger *slog.Logger) (source.Source, bool) {
	if !creds.Has("databricks_host", "databricks_token") {
		return nil, false
	}
	return &Adapter{
		client: source.NewClient(logger.With("source", "databricks")),
		logger: logger.With("source", "databricks"),
		host:   strings.TrimRight(creds.Get("databricks_host"), "/"),
		token:  creds.Get("databricks_token"),
	}, true
}

// Name implements source.Source.
func (a *Adapter) Name() string { return "databricks" }

type lakeviewDashboard struct {
	DashboardID    string `json:"dashboard_id"`
	DisplayName    string `json:"display_name"`
	CreateTime     string `json:"create_time"`
	UpdateTime     string `json:"update_time"`
	LifecycleState string `json:"lifecycle_state"`
	Path           string `json:"path"`
	Owner          string `json:"owner"`
}

type listResponse struct {
	Dashboards    []lakeviewDashboard `json:"dashboards"`
	NextPageToken string              `json:"next_page_token"`
}

// FetchAssets pages through the Lakeview dashboard list, fetches each
// dashboard's detail concurrently to learn its workspace path, and
// normalizes the survivors. Trashed dashboards never reach the catalog.
func (a *Adapter) FetchAssets(ctx context.Context) ([]catalog.Asset, error) {
	dashboards, err := a.listDashboards(ctx)
	if err != nil {
		a.logger.Error("dashboards fetch failed", "error", err)
		return nil, nil
	}

	a.fillPaths(ctx, dashboards)

	assets := make([]catalog.Asset, 0, len(dashboards))
	for _, d := range dashboards {
		if d.LifecycleState == "TRASHED" {
			continue
		}

		dashURL := ""
		if d.DashboardID != "" {
			dashURL = a.host + "/sql/dashboardsv3/" + d.DashboardID
		}

		updated := d.UpdateTime
		if updated == "" {
			updated = d.CreateTime
		}

		assets = append(assets, catalog.Asset{
			Tool:      catalog.ToolDatabricks,
			Name:      d.DisplayName,
			Owner:     ownerFromPath(d.Path, d.Owner),
			UpdatedAt: source.ParseTimestamp(updated),
			URL:       dashURL,
		})
	}
	return assets, nil
}

func (a *Adapter) listDashboards(ctx context.Context) ([]lakeviewDashboard, error) {
	headers := source.BearerHeader(a.token)
	endpoint := a.host + "/api/2.0/lakeview/dashboards"

	var all []lakeviewDashboard
	pageToken := ""
	for {
		params := url.Values{"page_size": {strconv.Itoa(pageSize)}}
		if pageToken != "" {
			params.Set("page_token", pageToken)
		}
		var resp listResponse
		if err := a.client.GetJSON(ctx, endpoint, params, headers, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Dashboards...)
		if resp.NextPageToken == "" {
			return all, nil
		}
		pageToken = resp.NextPageToken
	}
}

// fillPaths resolves each dashboard's workspace path via the detail
// endpoint, with a bounded pool. A failed lookup leaves the listing record
// as is.
func (a *Adapter) fillPaths(ctx context.Context, dashboards []lakeviewDashboard) {
	headers := source.BearerHeader(a.token)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)
	for i := range dashboards {
		if dashboards[i].DashboardID == "" || dashboards[i].Path != "" {
			continue
		}
		i := i
		g.Go(func() error {
			var detail lakeviewDashboard
			endpoint := a.host + "/api/2.0/lakeview/dashboards/" + dashboards[i].DashboardID
			if err := a.client.GetJSON(gctx, endpoint, nil, headers, &detail); err != nil {
				a.logger.Debug("detail lookup failed", "dashboard_id", dashboards[i].DashboardID, "error", err)
				return nil
			}
			// Each goroutine writes a distinct element; no lock needed.
			if detail.Path != "" {
				dashboards[i].Path = detail.Path
			}
			return nil
		})
	}
	_ = g.Wait()
}

// ownerFromPath extracts the owner email from the workspace path, falling
// back to the record's own owner field.
func ownerFromPath(path, fallback string) string {
	if m := userPathRe.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	return fallback
}
