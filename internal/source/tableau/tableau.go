// Package tableau fetches workbooks from Tableau Cloud using a personal
// access token. It registers itself as the "tableau" source on import.
package tableau

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dsa-labs/dashcat/internal/catalog"
	"github.com/dsa-labs/dashcat/internal/source"
)

const (
	apiVersion = "3.21"
	pageSize   = 100

	// userLookupConcurrency caps the secondary owner-email lookups,
	// independently of the outer per-source fan-out.
	userLookupConcurrency = 8
)

func init() {
	source.Register("tableau", New)
}

// Adapter is the Tableau Cloud source.
type Adapter struct {
	client     *source.Client
	logger     *slog.Logger
	serverURL  string
	siteID     string
	tokenName  string
	tokenValue string
}

// New builds the adapter from credentials. All four Tableau credentials are
// required; with any of them absent the source is not configured.
func New(creds source.Credentials, logger *slog.Logger) (source.Source, bool) {
	if !creds.Has("tableau_server_url", "tableau_site_id", "tableau_token_name", "tableau_token_value") {
		return nil, false
	}
	return &Adapter{
		client:     source.NewClient(logger.With("source", "tableau")),
		logger:     logger.With("source", "tableau"),
		serverURL:  strings.TrimRight(creds.Get("tableau_server_url"), "/"),
		siteID:     creds.Get("tableau_site_id"),
		tokenName:  creds.Get("tableau_token_name"),
		tokenValue: creds.Get("tableau_token_value"),
	}, true
}

// Name implements source.Source.
func (a *Adapter) Name() string { return "tableau" }

type signinResponse struct {
	Credentials struct {
		Token string `json:"token"`
		Site  struct {
			ID string `json:"id"`
		} `json:"site"`
	} `json:"credentials"`
}

// workbook is the raw Tableau record. Pagination counters come back as
// strings in Tableau's JSON.
type workbook struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WebpageURL  string `json:"webpageUrl"`
	UpdatedAt   string `json:"updatedAt"`
	Project     struct {
		Name string `json:"name"`
	} `json:"project"`
	Owner struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"owner"`
}

type workbooksResponse struct {
	Pagination struct {
		TotalAvailable string `json:"totalAvailable"`
	} `json:"pagination"`
	Workbooks struct {
		Workbook []workbook `json:"workbook"`
	} `json:"workbooks"`
}

type userResponse struct {
	User struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
}

// FetchAssets signs in, pages through all workbooks, resolves owner emails,
// and signs out. Failures degrade to an empty or partial result.
func (a *Adapter) FetchAssets(ctx context.Context) ([]catalog.Asset, error) {
	token, siteLUID, err := a.signin(ctx)
	if err != nil {
		a.logger.Error("auth failed", "error", err)
		return nil, nil
	}
	defer a.signout(ctx, token)

	base := fmt.Sprintf("%s/api/%s/sites/%s", a.serverURL, apiVersion, siteLUID)
	headers := http.Header{}
	headers.Set("X-Tableau-Auth", token)

	workbooks, err := a.listWorkbooks(ctx, base, headers)
	if err != nil {
		a.logger.Error("workbooks fetch failed", "error", err)
		return nil, nil
	}

	emails := a.resolveOwnerEmails(ctx, base, headers, workbooks)

	assets := make([]catalog.Asset, 0, len(workbooks))
	for _, wb := range workbooks {
		owner := emails[wb.Owner.ID]
		if owner == "" {
			owner = wb.Owner.Name
		}
		assets = append(assets, catalog.Asset{
			Tool:        catalog.ToolTableau,
			Name:        wb.Name,
			Description: wb.Description,
			Owner:       owner,
			UpdatedAt:   source.ParseTimestamp(wb.UpdatedAt),
			URL:         wb.WebpageURL,
			Project:     wb.Project.Name,
		})
	}
	return assets, nil
}

func (a *Adapter) signin(ctx context.Context) (token, siteLUID string, err error) {
	payload := map[string]any{
		"credentials": map[string]any{
			"personalAccessTokenName":   a.tokenName,
			"personalAccessTokenSecret": a.tokenValue,
			"site":                      map[string]string{"contentUrl": a.siteID},
		},
	}
	var resp signinResponse
	url := fmt.Sprintf("%s/api/%s/auth/signin", a.serverURL, apiVersion)
	if err := a.client.PostJSON(ctx, url, payload, nil, &resp); err != nil {
		return "", "", err
	}
	if resp.Credentials.Token == "" || resp.Credentials.Site.ID == "" {
		return "", "", fmt.Errorf("signin response missing token or site id")
	}
	return resp.Credentials.Token, resp.Credentials.Site.ID, nil
}

func (a *Adapter) signout(ctx context.Context, token string) {
	headers := http.Header{}
	headers.Set("X-Tableau-Auth", token)
	url := fmt.Sprintf("%s/api/%s/auth/signout", a.serverURL, apiVersion)
	if err := a.client.PostJSON(ctx, url, nil, headers, nil); err != nil {
		a.logger.Debug("signout failed", "error", err)
	}
}

// listWorkbooks pages through the workbooks endpoint until the stated total
// is reached or a page comes back empty.
func (a *Adapter) listWorkbooks(ctx context.Context, base string, headers http.Header) ([]workbook, error) {
	var all []workbook
	for page := 1; ; page++ {
		params := url.Values{
			"pageSize":   {strconv.Itoa(pageSize)},
			"pageNumber": {strconv.Itoa(page)},
		}
		var resp workbooksResponse
		if err := a.client.GetJSON(ctx, base+"/workbooks", params, headers, &resp); err != nil {
			return nil, err
		}

		items := resp.Workbooks.Workbook
		all = append(all, items...)

		total, _ := strconv.Atoi(resp.Pagination.TotalAvailable)
		if len(all) >= total || len(items) == 0 {
			return all, nil
		}
	}
}

// resolveOwnerEmails looks up each distinct owner ID to prefer the email
// form of the identifier. Lookups run concurrently with a bounded pool and
// degrade to the workbook's own owner name on failure.
func (a *Adapter) resolveOwnerEmails(ctx context.Context, base string, headers http.Header, workbooks []workbook) map[string]string {
	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, wb := range workbooks {
		if wb.Owner.ID != "" && !seen[wb.Owner.ID] {
			seen[wb.Owner.ID] = true
			ids = append(ids, wb.Owner.ID)
		}
	}

	var mu sync.Mutex
	emails := make(map[string]string, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(userLookupConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			var resp userResponse
			if err := a.client.GetJSON(gctx, base+"/users/"+id, nil, headers, &resp); err != nil {
				a.logger.Debug("user lookup failed", "user_id", id, "error", err)
				return nil
			}
			if resp.User.Email != "" {
				mu.Lock()
				emails[id] = resp.User.Email
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return emails
}
