package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/config"
)

// facilityTypeResidential restricts the listing to residential developments.
const facilityTypeResidential = "6"

// Client is the developer catalog API.
type Client interface {
	ListFacilities(ctx context.Context, page, perPage int) (FacilityPage, error)
	FacilityDetails(ctx context.Context, facilityID string) (*FacilityDetails, error)
	Clusters(ctx context.Context, facilityID string) ([]Cluster, error)
	Lots(ctx context.Context, clusterID string) ([]Lot, error)
}

// HTTPClient talks to the catalog over HTTP with a bearer token.
// Requests answered with 429 or a 5xx status are retried with exponential backoff.
type HTTPClient struct {
	httpClient *http.Client
	token      string
	baseURL    string
	baseURLV1  string

	initialBackoff time.Duration
	maxBackoff     time.Duration
	maxAttempts    int
}

// NewHTTPClient creates a catalog client from configuration.
func NewHTTPClient(cfg config.CatalogConfig) *HTTPClient {
	return &HTTPClient{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		token:          cfg.Token,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		baseURLV1:      strings.TrimRight(cfg.BaseURLV1, "/"),
		initialBackoff: 2 * time.Second,
		maxBackoff:     30 * time.Second,
		maxAttempts:    5,
	}
}

// ListFacilities returns one page of residential facilities and the total the API reports.
func (c *HTTPClient) ListFacilities(ctx context.Context, page, perPage int) (FacilityPage, error) {
	q := url.Values{}
	q.Set("types", facilityTypeResidential)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var resp facilitiesResponse
	if err := c.get(ctx, c.baseURL+"/facilities?"+q.Encode(), &resp); err != nil {
		return FacilityPage{}, fmt.Errorf("failed to list facilities page %d: %w", page, err)
	}

	return FacilityPage{
		Facilities: resp.Data.FacilityPosts,
		Total:      resp.Data.Meta.Total,
	}, nil
}

// FacilityDetails returns the detail record of a facility.
func (c *HTTPClient) FacilityDetails(ctx context.Context, facilityID string) (*FacilityDetails, error) {
	var resp facilityDetailsResponse
	if err := c.get(ctx, c.baseURLV1+"/facilities/"+url.PathEscape(facilityID), &resp); err != nil {
		return nil, fmt.Errorf("failed to get facility %s: %w", facilityID, err)
	}
	if resp.Data.Facility == nil {
		return nil, apperrors.ErrFacilityNotFound
	}
	return resp.Data.Facility, nil
}

// Clusters returns the buildings of a facility.
func (c *HTTPClient) Clusters(ctx context.Context, facilityID string) ([]Cluster, error) {
	q := url.Values{}
	q.Set("facility_id", facilityID)

	var resp clustersResponse
	if err := c.get(ctx, c.baseURLV1+"/clusters?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get clusters of facility %s: %w", facilityID, err)
	}
	return resp.Data.Clusters, nil
}

// Lots returns the units of a cluster.
func (c *HTTPClient) Lots(ctx context.Context, clusterID string) ([]Lot, error) {
	q := url.Values{}
	q.Set("cluster_id", clusterID)

	var resp lotsResponse
	if err := c.get(ctx, c.baseURLV1+"/lots?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get lots of cluster %s: %w", clusterID, err)
	}
	return resp.Data.Lots, nil
}

// get performs a GET request and decodes the JSON body into out, retrying throttled
// and failed requests until maxAttempts is reached or ctx is done.
func (c *HTTPClient) get(ctx context.Context, rawURL string, out any) error {
	backoff := c.initialBackoff
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > c.maxBackoff {
				backoff = c.maxBackoff
			}
		}

		retry, err := c.do(ctx, rawURL, out)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
		log.Printf("[catalog] attempt %d for %s failed: %v", attempt+1, redactURL(rawURL), err)
	}

	return fmt.Errorf("%w: %v", apperrors.ErrCatalogUnavailable, lastErr)
}

// do executes one request. The bool reports whether the failure is worth retrying.
func (c *HTTPClient) do(ctx context.Context, rawURL string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return true, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return false, apperrors.ErrFacilityNotFound
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("%w: status %d", apperrors.ErrCatalogUnavailable, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return false, nil
}

func redactURL(rawURL string) string {
	path, _, _ := strings.Cut(rawURL, "?")
	return path
}
