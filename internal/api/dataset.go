package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"mmr-history/internal/config"
	"mmr-history/internal/domain"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// DatasetClient fetches match history resources from the static data host.
type DatasetClient struct {
	baseURL string
	roster  domain.Roster
	client  *fasthttp.Client
	limiter *rate.Limiter
}

func NewDatasetClient(cfg *config.Config) *DatasetClient {
	limit := rate.Limit(cfg.FetchRateLimit)
	if cfg.FetchRateLimit <= 0 {
		limit = rate.Inf
	}
	return newDatasetClient(cfg.DataBaseURL, cfg.Roster, &fasthttp.Client{
		MaxConnsPerHost:     16,
		ReadTimeout:         10 * time.Second,
		WriteTimeout:        10 * time.Second,
		MaxIdleConnDuration: 1 * time.Minute,
	}, rate.NewLimiter(limit, 1))
}

func newDatasetClient(baseURL string, roster domain.Roster, client *fasthttp.Client, limiter *rate.Limiter) *DatasetClient {
	return &DatasetClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		roster:  roster,
		client:  client,
		limiter: limiter,
	}
}

// FetchDataset downloads and validates the dataset of player. Every failure is
// a *domain.SourceError.
func (c *DatasetClient) FetchDataset(ctx context.Context, player domain.PlayerKey) ([]domain.MatchRecord, error) {
	p, err := c.roster.Lookup(player)
	if err != nil {
		return nil, domain.NewSourceError(player, "lookup", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, domain.NewSourceError(player, "fetch", err)
	}

	body, err := doRequest(ctx, c, c.baseURL+"/"+url.PathEscape(p.Resource))
	if err != nil {
		return nil, domain.NewSourceError(player, "fetch", err)
	}
	return domain.ParseMatchRecords(player, body)
}

func doRequest(ctx context.Context, client *DatasetClient, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
