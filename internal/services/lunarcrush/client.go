package lunarcrush

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"CoinScope/internal/domain/models"
	domsvc "CoinScope/internal/domain/service"
	"CoinScope/internal/service/cache"
	xhttp "CoinScope/pkg/http"
)

// Client fetches social stats from the LunarCrush public API, with a
// short-TTL cache in front so the risk engine does not burn quota on
// repeated lookups.
type Client struct {
	baseURL string
	apiKey  string
	client  *xhttp.Client
	cache   cache.BytesCache
	ttl     time.Duration
}

func New(baseURL, apiKey string, timeout time.Duration, c cache.BytesCache, ttl time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		cache:   c,
		ttl:     ttl,
	}
}

type coinResponse struct {
	Data struct {
		GalaxyScore  float64 `json:"galaxy_score"`
		Sentiment    float64 `json:"sentiment"` // 0..100, percent positive
		SocialVolume float64 `json:"social_volume_24h"`
		Posts24h     float64 `json:"posts_active_24h"`
	} `json:"data"`
}

// Stats returns the social snapshot for a symbol, serving from cache
// when fresh.
func (c *Client) Stats(ctx context.Context, symbol string) (models.SocialStats, error) {
	key := "social:" + strings.ToUpper(symbol)
	if c.cache != nil {
		if b, ok, err := c.cache.GetBytes(key); err == nil && ok {
			var s models.SocialStats
			if json.Unmarshal(b, &s) == nil {
				return s, nil
			}
		}
	}

	var resp coinResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/public/coins/%s/v1", c.baseURL, url.PathEscape(strings.ToUpper(symbol))),
		Headers: map[string]string{
			"Authorization": "Bearer " + c.apiKey,
		},
	}, &resp)
	if err != nil {
		return models.SocialStats{}, fmt.Errorf("lunarcrush %s: %w", symbol, err)
	}

	s := models.SocialStats{
		Symbol:       strings.ToUpper(symbol),
		GalaxyScore:  resp.Data.GalaxyScore,
		Sentiment:    (resp.Data.Sentiment - 50) / 50, // map 0..100 onto -1..1
		SocialVolume: resp.Data.SocialVolume,
		Tweets24h:    resp.Data.Posts24h,
	}

	if c.cache != nil {
		if b, err := json.Marshal(s); err == nil {
			_ = c.cache.SetBytes(key, b, c.ttl)
		}
	}
	return s, nil
}

var _ domsvc.SocialProvider = (*Client)(nil)
