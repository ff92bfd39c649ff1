package poolfeed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/swap-engine/internal/domain"
)

// maxFeedBytes bounds the liquidity JSON body.
const maxFeedBytes = 256 << 20

// Client fetches the liquidity pool list. The feed is either a bare array or
// an object with official and unOfficial arrays.
type Client struct {
	URL             string
	Http            *http.Client
	IncludeUnlisted bool
}

type feedDocument struct {
	Official   []domain.LiquidityPool `json:"official"`
	UnOfficial []domain.LiquidityPool `json:"unOfficial"`
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		URL:             url,
		Http:            &http.Client{Timeout: timeout},
		IncludeUnlisted: true,
	}
}

func (c *Client) FetchPools(ctx context.Context) ([]domain.LiquidityPool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pool feed status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read pool feed: %w", err)
	}
	return Decode(body, c.IncludeUnlisted)
}

// Decode parses a feed body, keeping the first occurrence of each pool id.
func Decode(body []byte, includeUnlisted bool) ([]domain.LiquidityPool, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []domain.LiquidityPool{}, nil
	}

	var pools []domain.LiquidityPool
	if body[0] == '[' {
		if err := sonic.Unmarshal(body, &pools); err != nil {
			return nil, fmt.Errorf("decode pool list: %w", err)
		}
	} else {
		var doc feedDocument
		if err := sonic.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("decode pool list: %w", err)
		}
		pools = doc.Official
		if includeUnlisted {
			pools = append(pools, doc.UnOfficial...)
		}
	}

	seen := make(map[solana.PublicKey]struct{}, len(pools))
	out := make([]domain.LiquidityPool, 0, len(pools))
	for _, p := range pools {
		if p.ID.IsZero() || p.BaseMint.IsZero() || p.QuoteMint.IsZero() {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	if dropped := len(pools) - len(out); dropped > 0 {
		log.Debug().Int("dropped", dropped).Msg("[PoolFeed] dropped duplicate or incomplete pools")
	}
	return out, nil
}
