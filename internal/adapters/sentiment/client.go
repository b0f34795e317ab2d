package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"smarttravel/internal/adapters/observability"
	"smarttravel/internal/domain"
)

// Client calls a hosted binary sentiment model that takes {"inputs": text}
// and answers with label/score pairs.
type Client struct {
	url string
	key string
	hc  *http.Client
	rl  *rate.Limiter
}

func New(url, key string, rps int) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("sentiment endpoint URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		url: url,
		key: key,
		hc:  &http.Client{Timeout: 20 * time.Second},
		rl:  rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

var labelAliases = map[string]domain.SentimentLabel{
	"POSITIVE": domain.Positive,
	"POS":      domain.Positive,
	"LABEL_1":  domain.Positive,
	"NEGATIVE": domain.Negative,
	"NEG":      domain.Negative,
	"LABEL_0":  domain.Negative,
}

// Classify returns the highest scoring label.
func (c *Client) Classify(ctx context.Context, text string) (domain.SentimentLabel, float64, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", 0, err
	}
	body, _ := json.Marshal(map[string]string{"inputs": text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("sentiment", "classify", 0, time.Since(start))
		return "", 0, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("sentiment", "classify", resp.StatusCode, time.Since(start))

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("%w: bad status %d: %s", domain.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	scores, err := decodeScores(raw)
	if err != nil {
		return "", 0, err
	}
	best, ok := pickBest(scores)
	if !ok {
		return "", 0, fmt.Errorf("%w: no usable label in response", domain.ErrUpstream)
	}
	return labelAliases[strings.ToUpper(best.Label)], best.Score, nil
}

// decodeScores accepts both the nested [[...]] and flat [...] shapes.
func decodeScores(raw []byte) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		return nested[0], nil
	}
	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("%w: decode classification: %v", domain.ErrUpstream, err)
	}
	return flat, nil
}

func pickBest(scores []labelScore) (labelScore, bool) {
	var best labelScore
	found := false
	for _, s := range scores {
		if _, ok := labelAliases[strings.ToUpper(s.Label)]; !ok {
			continue
		}
		if !found || s.Score > best.Score {
			best, found = s, true
		}
	}
	return best, found
}
