package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meridianlab/marketgate/gate"
)

// Endpoint paths on the market-data provider.
const (
	endpointCollections = "/v1/collections"
	endpointTokens      = "/v1/tokens"
	endpointBids        = "/v1/bids"
	endpointActivity    = "/v1/activity"
	endpointSocial      = "/v1/social"
)

// Per-endpoint cache TTLs. Orderbook and activity data churns fast,
// collection metadata barely moves.
const (
	collectionsTTL = 5 * time.Minute
	tokensTTL      = 2 * time.Minute
	bidsTTL        = 15 * time.Second
	activityTTL    = 30 * time.Second
	socialTTL      = 10 * time.Minute
)

// Service provides typed access to one registered market-data dependency.
type Service struct {
	gateway    *gate.Gateway
	dependency string
}

// NewService wraps a registered gateway dependency.
func NewService(gateway *gate.Gateway, dependency string) *Service {
	return &Service{gateway: gateway, dependency: dependency}
}

// Collections returns metadata for the collections matching params.
func (s *Service) Collections(ctx context.Context, params map[string]string) ([]Collection, error) {
	var out []Collection
	if err := s.fetch(ctx, endpointCollections, params, collectionsTTL, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tokens returns tokens within a collection.
func (s *Service) Tokens(ctx context.Context, params map[string]string) ([]Token, error) {
	var out []Token
	if err := s.fetch(ctx, endpointTokens, params, tokensTTL, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Bids returns the current orderbook bids.
func (s *Service) Bids(ctx context.Context, params map[string]string) ([]Bid, error) {
	var out []Bid
	if err := s.fetch(ctx, endpointBids, params, bidsTTL, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Activity returns recent trade and listing events.
func (s *Service) Activity(ctx context.Context, params map[string]string) ([]Activity, error) {
	var out []Activity
	if err := s.fetch(ctx, endpointActivity, params, activityTTL, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SocialSignals returns engagement metrics for a collection.
func (s *Service) SocialSignals(ctx context.Context, params map[string]string) ([]SocialSignal, error) {
	var out []SocialSignal
	if err := s.fetch(ctx, endpointSocial, params, socialTTL, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RefreshCollections busts the cached collections entry for params.
func (s *Service) RefreshCollections(params map[string]string) bool {
	return s.gateway.Invalidate(s.dependency, endpointCollections, params)
}

// fetch runs one request through the gateway and decodes the payload.
func (s *Service) fetch(ctx context.Context, endpoint string, params map[string]string, ttl time.Duration, out interface{}) error {
	payload, err := s.gateway.Request(ctx, s.dependency, endpoint, params, &gate.CacheOptions{
		Enabled: true,
		TTL:     ttl,
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("market: decode %s response: %w", endpoint, err)
	}
	return nil
}
