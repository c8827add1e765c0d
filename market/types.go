package market

import "time"

// Collection is provider-reported metadata for one collection.
type Collection struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	FloorPrice  float64 `json:"floor_price"`
	Volume24h   float64 `json:"volume_24h"`
	OwnerCount  int     `json:"owner_count"`
	TokenCount  int     `json:"token_count"`
}

// Token is one item within a collection.
type Token struct {
	CollectionID string            `json:"collection_id"`
	TokenID      string            `json:"token_id"`
	Name         string            `json:"name,omitempty"`
	Owner        string            `json:"owner,omitempty"`
	LastPrice    float64           `json:"last_price"`
	Rarity       float64           `json:"rarity,omitempty"`
	Traits       map[string]string `json:"traits,omitempty"`
}

// Bid is one side of the orderbook for a collection or token.
type Bid struct {
	CollectionID string    `json:"collection_id"`
	TokenID      string    `json:"token_id,omitempty"`
	Price        float64   `json:"price"`
	Quantity     int       `json:"quantity"`
	Maker        string    `json:"maker"`
	ValidUntil   time.Time `json:"valid_until"`
}

// Activity is one trade or listing event.
type Activity struct {
	CollectionID string    `json:"collection_id"`
	TokenID      string    `json:"token_id,omitempty"`
	Type         string    `json:"type"`
	Price        float64   `json:"price,omitempty"`
	From         string    `json:"from,omitempty"`
	To           string    `json:"to,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// SocialSignal is an engagement metric reported by a social provider.
type SocialSignal struct {
	CollectionID string    `json:"collection_id"`
	Platform     string    `json:"platform"`
	Metric       string    `json:"metric"`
	Value        float64   `json:"value"`
	ObservedAt   time.Time `json:"observed_at"`
}
