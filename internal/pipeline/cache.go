package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// PredictionCache is an optional read-through cache for classification
// results. Predictions are deterministic for a fixed artifact set, so
// caching is purely a latency optimization; the key carries the model
// version so artifact rollouts never serve stale segments.
type PredictionCache struct {
	client       *redis.Client
	ttl          time.Duration
	modelVersion string
}

// NewPredictionCache wraps a redis client. A nil client disables caching;
// every method is nil-receiver safe.
func NewPredictionCache(client *redis.Client, ttl time.Duration, modelVersion string) *PredictionCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PredictionCache{client: client, ttl: ttl, modelVersion: modelVersion}
}

func (c *PredictionCache) key(customerID string) string {
	return fmt.Sprintf("classify:%s:%s", c.modelVersion, customerID)
}

// Get returns a cached prediction if present. Cache failures degrade to a
// miss; the classifier is the source of truth.
func (c *PredictionCache) Get(ctx context.Context, customerID string) (*Prediction, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, c.key(customerID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("PredictionCache: get %s: %v", customerID, err)
		}
		return nil, false
	}
	var pred Prediction
	if err := json.Unmarshal(data, &pred); err != nil {
		log.Printf("PredictionCache: corrupt entry for %s: %v", customerID, err)
		return nil, false
	}
	return &pred, true
}

// Set stores a prediction. Failures are logged and ignored.
func (c *PredictionCache) Set(ctx context.Context, pred *Prediction) {
	if c == nil {
		return
	}
	data, err := json.Marshal(pred)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(pred.CustomerID), data, c.ttl).Err(); err != nil {
		log.Printf("PredictionCache: set %s: %v", pred.CustomerID, err)
	}
}
