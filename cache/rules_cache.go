// Package cache holds a small read-through Redis cache for the active
// pricing-rule sets the calculate endpoint hits on every request.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freightflowhq/freightflowbackend/models"
)

const rulesTTL = 60 * time.Second

// RulesCache caches active rule sets keyed by shipment service type. A nil
// *RulesCache (Redis not configured) is a valid no-op cache.
type RulesCache struct {
	client *redis.Client
}

// NewRulesCacheFromEnv returns nil when REDIS_ADDR is unset.
func NewRulesCacheFromEnv() *RulesCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	return &RulesCache{client: client}
}

func key(serviceType models.ServiceType) string {
	return fmt.Sprintf("pricing:rules:active:%s", serviceType)
}

// Get returns the cached rule set, or ok=false on miss, decode failure or
// when caching is disabled.
func (rc *RulesCache) Get(ctx context.Context, serviceType models.ServiceType) ([]models.PricingRule, bool) {
	if rc == nil {
		return nil, false
	}
	raw, err := rc.client.Get(ctx, key(serviceType)).Bytes()
	if err != nil {
		return nil, false
	}
	var rules []models.PricingRule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, false
	}
	return rules, true
}

// Set stores a rule set best-effort; failures only log.
func (rc *RulesCache) Set(ctx context.Context, serviceType models.ServiceType, rules []models.PricingRule) {
	if rc == nil {
		return
	}
	raw, err := json.Marshal(rules)
	if err != nil {
		return
	}
	if err := rc.client.Set(ctx, key(serviceType), raw, rulesTTL).Err(); err != nil {
		log.Printf("rules cache set failed: %v", err)
	}
}

// Invalidate drops every service type's cached set. Called on any rule write;
// a rule scoped "all" affects every set, so scoped invalidation isn't worth
// the bookkeeping.
func (rc *RulesCache) Invalidate(ctx context.Context) {
	if rc == nil {
		return
	}
	keys := []string{
		key(models.ServiceTypeOcean),
		key(models.ServiceTypeAir),
		key(models.ServiceTypeGround),
	}
	if err := rc.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("rules cache invalidate failed: %v", err)
	}
}
