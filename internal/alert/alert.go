// Package alert publishes low-stock notifications onto a Redis list that the
// (external) notification worker drains. Publishing is best-effort: a failed
// push is logged and never fails the stock operation that triggered it.
package alert

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ledgerline/inventory-core/internal/models"
)

type Publisher struct {
	rdb *redis.Client
	key string
	log *zap.Logger
}

func NewPublisher(rdb *redis.Client, key string, log *zap.Logger) *Publisher {
	return &Publisher{rdb: rdb, key: key, log: log}
}

type lowStockEvent struct {
	ItemID        int       `json:"item_id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	Quantity      int       `json:"quantity"`
	MinStockLevel int       `json:"min_stock_level"`
	At            time.Time `json:"at"`
}

func (p *Publisher) LowStock(ctx context.Context, item models.InventoryItem) {
	payload, err := json.Marshal(lowStockEvent{
		ItemID:        item.ID,
		SKU:           item.SKU,
		Name:          item.Name,
		Quantity:      item.Quantity,
		MinStockLevel: item.MinStockLevel,
		At:            time.Now().UTC(),
	})
	if err != nil {
		p.log.Error("could not encode low-stock event", zap.Error(err))
		return
	}

	if err := p.rdb.LPush(ctx, p.key, payload).Err(); err != nil {
		p.log.Warn("could not publish low-stock event",
			zap.Int("item_id", item.ID),
			zap.Error(err))
	}
}
