// Package events publishes room activity to a message broker.
package events

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Publisher delivers events to subscribers outside the process.
type Publisher interface {
	PublishSettlementCompleted(ctx context.Context, event *SettlementCompleted) error
	Close() error
}

// SettlementCompleted is emitted when a settlement starts counting toward
// balances, either by completing a pending one or confirming a transfer.
type SettlementCompleted struct {
	SettlementID string          `json:"settlement_id"`
	RoomID       string          `json:"room_id"`
	FromUserID   string          `json:"from_user_id"`
	ToUserID     string          `json:"to_user_id"`
	Amount       decimal.Decimal `json:"amount"`
	SettledAt    int64           `json:"settled_at"`
}

func (e *SettlementCompleted) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// SettlementCompletedFromJSON decodes a message body.
func SettlementCompletedFromJSON(data []byte) (*SettlementCompleted, error) {
	var e SettlementCompleted
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal settlement completed: %w", err)
	}
	return &e, nil
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishSettlementCompleted(context.Context, *SettlementCompleted) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
