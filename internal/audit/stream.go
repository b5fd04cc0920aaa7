package audit

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// StreamPublisher mirrors events onto a Redis stream for downstream
// consumers (notifications, reminders).
type StreamPublisher struct {
	client *redis.Client
	stream string
}

func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream}
}

type streamPayload struct {
	TenantID    uint   `json:"tenant_id"`
	PrincipalID string `json:"principal_id,omitempty"`
	Action      string `json:"action"`
	Entity      string `json:"entity"`
	EntityID    *uint  `json:"entity_id,omitempty"`
	Metadata    any    `json:"metadata,omitempty"`
}

func (p *StreamPublisher) Write(ctx context.Context, ev Event) error {
	data, err := json.Marshal(streamPayload{
		TenantID:    ev.TenantID,
		PrincipalID: ev.PrincipalID,
		Action:      ev.Action,
		Entity:      ev.Entity,
		EntityID:    ev.EntityID,
		Metadata:    ev.Metadata,
	})
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: 10000,
		Approx: true,
		Values: map[string]any{
			"action":    ev.Action,
			"data":      string(data),
			"timestamp": strconv.FormatInt(ev.At.Unix(), 10),
		},
	}).Err()
}
