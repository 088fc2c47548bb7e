package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WebhookLog lưu raw payload webhook nhận được để phục vụ debug và replay.
// ReceivedAt có TTL index, MongoDB tự xóa log cũ sau 14 ngày.
type WebhookLog struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Platform   string             `json:"platform" bson:"platform"`
	RawBody    string             `json:"rawBody" bson:"rawBody"`
	EventCount int                `json:"eventCount" bson:"eventCount"`
	DedupCount int                `json:"dedupCount" bson:"dedupCount"`
	DropCount  int                `json:"dropCount" bson:"dropCount"`
	ReceivedAt time.Time          `json:"receivedAt" bson:"receivedAt" index:"ttl:1209600"`
	CreatedAt  int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64              `json:"updatedAt" bson:"updatedAt"`
}
