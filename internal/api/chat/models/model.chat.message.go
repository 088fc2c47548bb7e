package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ChatMessage lưu một tin nhắn trong hội thoại, cả chiều khách gửi vào lẫn chiều hệ thống gửi ra.
// IdempotencyKey có unique sparse index: insert trùng key sẽ bị MongoDB từ chối,
// đó là cơ chế chống ghi đúp duy nhất (không check-then-write).
type ChatMessage struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ConversationID    string             `json:"conversationId" bson:"conversationId" index:"compound:conv_ts" validate:"required"`
	Sender            string             `json:"sender" bson:"sender" validate:"required,oneof=customer bot"`
	SenderRole        string             `json:"senderRole,omitempty" bson:"senderRole,omitempty"`
	SenderName        string             `json:"senderName,omitempty" bson:"senderName,omitempty"`
	Message           string             `json:"message,omitempty" bson:"message,omitempty"`
	MediaUrls         []string           `json:"mediaUrls,omitempty" bson:"mediaUrls,omitempty"`
	Platform          string             `json:"platform" bson:"platform"`
	PageID            string             `json:"pageId" bson:"pageId"`
	Timestamp         int64              `json:"timestamp" bson:"timestamp" index:"compound:conv_ts"`
	IdempotencyKey    string             `json:"idempotencyKey,omitempty" bson:"idempotencyKey,omitempty" index:"unique;sparse"`
	PlatformMessageID string             `json:"platformMessageId,omitempty" bson:"platformMessageId,omitempty"`
	CreatedAt         int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt         int64              `json:"updatedAt" bson:"updatedAt"`
}
