package chatsvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "social_ai/internal/api/base/models"
	basesvc "social_ai/internal/api/base/service"
	chatmodels "social_ai/internal/api/chat/models"
	"social_ai/internal/common"
	"social_ai/internal/global"
)

// Các giá trị hợp lệ của trường sender
const (
	SenderCustomer = "customer"
	SenderBot      = "bot"
)

// ChatMessageService là cấu trúc chứa các phương thức thao tác với tin nhắn chat
type ChatMessageService struct {
	*basesvc.BaseServiceMongoImpl[chatmodels.ChatMessage]
}

// NewChatMessageService tạo mới ChatMessageService
func NewChatMessageService() (*ChatMessageService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.SocialChatMessages)
	if !exist {
		return nil, fmt.Errorf("failed to get social_chat_messages collection: %v", common.ErrNotFound)
	}
	return &ChatMessageService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[chatmodels.ChatMessage](coll),
	}, nil
}

// InsertInbound ghi một tin nhắn khách hàng từ webhook.
// Chống trùng dựa hoàn toàn vào unique sparse index trên idempotencyKey:
// insert thẳng rồi bắt duplicate key error, không bao giờ check-then-write.
// Trả về deduplicated=true nếu event đã được xử lý trước đó.
func (s *ChatMessageService) InsertInbound(ctx context.Context, ev NormalizedEvent) (chatmodels.ChatMessage, bool, error) {
	now := time.Now().UnixMilli()
	doc := bson.M{
		"conversationId": ev.ConversationID,
		"sender":         SenderCustomer,
		"senderRole":     "customer",
		"platform":       ev.Platform,
		"pageId":         ev.PageID,
		"timestamp":      ev.Timestamp,
		"idempotencyKey": ev.IdempotencyKey,
		"createdAt":      now,
		"updatedAt":      now,
	}
	if ev.Text != "" {
		doc["message"] = ev.Text
	}
	if len(ev.MediaUrls) > 0 {
		doc["mediaUrls"] = ev.MediaUrls
	}

	result, err := s.Collection().InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return chatmodels.ChatMessage{}, true, nil
		}
		return chatmodels.ChatMessage{}, false, common.ConvertMongoError(err)
	}

	var created chatmodels.ChatMessage
	if err := s.Collection().FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created); err != nil {
		return chatmodels.ChatMessage{}, false, common.ConvertMongoError(err)
	}
	return created, false, nil
}

// InsertOutbound ghi một tin nhắn hệ thống gửi ra, sau khi nền tảng đã xác nhận gửi thành công.
// Tin outbound không có idempotencyKey nên sparse index bỏ qua (InsertOne của base
// đã loại field rỗng trước khi ghi).
func (s *ChatMessageService) InsertOutbound(ctx context.Context, msg chatmodels.ChatMessage) (chatmodels.ChatMessage, error) {
	msg.Sender = SenderBot
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}
	return s.InsertOne(ctx, msg)
}

// FindByConversation trả về tin nhắn của một hội thoại theo thứ tự thời gian tăng dần.
// Sort theo (timestamp, _id): hai tin cùng timestamp phân định bằng ObjectID,
// ObjectID tăng theo thứ tự insert nên thứ tự đọc ổn định giữa các lần gọi.
func (s *ChatMessageService) FindByConversation(ctx context.Context, conversationID string, page, limit int64) (*basemodels.PaginateResult[chatmodels.ChatMessage], error) {
	filter := bson.M{"conversationId": conversationID}
	opts := options.Find().SetSort(bson.D{
		{Key: "timestamp", Value: 1},
		{Key: "_id", Value: 1},
	})
	return s.FindWithPagination(ctx, filter, page, limit, opts)
}

// CountByConversation đếm số tin của một hội thoại
func (s *ChatMessageService) CountByConversation(ctx context.Context, conversationID string) (int64, error) {
	return s.CountDocuments(ctx, bson.M{"conversationId": conversationID})
}
