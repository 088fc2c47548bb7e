package chatsvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	basesvc "social_ai/internal/api/base/service"
	chatmodels "social_ai/internal/api/chat/models"
	"social_ai/internal/common"
	"social_ai/internal/global"
)

// WebhookLogService lưu raw payload webhook phục vụ debug.
// Log cũ do TTL index trên receivedAt tự dọn.
type WebhookLogService struct {
	*basesvc.BaseServiceMongoImpl[chatmodels.WebhookLog]
}

// NewWebhookLogService tạo mới WebhookLogService
func NewWebhookLogService() (*WebhookLogService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.WebhookLogs)
	if !exist {
		return nil, fmt.Errorf("failed to get webhook_logs collection: %v", common.ErrNotFound)
	}
	return &WebhookLogService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[chatmodels.WebhookLog](coll),
	}, nil
}

// SaveLog ghi một bản ghi log webhook.
// Ghi trực tiếp qua collection vì receivedAt phải là time.Time cho TTL index,
// không đi qua InsertOne của base (base convert qua map làm mất kiểu thời gian).
func (s *WebhookLogService) SaveLog(ctx context.Context, platform string, rawBody string, eventCount, dedupCount, dropCount int) error {
	now := time.Now()
	doc := bson.M{
		"platform":   platform,
		"rawBody":    rawBody,
		"eventCount": eventCount,
		"dedupCount": dedupCount,
		"dropCount":  dropCount,
		"receivedAt": now,
		"createdAt":  now.UnixMilli(),
		"updatedAt":  now.UnixMilli(),
	}
	if _, err := s.Collection().InsertOne(ctx, doc); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}
