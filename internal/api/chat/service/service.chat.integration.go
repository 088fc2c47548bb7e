package chatsvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	basesvc "social_ai/internal/api/base/service"
	"social_ai/internal/api/chat/dto"
	chatmodels "social_ai/internal/api/chat/models"
	"social_ai/internal/common"
	"social_ai/internal/global"
	"social_ai/internal/utility"
)

// IntegrationService quản lý token tích hợp Graph API theo (platform, pageId).
// Token đọc thường xuyên khi gửi tin nên có cache TTL phía trước DB;
// cửa sổ token cũ bị chặn trên bởi TTL của cache.
type IntegrationService struct {
	*basesvc.BaseServiceMongoImpl[chatmodels.ApiIntegration]
	cache *utility.Cache
}

// NewIntegrationService tạo mới IntegrationService với cache TTL từ config
func NewIntegrationService() (*IntegrationService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ApiIntegrations)
	if !exist {
		return nil, fmt.Errorf("failed to get api_integrations collection: %v", common.ErrNotFound)
	}

	ttl := 60 * time.Second
	if global.MongoDB_ServerConfig != nil && global.MongoDB_ServerConfig.IntegrationCacheTTL > 0 {
		ttl = time.Duration(global.MongoDB_ServerConfig.IntegrationCacheTTL) * time.Second
	}

	return &IntegrationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[chatmodels.ApiIntegration](coll),
		cache:                utility.NewCache(ttl, 5*time.Minute),
	}, nil
}

// cacheKey tạo khóa cache cho một cặp (platform, pageId)
func cacheKey(platform, pageID string) string {
	return platform + ":" + pageID
}

// GetActiveIntegration trả về tích hợp đang hoạt động của page.
// Trả về ErrNoIntegration khi page chưa đăng ký token hoặc token đã bị tắt.
func (s *IntegrationService) GetActiveIntegration(ctx context.Context, platform, pageID string) (chatmodels.ApiIntegration, error) {
	key := cacheKey(platform, pageID)
	if cached, ok := s.cache.Get(key); ok {
		if integration, ok := cached.(chatmodels.ApiIntegration); ok {
			return integration, nil
		}
	}

	filter := bson.M{"platform": platform, "pageId": pageID, "isActive": true}
	integration, err := s.FindOne(ctx, filter, nil)
	if err != nil {
		if err == common.ErrNotFound {
			return chatmodels.ApiIntegration{}, common.ErrNoIntegration
		}
		return chatmodels.ApiIntegration{}, err
	}

	s.cache.Set(key, integration)
	return integration, nil
}

// UpsertIntegration đăng ký hoặc cập nhật token cho một page.
// Cache bị xóa ngay sau khi ghi để tin gửi tiếp theo dùng token mới.
func (s *IntegrationService) UpsertIntegration(ctx context.Context, input dto.IntegrationInput) (chatmodels.ApiIntegration, error) {
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	filter := bson.M{"platform": input.Platform, "pageId": input.PageID}
	update := bson.M{
		"$set": bson.M{
			"pageName":    input.PageName,
			"accessToken": input.AccessToken,
			"isActive":    isActive,
		},
	}

	integration, err := s.Upsert(ctx, filter, update)
	if err != nil {
		return chatmodels.ApiIntegration{}, err
	}

	s.cache.Delete(cacheKey(input.Platform, input.PageID))
	return integration, nil
}

// DeactivateIntegration tắt token của một page và xóa cache
func (s *IntegrationService) DeactivateIntegration(ctx context.Context, platform, pageID string) error {
	filter := bson.M{"platform": platform, "pageId": pageID}
	update := bson.M{"$set": bson.M{"isActive": false}}

	if _, err := s.UpdateOne(ctx, filter, update, nil); err != nil {
		return err
	}
	s.cache.Delete(cacheKey(platform, pageID))
	return nil
}
