package chatsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "social_ai/internal/api/base/models"
	basesvc "social_ai/internal/api/base/service"
	"social_ai/internal/api/chat/dto"
	chatmodels "social_ai/internal/api/chat/models"
	"social_ai/internal/common"
	"social_ai/internal/global"
)

// TemplateService quản lý các câu trả lời mẫu của seller
type TemplateService struct {
	*basesvc.BaseServiceMongoImpl[chatmodels.SavedTemplate]
}

// NewTemplateService tạo mới TemplateService
func NewTemplateService() (*TemplateService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.SavedTemplates)
	if !exist {
		return nil, fmt.Errorf("failed to get saved_templates collection: %v", common.ErrNotFound)
	}
	return &TemplateService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[chatmodels.SavedTemplate](coll),
	}, nil
}

// validateTemplateContent kiểm tra mẫu có nội dung khớp với type hay không
func validateTemplateContent(input dto.TemplateInput) error {
	if input.Type == "text" && input.Content == "" {
		return common.ErrRequiredField
	}
	if input.Type == "media" && len(input.MediaUrls) == 0 {
		return common.ErrRequiredField
	}
	return nil
}

// Create tạo một mẫu mới, tên mẫu trùng trả về lỗi duplicate
func (s *TemplateService) Create(ctx context.Context, input dto.TemplateInput) (chatmodels.SavedTemplate, error) {
	if err := validateTemplateContent(input); err != nil {
		return chatmodels.SavedTemplate{}, err
	}
	template := chatmodels.SavedTemplate{
		Name:      input.Name,
		Scope:     input.Scope,
		SellerID:  input.SellerID,
		Type:      input.Type,
		Content:   input.Content,
		MediaUrls: input.MediaUrls,
		CreatedBy: input.CreatedBy,
	}
	return s.InsertOne(ctx, template)
}

// Update cập nhật nội dung một mẫu theo tên
func (s *TemplateService) Update(ctx context.Context, name string, input dto.TemplateInput) (chatmodels.SavedTemplate, error) {
	if err := validateTemplateContent(input); err != nil {
		return chatmodels.SavedTemplate{}, err
	}
	filter := bson.M{"name": name}
	update := bson.M{
		"$set": bson.M{
			"name":      input.Name,
			"scope":     input.Scope,
			"sellerId":  input.SellerID,
			"type":      input.Type,
			"content":   input.Content,
			"mediaUrls": input.MediaUrls,
		},
	}
	return s.UpdateOne(ctx, filter, update, nil)
}

// FindByName tìm một mẫu theo tên (dispatcher dùng khi reply tham chiếu mẫu)
func (s *TemplateService) FindByName(ctx context.Context, name string) (chatmodels.SavedTemplate, error) {
	return s.FindOne(ctx, bson.M{"name": name}, nil)
}

// Delete xóa một mẫu theo tên
func (s *TemplateService) Delete(ctx context.Context, name string) error {
	return s.DeleteOne(ctx, bson.M{"name": name})
}

// FindAll liệt kê các mẫu theo tên, có phân trang
func (s *TemplateService) FindAll(ctx context.Context, page, limit int64) (*basemodels.PaginateResult[chatmodels.SavedTemplate], error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return s.FindWithPagination(ctx, bson.M{}, page, limit, opts)
}
