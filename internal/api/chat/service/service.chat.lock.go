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
	"social_ai/internal/api/chat/dto"
	chatmodels "social_ai/internal/api/chat/models"
	"social_ai/internal/common"
	"social_ai/internal/global"
)

// ConversationService quản lý trạng thái gán seller và trạng thái giao hàng của hội thoại.
// Mọi thay đổi quyền sở hữu đi qua conditional update trên MongoDB, không giữ lock trong process.
type ConversationService struct {
	*basesvc.BaseServiceMongoImpl[chatmodels.ChatConversation]
}

// NewConversationService tạo mới ConversationService
func NewConversationService() (*ConversationService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ConversationLocks)
	if !exist {
		return nil, fmt.Errorf("failed to get conversation_locks collection: %v", common.ErrNotFound)
	}
	return &ConversationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[chatmodels.ChatConversation](coll),
	}, nil
}

// EnsureConversation upsert record hội thoại khi có tin nhắn mới.
// Thông tin định danh (platform, page, customer) chỉ set lúc tạo, các lần sau
// chỉ cập nhật lastMessageAt. Hai upsert chạy đua trên cùng conversationId thì
// bên thua nhận E11000 từ unique index (driver không tự retry), lúc đó record
// đã tồn tại nên thử lại đúng một lần dưới dạng update thuần.
func (s *ConversationService) EnsureConversation(ctx context.Context, ev NormalizedEvent) (chatmodels.ChatConversation, error) {
	now := time.Now().UnixMilli()
	filter := bson.M{"conversationId": ev.ConversationID}
	update := bson.M{
		"$set": bson.M{
			"lastMessageAt": ev.Timestamp,
			"updatedAt":     now,
		},
		"$setOnInsert": bson.M{
			"platform":       ev.Platform,
			"pageId":         ev.PageID,
			"customerId":     ev.CustomerID,
			"sellerId":       "",
			"deliveryStatus": chatmodels.DeliveryStatusConfirmed,
			"createdAt":      now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var conv chatmodels.ChatConversation
	err := s.Collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&conv)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		err = s.Collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&conv)
	}
	if err != nil {
		return conv, common.ConvertMongoError(err)
	}
	return conv, nil
}

// FindByConversationID tìm hội thoại theo khóa hội thoại
func (s *ConversationService) FindByConversationID(ctx context.Context, conversationID string) (chatmodels.ChatConversation, error) {
	return s.FindOne(ctx, bson.M{"conversationId": conversationID}, nil)
}

// Assign gán hội thoại cho một seller bằng compare-and-set.
// Filter chỉ match khi hội thoại chưa gán hoặc đã thuộc về chính seller đó,
// nên hai seller bấm nhận cùng lúc thì chỉ một người thắng.
// Force bỏ qua điều kiện trên để admin cướp quyền.
func (s *ConversationService) Assign(ctx context.Context, conversationID string, input dto.AssignInput) (chatmodels.ChatConversation, error) {
	now := time.Now().UnixMilli()
	filter := bson.M{"conversationId": conversationID}
	if !input.Force {
		filter["sellerId"] = bson.M{"$in": []string{"", input.SellerID}}
	}
	update := bson.M{
		"$set": bson.M{
			"sellerId":   input.SellerID,
			"assignedBy": input.AssignedBy,
			"assignedAt": now,
			"lockedAt":   now,
			"updatedAt":  now,
		},
	}

	result, err := s.Collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return chatmodels.ChatConversation{}, common.ConvertMongoError(err)
	}

	if result.MatchedCount == 0 {
		// Phân biệt hội thoại không tồn tại với hội thoại đã bị người khác giữ
		exists, err := s.DocumentExists(ctx, bson.M{"conversationId": conversationID})
		if err != nil {
			return chatmodels.ChatConversation{}, err
		}
		if exists {
			return chatmodels.ChatConversation{}, common.ErrAssignmentConflict
		}
		return chatmodels.ChatConversation{}, common.ErrNotFound
	}

	return s.FindByConversationID(ctx, conversationID)
}

// Release trả hội thoại về trạng thái chưa gán.
// Nếu input.SellerID khác rỗng, chỉ release khi hội thoại đang thuộc về seller đó,
// tránh seller này vô tình nhả lock của seller khác.
func (s *ConversationService) Release(ctx context.Context, conversationID string, input dto.ReleaseInput) (chatmodels.ChatConversation, error) {
	filter := bson.M{"conversationId": conversationID}
	if input.SellerID != "" {
		filter["sellerId"] = input.SellerID
	}
	update := bson.M{
		"$set": bson.M{
			"sellerId":  "",
			"updatedAt": time.Now().UnixMilli(),
		},
		"$unset": bson.M{
			"assignedBy": "",
			"assignedAt": "",
			"lockedAt":   "",
		},
	}

	result, err := s.Collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return chatmodels.ChatConversation{}, common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 {
		exists, err := s.DocumentExists(ctx, bson.M{"conversationId": conversationID})
		if err != nil {
			return chatmodels.ChatConversation{}, err
		}
		if exists {
			return chatmodels.ChatConversation{}, common.ErrAssignmentConflict
		}
		return chatmodels.ChatConversation{}, common.ErrNotFound
	}

	return s.FindByConversationID(ctx, conversationID)
}

// SetStatus đổi trạng thái giao hàng của hội thoại.
// Trạng thái giao hàng độc lập với việc gán seller, không đụng vào sellerId.
func (s *ConversationService) SetStatus(ctx context.Context, conversationID string, status string) (chatmodels.ChatConversation, error) {
	filter := bson.M{"conversationId": conversationID}
	update := bson.M{
		"$set": bson.M{
			"deliveryStatus": status,
		},
	}
	return s.UpdateOne(ctx, filter, update, nil)
}

// UpdateCustomerProfile cập nhật tên và ảnh đại diện khách hàng (enrichment bất đồng bộ).
// Thiếu profile không phải lỗi nghiệp vụ nên caller thường chỉ log warning.
func (s *ConversationService) UpdateCustomerProfile(ctx context.Context, conversationID string, name string, profilePic string) error {
	set := bson.M{}
	if name != "" {
		set["customerName"] = name
	}
	if profilePic != "" {
		set["customerProfilePic"] = profilePic
	}
	if len(set) == 0 {
		return nil
	}

	_, err := s.UpdateOne(ctx, bson.M{"conversationId": conversationID}, bson.M{"$set": set}, nil)
	return err
}

// FindAll liệt kê hội thoại theo filter, sắp theo tin mới nhất trước
func (s *ConversationService) FindAll(ctx context.Context, input dto.ConversationListInput) (*basemodels.PaginateResult[chatmodels.ChatConversation], error) {
	filter := bson.M{}
	if input.Platform != "" {
		filter["platform"] = input.Platform
	}
	if input.PageID != "" {
		filter["pageId"] = input.PageID
	}
	if input.Unassigned {
		filter["sellerId"] = ""
	} else if input.SellerID != "" {
		filter["sellerId"] = input.SellerID
	}
	if input.DeliveryStatus != "" {
		filter["deliveryStatus"] = input.DeliveryStatus
	}

	opts := options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}})
	return s.FindWithPagination(ctx, filter, input.Page, input.Limit, opts)
}
