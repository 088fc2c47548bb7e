package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ChatConversation lưu trạng thái khóa và gán seller của một hội thoại.
// ConversationID có dạng <platform>:<pageId>:<customerId>, là khóa duy nhất.
// SellerID rỗng nghĩa là hội thoại chưa được gán cho ai.
type ChatConversation struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ConversationID     string             `json:"conversationId" bson:"conversationId" index:"unique" validate:"required"`
	Platform           string             `json:"platform" bson:"platform"`
	PageID             string             `json:"pageId" bson:"pageId"`
	CustomerID         string             `json:"customerId" bson:"customerId"`
	CustomerName       string             `json:"customerName,omitempty" bson:"customerName,omitempty"`
	CustomerProfilePic string             `json:"customerProfilePic,omitempty" bson:"customerProfilePic,omitempty"`
	SellerID           string             `json:"sellerId" bson:"sellerId" index:"single:1"`
	DeliveryStatus     string             `json:"deliveryStatus" bson:"deliveryStatus" index:"single:1"`
	AssignedBy         string             `json:"assignedBy,omitempty" bson:"assignedBy,omitempty"`
	AssignedAt         int64              `json:"assignedAt,omitempty" bson:"assignedAt,omitempty"`
	LockedAt           int64              `json:"lockedAt,omitempty" bson:"lockedAt,omitempty"`
	LastMessageAt      int64              `json:"lastMessageAt,omitempty" bson:"lastMessageAt,omitempty" index:"single:-1"`
	CreatedAt          int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt          int64              `json:"updatedAt" bson:"updatedAt"`
}

// Các trạng thái giao hàng hợp lệ của hội thoại. Trạng thái này độc lập với việc gán seller.
const (
	DeliveryStatusConfirmed = "confirmed"
	DeliveryStatusHold      = "hold"
	DeliveryStatusCancel    = "cancel"
	DeliveryStatusDelivered = "delivered"
)
