package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SavedTemplate lưu mẫu tin nhắn trả lời nhanh cho seller.
// Scope global dùng chung cho mọi seller, scope seller chỉ của một seller.
type SavedTemplate struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" index:"unique" validate:"required"`
	Scope     string             `json:"scope" bson:"scope" validate:"required,oneof=global seller"`
	SellerID  string             `json:"sellerId,omitempty" bson:"sellerId,omitempty"`
	Type      string             `json:"type" bson:"type" validate:"required,oneof=text media"`
	Content   string             `json:"content,omitempty" bson:"content,omitempty"`
	MediaUrls []string           `json:"mediaUrls,omitempty" bson:"mediaUrls,omitempty"`
	CreatedBy string             `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
