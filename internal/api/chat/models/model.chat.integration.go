package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ApiIntegration lưu thông tin tích hợp với một page trên nền tảng chat (access token Graph API).
// Cặp (platform, pageId) là duy nhất, mỗi page chỉ có một token đang hoạt động.
type ApiIntegration struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Platform    string             `json:"platform" bson:"platform" index:"compound:platform_page_unique" validate:"required,oneof=facebook instagram"`
	PageID      string             `json:"pageId" bson:"pageId" index:"compound:platform_page_unique" validate:"required"`
	PageName    string             `json:"pageName,omitempty" bson:"pageName,omitempty"`
	AccessToken string             `json:"-" bson:"accessToken" validate:"required"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}
