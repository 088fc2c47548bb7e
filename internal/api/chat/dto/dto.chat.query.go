package dto

// AssignInput là request gán hội thoại cho một seller.
// Force cho phép cướp quyền từ seller khác (mặc định sẽ trả về conflict).
type AssignInput struct {
	SellerID   string `json:"sellerId" validate:"required"`
	AssignedBy string `json:"assignedBy,omitempty"`
	Force      bool   `json:"force,omitempty"`
}

// ReleaseInput là request trả hội thoại về trạng thái chưa gán.
// Nếu SellerID khác rỗng, chỉ release khi hội thoại đang thuộc về seller đó.
type ReleaseInput struct {
	SellerID string `json:"sellerId,omitempty"`
}

// SetStatusInput là request đổi trạng thái giao hàng của hội thoại.
type SetStatusInput struct {
	DeliveryStatus string `json:"deliveryStatus" validate:"required,oneof=confirmed hold cancel delivered"`
}

// ConversationListInput là các filter khi liệt kê hội thoại.
type ConversationListInput struct {
	Platform       string `query:"platform" validate:"omitempty,oneof=facebook instagram"`
	PageID         string `query:"pageId"`
	SellerID       string `query:"sellerId"`
	Unassigned     bool   `query:"unassigned"`
	DeliveryStatus string `query:"deliveryStatus" validate:"omitempty,oneof=confirmed hold cancel delivered"`
	Page           int64  `query:"page"`
	Limit          int64  `query:"limit" validate:"omitempty,max=200"`
}

// MessageListInput là các tham số phân trang khi đọc tin nhắn của một hội thoại.
// Tin luôn trả về theo thứ tự thời gian tăng dần.
type MessageListInput struct {
	Page  int64 `query:"page"`
	Limit int64 `query:"limit" validate:"omitempty,max=500"`
}

// TemplateInput là request tạo/cập nhật mẫu tin nhắn.
// Mẫu type=text phải có content, type=media phải có media URL.
type TemplateInput struct {
	Name      string   `json:"name" validate:"required"`
	Scope     string   `json:"scope" validate:"required,oneof=global seller"`
	SellerID  string   `json:"sellerId,omitempty" validate:"required_if=Scope seller"`
	Type      string   `json:"type" validate:"required,oneof=text media"`
	Content   string   `json:"content,omitempty"`
	MediaUrls []string `json:"mediaUrls,omitempty" validate:"omitempty,dive,url"`
	CreatedBy string   `json:"createdBy,omitempty"`
}

// IntegrationInput là request đăng ký token tích hợp cho một page.
type IntegrationInput struct {
	Platform    string `json:"platform" validate:"required,oneof=facebook instagram"`
	PageID      string `json:"pageId" validate:"required"`
	PageName    string `json:"pageName,omitempty"`
	AccessToken string `json:"accessToken" validate:"required"`
	IsActive    *bool  `json:"isActive,omitempty"`
}
