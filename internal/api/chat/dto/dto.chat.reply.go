package dto

// ReplyInput là request gửi tin trả lời một hội thoại.
// Phải có text hoặc ít nhất một media URL, hoặc chỉ định Template để lấy nội dung
// từ mẫu đã lưu. Platform và page được tra từ record hội thoại trong DB,
// không tin từ phía client.
type ReplyInput struct {
	ConversationID string   `json:"conversationId" validate:"required,conversation_key"`
	SenderRole     string   `json:"senderRole" validate:"required,oneof=admin seller ai"`
	SenderName     string   `json:"senderName,omitempty"`
	Message        string   `json:"message,omitempty"`
	MediaUrls      []string `json:"mediaUrls,omitempty" validate:"omitempty,dive,url"`
	Template       string   `json:"template,omitempty"`
}

// ReplyResult là kết quả gửi tin trả lời: các message đã lưu sau khi gửi thành công.
type ReplyResult struct {
	ConversationID string      `json:"conversationId"`
	MessageIDs     []string    `json:"messageIds"`
	Messages       interface{} `json:"messages,omitempty"`
}
