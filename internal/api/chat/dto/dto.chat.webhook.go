// Package dto chứa các cấu trúc request/response cho domain chat.
package dto

// WebhookPayload là payload webhook của Facebook Graph API (object "page" hoặc "instagram").
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry là một entry trong payload, chứa danh sách messaging event của một page.
type WebhookEntry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

// MessagingEvent là một sự kiện messaging: tin nhắn, delivery receipt hoặc read receipt.
type MessagingEvent struct {
	Sender    MessagingParticipant `json:"sender"`
	Recipient MessagingParticipant `json:"recipient"`
	Timestamp int64                `json:"timestamp"`
	Message   *MessageContent      `json:"message,omitempty"`
	Delivery  *DeliveryReceipt     `json:"delivery,omitempty"`
	Read      *ReadReceipt         `json:"read,omitempty"`
}

// MessagingParticipant định danh người gửi/nhận trong một event.
type MessagingParticipant struct {
	ID string `json:"id"`
}

// MessageContent là nội dung tin nhắn trong event.
// IsEcho đánh dấu tin do chính page gửi ra (bị bỏ qua khi ingest).
type MessageContent struct {
	MID         string       `json:"mid"`
	Text        string       `json:"text"`
	IsEcho      bool         `json:"is_echo"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment là một file đính kèm trong tin nhắn (image, video, audio, file).
type Attachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

// AttachmentPayload chứa URL tải nội dung đính kèm.
type AttachmentPayload struct {
	URL string `json:"url"`
}

// DeliveryReceipt là xác nhận đã giao tin (không tạo message mới).
type DeliveryReceipt struct {
	MIDs      []string `json:"mids,omitempty"`
	Watermark int64    `json:"watermark"`
}

// ReadReceipt là xác nhận đã đọc tin (không tạo message mới).
type ReadReceipt struct {
	Watermark int64 `json:"watermark"`
}
