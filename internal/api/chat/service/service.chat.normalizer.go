// Package chatsvc chứa business logic cho domain chat: ingest webhook,
// lưu tin nhắn, khóa hội thoại và gửi tin trả lời qua Graph API.
package chatsvc

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"social_ai/internal/api/chat/dto"
	"social_ai/internal/common"
)

// Các nền tảng chat được hỗ trợ
const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
)

// NormalizedEvent là một tin nhắn khách hàng đã được chuẩn hóa từ webhook,
// sẵn sàng để ghi vào store. Mỗi event tương ứng một messaging event có nội dung.
type NormalizedEvent struct {
	Platform       string   // facebook hoặc instagram
	PageID         string   // ID của page nhận tin
	CustomerID     string   // ID khách hàng gửi tin
	ConversationID string   // <platform>:<pageId>:<customerId>
	Timestamp      int64    // Thời điểm nền tảng ghi nhận tin (UnixMilli)
	Text           string   // Nội dung văn bản, có thể rỗng nếu chỉ có media
	MediaUrls      []string // URL các file đính kèm theo đúng thứ tự trong payload
	IdempotencyKey string   // mid của nền tảng, hoặc key dẫn xuất nếu thiếu mid
}

// BuildConversationID tạo khóa hội thoại từ platform, page và khách hàng.
func BuildConversationID(platform, pageID, customerID string) string {
	return platform + ":" + pageID + ":" + customerID
}

// ParseConversationID tách khóa hội thoại thành 3 phần.
// Trả về lỗi nếu khóa không đúng dạng <platform>:<pageId>:<customerId>.
func ParseConversationID(conversationID string) (platform, pageID, customerID string, err error) {
	parts := strings.Split(conversationID, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Khóa hội thoại không hợp lệ: %s", conversationID),
			common.StatusBadRequest,
			nil,
		)
	}
	return parts[0], parts[1], parts[2], nil
}

// resolvePlatform ánh xạ trường object của payload sang tên nền tảng nội bộ.
func resolvePlatform(object string) (string, bool) {
	switch object {
	case "page":
		return PlatformFacebook, true
	case "instagram":
		return PlatformInstagram, true
	default:
		return "", false
	}
}

// deriveIdempotencyKey tạo key chống trùng khi nền tảng không gửi mid.
// Key dẫn xuất ổn định theo nội dung nên retry cùng payload vẫn bị chặn trùng.
func deriveIdempotencyKey(conversationID string, timestamp int64, text string, mediaUrls []string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%s", conversationID, timestamp, text)
	for _, u := range mediaUrls {
		fmt.Fprintf(h, "|%s", u)
	}
	return "derived:" + hex.EncodeToString(h.Sum(nil))
}

// ParseWebhookPayload giải mã raw body webhook thành payload có cấu trúc.
// Body không phải JSON hợp lệ sẽ trả về ErrMalformedEvent.
func ParseWebhookPayload(rawBody []byte) (*dto.WebhookPayload, error) {
	var payload dto.WebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, common.ErrMalformedEvent
	}
	if payload.Object == "" {
		return nil, common.ErrMalformedEvent
	}
	return &payload, nil
}

// NormalizeWebhookPayload chuyển payload webhook thành danh sách event chuẩn hóa,
// giữ nguyên thứ tự entry và messaging trong payload.
// Các event bị bỏ qua (echo, receipt, không có nội dung) được đếm vào dropped.
func NormalizeWebhookPayload(payload *dto.WebhookPayload) (events []NormalizedEvent, dropped int, err error) {
	platform, ok := resolvePlatform(payload.Object)
	if !ok {
		return nil, 0, common.ErrMalformedEvent
	}

	events = []NormalizedEvent{}
	for _, entry := range payload.Entry {
		for _, msg := range entry.Messaging {
			ev, keep := normalizeMessagingEvent(platform, entry, msg)
			if !keep {
				dropped++
				continue
			}
			events = append(events, ev)
		}
	}
	return events, dropped, nil
}

// normalizeMessagingEvent chuẩn hóa một messaging event.
// Trả về keep=false cho echo, delivery/read receipt và event không có nội dung.
func normalizeMessagingEvent(platform string, entry dto.WebhookEntry, msg dto.MessagingEvent) (NormalizedEvent, bool) {
	// Receipt không phải tin nhắn mới
	if msg.Message == nil {
		return NormalizedEvent{}, false
	}
	// Echo là tin do chính page gửi, đã được lưu ở chiều outbound
	if msg.Message.IsEcho {
		return NormalizedEvent{}, false
	}
	if msg.Sender.ID == "" {
		return NormalizedEvent{}, false
	}

	mediaUrls := []string{}
	for _, att := range msg.Message.Attachments {
		if att.Payload.URL != "" {
			mediaUrls = append(mediaUrls, att.Payload.URL)
		}
	}

	// Event không có cả text lẫn media (ví dụ sticker không URL) thì bỏ qua
	if msg.Message.Text == "" && len(mediaUrls) == 0 {
		return NormalizedEvent{}, false
	}

	// PageID lấy từ entry.id, không lấy từ recipient vì với tin echo hai chiều ngược nhau
	pageID := entry.ID
	if pageID == "" {
		pageID = msg.Recipient.ID
	}
	if pageID == "" {
		return NormalizedEvent{}, false
	}

	timestamp := msg.Timestamp
	if timestamp == 0 {
		timestamp = entry.Time
	}

	conversationID := BuildConversationID(platform, pageID, msg.Sender.ID)

	key := msg.Message.MID
	if key == "" {
		key = deriveIdempotencyKey(conversationID, timestamp, msg.Message.Text, mediaUrls)
	}

	return NormalizedEvent{
		Platform:       platform,
		PageID:         pageID,
		CustomerID:     msg.Sender.ID,
		ConversationID: conversationID,
		Timestamp:      timestamp,
		Text:           msg.Message.Text,
		MediaUrls:      mediaUrls,
		IdempotencyKey: key,
	}, true
}
