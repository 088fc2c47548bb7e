package chatsvc

import (
	"context"
	"fmt"
	"time"

	"social_ai/internal/common"
	"social_ai/internal/logger"
)

// IngestSummary là kết quả xử lý một payload webhook
type IngestSummary struct {
	Platform   string `json:"platform"`
	EventCount int    `json:"eventCount"` // Số event có nội dung trong payload
	Stored     int    `json:"stored"`     // Số message ghi mới
	Dedup      int    `json:"dedup"`      // Số event đã xử lý trước đó (trùng idempotencyKey)
	Dropped    int    `json:"dropped"`    // Số event bị bỏ qua (echo, receipt, rỗng)
}

// IngestService xử lý payload webhook: chuẩn hóa, upsert hội thoại và ghi tin nhắn.
// Webhook có thể được nền tảng gửi lại nhiều lần, toàn bộ pipeline phải idempotent.
type IngestService struct {
	messageService      *ChatMessageService
	conversationService *ConversationService
	integrationService  *IntegrationService
	webhookLogService   *WebhookLogService
	graphClient         *GraphClient
}

// NewIngestService tạo mới IngestService
func NewIngestService() (*IngestService, error) {
	messageService, err := NewChatMessageService()
	if err != nil {
		return nil, fmt.Errorf("failed to create chat message service: %v", err)
	}
	conversationService, err := NewConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %v", err)
	}
	integrationService, err := NewIntegrationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create integration service: %v", err)
	}
	webhookLogService, err := NewWebhookLogService()
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook log service: %v", err)
	}
	return &IngestService{
		messageService:      messageService,
		conversationService: conversationService,
		integrationService:  integrationService,
		webhookLogService:   webhookLogService,
		graphClient:         NewGraphClient(),
	}, nil
}

// ProcessPayload xử lý raw body webhook.
// Payload hỏng trả về ErrMalformedEvent để handler log, nhưng handler vẫn trả 200
// cho nền tảng vì lỗi parse không thể tự khỏi khi retry.
func (s *IngestService) ProcessPayload(ctx context.Context, rawBody []byte) (*IngestSummary, error) {
	payload, err := ParseWebhookPayload(rawBody)
	if err != nil {
		return nil, err
	}

	events, dropped, err := NormalizeWebhookPayload(payload)
	if err != nil {
		return nil, err
	}

	summary := &IngestSummary{
		Platform:   payload.Object,
		EventCount: len(events),
		Dropped:    dropped,
	}
	if platform, ok := resolvePlatform(payload.Object); ok {
		summary.Platform = platform
	}

	log := logger.GetAppLogger().WithField("platform", summary.Platform)

	// Xử lý tuần tự theo thứ tự payload để giữ thứ tự insert trong một request
	for _, ev := range events {
		conv, err := s.conversationService.EnsureConversation(ctx, ev)
		if err != nil {
			// Lỗi DB trên một event không chặn các event còn lại trong payload
			log.WithError(err).WithField("conversationId", ev.ConversationID).Error("Upsert hội thoại thất bại")
			continue
		}

		_, deduplicated, err := s.messageService.InsertInbound(ctx, ev)
		if err != nil {
			log.WithError(err).WithField("conversationId", ev.ConversationID).Error("Ghi tin nhắn inbound thất bại")
			continue
		}
		if deduplicated {
			summary.Dedup++
			continue
		}
		summary.Stored++

		// Hội thoại mới thì tra profile khách bất đồng bộ, lỗi chỉ log warning
		if conv.CustomerName == "" {
			go s.enrichCustomerProfile(ev)
		}
	}

	s.saveWebhookLog(summary, rawBody)
	return summary, nil
}

// enrichCustomerProfile tra tên và ảnh khách hàng từ Graph API rồi cập nhật hội thoại.
// Chạy trong goroutine riêng với timeout riêng, không dùng ctx của request webhook.
func (s *IngestService) enrichCustomerProfile(ev NormalizedEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetErrorLogger().Errorf("Panic khi enrich profile khách hàng: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log := logger.GetAppLogger().WithField("conversationId", ev.ConversationID)

	integration, err := s.integrationService.GetActiveIntegration(ctx, ev.Platform, ev.PageID)
	if err != nil {
		// Chưa có token thì bỏ qua, hội thoại vẫn hoạt động bình thường không có tên khách
		if err == common.ErrNoIntegration {
			return
		}
		log.WithError(err).Warn("Không lấy được token để enrich profile")
		return
	}

	profile, err := s.graphClient.GetProfile(ctx, ev.CustomerID, integration.AccessToken)
	if err != nil {
		log.WithError(err).Warn("Tra cứu profile khách hàng thất bại")
		return
	}

	if err := s.conversationService.UpdateCustomerProfile(ctx, ev.ConversationID, profile.Name, profile.ProfilePic); err != nil {
		log.WithError(err).Warn("Cập nhật profile khách hàng thất bại")
	}
}

// saveWebhookLog lưu raw payload để debug, lỗi lưu log không ảnh hưởng response
func (s *IngestService) saveWebhookLog(summary *IngestSummary, rawBody []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.webhookLogService.SaveLog(ctx, summary.Platform, string(rawBody), summary.EventCount, summary.Dedup, summary.Dropped); err != nil {
		logger.GetErrorLogger().WithError(err).Warn("Lưu webhook log thất bại")
	}
}

// VerifyWebhookSubscription xử lý GET handshake của Facebook/Instagram.
// Trả về challenge để echo lại khi mode và token khớp, ok=false nếu không.
func VerifyWebhookSubscription(mode, verifyToken, challenge, expectedToken string) (string, bool) {
	if mode != "subscribe" {
		return "", false
	}
	if expectedToken == "" || verifyToken != expectedToken {
		return "", false
	}
	return challenge, true
}
