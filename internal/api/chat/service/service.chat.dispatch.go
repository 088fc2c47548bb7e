package chatsvc

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"social_ai/internal/api/chat/dto"
	chatmodels "social_ai/internal/api/chat/models"
	"social_ai/internal/common"
	"social_ai/internal/logger"
)

// DispatchService gửi tin trả lời qua Graph API và lưu lại tin đã gửi thành công.
// Mỗi nội dung (text hoặc một media) là một lần gửi riêng tới nền tảng và một
// message riêng trong store. Gửi thất bại thì không ghi message cho nội dung đó.
type DispatchService struct {
	messageService      *ChatMessageService
	conversationService *ConversationService
	integrationService  *IntegrationService
	templateService     *TemplateService
	graphClient         *GraphClient
}

// NewDispatchService tạo mới DispatchService
func NewDispatchService() (*DispatchService, error) {
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
	templateService, err := NewTemplateService()
	if err != nil {
		return nil, fmt.Errorf("failed to create template service: %v", err)
	}
	return &DispatchService{
		messageService:      messageService,
		conversationService: conversationService,
		integrationService:  integrationService,
		templateService:     templateService,
		graphClient:         NewGraphClient(),
	}, nil
}

// ResolveAttachmentType suy ra loại attachment của Graph API từ đuôi file trong URL.
// Không nhận diện được thì gửi dưới dạng file.
func ResolveAttachmentType(mediaURL string) string {
	parsed, err := url.Parse(mediaURL)
	if err != nil {
		return "file"
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(parsed.Path), "."))
	switch ext {
	case "jpg", "jpeg", "png", "gif", "webp", "bmp":
		return "image"
	case "mp4", "mov", "avi", "webm":
		return "video"
	case "mp3", "wav", "ogg", "m4a":
		return "audio"
	default:
		return "file"
	}
}

// ValidateReplyContent kiểm tra request trả lời có nội dung để gửi hay không
func ValidateReplyContent(input dto.ReplyInput) error {
	if strings.TrimSpace(input.Message) == "" && len(input.MediaUrls) == 0 {
		return common.ErrEmptyReply
	}
	return nil
}

// Reply gửi tin trả lời một hội thoại.
// Platform và page lấy từ record hội thoại trong DB, không tin phía client.
// Các nội dung gửi tuần tự theo thứ tự text trước, media sau; gặp lỗi thì dừng,
// các message đã gửi thành công trước đó vẫn được giữ trong store.
func (s *DispatchService) Reply(ctx context.Context, input dto.ReplyInput) (*dto.ReplyResult, error) {
	// Reply tham chiếu mẫu thì lấy nội dung từ mẫu trước khi validate
	if input.Template != "" {
		template, err := s.templateService.FindByName(ctx, input.Template)
		if err != nil {
			return nil, err
		}
		if input.Message == "" {
			input.Message = template.Content
		}
		if len(input.MediaUrls) == 0 {
			input.MediaUrls = template.MediaUrls
		}
	}

	if err := ValidateReplyContent(input); err != nil {
		return nil, err
	}

	conv, err := s.conversationService.FindByConversationID(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}

	integration, err := s.integrationService.GetActiveIntegration(ctx, conv.Platform, conv.PageID)
	if err != nil {
		return nil, err
	}

	log := logger.GetAppLogger().WithField("conversationId", input.ConversationID)
	result := &dto.ReplyResult{
		ConversationID: input.ConversationID,
		MessageIDs:     []string{},
	}
	saved := []chatmodels.ChatMessage{}

	// Gửi văn bản trước để khách đọc nội dung trước khi thấy media
	if strings.TrimSpace(input.Message) != "" {
		platformMessageID, err := s.graphClient.SendText(ctx, conv.PageID, integration.AccessToken, conv.CustomerID, input.Message)
		if err != nil {
			log.WithError(err).Error("Gửi tin văn bản thất bại")
			return nil, err
		}

		msg, err := s.saveOutbound(ctx, conv, input, input.Message, nil, platformMessageID)
		if err != nil {
			return nil, err
		}
		saved = append(saved, msg)
		result.MessageIDs = append(result.MessageIDs, msg.ID.Hex())
	}

	// Mỗi media là một lần gửi và một message riêng
	for _, mediaURL := range input.MediaUrls {
		attachmentType := ResolveAttachmentType(mediaURL)
		platformMessageID, err := s.graphClient.SendAttachment(ctx, conv.PageID, integration.AccessToken, conv.CustomerID, attachmentType, mediaURL)
		if err != nil {
			log.WithError(err).WithField("mediaUrl", mediaURL).Error("Gửi media thất bại")
			return nil, err
		}

		msg, err := s.saveOutbound(ctx, conv, input, "", []string{mediaURL}, platformMessageID)
		if err != nil {
			return nil, err
		}
		saved = append(saved, msg)
		result.MessageIDs = append(result.MessageIDs, msg.ID.Hex())
	}

	result.Messages = saved
	return result, nil
}

// saveOutbound lưu một tin đã được nền tảng xác nhận gửi thành công
func (s *DispatchService) saveOutbound(ctx context.Context, conv chatmodels.ChatConversation, input dto.ReplyInput, text string, mediaUrls []string, platformMessageID string) (chatmodels.ChatMessage, error) {
	msg := chatmodels.ChatMessage{
		ConversationID:    conv.ConversationID,
		SenderRole:        input.SenderRole,
		SenderName:        input.SenderName,
		Message:           text,
		MediaUrls:         mediaUrls,
		Platform:          conv.Platform,
		PageID:            conv.PageID,
		Timestamp:         time.Now().UnixMilli(),
		PlatformMessageID: platformMessageID,
	}
	return s.messageService.InsertOutbound(ctx, msg)
}
