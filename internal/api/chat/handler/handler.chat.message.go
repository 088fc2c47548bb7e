package chathdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "social_ai/internal/api/base/handler"
	"social_ai/internal/api/chat/dto"
	chatsvc "social_ai/internal/api/chat/service"
	"social_ai/internal/common"
	"social_ai/internal/global"
)

// MessageHandler xử lý request đọc tin nhắn của hội thoại
type MessageHandler struct {
	messageService *chatsvc.ChatMessageService
}

// NewMessageHandler tạo mới MessageHandler
func NewMessageHandler() (*MessageHandler, error) {
	messageService, err := chatsvc.NewChatMessageService()
	if err != nil {
		return nil, fmt.Errorf("failed to create chat message service: %v", err)
	}
	return &MessageHandler{
		messageService: messageService,
	}, nil
}

// HandleListMessages trả về tin nhắn của một hội thoại theo thứ tự thời gian tăng dần
func (h *MessageHandler) HandleListMessages(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		conversationID, err := conversationIDFromParams(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.MessageListInput
		if err := c.Bind().Query(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, err.Error(), common.StatusBadRequest, nil))
			return nil
		}

		result, err := h.messageService.FindByConversation(c.Context(), conversationID, input.Page, input.Limit)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}
