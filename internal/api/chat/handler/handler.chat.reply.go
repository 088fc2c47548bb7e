package chathdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "social_ai/internal/api/base/handler"
	"social_ai/internal/api/chat/dto"
	chatsvc "social_ai/internal/api/chat/service"
	"social_ai/internal/common"
	"social_ai/internal/global"
	"social_ai/internal/logger"
)

// ReplyHandler xử lý request gửi tin trả lời
type ReplyHandler struct {
	dispatchService *chatsvc.DispatchService
}

// NewReplyHandler tạo mới ReplyHandler
func NewReplyHandler() (*ReplyHandler, error) {
	dispatchService, err := chatsvc.NewDispatchService()
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatch service: %v", err)
	}
	return &ReplyHandler{
		dispatchService: dispatchService,
	}, nil
}

// HandleReply gửi tin trả lời qua Graph API rồi trả về các message đã lưu.
// Nền tảng từ chối thì trả 502 kèm status và message gốc của nền tảng.
func (h *ReplyHandler) HandleReply(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input dto.ReplyInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, err.Error(), common.StatusBadRequest, nil))
			return nil
		}

		result, err := h.dispatchService.Reply(c.Context(), input)
		if err != nil {
			logger.GetAppLogger().WithError(err).WithField("conversationId", input.ConversationID).Error("💬 [CHAT REPLY] Gửi tin trả lời thất bại")
		}
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}
