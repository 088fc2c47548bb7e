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

// ConversationHandler xử lý các request về hội thoại: liệt kê, gán, trả, đổi trạng thái
type ConversationHandler struct {
	conversationService *chatsvc.ConversationService
}

// NewConversationHandler tạo mới ConversationHandler
func NewConversationHandler() (*ConversationHandler, error) {
	conversationService, err := chatsvc.NewConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %v", err)
	}
	return &ConversationHandler{
		conversationService: conversationService,
	}, nil
}

// conversationIDFromParams lấy và kiểm tra khóa hội thoại từ URL param
func conversationIDFromParams(c fiber.Ctx) (string, error) {
	conversationID := c.Params("id")
	if _, _, _, err := chatsvc.ParseConversationID(conversationID); err != nil {
		return "", err
	}
	return conversationID, nil
}

// HandleList liệt kê hội thoại theo filter
func (h *ConversationHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input dto.ConversationListInput
		if err := c.Bind().Query(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, err.Error(), common.StatusBadRequest, nil))
			return nil
		}

		result, err := h.conversationService.FindAll(c.Context(), input)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// HandleGet trả về chi tiết một hội thoại
func (h *ConversationHandler) HandleGet(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		conversationID, err := conversationIDFromParams(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		conv, err := h.conversationService.FindByConversationID(c.Context(), conversationID)
		basehdl.HandleResponse(c, conv, err)
		return nil
	})
}

// HandleAssign gán hội thoại cho một seller.
// Hội thoại đang thuộc seller khác trả về 409, trừ khi force=true.
func (h *ConversationHandler) HandleAssign(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		conversationID, err := conversationIDFromParams(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.AssignInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, err.Error(), common.StatusBadRequest, nil))
			return nil
		}

		conv, err := h.conversationService.Assign(c.Context(), conversationID, input)
		basehdl.HandleResponse(c, conv, err)
		return nil
	})
}

// HandleRelease trả hội thoại về trạng thái chưa gán
func (h *ConversationHandler) HandleRelease(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		conversationID, err := conversationIDFromParams(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.ReleaseInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}

		conv, err := h.conversationService.Release(c.Context(), conversationID, input)
		basehdl.HandleResponse(c, conv, err)
		return nil
	})
}

// HandleSetStatus đổi trạng thái giao hàng của hội thoại
func (h *ConversationHandler) HandleSetStatus(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		conversationID, err := conversationIDFromParams(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		var input dto.SetStatusInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, err.Error(), common.StatusBadRequest, nil))
			return nil
		}

		conv, err := h.conversationService.SetStatus(c.Context(), conversationID, input.DeliveryStatus)
		basehdl.HandleResponse(c, conv, err)
		return nil
	})
}
