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

// IntegrationHandler xử lý đăng ký và quản lý token tích hợp theo page
type IntegrationHandler struct {
	integrationService *chatsvc.IntegrationService
}

// NewIntegrationHandler tạo mới IntegrationHandler
func NewIntegrationHandler() (*IntegrationHandler, error) {
	integrationService, err := chatsvc.NewIntegrationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create integration service: %v", err)
	}
	return &IntegrationHandler{
		integrationService: integrationService,
	}, nil
}

// HandleUpsert đăng ký hoặc cập nhật token cho một page
func (h *IntegrationHandler) HandleUpsert(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input dto.IntegrationInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, err.Error(), common.StatusBadRequest, nil))
			return nil
		}

		integration, err := h.integrationService.UpsertIntegration(c.Context(), input)
		basehdl.HandleResponse(c, integration, err)
		return nil
	})
}

// HandleList liệt kê các tích hợp đã đăng ký (access token không trả về cho client)
func (h *IntegrationHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		page, limit := parsePagination(c)
		result, err := h.integrationService.FindWithPagination(c.Context(), nil, page, limit, nil)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// HandleDeactivate tắt token của một page
func (h *IntegrationHandler) HandleDeactivate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		platform := c.Params("platform")
		pageID := c.Params("pageId")
		if platform == "" || pageID == "" {
			basehdl.HandleResponse(c, nil, common.ErrRequiredField)
			return nil
		}

		err := h.integrationService.DeactivateIntegration(c.Context(), platform, pageID)
		basehdl.HandleResponse(c, fiber.Map{"platform": platform, "pageId": pageID}, err)
		return nil
	})
}
