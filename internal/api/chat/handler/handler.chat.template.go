package chathdl

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"

	basehdl "social_ai/internal/api/base/handler"
	"social_ai/internal/api/chat/dto"
	chatsvc "social_ai/internal/api/chat/service"
	"social_ai/internal/common"
	"social_ai/internal/global"
)

// TemplateHandler xử lý CRUD câu trả lời mẫu
type TemplateHandler struct {
	templateService *chatsvc.TemplateService
}

// NewTemplateHandler tạo mới TemplateHandler
func NewTemplateHandler() (*TemplateHandler, error) {
	templateService, err := chatsvc.NewTemplateService()
	if err != nil {
		return nil, fmt.Errorf("failed to create template service: %v", err)
	}
	return &TemplateHandler{
		templateService: templateService,
	}, nil
}

// parsePagination đọc page/limit từ query string
func parsePagination(c fiber.Ctx) (int64, int64) {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	return page, limit
}

// HandleList liệt kê các mẫu
func (h *TemplateHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		page, limit := parsePagination(c)
		result, err := h.templateService.FindAll(c.Context(), page, limit)
		basehdl.HandleResponse(c, result, err)
		return nil
	})
}

// HandleCreate tạo mẫu mới
func (h *TemplateHandler) HandleCreate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input dto.TemplateInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, err.Error(), common.StatusBadRequest, nil))
			return nil
		}

		template, err := h.templateService.Create(c.Context(), input)
		basehdl.HandleResponse(c, template, err)
		return nil
	})
}

// HandleUpdate cập nhật một mẫu theo tên
func (h *TemplateHandler) HandleUpdate(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		name := c.Params("name")
		if name == "" {
			basehdl.HandleResponse(c, nil, common.ErrRequiredField)
			return nil
		}

		var input dto.TemplateInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidInput)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, err.Error(), common.StatusBadRequest, nil))
			return nil
		}

		template, err := h.templateService.Update(c.Context(), name, input)
		basehdl.HandleResponse(c, template, err)
		return nil
	})
}

// HandleDelete xóa một mẫu theo tên
func (h *TemplateHandler) HandleDelete(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		name := c.Params("name")
		if name == "" {
			basehdl.HandleResponse(c, nil, common.ErrRequiredField)
			return nil
		}

		err := h.templateService.Delete(c.Context(), name)
		basehdl.HandleResponse(c, fiber.Map{"name": name}, err)
		return nil
	})
}
