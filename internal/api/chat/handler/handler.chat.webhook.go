// Package chathdl chứa các HTTP handler cho domain chat.
package chathdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "social_ai/internal/api/base/handler"
	chatsvc "social_ai/internal/api/chat/service"
	"social_ai/internal/common"
	"social_ai/internal/global"
	"social_ai/internal/logger"
)

// ChatWebhookHandler xử lý webhook messaging từ Facebook/Instagram
type ChatWebhookHandler struct {
	ingestService *chatsvc.IngestService
}

// NewChatWebhookHandler tạo mới ChatWebhookHandler
func NewChatWebhookHandler() (*ChatWebhookHandler, error) {
	ingestService, err := chatsvc.NewIngestService()
	if err != nil {
		return nil, fmt.Errorf("failed to create ingest service: %v", err)
	}
	return &ChatWebhookHandler{
		ingestService: ingestService,
	}, nil
}

// HandleVerify xử lý GET handshake khi đăng ký webhook với Meta.
// Token khớp thì echo lại hub.challenge dưới dạng plain text, sai thì trả 403.
func (h *ChatWebhookHandler) HandleVerify(c fiber.Ctx) error {
	mode := c.Query("hub.mode")
	verifyToken := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	expectedToken := ""
	if global.MongoDB_ServerConfig != nil {
		expectedToken = global.MongoDB_ServerConfig.WebhookVerifyToken
	}

	echo, ok := chatsvc.VerifyWebhookSubscription(mode, verifyToken, challenge, expectedToken)
	if !ok {
		logger.GetAppLogger().WithField("mode", mode).Warn("🔔 [CHAT WEBHOOK] Verify handshake thất bại, token không khớp")
		return c.Status(common.StatusForbidden).SendString("Forbidden")
	}

	logger.GetAppLogger().Info("🔔 [CHAT WEBHOOK] Verify handshake thành công")
	return c.Status(common.StatusOK).SendString(echo)
}

// HandleWebhook xử lý POST webhook messaging.
// Luôn trả về 200 kể cả khi payload hỏng hoặc xử lý lỗi: trả lỗi sẽ khiến
// nền tảng retry liên tục và cuối cùng tắt subscription của app.
func (h *ChatWebhookHandler) HandleWebhook(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		log := logger.GetAppLogger()
		rawBody := make([]byte, len(c.Body()))
		copy(rawBody, c.Body())

		summary, err := h.ingestService.ProcessPayload(c.Context(), rawBody)
		if err != nil {
			log.WithError(err).Error("🔔 [CHAT WEBHOOK] Không xử lý được payload webhook")
			c.Status(common.StatusOK).JSON(fiber.Map{
				"code":    common.StatusOK,
				"message": "Webhook đã được nhận",
				"status":  "success",
			})
			return nil
		}

		log.WithFields(map[string]interface{}{
			"platform": summary.Platform,
			"stored":   summary.Stored,
			"dedup":    summary.Dedup,
			"dropped":  summary.Dropped,
		}).Info("🔔 [CHAT WEBHOOK] Đã xử lý payload webhook")

		c.Status(common.StatusOK).JSON(fiber.Map{
			"code":    common.StatusOK,
			"message": "Webhook đã được nhận",
			"data":    summary,
			"status":  "success",
		})
		return nil
	})
}
