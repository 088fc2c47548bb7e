// Package router đăng ký các route thuộc domain chat: webhook, hội thoại, tin nhắn, reply, template, integration.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	chathdl "social_ai/internal/api/chat/handler"
)

// Register đăng ký tất cả route chat lên v1.
func Register(v1 fiber.Router) error {
	webhookHandler, err := chathdl.NewChatWebhookHandler()
	if err != nil {
		return fmt.Errorf("create chat webhook handler: %w", err)
	}
	v1.Get("/chat/webhook", webhookHandler.HandleVerify)
	v1.Post("/chat/webhook", webhookHandler.HandleWebhook)

	conversationHandler, err := chathdl.NewConversationHandler()
	if err != nil {
		return fmt.Errorf("create conversation handler: %w", err)
	}
	v1.Get("/chat/conversations", conversationHandler.HandleList)
	v1.Get("/chat/conversations/:id", conversationHandler.HandleGet)
	v1.Post("/chat/conversations/:id/assign", conversationHandler.HandleAssign)
	v1.Post("/chat/conversations/:id/release", conversationHandler.HandleRelease)
	v1.Post("/chat/conversations/:id/status", conversationHandler.HandleSetStatus)

	messageHandler, err := chathdl.NewMessageHandler()
	if err != nil {
		return fmt.Errorf("create message handler: %w", err)
	}
	v1.Get("/chat/conversations/:id/messages", messageHandler.HandleListMessages)

	replyHandler, err := chathdl.NewReplyHandler()
	if err != nil {
		return fmt.Errorf("create reply handler: %w", err)
	}
	v1.Post("/chat/reply", replyHandler.HandleReply)

	templateHandler, err := chathdl.NewTemplateHandler()
	if err != nil {
		return fmt.Errorf("create template handler: %w", err)
	}
	v1.Get("/chat/templates", templateHandler.HandleList)
	v1.Post("/chat/templates", templateHandler.HandleCreate)
	v1.Put("/chat/templates/:name", templateHandler.HandleUpdate)
	v1.Delete("/chat/templates/:name", templateHandler.HandleDelete)

	integrationHandler, err := chathdl.NewIntegrationHandler()
	if err != nil {
		return fmt.Errorf("create integration handler: %w", err)
	}
	v1.Get("/chat/integrations", integrationHandler.HandleList)
	v1.Post("/chat/integrations", integrationHandler.HandleUpsert)
	v1.Post("/chat/integrations/:platform/:pageId/deactivate", integrationHandler.HandleDeactivate)

	return nil
}
