package global

import (
	"social_ai/config"
	"social_ai/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_Chat_CollectionName chứa tên các collection trong MongoDB
type MongoDB_Chat_CollectionName struct {
	SocialChatMessages string // Tên collection cho tin nhắn chat
	ConversationLocks  string // Tên collection cho trạng thái gán/giao hàng của hội thoại
	ApiIntegrations    string // Tên collection cho token tích hợp theo (platform, page)
	SavedTemplates     string // Tên collection cho câu trả lời mẫu
	WebhookLogs        string // Tên collection cho log webhook thô
}

// Các biến toàn cục
var Validate *validator.Validate                                                     // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                                    // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration                                       // Cấu hình của server
var MongoDB_ColNames MongoDB_Chat_CollectionName = *new(MongoDB_Chat_CollectionName) // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
