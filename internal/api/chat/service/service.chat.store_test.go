package chatsvc

// Các test trong file này chạy trên MongoDB thật để kiểm tra các hành vi dựa vào
// unique index và atomic update: dedup khi nền tảng gửi lại webhook, upsert hội
// thoại chạy đua lúc khách nhắn tin lần đầu, và gán hội thoại kiểu compare-and-set.
// Set MONGODB_TEST_URI (ví dụ mongodb://localhost:27017) để chạy, không set thì skip.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"social_ai/internal/api/chat/dto"
	chatmodels "social_ai/internal/api/chat/models"
	"social_ai/internal/common"
	"social_ai/internal/database"
	"social_ai/internal/global"
)

// setupChatStore kết nối MongoDB test, đăng ký collections vào registry và tạo
// index giống lúc khởi động server. Chỉ chạy một lần cho cả package.
func setupChatStore(t *testing.T) {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI chưa được set, bỏ qua test cần MongoDB thật")
	}

	global.MongoDB_ColNames.SocialChatMessages = "social_chat_messages"
	global.MongoDB_ColNames.ConversationLocks = "conversation_locks"

	if _, exists := global.RegistryCollections.Get(global.MongoDB_ColNames.SocialChatMessages); exists {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("social_ai_test")
	for name, model := range map[string]interface{}{
		global.MongoDB_ColNames.SocialChatMessages: chatmodels.ChatMessage{},
		global.MongoDB_ColNames.ConversationLocks:  chatmodels.ChatConversation{},
	} {
		coll := db.Collection(name)
		require.NoError(t, coll.Drop(ctx))
		_, err := global.RegistryCollections.Register(name, coll)
		require.NoError(t, err)
		require.NoError(t, database.CreateIndexes(ctx, coll, model))
	}
}

// testConversationID tạo khóa hội thoại duy nhất cho mỗi lần chạy test
func testConversationID() string {
	return fmt.Sprintf("facebook:page_1:cust_%d", time.Now().UnixNano())
}

// Nền tảng gửi lại cùng một event nhiều lần, kể cả đồng thời,
// thì store vẫn chỉ giữ đúng một message
func TestInsertInboundRedeliveryKeepsSingleRow(t *testing.T) {
	setupChatStore(t)

	messageService, err := NewChatMessageService()
	require.NoError(t, err)

	convID := testConversationID()
	ev := NormalizedEvent{
		Platform:       PlatformFacebook,
		PageID:         "page_1",
		CustomerID:     "cust_1",
		ConversationID: convID,
		Timestamp:      time.Now().UnixMilli(),
		Text:           "xin chào",
		IdempotencyKey: "mid." + convID,
	}

	const redeliveries = 5
	var stored, dedup int64
	var wg sync.WaitGroup
	for i := 0; i < redeliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, deduplicated, err := messageService.InsertInbound(context.Background(), ev)
			assert.NoError(t, err)
			if deduplicated {
				atomic.AddInt64(&dedup, 1)
			} else {
				atomic.AddInt64(&stored, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), stored)
	assert.Equal(t, int64(redeliveries-1), dedup)

	count, err := messageService.CountByConversation(context.Background(), convID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// Nhiều event đầu tiên của cùng một hội thoại đến đồng thời: upsert thua cuộc đua
// trên unique index được retry, không message nào bị rơi và chỉ có một record hội thoại
func TestEnsureConversationConcurrentFirstContact(t *testing.T) {
	setupChatStore(t)

	conversationService, err := NewConversationService()
	require.NoError(t, err)
	messageService, err := NewChatMessageService()
	require.NoError(t, err)

	convID := testConversationID()

	const events = 6
	var wg sync.WaitGroup
	for i := 0; i < events; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ev := NormalizedEvent{
				Platform:       PlatformFacebook,
				PageID:         "page_1",
				CustomerID:     "cust_first",
				ConversationID: convID,
				Timestamp:      time.Now().UnixMilli(),
				Text:           fmt.Sprintf("tin số %d", i),
				IdempotencyKey: fmt.Sprintf("mid.%s.%d", convID, i),
			}
			_, err := conversationService.EnsureConversation(context.Background(), ev)
			if !assert.NoError(t, err) {
				return
			}
			_, deduplicated, err := messageService.InsertInbound(context.Background(), ev)
			assert.NoError(t, err)
			assert.False(t, deduplicated)
		}()
	}
	wg.Wait()

	count, err := messageService.CountByConversation(context.Background(), convID)
	require.NoError(t, err)
	assert.Equal(t, int64(events), count)

	locks, err := conversationService.CountDocuments(context.Background(), bson.M{"conversationId": convID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), locks)
}

// Nhiều seller bấm nhận cùng một hội thoại cùng lúc: đúng một người thắng,
// những người còn lại nhận lỗi conflict
func TestAssignConcurrentSingleWinner(t *testing.T) {
	setupChatStore(t)

	conversationService, err := NewConversationService()
	require.NoError(t, err)

	convID := testConversationID()
	ev := NormalizedEvent{
		Platform:       PlatformFacebook,
		PageID:         "page_1",
		CustomerID:     "cust_assign",
		ConversationID: convID,
		Timestamp:      time.Now().UnixMilli(),
	}
	_, err = conversationService.EnsureConversation(context.Background(), ev)
	require.NoError(t, err)

	const sellers = 4
	var wins, conflicts int64
	var wg sync.WaitGroup
	for i := 0; i < sellers; i++ {
		sellerID := fmt.Sprintf("seller_%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := conversationService.Assign(context.Background(), convID, dto.AssignInput{
				SellerID:   sellerID,
				AssignedBy: sellerID,
			})
			switch {
			case err == nil:
				atomic.AddInt64(&wins, 1)
			case errors.Is(err, common.ErrAssignmentConflict):
				atomic.AddInt64(&conflicts, 1)
			default:
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins)
	assert.Equal(t, int64(sellers-1), conflicts)

	// Chủ sở hữu cuối cùng là một trong các seller tham gia, không bị ghi đè chéo
	conv, err := conversationService.FindByConversationID(context.Background(), convID)
	require.NoError(t, err)
	assert.NotEmpty(t, conv.SellerID)
	assert.Equal(t, conv.SellerID, conv.AssignedBy)
}
