package chatsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social_ai/internal/api/chat/dto"
	"social_ai/internal/common"
)

func TestParseConversationID(t *testing.T) {
	platform, pageID, customerID, err := ParseConversationID("facebook:123:456")
	require.NoError(t, err)
	assert.Equal(t, "facebook", platform)
	assert.Equal(t, "123", pageID)
	assert.Equal(t, "456", customerID)

	cases := []string{"", "facebook", "facebook:123", "facebook::456", ":123:456", "a:b:c:d"}
	for _, input := range cases {
		_, _, _, err := ParseConversationID(input)
		assert.Error(t, err, "input %q phải bị từ chối", input)
	}
}

func TestBuildConversationID(t *testing.T) {
	assert.Equal(t, "instagram:page1:cust9", BuildConversationID("instagram", "page1", "cust9"))
}

func TestParseWebhookPayload(t *testing.T) {
	payload, err := ParseWebhookPayload([]byte(`{"object":"page","entry":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "page", payload.Object)

	_, err = ParseWebhookPayload([]byte(`{not json`))
	assert.ErrorIs(t, err, common.ErrMalformedEvent)

	_, err = ParseWebhookPayload([]byte(`{"entry":[]}`))
	assert.ErrorIs(t, err, common.ErrMalformedEvent)
}

func textEvent(senderID, mid, text string, timestamp int64) dto.MessagingEvent {
	return dto.MessagingEvent{
		Sender:    dto.MessagingParticipant{ID: senderID},
		Recipient: dto.MessagingParticipant{ID: "page_1"},
		Timestamp: timestamp,
		Message:   &dto.MessageContent{MID: mid, Text: text},
	}
}

func TestNormalizeWebhookPayloadFanOut(t *testing.T) {
	payload := &dto.WebhookPayload{
		Object: "page",
		Entry: []dto.WebhookEntry{
			{
				ID: "page_1",
				Messaging: []dto.MessagingEvent{
					textEvent("cust_1", "mid.1", "xin chào", 1000),
					textEvent("cust_1", "mid.2", "shop ơi", 2000),
				},
			},
			{
				ID: "page_2",
				Messaging: []dto.MessagingEvent{
					textEvent("cust_2", "mid.3", "giá bao nhiêu", 3000),
				},
			},
		},
	}

	events, dropped, err := NormalizeWebhookPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, 0, dropped)
	require.Len(t, events, 3)

	// Thứ tự event phải theo đúng thứ tự trong payload
	assert.Equal(t, "mid.1", events[0].IdempotencyKey)
	assert.Equal(t, "mid.2", events[1].IdempotencyKey)
	assert.Equal(t, "mid.3", events[2].IdempotencyKey)

	assert.Equal(t, "facebook:page_1:cust_1", events[0].ConversationID)
	assert.Equal(t, "facebook:page_2:cust_2", events[2].ConversationID)
	assert.Equal(t, PlatformFacebook, events[0].Platform)
	assert.Equal(t, int64(1000), events[0].Timestamp)
}

func TestNormalizeWebhookPayloadInstagram(t *testing.T) {
	payload := &dto.WebhookPayload{
		Object: "instagram",
		Entry: []dto.WebhookEntry{
			{ID: "ig_page", Messaging: []dto.MessagingEvent{textEvent("ig_cust", "mid.ig", "hello", 10)}},
		},
	}

	events, _, err := NormalizeWebhookPayload(payload)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, PlatformInstagram, events[0].Platform)
	assert.Equal(t, "instagram:ig_page:ig_cust", events[0].ConversationID)
}

func TestNormalizeWebhookPayloadUnknownObject(t *testing.T) {
	payload := &dto.WebhookPayload{Object: "whatsapp"}
	_, _, err := NormalizeWebhookPayload(payload)
	assert.ErrorIs(t, err, common.ErrMalformedEvent)
}

func TestNormalizeWebhookPayloadDropRules(t *testing.T) {
	echo := textEvent("cust_1", "mid.echo", "tin từ page", 100)
	echo.Message.IsEcho = true

	empty := textEvent("cust_1", "mid.empty", "", 200)

	receipt := dto.MessagingEvent{
		Sender:    dto.MessagingParticipant{ID: "cust_1"},
		Recipient: dto.MessagingParticipant{ID: "page_1"},
		Timestamp: 300,
		Delivery:  &dto.DeliveryReceipt{Watermark: 300},
	}

	read := dto.MessagingEvent{
		Sender:    dto.MessagingParticipant{ID: "cust_1"},
		Recipient: dto.MessagingParticipant{ID: "page_1"},
		Timestamp: 400,
		Read:      &dto.ReadReceipt{Watermark: 400},
	}

	kept := textEvent("cust_1", "mid.keep", "tin thật", 500)

	payload := &dto.WebhookPayload{
		Object: "page",
		Entry: []dto.WebhookEntry{
			{ID: "page_1", Messaging: []dto.MessagingEvent{echo, empty, receipt, read, kept}},
		},
	}

	events, dropped, err := NormalizeWebhookPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, 4, dropped)
	require.Len(t, events, 1)
	assert.Equal(t, "mid.keep", events[0].IdempotencyKey)
}

func TestNormalizeWebhookPayloadMediaOnly(t *testing.T) {
	payload := &dto.WebhookPayload{
		Object: "page",
		Entry: []dto.WebhookEntry{
			{
				ID: "page_1",
				Messaging: []dto.MessagingEvent{
					{
						Sender:    dto.MessagingParticipant{ID: "cust_1"},
						Recipient: dto.MessagingParticipant{ID: "page_1"},
						Timestamp: 700,
						Message: &dto.MessageContent{
							MID: "mid.media",
							Attachments: []dto.Attachment{
								{Type: "image", Payload: dto.AttachmentPayload{URL: "https://cdn.example.com/a.jpg"}},
								{Type: "image", Payload: dto.AttachmentPayload{URL: "https://cdn.example.com/b.jpg"}},
							},
						},
					},
				},
			},
		},
	}

	events, dropped, err := NormalizeWebhookPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, 0, dropped)
	require.Len(t, events, 1)
	assert.Empty(t, events[0].Text)
	// Thứ tự media giữ nguyên như payload
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, events[0].MediaUrls)
}

func TestDeriveIdempotencyKeyStable(t *testing.T) {
	ev := textEvent("cust_1", "", "nội dung", 900)
	payload := &dto.WebhookPayload{
		Object: "page",
		Entry:  []dto.WebhookEntry{{ID: "page_1", Messaging: []dto.MessagingEvent{ev}}},
	}

	first, _, err := NormalizeWebhookPayload(payload)
	require.NoError(t, err)
	second, _, err := NormalizeWebhookPayload(payload)
	require.NoError(t, err)

	require.Len(t, first, 1)
	// Thiếu mid thì key dẫn xuất phải ổn định giữa các lần parse để dedup retry
	assert.Equal(t, first[0].IdempotencyKey, second[0].IdempotencyKey)
	assert.Contains(t, first[0].IdempotencyKey, "derived:")

	// Nội dung khác phải ra key khác
	other := textEvent("cust_1", "", "nội dung khác", 900)
	payload.Entry[0].Messaging = []dto.MessagingEvent{other}
	third, _, err := NormalizeWebhookPayload(payload)
	require.NoError(t, err)
	assert.NotEqual(t, first[0].IdempotencyKey, third[0].IdempotencyKey)
}

func TestVerifyWebhookSubscription(t *testing.T) {
	echo, ok := VerifyWebhookSubscription("subscribe", "secret", "challenge-123", "secret")
	assert.True(t, ok)
	assert.Equal(t, "challenge-123", echo)

	_, ok = VerifyWebhookSubscription("subscribe", "wrong", "challenge-123", "secret")
	assert.False(t, ok)

	_, ok = VerifyWebhookSubscription("unsubscribe", "secret", "challenge-123", "secret")
	assert.False(t, ok)

	// Token server rỗng thì không bao giờ verify thành công
	_, ok = VerifyWebhookSubscription("subscribe", "", "challenge-123", "")
	assert.False(t, ok)
}
