package chatsvc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social_ai/internal/common"
	"social_ai/internal/logger"
)

func TestGraphClientSendTextSuccess(t *testing.T) {
	var gotPath string
	var gotBody graphSendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"recipient_id": "cust_1",
			"message_id":   "m_abc123",
		})
	}))
	defer server.Close()

	client := NewGraphClientWithBaseURL(server.URL, 5*time.Second)
	messageID, err := client.SendText(context.Background(), "page_1", "token-xyz", "cust_1", "xin chào")
	require.NoError(t, err)
	assert.Equal(t, "m_abc123", messageID)
	assert.Equal(t, "/page_1/messages", gotPath)
	assert.Equal(t, "cust_1", gotBody.Recipient.ID)
	assert.Equal(t, "xin chào", gotBody.Message.Text)
	assert.Nil(t, gotBody.Message.Attachment)
}

func TestGraphClientSendAttachment(t *testing.T) {
	var gotBody graphSendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"message_id": "m_media"})
	}))
	defer server.Close()

	client := NewGraphClientWithBaseURL(server.URL, 5*time.Second)
	messageID, err := client.SendAttachment(context.Background(), "page_1", "token", "cust_1", "image", "https://cdn.example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "m_media", messageID)
	require.NotNil(t, gotBody.Message.Attachment)
	assert.Equal(t, "image", gotBody.Message.Attachment.Type)
	assert.Equal(t, "https://cdn.example.com/a.jpg", gotBody.Message.Attachment.Payload.URL)
	assert.Empty(t, gotBody.Message.Text)
}

func TestGraphClientSendPlatformRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message": "Invalid OAuth access token.",
				"type":    "OAuthException",
				"code":    190,
			},
		})
	}))
	defer server.Close()

	client := NewGraphClientWithBaseURL(server.URL, 5*time.Second)
	_, err := client.SendText(context.Background(), "page_1", "bad-token", "cust_1", "hi")
	require.Error(t, err)

	// Status và message gốc của nền tảng phải được giữ nguyên trong error
	var customErr *common.Error
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, common.ErrCodeChatPlatformSend.Code, customErr.Code.Code)
	assert.Equal(t, common.StatusBadGateway, customErr.StatusCode)
	assert.Equal(t, "Invalid OAuth access token.", customErr.Message)

	details, ok := customErr.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, details["remoteStatus"])
}

func TestGraphClientSendTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewGraphClientWithBaseURL(server.URL, 50*time.Millisecond)
	_, err := client.SendText(context.Background(), "page_1", "token", "cust_1", "hi")
	require.Error(t, err)

	var customErr *common.Error
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, common.ErrCodeChatPlatformSend.Code, customErr.Code.Code)
	assert.Equal(t, common.StatusBadGateway, customErr.StatusCode)
}

func TestGraphClientSendUnreadableSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("not-json"))
	}))
	defer server.Close()

	hook := logtest.NewLocal(logger.GetAppLogger())
	defer hook.Reset()

	// Nền tảng đã nhận tin nên không trả lỗi, nhưng message_id rỗng phải để lại
	// dấu vết trong log để truy được về sau
	client := NewGraphClientWithBaseURL(server.URL, 5*time.Second)
	messageID, err := client.SendText(context.Background(), "page_1", "token", "cust_1", "hi")
	require.NoError(t, err)
	assert.Empty(t, messageID)

	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "page_1", hook.LastEntry().Data["pageId"])
}

func TestGraphClientGetProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cust_1", r.URL.Path)
		assert.Equal(t, "name,profile_pic", r.URL.Query().Get("fields"))
		json.NewEncoder(w).Encode(map[string]string{
			"name":        "Nguyễn Văn A",
			"profile_pic": "https://cdn.example.com/avatar.jpg",
		})
	}))
	defer server.Close()

	client := NewGraphClientWithBaseURL(server.URL, 5*time.Second)
	profile, err := client.GetProfile(context.Background(), "cust_1", "token")
	require.NoError(t, err)
	assert.Equal(t, "Nguyễn Văn A", profile.Name)
	assert.Equal(t, "https://cdn.example.com/avatar.jpg", profile.ProfilePic)
}

func TestGraphClientGetProfileFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewGraphClientWithBaseURL(server.URL, 5*time.Second)
	_, err := client.GetProfile(context.Background(), "cust_1", "token")
	assert.Error(t, err)
}
