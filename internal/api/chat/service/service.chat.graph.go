package chatsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"social_ai/internal/common"
	"social_ai/internal/global"
	"social_ai/internal/logger"
)

// GraphClient gọi Graph API của Meta để gửi tin và tra cứu profile.
// Mỗi lần gửi chỉ thử đúng một lần với timeout chặn trên, không retry:
// retry ở tầng này có thể làm khách nhận tin đúp.
type GraphClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGraphClient tạo GraphClient từ config toàn cục
func NewGraphClient() *GraphClient {
	baseURL := "https://graph.facebook.com/v19.0"
	timeout := 10 * time.Second
	if global.MongoDB_ServerConfig != nil {
		if global.MongoDB_ServerConfig.GraphAPIBaseURL != "" {
			baseURL = global.MongoDB_ServerConfig.GraphAPIBaseURL
		}
		if global.MongoDB_ServerConfig.GraphAPITimeout > 0 {
			timeout = time.Duration(global.MongoDB_ServerConfig.GraphAPITimeout) * time.Second
		}
	}
	return NewGraphClientWithBaseURL(baseURL, timeout)
}

// NewGraphClientWithBaseURL tạo GraphClient với base URL và timeout chỉ định
// (test trỏ baseURL vào httptest server)
func NewGraphClientWithBaseURL(baseURL string, timeout time.Duration) *GraphClient {
	return &GraphClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// graphSendRequest là body của POST /<pageId>/messages
type graphSendRequest struct {
	Recipient graphRecipient `json:"recipient"`
	Message   graphMessage   `json:"message"`
}

type graphRecipient struct {
	ID string `json:"id"`
}

type graphMessage struct {
	Text       string           `json:"text,omitempty"`
	Attachment *graphAttachment `json:"attachment,omitempty"`
}

type graphAttachment struct {
	Type    string                 `json:"type"`
	Payload graphAttachmentPayload `json:"payload"`
}

type graphAttachmentPayload struct {
	URL        string `json:"url"`
	IsReusable bool   `json:"is_reusable"`
}

// graphSendResponse là response của Graph API khi gửi tin thành công
type graphSendResponse struct {
	RecipientID string `json:"recipient_id"`
	MessageID   string `json:"message_id"`
}

// graphErrorResponse là body lỗi chuẩn của Graph API
type graphErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendText gửi một tin nhắn văn bản tới khách hàng.
// Trả về message_id do nền tảng cấp.
func (c *GraphClient) SendText(ctx context.Context, pageID, accessToken, recipientID, text string) (string, error) {
	body := graphSendRequest{
		Recipient: graphRecipient{ID: recipientID},
		Message:   graphMessage{Text: text},
	}
	return c.send(ctx, pageID, accessToken, body)
}

// SendAttachment gửi một file đính kèm theo URL tới khách hàng.
// attachmentType là image, video, audio hoặc file theo quy ước của Graph API.
func (c *GraphClient) SendAttachment(ctx context.Context, pageID, accessToken, recipientID, attachmentType, mediaURL string) (string, error) {
	body := graphSendRequest{
		Recipient: graphRecipient{ID: recipientID},
		Message: graphMessage{
			Attachment: &graphAttachment{
				Type: attachmentType,
				Payload: graphAttachmentPayload{
					URL:        mediaURL,
					IsReusable: true,
				},
			},
		},
	}
	return c.send(ctx, pageID, accessToken, body)
}

// send thực hiện POST /<pageId>/messages và chuẩn hóa lỗi từ nền tảng.
// Status và message lỗi gốc của nền tảng được giữ nguyên trong error trả về.
func (c *GraphClient) send(ctx context.Context, pageID, accessToken string, body graphSendRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", common.ErrInvalidFormat
	}

	endpoint := fmt.Sprintf("%s/%s/messages?access_token=%s", c.baseURL, pageID, url.QueryEscape(accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", common.NewError(common.ErrCodeChatPlatformSend, err.Error(), common.StatusBadGateway, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeout hoặc lỗi mạng, nền tảng không xác nhận đã gửi
		return "", common.NewPlatformSendError(common.StatusGatewayTimeout, err.Error())
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(respBody))
		var graphErr graphErrorResponse
		if err := json.Unmarshal(respBody, &graphErr); err == nil && graphErr.Error.Message != "" {
			message = graphErr.Error.Message
		}
		return "", common.NewPlatformSendError(resp.StatusCode, message)
	}

	var sendResp graphSendResponse
	if err := json.Unmarshal(respBody, &sendResp); err != nil {
		// Nền tảng đã nhận tin (2xx) nhưng body không đọc được,
		// message sẽ được lưu với platformMessageId rỗng
		logger.GetAppLogger().WithError(err).WithField("pageId", pageID).Warn("Không đọc được message_id từ response gửi tin của Graph API")
		return "", nil
	}
	return sendResp.MessageID, nil
}

// GraphProfile là thông tin công khai của khách hàng từ Graph API
type GraphProfile struct {
	Name       string `json:"name"`
	ProfilePic string `json:"profile_pic"`
}

// GetProfile tra cứu tên và ảnh đại diện khách hàng.
// Dùng cho enrichment bất đồng bộ, lỗi ở đây không chặn luồng ingest.
func (c *GraphClient) GetProfile(ctx context.Context, customerID, accessToken string) (*GraphProfile, error) {
	endpoint := fmt.Sprintf("%s/%s?fields=name,profile_pic&access_token=%s", c.baseURL, customerID, url.QueryEscape(accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("graph profile lookup failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var profile GraphProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
