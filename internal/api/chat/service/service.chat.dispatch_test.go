package chatsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"social_ai/internal/api/chat/dto"
	"social_ai/internal/common"
)

func TestResolveAttachmentType(t *testing.T) {
	cases := map[string]string{
		"https://cdn.example.com/photo.jpg":            "image",
		"https://cdn.example.com/photo.PNG":            "image",
		"https://cdn.example.com/clip.mp4":             "video",
		"https://cdn.example.com/voice.mp3":            "audio",
		"https://cdn.example.com/doc.pdf":              "file",
		"https://cdn.example.com/noext":                "file",
		"https://cdn.example.com/photo.jpg?size=large": "image", // query string không ảnh hưởng đuôi file
	}
	for url, want := range cases {
		assert.Equal(t, want, ResolveAttachmentType(url), "url %s", url)
	}
}

func TestValidateReplyContent(t *testing.T) {
	err := ValidateReplyContent(dto.ReplyInput{Message: "xin chào"})
	assert.NoError(t, err)

	err = ValidateReplyContent(dto.ReplyInput{MediaUrls: []string{"https://cdn.example.com/a.jpg"}})
	assert.NoError(t, err)

	err = ValidateReplyContent(dto.ReplyInput{})
	assert.ErrorIs(t, err, common.ErrEmptyReply)

	// Chỉ có whitespace cũng coi là rỗng
	err = ValidateReplyContent(dto.ReplyInput{Message: "   "})
	assert.ErrorIs(t, err, common.ErrEmptyReply)
}
