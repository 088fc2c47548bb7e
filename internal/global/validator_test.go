package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type conversationKeyInput struct {
	ConversationID string `validate:"required,conversation_key"`
}

func TestConversationKeyValidator(t *testing.T) {
	InitValidator()

	valid := []string{"facebook:123:456", "instagram:page:cust"}
	for _, key := range valid {
		err := Validate.Struct(&conversationKeyInput{ConversationID: key})
		assert.NoError(t, err, "key %q phải hợp lệ", key)
	}

	invalid := []string{"", "facebook", "facebook:123", "facebook::456", "a:b:c:d"}
	for _, key := range invalid {
		err := Validate.Struct(&conversationKeyInput{ConversationID: key})
		assert.Error(t, err, "key %q phải bị từ chối", key)
	}
}
