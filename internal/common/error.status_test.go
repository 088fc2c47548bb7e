package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestErrorIs(t *testing.T) {
	assert.True(t, errors.Is(ErrNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrDuplicate))

	wrapped := NewError(ErrCodeChatAssignConflict, "Hội thoại đã được người khác nhận", StatusConflict, nil)
	assert.True(t, errors.Is(wrapped, ErrAssignmentConflict))
}

func TestChatErrorStatusCodes(t *testing.T) {
	var customErr *Error

	require.True(t, errors.As(ErrAssignmentConflict, &customErr))
	assert.Equal(t, StatusConflict, customErr.StatusCode)

	require.True(t, errors.As(ErrNoIntegration, &customErr))
	assert.Equal(t, StatusUnprocessable, customErr.StatusCode)

	require.True(t, errors.As(ErrEmptyReply, &customErr))
	assert.Equal(t, StatusBadRequest, customErr.StatusCode)

	require.True(t, errors.As(ErrMalformedEvent, &customErr))
	assert.Equal(t, StatusBadRequest, customErr.StatusCode)
}

func TestNewPlatformSendError(t *testing.T) {
	err := NewPlatformSendError(400, "Invalid OAuth access token.")

	var customErr *Error
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, ErrCodeChatPlatformSend.Code, customErr.Code.Code)
	assert.Equal(t, StatusBadGateway, customErr.StatusCode)
	// Message gốc của nền tảng giữ nguyên
	assert.Equal(t, "Invalid OAuth access token.", customErr.Message)

	details, ok := customErr.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 400, details["remoteStatus"])
}

func TestConvertMongoError(t *testing.T) {
	assert.Nil(t, ConvertMongoError(nil))

	// ErrNotFound giữ nguyên, không convert
	assert.Equal(t, ErrNotFound, ConvertMongoError(ErrNotFound))

	// Duplicate key error của driver map sang ErrMongoDuplicate
	dupErr := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
	assert.Equal(t, ErrMongoDuplicate, ConvertMongoError(dupErr))

	// Upsert thua cuộc đua trên unique index trả E11000 dưới dạng CommandError,
	// vẫn phải map sang ErrMongoDuplicate chứ không phải lỗi hệ thống theo dải mã
	cmdDupErr := mongo.CommandError{Code: 11000, Message: "E11000 duplicate key error collection: social_ai.conversation_locks"}
	assert.Equal(t, ErrMongoDuplicate, ConvertMongoError(cmdDupErr))

	// Lỗi không nhận diện được thì trả về lỗi database chung
	converted := ConvertMongoError(errors.New("something odd"))
	var customErr *Error
	require.True(t, errors.As(converted, &customErr))
	assert.Equal(t, ErrCodeDatabase.Code, customErr.Code.Code)
}
