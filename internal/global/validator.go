package global

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// InitValidator khởi tạo validator singleton và đăng ký các custom validators
func InitValidator() {
	Validate = validator.New()

	// conversation_key: định dạng <platform>:<pageId>:<customerId>
	_ = Validate.RegisterValidation("conversation_key", func(fl validator.FieldLevel) bool {
		parts := strings.Split(fl.Field().String(), ":")
		if len(parts) != 3 {
			return false
		}
		for _, p := range parts {
			if p == "" {
				return false
			}
		}
		return true
	})
}
