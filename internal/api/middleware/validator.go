package middleware

import (
	"fmt"
	"strings"

	"recipe-assistant/internal/core/kb"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators 向 gin 的驗證器註冊知識庫相關的自訂規則：dietary、cuisine、difficulty
func RegisterValidators(knowledge *kb.KnowledgeBase) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	rules := map[string]validator.Func{
		"dietary":    oneOfFold(knowledge.DietaryOptions()),
		"cuisine":    oneOfFold(knowledge.CuisineTypes()),
		"difficulty": func(fl validator.FieldLevel) bool { return kb.Difficulty(strings.ToLower(fl.Field().String())).Valid() },
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}

// oneOfFold 不分大小寫比對允許值
func oneOfFold(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := strings.TrimSpace(fl.Field().String())
		for _, a := range allowed {
			if strings.EqualFold(value, a) {
				return true
			}
		}
		return false
	}
}
