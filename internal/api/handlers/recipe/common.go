package recipe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/assistant"
	"recipe-assistant/internal/core/state"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const statusSuccess = "success"

// session 取得會話 id：請求內容優先，其次為 X-Session-ID 標頭
func session(c *gin.Context, fromBody string) (string, error) {
	if strings.TrimSpace(fromBody) != "" {
		return state.NormalizeSession(fromBody)
	}
	return state.NormalizeSession(c.GetHeader(middleware.SessionHeader))
}

// bindJSON 解析並驗證請求內容，失敗時已回應 400
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
			zap.String("path", c.Request.URL.Path),
		)
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage(bindMessage(err)))
		return false
	}
	return true
}

// bindMessage 將驗證錯誤轉為使用者可讀的訊息
func bindMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid request format"
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min", "max", "gte", "lte", "gt":
		return fe.Field() + " is out of range"
	case "datetime":
		return fe.Field() + " must use the YYYY-MM-DD format"
	default:
		return fe.Field() + " has an unsupported value"
	}
}

// respondError 將核心錯誤對應為 HTTP 錯誤回應
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ce *common.CustomError
	switch {
	case errors.As(err, &ce):
		middleware.Abort(c, ce)
	case errors.Is(err, assistant.ErrRecipeNotFound):
		middleware.Abort(c, common.ErrNotFound.WithMessage("Recipe not found"))
	case errors.Is(err, assistant.ErrNoRecipes):
		middleware.Abort(c, common.ErrUnprocessable.WithMessage(err.Error()))
	case errors.Is(err, state.ErrInvalidSession):
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage("Invalid session id"))
	case common.IsValidationError(err):
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage(err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		middleware.Abort(c, common.ErrGatewayTimeout)
	default:
		common.LogError("請求處理失敗",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
			zap.String("path", c.Request.URL.Path),
		)
		middleware.Abort(c, common.ErrInternalError)
	}
}

// baseURL 分享連結使用的網址，未設定 public_url 時由請求推導
func (h *Handler) baseURL(c *gin.Context) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func ok(c *gin.Context, body gin.H) {
	body["status"] = statusSuccess
	c.JSON(http.StatusOK, body)
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// queryInt 讀取正整數查詢參數，缺少時回傳 def；無效時已回應 400
func queryInt(c *gin.Context, name string, def, max int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > max {
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage(fmt.Sprintf("%s must be an integer between 1 and %d", name, max)))
		return 0, false
	}
	return n, true
}
