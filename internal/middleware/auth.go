package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/last-crusade/internal/config"
	apperrors "github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/metrics"
	"github.com/wfunc/last-crusade/internal/utils"
	"go.uber.org/zap"
)

// DefaultAPIKeyHeader 默认的API Key请求头
const DefaultAPIKeyHeader = "access_token"

const clientKey = "apiClient"

// APIKeyMiddleware API Key认证中间件
type APIKeyMiddleware struct {
	header string
	keys   []string
	hashes []string
	tokens *utils.APIKeyManager
	log    *zap.Logger
}

// NewAPIKeyMiddleware 创建API Key认证中间件，tokens可以为nil
func NewAPIKeyMiddleware(cfg *config.SecurityConfig, tokens *utils.APIKeyManager, log *zap.Logger) *APIKeyMiddleware {
	header := cfg.APIKeyHeader
	if header == "" {
		header = DefaultAPIKeyHeader
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &APIKeyMiddleware{
		header: header,
		keys:   cfg.APIKeys,
		hashes: cfg.APIKeyHashes,
		tokens: tokens,
		log:    log,
	}
}

// Enabled 是否配置了任何一种凭证
func (m *APIKeyMiddleware) Enabled() bool {
	return len(m.keys) > 0 || len(m.hashes) > 0 || m.tokens.Enabled()
}

// RequireAPIKey 需要API Key的中间件
func (m *APIKeyMiddleware) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := m.extractKey(c)
		if key == "" {
			AbortWithError(c, apperrors.Newf(apperrors.ErrAuthentication, "缺少请求头 %s", m.header))
			return
		}

		client, err := m.authenticate(key)
		if err != nil {
			m.log.Warn("API Key认证失败",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			AbortWithError(c, apperrors.As(err))
			return
		}

		c.Set(clientKey, client)
		c.Next()
	}
}

// authenticate 依次尝试明文key、哈希key和签名令牌
func (m *APIKeyMiddleware) authenticate(key string) (string, error) {
	for _, k := range m.keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			return "static", nil
		}
	}

	for _, h := range m.hashes {
		ok, err := utils.VerifyAPIKey(key, h)
		if err != nil {
			m.log.Error("API Key哈希配置无效", zap.Error(err))
			continue
		}
		if ok {
			return "hashed", nil
		}
	}

	if m.tokens.Enabled() && strings.Count(key, ".") == 2 {
		claims, err := m.tokens.Validate(key)
		if err == nil {
			return claims.Client, nil
		}
		if errors.Is(err, utils.ErrExpiredToken) {
			return "", apperrors.New(apperrors.ErrTokenExpired)
		}
		return "", apperrors.Wrap(err, apperrors.ErrTokenInvalid)
	}

	return "", apperrors.New(apperrors.ErrAuthentication, "无效的API Key")
}

// extractKey 从请求中提取API Key
func (m *APIKeyMiddleware) extractKey(c *gin.Context) string {
	if key := c.GetHeader(m.header); key != "" {
		return key
	}
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}

	// 浏览器的websocket握手无法设置请求头
	if c.IsWebsocket() {
		return c.Query(m.header)
	}
	return ""
}

// GetClient 从上下文获取已认证的客户端
func GetClient(c *gin.Context) (string, bool) {
	if v, exists := c.Get(clientKey); exists {
		if client, ok := v.(string); ok {
			return client, true
		}
	}
	return "", false
}

// AbortWithError 以统一的失败格式终止请求，业务规则失败计入监控
func AbortWithError(c *gin.Context, err *apperrors.AppError) {
	if err == nil {
		err = apperrors.New(apperrors.ErrUnknown)
	}
	if apperrors.IsBusinessFailure(err) {
		metrics.RecordFailure(int(err.Code))
	}
	RenderError(c, err)
}

// RenderError 只输出失败响应，不计入监控
func RenderError(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus(), gin.H{
		"success": false,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}

// abortInternal 未预期的服务器错误
func abortInternal(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"code":    apperrors.ErrUnknown,
		"message": "服务器内部错误",
	})
}
