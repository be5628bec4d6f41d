package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeAPIKey 签名API令牌的类型
const TokenTypeAPIKey = "api_key"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrWrongType    = errors.New("not an api key token")
	ErrBadExpiry    = errors.New("api key expiry must not be negative")
)

// APIKeyClaims 签名API令牌的Claims
type APIKeyClaims struct {
	// Client 令牌持有者，仅用于日志
	Client    string `json:"client"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// APIKeyManager 签发与校验API令牌
type APIKeyManager struct {
	secretKey string
	issuer    string
	expiry    time.Duration
}

// NewAPIKeyManager 创建API令牌管理器，expiry为0表示永不过期，负数无效
func NewAPIKeyManager(secretKey, issuer string, expiry time.Duration) (*APIKeyManager, error) {
	if expiry < 0 {
		return nil, ErrBadExpiry
	}
	return &APIKeyManager{
		secretKey: secretKey,
		issuer:    issuer,
		expiry:    expiry,
	}, nil
}

// Enabled 是否配置了签名密钥
func (m *APIKeyManager) Enabled() bool {
	return m != nil && m.secretKey != ""
}

// Generate 为客户端签发API令牌
func (m *APIKeyManager) Generate(client string) (string, error) {
	if !m.Enabled() {
		return "", errors.New("api key secret is not configured")
	}

	now := time.Now()
	claims := &APIKeyClaims{
		Client:    client,
		TokenType: TokenTypeAPIKey,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   client,
		},
	}
	if m.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.expiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// Validate 校验API令牌
func (m *APIKeyManager) Validate(tokenString string) (*APIKeyClaims, error) {
	if !m.Enabled() {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &APIKeyClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, err
	}

	claims, ok := token.Claims.(*APIKeyClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != TokenTypeAPIKey {
		return nil, ErrWrongType
	}

	return claims, nil
}

// Expiry 令牌有效期，0表示永不过期
func (m *APIKeyManager) Expiry() time.Duration {
	return m.expiry
}
