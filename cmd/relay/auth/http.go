package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wechat-relay/cmd/relay/dto"
)

const bearerPrefix = "Bearer "

var (
	ErrMissingHeader = errors.New("missing_authorization_header")
	ErrNoSecret      = errors.New("secret_not_configured")
	ErrTokenMismatch = errors.New("token_mismatch")
)

// CheckBearer compares the Authorization header against the literal
// "Bearer <secret>". The scheme is case-sensitive and no whitespace is
// trimmed. An empty secret never matches.
func CheckBearer(c *gin.Context, secret string) error {
	if secret == "" {
		return ErrNoSecret
	}
	header := c.GetHeader("Authorization")
	if header == "" {
		return ErrMissingHeader
	}
	want := bearerPrefix + secret
	if subtle.ConstantTimeCompare([]byte(header), []byte(want)) != 1 {
		return ErrTokenMismatch
	}
	return nil
}

// AbortWithUnauthorized aborts the request with 401 and {"error":"Unauthorized"}.
// The concrete reason is kept out of the response body.
func AbortWithUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponseDTO{Error: dto.ErrUnauthorized})
}
