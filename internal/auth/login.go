package auth

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 荷官控制台登录：口令换 JWT。
// 座位上的玩家不做身份认证，这里只保护操作入口。
type LoginRequest struct {
	OperatorKey string `json:"operatorKey" binding:"required"`
}

type Handler struct {
	operatorKey string
	jwtSecret   []byte
}

// 工厂方法：创建 handler
func NewHandler(operatorKey, jwtSecret string) *Handler {
	return &Handler{
		operatorKey: operatorKey,
		jwtSecret:   []byte(jwtSecret),
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.OperatorKey), []byte(h.operatorKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid operator key"})
		return
	}

	claims := jwt.MapClaims{
		"sub":  "operator",
		"role": "dealer",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtStr, err := token.SignedString(h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jwt": jwtStr,
	})
}
