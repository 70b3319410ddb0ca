package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/authguard/internal/interface/http"
)

// AuthModule wires the auth HTTP surface.
// Commands: POST /api/auth/register, /login, /logout
// Queries:  POST /api/auth/validate, GET /api/auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", m.Handler.Register)
		auth.POST("/login", m.Handler.Login)
		auth.POST("/logout", m.Handler.Logout)
		auth.POST("/validate", m.Handler.Validate)
		auth.GET("/me", m.Handler.Me)
	}
}
