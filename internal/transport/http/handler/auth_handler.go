package handler

import (
	"github.com/gin-gonic/gin"

	"citydrive-motors/internal/domain"
	"citydrive-motors/internal/service"
	resp "citydrive-motors/internal/transport/http/response"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Mount(g *gin.RouterGroup) {
	ar := g.Group("/auth")
	ar.POST("/register", h.register)
	ar.POST("/login", h.login)
}

func (h *AuthHandler) register(c *gin.Context) {
	var in domain.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	u, err := h.auth.Register(c.Request.Context(), &in)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.Created(c, gin.H{"user": u, "message": "User created successfully"})
}

func (h *AuthHandler) login(c *gin.Context) {
	var in domain.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	token, err := h.auth.Login(c.Request.Context(), &in)
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, gin.H{"access_token": token})
}
