package handler

import (
	"github.com/gin-gonic/gin"

	"citydrive-motors/internal/domain"
	"citydrive-motors/internal/service"
	mdw "citydrive-motors/internal/transport/http/middleware"
	resp "citydrive-motors/internal/transport/http/response"
)

type RemarkHandler struct {
	remarks *service.RemarkService
}

func NewRemarkHandler(remarks *service.RemarkService) *RemarkHandler {
	return &RemarkHandler{remarks: remarks}
}

func (h *RemarkHandler) Mount(g, authed *gin.RouterGroup) {
	authed.POST("/cars/:id/remarks", h.create)
	g.GET("/cars/:id/remarks", h.list)
}

func (h *RemarkHandler) create(c *gin.Context) {
	var in domain.CreateRemarkInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	rm, err := h.remarks.Create(c.Request.Context(), c.Param("id"), &in, mdw.UserID(c))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.Created(c, rm)
}

func (h *RemarkHandler) list(c *gin.Context) {
	remarks, err := h.remarks.ListByCar(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Fail(c, err)
		return
	}
	resp.OK(c, remarks)
}
