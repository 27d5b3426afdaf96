package assettypes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gestion-activos-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

// RegisterReadRoutes mounts the endpoints open to every authenticated role.
func RegisterReadRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/tipos", h.List)
	r.GET("/tipos/:id/siguiente-codigo", h.NextCode)
}

func RegisterWriteRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/tipos", h.Create)
	r.PUT("/tipos/:id", h.Update)
}

func RegisterAdminRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.DELETE("/tipos/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBind(err))
		return
	}
	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := apierr.ParamID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	var req UpdateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBind(err))
		return
	}
	res, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := apierr.ParamID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Tipo eliminado correctamente"})
}

func (h *Handler) NextCode(c *gin.Context) {
	id, err := apierr.ParamID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	code, err := h.svc.NextCode(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, NextCodeResponse{Codigo: code})
}
