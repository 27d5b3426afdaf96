package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gestion-activos-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

// RegisterLoginRoute mounts the public login endpoint.
func RegisterLoginRoute(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/auth/login", h.Login)
}

// RegisterUserRoutes mounts user management; r must already be gated to administrators.
func RegisterUserRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/usuarios", h.List)
	r.POST("/usuarios", h.Create)
	r.PUT("/usuarios/:id", h.Update)
	r.DELETE("/usuarios/:id", h.Delete)
}

// RegisterPasswordRoute mounts change-password for any authenticated caller.
func RegisterPasswordRoute(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/usuarios/:id/change-password", h.ChangePassword)
}

// Login godoc
// @Summary  Iniciar sesión
// @Tags     Auth
// @Accept   json
// @Produce  json
// @Param    body body LoginRequest true "credenciales"
// @Success  200 {object} LoginResponse
// @Failure  401 {object} apierr.Body
// @Router   /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.Invalid("Usuario y contraseña son requeridos"))
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
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
	var req CreateUserRequest
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
	var req UpdateUserRequest
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
	c.JSON(http.StatusOK, MessageResponse{Message: "Usuario eliminado correctamente"})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	caller, ok := CurrentUser(c)
	if !ok {
		apierr.Respond(c, apierr.Unauthenticated("No autenticado"))
		return
	}
	id, err := apierr.ParamID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.Invalid("La contraseña actual y la nueva contraseña son requeridas"))
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), caller, id, req); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Contraseña cambiada correctamente"})
}
