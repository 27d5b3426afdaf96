package ledger

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gestion-activos-backend/internal/platform/apierr"
	"gestion-activos-backend/internal/platform/dates"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/historico", h.List)
	r.GET("/historico/activo/:id", h.ListByAsset)
}

func dateQuery(c *gin.Context, key string) (*dates.Date, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	d, err := dates.Parse(v)
	if err != nil {
		return nil, apierr.Invalidf("Parámetro %s: %s", key, err.Error())
	}
	return &d, nil
}

// List godoc
// @Summary  Histórico de asignaciones
// @Tags     Historico
// @Produce  json
// @Param    persona      query string false "filtra por persona (subcadena)"
// @Param    soloAbiertos query bool   false "solo asignaciones sin devolver"
// @Param    desde        query string false "AAAA-MM-DD"
// @Param    hasta        query string false "AAAA-MM-DD"
// @Success  200 {array} Record
// @Router   /historico [get]
func (h *Handler) List(c *gin.Context) {
	var f Filter
	f.Custodian = c.Query("persona")
	if v := c.Query("soloAbiertos"); v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			apierr.Respond(c, apierr.Invalid("soloAbiertos debe ser true o false"))
			return
		}
		f.OpenOnly = open
	}
	var err error
	if f.From, err = dateQuery(c, "desde"); err != nil {
		apierr.Respond(c, err)
		return
	}
	if f.To, err = dateQuery(c, "hasta"); err != nil {
		apierr.Respond(c, err)
		return
	}

	res, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListByAsset(c *gin.Context) {
	id, err := apierr.ParamID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	res, err := h.svc.ListByAsset(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
