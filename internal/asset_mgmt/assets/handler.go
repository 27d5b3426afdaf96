package assets

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gestion-activos-backend/internal/platform/apierr"
)

// MaxImportBytes caps the size of an uploaded import file.
const MaxImportBytes = 10 << 20

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handler struct{ svc *Service }

// RegisterReadRoutes mounts the endpoints open to every authenticated role.
func RegisterReadRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/activos", h.List)
	r.GET("/activos/export", h.Export)
	r.GET("/activos/:id", h.Get)
}

// RegisterWriteRoutes mounts create, edit, assign, return and import.
func RegisterWriteRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/activos", h.Create)
	r.POST("/activos/import", h.Import)
	r.PUT("/activos/:id", h.Edit)
	r.POST("/activos/:id/asignar", h.Assign)
	r.POST("/activos/:id/devolver", h.Return)
}

func RegisterAdminRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/activos/:id/baja", h.Decommission)
	r.DELETE("/activos/:id", h.Delete)
}

func listFilter(c *gin.Context) (ListFilter, error) {
	f := ListFilter{Search: c.Query("q")}
	if v := c.Query("mostrarBajas"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return f, apierr.Invalid("mostrarBajas debe ser true o false")
		}
		f.IncludeDecommissioned = show
	}
	return f, nil
}

// List godoc
// @Summary  Lista de activos
// @Tags     Activos
// @Produce  json
// @Param    mostrarBajas query bool   false "incluye activos dados de baja"
// @Param    q            query string false "búsqueda por código, referencia, descripción, tipo o responsable"
// @Success  200 {array} Asset
// @Router   /activos [get]
func (h *Handler) List(c *gin.Context) {
	f, err := listFilter(c)
	if err != nil {
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

func (h *Handler) Get(c *gin.Context) {
	id, err := apierr.ParamID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	res, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Create godoc
// @Summary  Crea un activo
// @Tags     Activos
// @Accept   json
// @Produce  json
// @Param    body body AssetRequest true "activo"
// @Success  201 {object} Asset
// @Failure  400 {object} apierr.Body
// @Router   /activos [post]
func (h *Handler) Create(c *gin.Context) {
	var req AssetRequest
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

func (h *Handler) Edit(c *gin.Context) {
	id, err := apierr.ParamID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	var req AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBind(err))
		return
	}
	res, err := h.svc.Edit(c.Request.Context(), id, req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Assign godoc
// @Summary  Asigna un activo disponible a una persona
// @Tags     Activos
// @Accept   json
// @Produce  json
// @Param    id   path int           true "id del activo"
// @Param    body body AssignRequest true "asignación"
// @Success  200 {object} TransitionResponse
// @Failure  400 {object} apierr.Body
// @Failure  404 {object} apierr.Body
// @Router   /activos/{id}/asignar [post]
func (h *Handler) Assign(c *gin.Context) {
	id, err := apierr.ParamID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBind(err))
		return
	}
	a, rec, err := h.svc.Assign(c.Request.Context(), id, req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, TransitionResponse{Message: "Activo asignado correctamente", Activo: a, Historico: rec})
}

func (h *Handler) Return(c *gin.Context) {
	id, err := apierr.ParamID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	a, rec, err := h.svc.Return(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, TransitionResponse{Message: "Activo devuelto correctamente", Activo: a, Historico: rec})
}

func (h *Handler) Decommission(c *gin.Context) {
	id, err := apierr.ParamID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	var req DecommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.FromBind(err))
		return
	}
	a, err := h.svc.Decommission(c.Request.Context(), id, req.Motivo)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, TransitionResponse{Message: "Activo dado de baja correctamente", Activo: a})
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
	c.JSON(http.StatusOK, MessageResponse{Message: "Activo eliminado correctamente"})
}

// Export godoc
// @Summary  Exporta los activos
// @Tags     Activos
// @Produce  text/csv
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param    formato      query string false "csv (por defecto) o xlsx"
// @Param    charset      query string false "utf8 (por defecto) o latin1, solo csv"
// @Param    mostrarBajas query bool   false "incluye activos dados de baja"
// @Router   /activos/export [get]
func (h *Handler) Export(c *gin.Context) {
	f, err := listFilter(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	format := c.DefaultQuery("formato", FormatCSV)
	charset := c.DefaultQuery("charset", CharsetUTF8)
	if format != FormatCSV && format != FormatXLSX {
		apierr.Respond(c, apierr.Invalid("formato debe ser csv o xlsx"))
		return
	}
	if charset != CharsetUTF8 && charset != CharsetLatin1 {
		apierr.Respond(c, apierr.Invalid("charset debe ser utf8 o latin1"))
		return
	}

	list, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	// Rendered in memory so a failure can still produce a JSON error.
	var buf bytes.Buffer
	contentType := contentTypeCSV
	if format == FormatXLSX {
		contentType = contentTypeXLSX
		err = WriteXLSX(&buf, list)
	} else {
		if charset == CharsetLatin1 {
			contentType = "text/csv; charset=windows-1252"
		}
		err = WriteCSV(&buf, list, charset)
	}
	if err != nil {
		apierr.Respond(c, fmt.Errorf("export assets: %w", err))
		return
	}

	name := fmt.Sprintf("activos_%s.%s", h.svc.today().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// Import godoc
// @Summary  Importa activos desde CSV
// @Tags     Activos
// @Accept   multipart/form-data
// @Produce  json
// @Param    archivo formData file true "CSV con cabecera tipo,codigo,referencia,descripcion,marca,detalles,area,responsable,fechaRevision"
// @Success  200 {object} ImportResponse
// @Failure  400 {object} apierr.Body
// @Router   /activos/import [post]
func (h *Handler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImportBytes)
	fh, err := c.FormFile("archivo")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			apierr.Respond(c, apierr.Invalidf("El archivo supera el tamaño máximo de %d MB", MaxImportBytes>>20))
			return
		}
		apierr.Respond(c, apierr.Invalid("El campo archivo es requerido"))
		return
	}
	file, err := fh.Open()
	if err != nil {
		apierr.Respond(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer file.Close()

	res, err := h.svc.Import(c.Request.Context(), file)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
