// Package web serves the registry pages. Every read and write goes through
// pkg/client, so the pages see exactly what API consumers see.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"padron-agremiados/internal/model"
	"padron-agremiados/pkg/client"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ListLimit rows requested by the listing page and exports.
const ListLimit = 1000

const (
	msgCreated   = "Agremiado registrado exitosamente"
	msgUpdated   = "Agremiado actualizado exitosamente"
	msgDeleted   = "Agremiado eliminado exitosamente"
	msgNoData    = "No hay datos para exportar"
	msgServerErr = "Ocurrió un error en el servidor"
	msgBadID     = "ID inválido"
	searchNotice = "Los resultados se limitan a 50 registros para un mejor rendimiento."
)

// Handler page handlers
type Handler struct {
	api      *client.Client
	debounce time.Duration
	logger   *zap.Logger
	tmpl     *template.Template
	now      func() time.Time
}

// NewHandler parses the embedded templates.
func NewHandler(api *client.Client, debounce time.Duration, logger *zap.Logger) (*Handler, error) {
	if debounce <= 0 {
		debounce = client.DefaultDebounce
	}
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{api: api, debounce: debounce, logger: logger, tmpl: tmpl, now: time.Now}, nil
}

// Register mounts the pages on r.
func (h *Handler) Register(r *gin.Engine) {
	r.SetHTMLTemplate(h.tmpl)

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/busqueda") })
	r.GET("/busqueda", h.Search)
	r.GET("/lista", h.List)
	r.GET("/lista/exportar.csv", h.ExportCSV)
	r.GET("/lista/exportar.xlsx", h.ExportXLSX)
	r.GET("/registro", h.NewForm)
	r.POST("/registro", h.Create)
	r.GET("/agremiados/:id", h.Detail)
	r.GET("/agremiados/:id/editar", h.EditForm)
	r.POST("/agremiados/:id", h.Update)
	r.POST("/agremiados/:id/eliminar", h.Delete)
}

// ── template helpers ──

type option struct {
	Value string
	Label string
}

var (
	colegioOptions    []option
	estadoOptions     []option
	habilitadoOptions []option
)

func init() {
	for _, v := range model.Colegios {
		colegioOptions = append(colegioOptions, option{string(v), v.Label()})
	}
	for _, v := range model.Estados {
		estadoOptions = append(estadoOptions, option{string(v), v.Label()})
	}
	for _, v := range model.Habilitados {
		habilitadoOptions = append(habilitadoOptions, option{string(v), v.Label()})
	}
}

var limaTZ = time.FixedZone("PET", -5*60*60)

var templateFuncs = template.FuncMap{
	"colegio":    func(v string) string { return model.Colegio(v).Label() },
	"estado":     func(v string) string { return model.Estado(v).Label() },
	"habilitado": func(v string) string { return model.Habilitado(v).Label() },
	"fecha": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.In(limaTZ).Format("02/01/2006 15:04")
	},
	"confirmDelete": func(a client.Agremiado) string {
		return "¿Está seguro de eliminar a " + a.NombreCompleto() + "? Esta acción no se puede deshacer."
	},
	"plural": func(n int64) string {
		if n == 1 {
			return ""
		}
		return "s"
	},
}

// ═══════════════════════════════════════════════════════════
// Views
// ═══════════════════════════════════════════════════════════

// Search
// GET /busqueda?q=
func (h *Handler) Search(c *gin.Context) {
	q := c.Query("q")
	data := gin.H{
		"Title":      "Búsqueda",
		"Query":      q,
		"Notice":     searchNotice,
		"DebounceMs": h.debounce.Milliseconds(),
	}

	if strings.TrimSpace(q) != "" {
		page, err := h.api.Search(h.ctx(c), q, 1)
		if err != nil {
			data["Error"] = h.errorMessage(err)
		} else {
			data["Searched"] = true
			data["Results"] = page
		}
	}

	c.HTML(http.StatusOK, "busqueda.html", data)
}

// List
// GET /lista
func (h *Handler) List(c *gin.Context) {
	data := gin.H{
		"Title": "Lista de agremiados",
		"Msg":   c.Query("msg"),
		"Err":   c.Query("err"),
	}

	page, err := h.api.List(h.ctx(c), 1, ListLimit)
	if err != nil {
		data["Err"] = h.errorMessage(err)
	} else {
		data["Results"] = page
	}

	c.HTML(http.StatusOK, "lista.html", data)
}

// Detail
// GET /agremiados/:id
func (h *Handler) Detail(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "detalle.html", gin.H{"Title": a.NombreCompleto(), "A": a})
}

// ═══════════════════════════════════════════════════════════
// Forms
// ═══════════════════════════════════════════════════════════

type formValues struct {
	Cop        string
	Nombres    string
	Apellidos  string
	Colegio    string
	Estado     string
	Habilitado string
}

func readForm(c *gin.Context) formValues {
	return formValues{
		Cop:        c.PostForm("cop"),
		Nombres:    c.PostForm("nombres"),
		Apellidos:  c.PostForm("apellidos"),
		Colegio:    c.PostForm("colegio"),
		Estado:     c.PostForm("estado"),
		Habilitado: c.PostForm("habilitado"),
	}
}

func (h *Handler) renderForm(c *gin.Context, status int, id int64, v formValues, err error) {
	data := gin.H{
		"Title":       "Registro de agremiado",
		"Action":      "/registro",
		"Editing":     id != 0,
		"ID":          id,
		"Values":      v,
		"Colegios":    colegioOptions,
		"Estados":     estadoOptions,
		"Habilitados": habilitadoOptions,
		"Fields":      map[string]string{},
	}
	if id != 0 {
		data["Title"] = "Editar agremiado"
		data["Action"] = "/agremiados/" + strconv.FormatInt(id, 10)
	}
	if err != nil {
		data["Error"] = h.errorMessage(err)
		if apiErr, ok := client.AsAPIError(err); ok {
			fields := data["Fields"].(map[string]string)
			for _, d := range apiErr.Details {
				fields[d.Field] = d.Message
			}
		}
	}
	c.HTML(status, "formulario.html", data)
}

// NewForm
// GET /registro
func (h *Handler) NewForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, 0, formValues{
		Estado:     string(model.EstadoActivo),
		Habilitado: string(model.HabilitadoActivo),
	}, nil)
}

// Create
// POST /registro
func (h *Handler) Create(c *gin.Context) {
	v := readForm(c)
	_, err := h.api.Create(h.ctx(c), client.CreateInput{
		Cop:        v.Cop,
		Nombres:    v.Nombres,
		Apellidos:  v.Apellidos,
		Colegio:    v.Colegio,
		Estado:     v.Estado,
		Habilitado: v.Habilitado,
	})
	if err != nil {
		h.renderForm(c, formStatus(err), 0, v, err)
		return
	}
	redirectWith(c, "/lista", "msg", msgCreated)
}

// EditForm
// GET /agremiados/:id/editar
func (h *Handler) EditForm(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, a.ID, formValues{
		Cop:        a.Cop,
		Nombres:    a.Nombres,
		Apellidos:  a.Apellidos,
		Colegio:    a.Colegio,
		Estado:     a.Estado,
		Habilitado: a.Habilitado,
	}, nil)
}

// Update cop is not editable and never sent.
// POST /agremiados/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	v := readForm(c)
	_, err := h.api.Update(h.ctx(c), id, client.UpdateInput{
		Nombres:    &v.Nombres,
		Apellidos:  &v.Apellidos,
		Colegio:    &v.Colegio,
		Estado:     &v.Estado,
		Habilitado: &v.Habilitado,
	})
	if err != nil {
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.Status == http.StatusNotFound {
			h.renderError(c, http.StatusNotFound, apiErr.Message)
			return
		}
		h.renderForm(c, formStatus(err), id, v, err)
		return
	}
	redirectWith(c, "/lista", "msg", msgUpdated)
}

// Delete
// POST /agremiados/:id/eliminar
func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.api.Delete(h.ctx(c), id); err != nil {
		redirectWith(c, "/lista", "err", h.errorMessage(err))
		return
	}
	redirectWith(c, "/lista", "msg", msgDeleted)
}

// ═══════════════════════════════════════════════════════════
// Exports
// ═══════════════════════════════════════════════════════════

// ExportCSV
// GET /lista/exportar.csv
func (h *Handler) ExportCSV(c *gin.Context) {
	h.export(c, "csv", "text/csv; charset=utf-8", client.ExportCSV)
}

// ExportXLSX
// GET /lista/exportar.xlsx
func (h *Handler) ExportXLSX(c *gin.Context) {
	h.export(c, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", client.ExportXLSX)
}

func (h *Handler) export(c *gin.Context, ext, contentType string, write func(w io.Writer, items []client.Agremiado) error) {
	page, err := h.api.List(h.ctx(c), 1, ListLimit)
	if err != nil {
		redirectWith(c, "/lista", "err", h.errorMessage(err))
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, page.Data); err != nil {
		if errors.Is(err, client.ErrNoData) {
			redirectWith(c, "/lista", "err", msgNoData)
			return
		}
		h.logger.Error("export failed", zap.String("format", ext), zap.Error(err))
		redirectWith(c, "/lista", "err", msgServerErr)
		return
	}

	filename := client.ExportFilename(h.now(), ext)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// ── helpers ──

// ctx forwards the browser's address so API rate limits apply per end user.
func (h *Handler) ctx(c *gin.Context) context.Context {
	return client.WithForwardedFor(c.Request.Context(), c.ClientIP())
}

func (h *Handler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderError(c, http.StatusBadRequest, msgBadID)
		return 0, false
	}
	return id, true
}

func (h *Handler) load(c *gin.Context) (*client.Agremiado, bool) {
	id, ok := h.parseID(c)
	if !ok {
		return nil, false
	}
	a, err := h.api.Get(h.ctx(c), id)
	if err != nil {
		status := http.StatusBadGateway
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.Status < 500 {
			status = apiErr.Status
		}
		h.renderError(c, status, h.errorMessage(err))
		return nil, false
	}
	return a, true
}

func (h *Handler) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{"Title": "Error", "Message": message})
}

// errorMessage is what the user sees for err: the API's own message, or a
// generic one for transport failures.
func (h *Handler) errorMessage(err error) string {
	if apiErr, ok := client.AsAPIError(err); ok {
		return apiErr.Message
	}
	h.logger.Error("api call failed", zap.Error(err))
	return msgServerErr
}

// formStatus status for a re-rendered form.
func formStatus(err error) int {
	if apiErr, ok := client.AsAPIError(err); ok && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

func redirectWith(c *gin.Context, path, key, value string) {
	c.Redirect(http.StatusSeeOther, path+"?"+url.Values{key: {value}}.Encode())
}
