package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/carbonview/dashboard/internal/carbonapi"
	"github.com/carbonview/dashboard/internal/dashboard/service"
	"github.com/carbonview/dashboard/internal/domain"
	"github.com/carbonview/dashboard/internal/logging"
	"github.com/carbonview/dashboard/internal/session"
	"github.com/carbonview/dashboard/internal/viewstate"
)

// uploadOverhead is the multipart framing allowed on top of the file limit.
const uploadOverhead = 1 << 20

type Handler struct {
	svc            *service.Service
	maxUploadBytes int64
	logger         *zap.Logger
}

func New(svc *service.Service, maxUploadBytes int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, maxUploadBytes: maxUploadBytes, logger: logger}
}

// Register mounts the JSON API under rg (normally /api/v1).
func (h *Handler) Register(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	projects.GET("", h.listProjects)
	projects.POST("", h.createProject)
	projects.GET("/:id", h.getProject)
	projects.PUT("/:id", h.updateProject)
	projects.DELETE("/:id", h.deleteProject)
	projects.GET("/:id/history", h.history)
	projects.GET("/:id/compare", h.compare)
	projects.POST("/:id/uploads", h.upload)
	projects.GET("/:id/uploads", h.receipts)

	catalog := rg.Group("/catalog")
	catalog.GET("/materials", h.materials)
	catalog.GET("/elements", h.elements)
}

// RegisterPages mounts the rendered chart pages.
func (h *Handler) RegisterPages(r gin.IRouter) {
	r.GET("/projects/:id/charts", h.projectCharts)
	r.GET("/projects/:id/charts/compare", h.compareCharts)
	r.GET("/projects/:id/charts/history", h.historyCharts)
}

// statusFor maps an error to the HTTP status of the response.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidUpload):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownVersion):
		return http.StatusNotFound
	}
	if s := carbonapi.StatusOf(err); s != 0 {
		if s >= 400 && s < 500 {
			return s
		}
		return http.StatusBadGateway
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(c *gin.Context, operation string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context(), h.logger).LogError(operation, err)
	}
	body := gin.H{"ok": false, "error": err.Error()}
	var de viewstate.DetailedError
	if errors.As(err, &de) && de.UserDetail() != "" {
		body["detail"] = de.UserDetail()
	}
	c.JSON(status, body)
}

// page answers with a page whose primary result may have failed.
func page[T any](c *gin.Context, key string, primary viewstate.Result[T], body any) {
	if primary.Status == viewstate.StatusError {
		c.JSON(statusFor(primary.Err), gin.H{
			"ok":     false,
			"error":  primary.Message(),
			"detail": primary.Detail(),
			key:      body,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, key: body})
}

func (h *Handler) listProjects(c *gin.Context) {
	p := h.svc.LoadProjects(c.Request.Context(), session.FromGin(c))
	page(c, "page", p.Projects, p)
}

func (h *Handler) getProject(c *gin.Context) {
	p, err := h.svc.LoadProject(c.Request.Context(), session.FromGin(c), c.Param("id"), c.Query("version"))
	if err != nil {
		h.fail(c, "LoadProject", err)
		return
	}
	page(c, "page", p.Project, p)
}

func (h *Handler) history(c *gin.Context) {
	p := h.svc.LoadHistory(c.Request.Context(), session.FromGin(c), c.Param("id"))
	page(c, "page", p.Project, p)
}

func (h *Handler) compare(c *gin.Context) {
	p, err := h.svc.LoadCompare(c.Request.Context(), session.FromGin(c), c.Param("id"), c.Query("versions"), c.Query("by"))
	if err != nil {
		h.fail(c, "LoadCompare", err)
		return
	}
	page(c, "page", p.Project, p)
}

func (h *Handler) createProject(c *gin.Context) {
	var in domain.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	p, err := h.svc.CreateProject(c.Request.Context(), session.FromGin(c), in)
	if err != nil {
		h.fail(c, "CreateProject", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) updateProject(c *gin.Context) {
	var in domain.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	p, err := h.svc.UpdateProject(c.Request.Context(), session.FromGin(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, "UpdateProject", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) deleteProject(c *gin.Context) {
	if err := h.svc.DeleteProject(c.Request.Context(), session.FromGin(c), c.Param("id")); err != nil {
		h.fail(c, "DeleteProject", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) upload(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+uploadOverhead)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing file"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, "Upload", err)
		return
	}
	defer f.Close()

	dialog := h.svc.Upload(c.Request.Context(), session.FromGin(c), c.Param("id"), fh.Filename, f, c.PostForm("comment"))
	if dialog.Upload.Status == viewstate.StatusError {
		page(c, "dialog", dialog.Upload, dialog)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "dialog": dialog})
}

func (h *Handler) receipts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.svc.Receipts(c.Request.Context(), session.FromGin(c), c.Param("id"), limit)
	if err != nil {
		h.fail(c, "Receipts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "receipts": items})
}

func (h *Handler) materials(c *gin.Context) {
	res := h.svc.Materials(c.Request.Context(), session.FromGin(c))
	page(c, "materials", res, res)
}

func (h *Handler) elements(c *gin.Context) {
	res := h.svc.Elements(c.Request.Context(), session.FromGin(c))
	page(c, "elements", res, res)
}
