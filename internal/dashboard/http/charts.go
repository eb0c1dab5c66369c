package http

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carbonview/dashboard/internal/render"
	"github.com/carbonview/dashboard/internal/session"
	"github.com/carbonview/dashboard/internal/viewstate"
)

const htmlContentType = "text/html; charset=utf-8"

// html renders into a buffer first so a render failure can still become a
// clean error response.
func (h *Handler) html(c *gin.Context, status int, draw func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		h.fail(c, "Render", err)
		return
	}
	c.Data(status, htmlContentType, buf.Bytes())
}

func pageStatus[T any](res viewstate.Result[T]) int {
	if res.Status == viewstate.StatusError {
		return statusFor(res.Err)
	}
	return http.StatusOK
}

func (h *Handler) projectCharts(c *gin.Context) {
	p, err := h.svc.LoadProject(c.Request.Context(), session.FromGin(c), c.Param("id"), c.Query("version"))
	if err != nil {
		h.fail(c, "LoadProject", err)
		return
	}
	h.html(c, pageStatus(p.Project), func(b *bytes.Buffer) error { return render.Project(b, p) })
}

func (h *Handler) compareCharts(c *gin.Context) {
	p, err := h.svc.LoadCompare(c.Request.Context(), session.FromGin(c), c.Param("id"), c.Query("versions"), c.Query("by"))
	if err != nil {
		h.fail(c, "LoadCompare", err)
		return
	}
	h.html(c, pageStatus(p.Project), func(b *bytes.Buffer) error { return render.Compare(b, p) })
}

func (h *Handler) historyCharts(c *gin.Context) {
	p := h.svc.LoadHistory(c.Request.Context(), session.FromGin(c), c.Param("id"))
	h.html(c, pageStatus(p.Project), func(b *bytes.Buffer) error { return render.History(b, p) })
}
