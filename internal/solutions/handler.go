// Package solutions exposes the catalog over HTTP for the dashboard.
package solutions

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fixhub/internal/catalog"
	"fixhub/internal/sync"
)

type Handler struct {
	Store *catalog.Store
	Hub   *sync.Hub
}

func NewHandler(store *catalog.Store, hub *sync.Hub) *Handler {
	return &Handler{Store: store, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)              // GET /solutions?q=...&module=...
	rg.GET("/modules", h.modules)   // GET /solutions/modules
	rg.GET("/export", h.export)     // GET /solutions/export
	rg.GET("/:id", h.getByID)       // GET /solutions/:id
	rg.POST("", h.add)              // POST /solutions
	rg.POST("/confirm", h.confirm)  // POST /solutions/confirm
	rg.POST("/import", h.importRaw) // POST /solutions/import
}

func (h *Handler) list(c *gin.Context) {
	view := h.Store.Search(c.Query("module"), c.Query("q"))
	c.JSON(http.StatusOK, view)
}

func (h *Handler) modules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modules": h.Store.Modules()})
}

func (h *Handler) getByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	sol, ok := h.Store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, sol)
}

func (h *Handler) add(c *gin.Context) {
	var form catalog.AddForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	outcome, err := h.Store.ProposeAdd(form)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "add failed"})
		return
	}

	if outcome.Status == catalog.AddPending {
		c.JSON(http.StatusConflict, gin.H{
			"status":   outcome.Status,
			"token":    outcome.Token,
			"conflict": outcome.Conflict,
		})
		return
	}

	h.broadcastAdd(outcome)
	c.JSON(http.StatusCreated, gin.H{"status": outcome.Status, "solution": outcome.Solution})
}

type confirmReq struct {
	Token  string `json:"token"`
	Accept bool   `json:"accept"`
}

func (h *Handler) confirm(c *gin.Context) {
	var req confirmReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}

	outcome, err := h.Store.ResolveAdd(req.Token, req.Accept)
	if err != nil {
		if errors.Is(err, catalog.ErrNoPending) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "confirm failed"})
		return
	}

	if outcome.Status == catalog.AddCommitted {
		h.broadcastAdd(outcome)
	}
	c.JSON(http.StatusOK, gin.H{"status": outcome.Status, "solution": outcome.Solution})
}

func (h *Handler) importRaw(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body failed"})
		return
	}

	result, err := h.Store.Import(raw)
	if err != nil {
		var perr *catalog.ParseError
		if errors.As(err, &perr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
		return
	}

	if h.Hub != nil {
		ev := sync.CatalogEvent{
			Type:    sync.EventImport,
			Added:   result.Added,
			Skipped: result.Skipped,
			Total:   h.Store.Len(),
			At:      time.Now().UTC(),
		}
		go h.Hub.Broadcast(ev)
	}

	c.JSON(http.StatusOK, gin.H{
		"added":     result.Added,
		"skipped":   result.Skipped,
		"malformed": result.Malformed,
		"total":     h.Store.Len(),
	})
}

func (h *Handler) export(c *gin.Context) {
	data, name, err := h.Store.Export(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/json", data)
}

func (h *Handler) broadcastAdd(outcome catalog.AddOutcome) {
	if h.Hub == nil {
		return
	}
	ev := sync.CatalogEvent{
		Type:   sync.EventAdd,
		ID:     outcome.Solution.ID,
		Title:  outcome.Solution.Title,
		Module: outcome.Solution.Module,
		Total:  h.Store.Len(),
		At:     time.Now().UTC(),
	}
	go h.Hub.Broadcast(ev)
}
