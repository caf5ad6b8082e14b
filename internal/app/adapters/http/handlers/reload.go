package handlers

import (
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
)

func (h *Handlers) ReloadHandler(c *gin.Context) {
	if !h.reload.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "reload is limited to once per 30s"})
		return
	}

	if err := h.directory.Reload(c.Request.Context()); err != nil {
		h.log.Warn("Directory reload finished with errors", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, gin.H{"status": "partial", "emotes": h.directory.Size(), "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "emotes": h.directory.Size()})
}
