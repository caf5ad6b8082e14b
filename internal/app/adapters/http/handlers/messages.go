package handlers

import (
	"chatoverlay/internal/app/domain"
	"github.com/gin-gonic/gin"
	"net/http"
)

type overlaySettings struct {
	Theme     string `json:"theme"`
	EmoteOnly bool   `json:"emote_only"`
	FadeOut   *int   `json:"fade_out"` // секунды, null - без затухания
}

type messagesResponse struct {
	Settings overlaySettings          `json:"settings"`
	Messages []domain.RenderedMessage `json:"messages"`
}

func (h *Handlers) settings() overlaySettings {
	overlay := h.manager.Get().Overlay

	s := overlaySettings{Theme: overlay.Theme, EmoteOnly: overlay.EmoteOnly()}
	if d, ok := overlay.FadeOutDuration(); ok {
		secs := int(d.Seconds())
		s.FadeOut = &secs
	}
	return s
}

func (h *Handlers) MessagesHandler(c *gin.Context) {
	messages := h.feed.Snapshot()
	if messages == nil {
		messages = []domain.RenderedMessage{}
	}

	c.JSON(http.StatusOK, messagesResponse{
		Settings: h.settings(),
		Messages: messages,
	})
}
