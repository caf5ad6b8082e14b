package handlers

import (
	"chatoverlay/internal/app/infrastructure/config"
	"chatoverlay/internal/app/ports"
	"chatoverlay/pkg/logger"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
	"net/http"
	"time"
)

const reloadEvery = 30 * time.Second

type Handlers struct {
	log       logger.Logger
	manager   *config.Manager
	feed      ports.FeedPort
	irc       ports.IRCPort
	directory ports.EmoteDirectoryPort

	started  time.Time
	upgrader websocket.Upgrader
	reload   *rate.Limiter
}

func New(log logger.Logger, manager *config.Manager, feed ports.FeedPort, irc ports.IRCPort, directory ports.EmoteDirectoryPort) *Handlers {
	return &Handlers{
		log:       log,
		manager:   manager,
		feed:      feed,
		irc:       irc,
		directory: directory,
		started:   time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// оверлей открывается из OBS с произвольным origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		reload: rate.NewLimiter(rate.Every(reloadEvery), 1),
	}
}
