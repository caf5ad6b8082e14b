package app

import (
	"chatoverlay/internal/app/adapters/emotes"
	router "chatoverlay/internal/app/adapters/http"
	"chatoverlay/internal/app/adapters/http/handlers"
	"chatoverlay/internal/app/adapters/metrics"
	"chatoverlay/internal/app/adapters/platform/twitch/irc"
	"chatoverlay/internal/app/domain/color"
	"chatoverlay/internal/app/domain/feed"
	"chatoverlay/internal/app/infrastructure/config"
	"chatoverlay/pkg/logger"
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/proxy"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

type Options struct {
	ConfigPath string
	Channel    string // "<id>-<login>" или просто "<login>"
	LogLevel   string
}

func New(ctx context.Context, opts Options) error {
	manager, err := config.New(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if opts.Channel != "" {
		id, login, err := ParseChannel(opts.Channel)
		if err != nil {
			return err
		}
		if err := manager.Update(func(cfg *config.Config) {
			cfg.Channel.Login = login
			if id != "" {
				cfg.Channel.ID = id
			}
		}); err != nil {
			return err
		}
	}

	cfg := manager.Get()
	log := logger.New(cfg.App.LogFile)
	log.SetLogLevel(cfg.App.LogLevel)
	if opts.LogLevel != "" {
		log.SetLogLevel(opts.LogLevel)
	}
	gin.SetMode(cfg.App.GinMode)

	client, err := newHTTPClient(cfg.Proxy)
	if err != nil {
		return err
	}

	prometheus.MustRegister(metrics.FragmentBuildTime)

	conn := irc.New(logger.NewPrefixedLogger(log, "irc"), irc.Options{
		URL:   cfg.Twitch.URL,
		Token: cfg.Twitch.Token,
		Nick:  cfg.Twitch.Nick,
	}, client)

	directory := emotes.NewDirectory(logger.NewPrefixedLogger(log, "emotes"), client, emotes.Options{
		EmoteOnly: cfg.Overlay.EmoteOnly(),
		Timeout:   cfg.Directory.Timeout(),
	})

	f := feed.New(logger.NewPrefixedLogger(log, "feed"), conn, directory, color.NewAdjuster(), feed.Options{
		Delay:     cfg.Overlay.Delay(),
		MaxBuffer: cfg.Overlay.MaxBuffer,
		EmoteOnly: cfg.Overlay.EmoteOnly(),
	})
	defer f.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Channel.ID != "" {
		go loadDirectory(ctx, log, directory, cfg.Channel.ID)
	} else {
		log.Warn("channel.id is not set, third-party emotes and badges are disabled")
	}
	go directory.Run(ctx, cfg.Directory.TTL())

	if cfg.Channel.Login != "" {
		conn.Join(cfg.Channel.Login)
	} else {
		log.Warn("channel.login is not set, connecting without joining a channel")
	}
	conn.Connect()
	defer conn.Disconnect()

	watcher := config.NewWatcher(log, manager)
	watcher.Subscribe(func(prev, next *config.Config) {
		if next.App.LogLevel != prev.App.LogLevel && opts.LogLevel == "" {
			log.SetLogLevel(next.App.LogLevel)
		}
		if next.Channel.Login != prev.Channel.Login && next.Channel.Login != "" {
			log.Info("Channel changed, switching", slog.String("from", prev.Channel.Login), slog.String("to", next.Channel.Login))
			conn.Join(next.Channel.Login)
		}
		if next.Channel.ID != prev.Channel.ID && next.Channel.ID != "" {
			go loadDirectory(ctx, log, directory, next.Channel.ID)
		}
		if next.Overlay != prev.Overlay || next.Twitch != prev.Twitch {
			log.Warn("Overlay and twitch settings are applied on restart")
		}
	})
	go func() {
		if err := watcher.Run(ctx); err != nil {
			log.Error("Config watcher stopped", err)
		}
	}()

	h := handlers.New(log, manager, f, conn, directory)
	r := router.NewRouter(log, manager, h)

	log.Info("Overlay started", slog.String("channel", cfg.Channel.Login), slog.String("theme", cfg.Overlay.Theme))
	return r.Run(ctx)
}

func loadDirectory(ctx context.Context, log logger.Logger, directory *emotes.Directory, channelID string) {
	if err := directory.Load(ctx, channelID); err != nil {
		log.Warn("Some emote stores failed to load", slog.String("channel_id", channelID), slog.String("error", err.Error()))
	}
}

func newHTTPClient(p *config.Proxy) (*http.Client, error) {
	client := &http.Client{
		Timeout:   10 * time.Second,
		Transport: http.DefaultTransport,
	}

	if p == nil || p.Address == "" || p.Port == 0 {
		return client, nil
	}

	dialer, err := proxy.SOCKS5("tcp", fmt.Sprintf("%s:%d", p.Address, p.Port), nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("socks5 proxy: %w", err)
	}

	client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}
	return client, nil
}

// ParseChannel accepts "<id>-<login>" as used in overlay links, or a bare login.
func ParseChannel(raw string) (id, login string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", errors.New("empty channel")
	}

	id, login, found := strings.Cut(raw, "-")
	if !found {
		return "", strings.ToLower(raw), nil
	}
	if id == "" || login == "" {
		return "", "", fmt.Errorf("channel must look like <id>-<login>; got %q", raw)
	}
	return id, strings.ToLower(login), nil
}
