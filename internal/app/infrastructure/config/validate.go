package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	reLogin     = regexp.MustCompile(`^[a-z0-9_]{1,25}$`)
	reChannelID = regexp.MustCompile(`^[0-9]+$`)
)

func (m *Manager) validate(cfg *Config) error {
	// app
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if cfg.App.LogLevel != "" && !validLevels[cfg.App.LogLevel] {
		return fmt.Errorf("app.log_level must be one of trace, debug, info, warn, error; got %s", cfg.App.LogLevel)
	}

	validGinModes := map[string]bool{"debug": true, "release": true, "test": true}
	if cfg.App.GinMode == "" {
		cfg.App.GinMode = "release"
	}
	if !validGinModes[cfg.App.GinMode] {
		return fmt.Errorf("app.gin_mode must be one of debug, release, test; got %s", cfg.App.GinMode)
	}

	if cfg.App.Listen == "" {
		cfg.App.Listen = ":8080"
	}

	for _, domain := range cfg.App.CertDomains {
		if strings.TrimSpace(domain) == "" {
			return errors.New("app.cert_domains must not contain empty entries")
		}
	}

	// proxy
	if cfg.Proxy != nil && cfg.Proxy.Address != "" && (cfg.Proxy.Port <= 0 || cfg.Proxy.Port > 65535) {
		return errors.New("proxy.port must be [1,65535]")
	}

	// twitch
	if cfg.Twitch.URL == "" {
		return errors.New("twitch.url is required")
	}
	if !strings.HasPrefix(cfg.Twitch.URL, "ws://") && !strings.HasPrefix(cfg.Twitch.URL, "wss://") {
		return fmt.Errorf("twitch.url must be a ws:// or wss:// url; got %s", cfg.Twitch.URL)
	}
	if cfg.Twitch.Nick == "" {
		return errors.New("twitch.nick is required")
	}
	if strings.ContainsAny(cfg.Twitch.Token+cfg.Twitch.Nick, "\r\n ") {
		return errors.New("twitch.token and twitch.nick must not contain spaces or line breaks")
	}

	// channel
	cfg.Channel.Login = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(cfg.Channel.Login), "#"))
	if cfg.Channel.Login != "" && !reLogin.MatchString(cfg.Channel.Login) {
		return fmt.Errorf("channel.login is not a valid login; got %s", cfg.Channel.Login)
	}
	if cfg.Channel.ID != "" && !reChannelID.MatchString(cfg.Channel.ID) {
		return fmt.Errorf("channel.id must be numeric; got %s", cfg.Channel.ID)
	}

	// overlay
	switch cfg.Overlay.Theme {
	case "":
		cfg.Overlay.Theme = ThemeDefault
	case ThemeDefault, ThemeSimple, ThemeEmoteDark:
	default:
		// неизвестная тема откатывается на дефолтную
		cfg.Overlay.Theme = ThemeDefault
	}

	if cfg.Overlay.DelayMs == 0 {
		cfg.Overlay.DelayMs = 1000
	}
	if cfg.Overlay.DelayMs < 0 || cfg.Overlay.DelayMs > 60_000 {
		return errors.New("overlay.delay_ms must be [1,60000]")
	}
	if cfg.Overlay.MaxBuffer == 0 {
		cfg.Overlay.MaxBuffer = 100
	}
	if cfg.Overlay.MaxBuffer < 1 || cfg.Overlay.MaxBuffer > 1000 {
		return errors.New("overlay.max_buffer must be [1,1000]")
	}

	// directory
	if cfg.Directory.TimeoutSec == 0 {
		cfg.Directory.TimeoutSec = 10
	}
	if cfg.Directory.TimeoutSec < 1 || cfg.Directory.TimeoutSec > 120 {
		return errors.New("directory.timeout_sec must be [1,120]")
	}
	if cfg.Directory.TTLSec != 0 && cfg.Directory.TTLSec < 60 {
		return errors.New("directory.ttl_sec must be 0 or at least 60")
	}

	return nil
}
