package config

import (
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       App       `json:"app"`
	Proxy     *Proxy    `json:"proxy"`
	Twitch    Twitch    `json:"twitch"`
	Channel   Channel   `json:"channel"`
	Overlay   Overlay   `json:"overlay"`
	Directory Directory `json:"directory"`
}

type App struct {
	LogLevel    string   `json:"log_level"`
	LogFile     string   `json:"log_file"` // пусто - только stdout
	GinMode     string   `json:"gin_mode"`
	Listen      string   `json:"listen"`
	AuthToken   string   `json:"auth_token"`
	CertDomains []string `json:"cert_domains"`
}

type Proxy struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

type Twitch struct {
	URL   string `json:"url"`
	Token string `json:"token"`
	Nick  string `json:"nick"`
}

type Channel struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

type Overlay struct {
	Theme     string `json:"theme"`    // default | simple | emote_dark
	FadeOut   string `json:"fade_out"` // секунды, "off"/"none" - без затухания
	DelayMs   int    `json:"delay_ms"`
	MaxBuffer int    `json:"max_buffer"`
}

type Directory struct {
	TimeoutSec int `json:"timeout_sec"` // на один запрос к провайдеру
	TTLSec     int `json:"ttl_sec"`     // период перезагрузки, 0 - не перезагружать
}

const (
	ThemeDefault   = "default"
	ThemeSimple    = "simple"
	ThemeEmoteDark = "emote_dark"

	defaultFadeOut = 15 * time.Second
)

func (o Overlay) EmoteOnly() bool {
	return o.Theme == ThemeEmoteDark
}

// FadeOutDuration reports how long a message stays visible. ok is false when fading
// is turned off.
func (o Overlay) FadeOutDuration() (d time.Duration, ok bool) {
	raw := strings.TrimSpace(o.FadeOut)
	switch raw {
	case "off", "none":
		return 0, false
	case "":
		return defaultFadeOut, true
	}

	secs, ok := leadingInt(raw)
	if !ok || secs < 0 {
		return defaultFadeOut, true
	}
	return time.Duration(secs) * time.Second, true
}

// leadingInt reads an optionally signed integer prefix, so "10s" and "7.5" give 10 and 7.
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (d Directory) Timeout() time.Duration {
	return time.Duration(d.TimeoutSec) * time.Second
}

// TTL is zero when periodic reloads are off.
func (d Directory) TTL() time.Duration {
	return time.Duration(d.TTLSec) * time.Second
}

func (o Overlay) Delay() time.Duration {
	return time.Duration(o.DelayMs) * time.Millisecond
}
