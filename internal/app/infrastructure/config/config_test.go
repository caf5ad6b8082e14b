package config

import (
	"chatoverlay/pkg/logger"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path string, cfg *Config) {
	t.Helper()

	data, err := json.MarshalIndent(cfg, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestNew_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	m, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, m.GetDefault(), m.Get())

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, m.Get(), again.Get())
}

func TestNew_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := New(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	m := &Manager{}

	tests := []struct {
		name    string
		modify  func(cfg *Config)
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "bad log level", modify: func(cfg *Config) { cfg.App.LogLevel = "loud" }, wantErr: true},
		{name: "bad gin mode", modify: func(cfg *Config) { cfg.App.GinMode = "prod" }, wantErr: true},
		{name: "http url", modify: func(cfg *Config) { cfg.Twitch.URL = "https://irc" }, wantErr: true},
		{name: "nick with space", modify: func(cfg *Config) { cfg.Twitch.Nick = "a b" }, wantErr: true},
		{name: "proxy without port", modify: func(cfg *Config) { cfg.Proxy = &Proxy{Address: "127.0.0.1"} }, wantErr: true},
		{name: "non numeric channel id", modify: func(cfg *Config) { cfg.Channel.ID = "abc" }, wantErr: true},
		{name: "bad login", modify: func(cfg *Config) { cfg.Channel.Login = "no spaces allowed" }, wantErr: true},
		{name: "negative delay", modify: func(cfg *Config) { cfg.Overlay.DelayMs = -1 }, wantErr: true},
		{name: "huge buffer", modify: func(cfg *Config) { cfg.Overlay.MaxBuffer = 5000 }, wantErr: true},
		{name: "negative timeout", modify: func(cfg *Config) { cfg.Directory.TimeoutSec = -1 }, wantErr: true},
		{name: "short ttl", modify: func(cfg *Config) { cfg.Directory.TTLSec = 1 }, wantErr: true},
		{
			name:   "login is normalized",
			modify: func(cfg *Config) { cfg.Channel.Login = " #Forsen " },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "forsen", cfg.Channel.Login)
			},
		},
		{
			name:   "unknown theme falls back",
			modify: func(cfg *Config) { cfg.Overlay.Theme = "neon" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ThemeDefault, cfg.Overlay.Theme)
			},
		},
		{
			name: "zero values get defaults",
			modify: func(cfg *Config) {
				cfg.Overlay.DelayMs = 0
				cfg.Overlay.MaxBuffer = 0
				cfg.Directory.TimeoutSec = 0
				cfg.App.Listen = ""
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 1000, cfg.Overlay.DelayMs)
				assert.Equal(t, 100, cfg.Overlay.MaxBuffer)
				assert.Equal(t, 10*time.Second, cfg.Directory.Timeout())
				assert.Equal(t, ":8080", cfg.App.Listen)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := m.GetDefault()
			tt.modify(cfg)

			err := m.validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestOverlay_FadeOutDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
		ok   bool
	}{
		{raw: "", want: 15 * time.Second, ok: true},
		{raw: "off", ok: false},
		{raw: "none", ok: false},
		{raw: "30", want: 30 * time.Second, ok: true},
		{raw: "0", want: 0, ok: true},
		{raw: "-5", want: 15 * time.Second, ok: true},
		{raw: "soon", want: 15 * time.Second, ok: true},
		{raw: "10s", want: 10 * time.Second, ok: true},
		{raw: "7.5", want: 7 * time.Second, ok: true},
		{raw: " 20 ", want: 20 * time.Second, ok: true},
		{raw: "+4", want: 4 * time.Second, ok: true},
		{raw: "-", want: 15 * time.Second, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Overlay{FadeOut: tt.raw}.FadeOutDuration()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirectory_Durations(t *testing.T) {
	d := Directory{TimeoutSec: 5, TTLSec: 1800}
	assert.Equal(t, 5*time.Second, d.Timeout())
	assert.Equal(t, 30*time.Minute, d.TTL())
	assert.Zero(t, Directory{}.TTL())
}

func TestOverlay_EmoteOnly(t *testing.T) {
	assert.True(t, Overlay{Theme: ThemeEmoteDark}.EmoteOnly())
	assert.False(t, Overlay{Theme: ThemeSimple}.EmoteOnly())
}

func TestManager_Update(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m, err := New(path)
	require.NoError(t, err)
	before := m.Get()

	require.NoError(t, m.Update(func(cfg *Config) {
		cfg.Channel = Channel{ID: "22484632", Login: "Forsen"}
	}))
	assert.Equal(t, "forsen", m.Get().Channel.Login)
	assert.Empty(t, before.Channel.Login)

	reread, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "22484632", reread.Get().Channel.ID)

	err = m.Update(func(cfg *Config) { cfg.Overlay.MaxBuffer = -1 })
	assert.Error(t, err)
	assert.Equal(t, 100, m.Get().Overlay.MaxBuffer)
}

func TestManager_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m, err := New(path)
	require.NoError(t, err)

	cfg := m.GetDefault()
	cfg.Channel.Login = "xqc"
	writeConfig(t, path, cfg)

	prev, next, err := m.Reload()
	require.NoError(t, err)
	assert.Empty(t, prev.Channel.Login)
	assert.Equal(t, "xqc", next.Channel.Login)
	assert.Same(t, next, m.Get())

	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, _, err = m.Reload()
	assert.Error(t, err)
	assert.Equal(t, "xqc", m.Get().Channel.Login)
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m, err := New(path)
	require.NoError(t, err)

	w := NewWatcher(logger.NewNop(), m)
	w.debounce = 20 * time.Millisecond

	changes := make(chan [2]string, 4)
	w.Subscribe(func(prev, next *Config) {
		changes <- [2]string{prev.Channel.Login, next.Channel.Login}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// give the watcher a moment to register the directory
	time.Sleep(100 * time.Millisecond)

	cfg := m.GetDefault()
	cfg.Channel.Login = "forsen"
	writeConfig(t, path, cfg)

	select {
	case got := <-changes:
		assert.Equal(t, [2]string{"", "forsen"}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("config change was not picked up")
	}
	assert.Equal(t, "forsen", m.Get().Channel.Login)
}
