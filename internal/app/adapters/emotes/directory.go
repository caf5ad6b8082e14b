package emotes

import (
	"chatoverlay/internal/app/ports"
	"chatoverlay/pkg/logger"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const defaultLoadTimeout = 10 * time.Second

type Endpoints struct {
	BTTV     string
	FFZ      string
	SevenTV  string
	Fossabot string
}

var DefaultEndpoints = Endpoints{
	BTTV:     "https://api.betterttv.net/3",
	FFZ:      "https://api.frankerfacez.com/v1",
	SevenTV:  "https://7tv.io/v3",
	Fossabot: "https://api.fossabot.com/v2",
}

type Options struct {
	EmoteOnly bool
	Timeout   time.Duration // per store request
	Endpoints Endpoints
}

type loader interface {
	Name() string
	Load(ctx context.Context, channelID string) error
	Len() int
}

type emoteSource interface {
	Get(code string) (ports.Emote, bool)
}

type badgeSource interface {
	Get(id string) (badgeVersions, bool)
}

// Directory resolves third-party emotes and channel badges. Channel scoped stores are
// always consulted before global ones.
type Directory struct {
	log     logger.Logger
	timeout time.Duration

	emotes  []emoteSource
	badges  []badgeSource
	loaders []loader

	// loadMu serializes loads so that channel stores never mix two channels
	loadMu    sync.Mutex
	mu        sync.Mutex
	channelID string
}

func NewDirectory(log logger.Logger, client *http.Client, opts Options) *Directory {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultLoadTimeout
	}
	if opts.Endpoints == (Endpoints{}) {
		opts.Endpoints = DefaultEndpoints
	}
	ep, large := opts.Endpoints, opts.EmoteOnly

	bttvChannel, bttvGlobal := newBTTVChannel(client, ep.BTTV, large), newBTTVGlobal(client, ep.BTTV, large)
	ffzChannel, ffzGlobal := newFFZChannel(client, ep.FFZ, large), newFFZGlobal(client, ep.FFZ, large)
	seventvChannel, seventvGlobal := newSeventvChannel(client, ep.SevenTV, large), newSeventvGlobal(client, ep.SevenTV, large)
	channelBadges, globalBadges := newChannelBadges(client, ep.Fossabot), newGlobalBadges(client, ep.Fossabot)

	return &Directory{
		log:     log,
		timeout: opts.Timeout,
		emotes:  []emoteSource{bttvChannel, ffzChannel, seventvChannel, bttvGlobal, ffzGlobal, seventvGlobal},
		badges:  []badgeSource{channelBadges, globalBadges},
		loaders: []loader{
			globalBadges, channelBadges,
			bttvGlobal, bttvChannel,
			ffzGlobal, ffzChannel,
			seventvGlobal, seventvChannel,
		},
	}
}

func (d *Directory) Lookup(word string) (ports.Emote, bool) {
	for _, s := range d.emotes {
		if e, ok := s.Get(word); ok {
			return e, true
		}
	}
	return ports.Emote{}, false
}

func (d *Directory) LookupBadge(id, version string) (ports.BadgeAsset, bool) {
	for _, s := range d.badges {
		versions, ok := s.Get(id)
		if !ok {
			continue
		}
		if asset, ok := versions[version]; ok {
			return asset, true
		}
	}
	return ports.BadgeAsset{}, false
}

// Load fetches every store for channelID in parallel. A failing store is left empty and
// does not affect the others; the returned error joins all failures.
func (d *Directory) Load(ctx context.Context, channelID string) error {
	d.loadMu.Lock()
	defer d.loadMu.Unlock()

	d.mu.Lock()
	d.channelID = channelID
	d.mu.Unlock()

	return d.load(ctx, channelID)
}

// Reload repeats the last Load. It is a no-op before the first one.
func (d *Directory) Reload(ctx context.Context) error {
	d.loadMu.Lock()
	defer d.loadMu.Unlock()

	d.mu.Lock()
	channelID := d.channelID
	d.mu.Unlock()

	if channelID == "" {
		return nil
	}
	return d.load(ctx, channelID)
}

// load runs with loadMu held.
func (d *Directory) load(ctx context.Context, channelID string) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, l := range d.loaders {
		wg.Add(1)
		go func(l loader) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()

			if err := l.Load(ctx, channelID); err != nil {
				d.log.Warn("Failed to load emote store", slog.String("store", l.Name()), slog.String("error", err.Error()))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			d.log.Debug("Emote store loaded", slog.String("store", l.Name()), slog.Int("entries", l.Len()))
		}(l)
	}
	wg.Wait()

	d.log.Info("Emote directory loaded", slog.String("channel_id", channelID), slog.Int("entries", d.Size()), slog.Int("failed", len(errs)))
	return errors.Join(errs...)
}

// Run reloads the directory every interval until ctx is done.
func (d *Directory) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.Reload(ctx); err != nil {
				d.log.Warn("Periodic emote reload finished with errors", slog.String("error", err.Error()))
			}
		}
	}
}

func (d *Directory) Size() int {
	var n int
	for _, l := range d.loaders {
		n += l.Len()
	}
	return n
}
