package feed

import (
	"chatoverlay/internal/app/adapters/metrics"
	"chatoverlay/internal/app/domain"
	"chatoverlay/internal/app/domain/fragment"
	"chatoverlay/internal/app/infrastructure/timers"
	"chatoverlay/internal/app/ports"
	"chatoverlay/pkg/logger"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultDelay     = time.Second
	DefaultMaxBuffer = 100
	defaultColor     = "#aaa"
	subscriberBuffer = 64
)

type Options struct {
	Delay     time.Duration
	MaxBuffer int
	EmoteOnly bool
}

type Lookup interface {
	ports.EmoteLookup
	ports.BadgeLookup
}

// Feed holds every message back for a grace delay so that deletions and timeouts
// can retract it, then keeps the last MaxBuffer messages on screen.
type Feed struct {
	log       logger.Logger
	lookup    Lookup
	colors    ports.ColorPort
	builder   fragment.Builder
	emoteOnly bool
	maxBuffer int

	queue *timers.DelayedQueue[*domain.ChatMessage]

	mu     sync.RWMutex
	buffer []domain.RenderedMessage
	// inflight maps queued message ids to sender logins until they are shown or retracted
	inflight map[string]string

	subsMu sync.Mutex
	subs   map[string]chan domain.FeedEvent
}

func New(log logger.Logger, irc ports.IRCPort, lookup Lookup, colors ports.ColorPort, opts Options) *Feed {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.MaxBuffer <= 0 {
		opts.MaxBuffer = DefaultMaxBuffer
	}

	f := &Feed{
		log:       log,
		lookup:    lookup,
		colors:    colors,
		builder:   fragment.Builder{Emotes: lookup, EmoteOnly: opts.EmoteOnly},
		emoteOnly: opts.EmoteOnly,
		maxBuffer: opts.MaxBuffer,
		inflight:  make(map[string]string),
		subs:      make(map[string]chan domain.FeedEvent),
	}

	f.queue = timers.NewDelayedQueue(opts.Delay,
		func(m *domain.ChatMessage) string { return m.ID },
		func(m *domain.ChatMessage) string { return m.Sender.Login },
		f.show,
		timers.WithLogger(log),
	)

	irc.OnMessage(f.push)
	irc.OnDeleteMessage(f.deleteMessage)
	irc.OnUserTimeout(f.timeoutUser)

	return f
}

func (f *Feed) push(msg *domain.ChatMessage) {
	if msg.ID == "" {
		f.log.Trace("Message without id, dropping", slog.String("login", msg.Sender.Login))
		return
	}

	f.mu.Lock()
	f.inflight[msg.ID] = msg.Sender.Login
	f.mu.Unlock()

	f.queue.Push(msg)
	metrics.QueueLength.Set(float64(f.queue.Len()))
}

// show runs once a message survived the delay.
func (f *Feed) show(msg *domain.ChatMessage) {
	rendered, ok := f.render(msg)
	metrics.QueueLength.Set(float64(f.queue.Len()))
	if !ok {
		f.mu.Lock()
		delete(f.inflight, msg.ID)
		f.mu.Unlock()
		return
	}

	f.mu.Lock()
	// deleted or timed out while it was being rendered
	if _, ok := f.inflight[msg.ID]; !ok {
		f.mu.Unlock()
		f.log.Debug("Message retracted before it was shown", slog.String("id", msg.ID))
		return
	}
	delete(f.inflight, msg.ID)

	f.buffer = append(f.buffer, rendered)
	var dropped []string
	if extra := len(f.buffer) - f.maxBuffer; extra > 0 {
		for _, m := range f.buffer[:extra] {
			dropped = append(dropped, m.ID)
		}
		f.buffer = slices.Delete(f.buffer, 0, extra)
	}
	size := len(f.buffer)
	f.mu.Unlock()

	metrics.MessagesEmitted.Inc()
	metrics.BufferLength.Set(float64(size))

	f.publish(domain.FeedEvent{Type: domain.FeedAdd, Message: &rendered})
	if len(dropped) > 0 {
		f.publish(domain.FeedEvent{Type: domain.FeedRemove, IDs: dropped})
	}
}

func (f *Feed) deleteMessage(id string) {
	metrics.ModerationEvents.WithLabelValues("delete").Inc()

	f.mu.Lock()
	delete(f.inflight, id)
	idx := slices.IndexFunc(f.buffer, func(m domain.RenderedMessage) bool { return m.ID == id })
	if idx != -1 {
		f.buffer = slices.Delete(f.buffer, idx, idx+1)
	}
	size := len(f.buffer)
	f.mu.Unlock()

	f.queue.CancelEvent(id)

	if idx != -1 {
		f.log.Debug("Message deleted from screen", slog.String("id", id))
		metrics.BufferLength.Set(float64(size))
		f.publish(domain.FeedEvent{Type: domain.FeedRemove, IDs: []string{id}})
	}
}

func (f *Feed) timeoutUser(login string) {
	if login == "" {
		// CLEARCHAT without a target clears the whole chat, the overlay keeps its messages
		return
	}
	metrics.ModerationEvents.WithLabelValues("timeout").Inc()

	f.mu.Lock()
	for id, sender := range f.inflight {
		if sender == login {
			delete(f.inflight, id)
		}
	}
	var removed []string
	f.buffer = slices.DeleteFunc(f.buffer, func(m domain.RenderedMessage) bool {
		if m.Sender.Login == login {
			removed = append(removed, m.ID)
			return true
		}
		return false
	})
	size := len(f.buffer)
	f.mu.Unlock()

	f.queue.EvictAllEventsInGroup(login)

	if len(removed) > 0 {
		f.log.Debug("User messages cleared from screen", slog.String("login", login), slog.Int("count", len(removed)))
		metrics.BufferLength.Set(float64(size))
		f.publish(domain.FeedEvent{Type: domain.FeedRemove, IDs: removed})
	}
}

func (f *Feed) render(msg *domain.ChatMessage) (domain.RenderedMessage, bool) {
	start := time.Now()
	fragments := f.builder.Build(msg.Content)
	metrics.FragmentBuildTime.Observe(float64(time.Since(start).Microseconds()) / 1000)

	if f.emoteOnly {
		// only the first image is shown, messages without one are skipped
		idx := slices.IndexFunc(fragments, func(fr domain.Fragment) bool { return fr.Type == domain.FragmentImage })
		if idx == -1 {
			return domain.RenderedMessage{}, false
		}
		fragments = fragments[idx : idx+1]
	}

	color := msg.Sender.Color
	if color == "" {
		color = defaultColor
	}

	var badges []domain.RenderedBadge
	for _, b := range msg.Sender.Badges {
		asset, ok := f.lookup.LookupBadge(b.ID, b.Version)
		if !ok {
			continue
		}
		badges = append(badges, domain.RenderedBadge{ID: b.ID, Alt: asset.Alt, URL: asset.URL})
	}

	return domain.RenderedMessage{
		ID: msg.ID,
		Sender: domain.RenderedSender{
			ID:     msg.Sender.ID,
			Login:  msg.Sender.Login,
			Name:   msg.Sender.Name(),
			Color:  f.colors.Calculate(color),
			Badges: badges,
		},
		Action:    msg.Content.Action,
		Fragments: fragments,
	}, true
}

// Snapshot returns the messages currently on screen, oldest first.
func (f *Feed) Snapshot() []domain.RenderedMessage {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return slices.Clone(f.buffer)
}

func (f *Feed) Pending() int {
	return f.queue.Pending()
}

// Subscribe registers a listener for feed changes. Events are dropped for listeners
// that fall more than subscriberBuffer events behind.
func (f *Feed) Subscribe() (string, <-chan domain.FeedEvent, func()) {
	id := uuid.NewString()
	ch := make(chan domain.FeedEvent, subscriberBuffer)

	f.subsMu.Lock()
	f.subs[id] = ch
	f.subsMu.Unlock()

	var once sync.Once
	return id, ch, func() {
		once.Do(func() {
			f.subsMu.Lock()
			defer f.subsMu.Unlock()

			if _, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(ch)
			}
		})
	}
}

func (f *Feed) publish(ev domain.FeedEvent) {
	f.subsMu.Lock()
	defer f.subsMu.Unlock()

	for id, ch := range f.subs {
		select {
		case ch <- ev:
		default:
			f.log.Warn("Subscriber is too slow, dropping event", slog.String("subscriber", id), slog.String("type", string(ev.Type)))
		}
	}
}

// Close drops everything still waiting in the queue and disconnects all subscribers.
func (f *Feed) Close() {
	f.queue.Cleanup()
	metrics.QueueLength.Set(0)

	f.mu.Lock()
	clear(f.inflight)
	f.mu.Unlock()

	f.subsMu.Lock()
	defer f.subsMu.Unlock()

	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}
