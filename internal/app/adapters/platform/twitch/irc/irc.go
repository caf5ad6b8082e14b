package irc

import (
	"chatoverlay/internal/app/adapters/metrics"
	"chatoverlay/internal/app/domain"
	"chatoverlay/internal/app/ports"
	"chatoverlay/pkg/logger"
	"context"
	"fmt"
	"github.com/gorilla/websocket"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	DefaultURL            = "wss://irc-ws.chat.twitch.tv/"
	DefaultNick           = "justinfan123"
	DefaultToken          = "123123132"
	DefaultConnectTimeout = 5 * time.Second

	reconnectStep       = 2 * time.Second
	maxReconnectTimeout = 10 * time.Second
)

// Socket is the part of *websocket.Conn the connection needs.
type Socket interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type DialFunc func(ctx context.Context, url string) (Socket, error)

type stopper interface {
	Stop() bool
}

type Options struct {
	URL            string
	Token          string
	Nick           string
	ConnectTimeout time.Duration
}

// IRC owns the chat socket. It keeps reconnecting until Disconnect is called and
// hands PRIVMSG / CLEARMSG / CLEARCHAT to the registered callbacks.
type IRC struct {
	log  logger.Logger
	opts Options

	dial      DialFunc
	afterFunc func(d time.Duration, f func()) stopper

	mu              sync.Mutex
	state           ports.ConnectionState
	attempts        int
	forceDisconnect bool
	login           string
	conn            Socket
	gen             uint64
	cancelDial      context.CancelFunc
	connectTimer    stopper
	reconnectTimer  stopper

	onMessage func(msg *domain.ChatMessage)
	onDelete  func(id string)
	onTimeout func(login string)
}

func New(log logger.Logger, opts Options, client *http.Client) *IRC {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Nick == "" {
		opts.Nick = DefaultNick
	}
	if opts.Token == "" {
		opts.Token = DefaultToken
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}

	return &IRC{
		log:   log,
		opts:  opts,
		state: ports.Disconnected,
		dial:  websocketDialer(client, opts.ConnectTimeout),
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

func websocketDialer(client *http.Client, handshakeTimeout time.Duration) DialFunc {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}
	if client != nil {
		if tr, ok := client.Transport.(*http.Transport); ok && tr.DialContext != nil {
			dialer.NetDialContext = tr.DialContext
		}
	}
	if dialer.NetDialContext == nil {
		dialer.NetDialContext = (&net.Dialer{}).DialContext
	}

	return func(ctx context.Context, url string) (Socket, error) {
		ws, resp, err := dialer.DialContext(ctx, url, nil)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			return nil, fmt.Errorf("websocket dial: %w", err)
		}
		return ws, nil
	}
}

// ReconnectDelay is linear in the number of failed attempts and capped at 10s.
func ReconnectDelay(attempts int) time.Duration {
	d := time.Duration(attempts) * reconnectStep
	if d > maxReconnectTimeout {
		return maxReconnectTimeout
	}
	return d
}

func (i *IRC) OnMessage(cb func(msg *domain.ChatMessage)) {
	i.mu.Lock()
	i.onMessage = cb
	i.mu.Unlock()
}

func (i *IRC) OnDeleteMessage(cb func(id string)) {
	i.mu.Lock()
	i.onDelete = cb
	i.mu.Unlock()
}

func (i *IRC) OnUserTimeout(cb func(login string)) {
	i.mu.Lock()
	i.onTimeout = cb
	i.mu.Unlock()
}

func (i *IRC) State() ports.ConnectionState {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.state
}

func (i *IRC) Connect() {
	i.mu.Lock()
	if i.forceDisconnect || i.state != ports.Disconnected {
		i.mu.Unlock()
		return
	}

	i.attempts++
	i.gen++
	gen := i.gen
	i.setState(ports.Connecting)

	// give the socket a fixed window to open
	i.connectTimer = i.afterFunc(i.opts.ConnectTimeout, func() {
		i.log.Warn("Connection to chat timed out", slog.Int("attempt", i.attemptsSnapshot()))
		i.handleDisconnect(gen)
	})

	ctx, cancel := context.WithCancel(context.Background())
	i.cancelDial = cancel
	attempt := i.attempts
	i.mu.Unlock()

	i.log.Debug("Connecting to chat", slog.String("url", i.opts.URL), slog.Int("attempt", attempt))
	go i.run(ctx, gen)
}

func (i *IRC) run(ctx context.Context, gen uint64) {
	sock, err := i.dial(ctx, i.opts.URL)
	if err != nil {
		i.log.Warn("Failed to connect to chat", slog.String("error", err.Error()))
		i.handleDisconnect(gen)
		return
	}

	if !i.handleOpen(gen, sock) {
		_ = sock.Close()
		return
	}

	for {
		_, data, err := sock.ReadMessage()
		if err != nil {
			i.log.Debug("Chat socket read failed", slog.String("error", err.Error()))
			i.handleDisconnect(gen)
			return
		}
		i.handleData(string(data))
	}
}

func (i *IRC) handleOpen(gen uint64, sock Socket) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	// timed out or disconnected while dialing
	if gen != i.gen || i.state != ports.Connecting {
		return false
	}

	stop(i.connectTimer)
	i.connectTimer = nil
	i.cancelDial = nil
	i.conn = sock
	i.attempts = 0
	i.setState(ports.Connected)

	i.send("CAP REQ :twitch.tv/tags twitch.tv/commands")
	i.send("PASS oauth:" + i.opts.Token)
	i.send("NICK " + i.opts.Nick)
	if i.login != "" {
		i.send("JOIN #" + i.login)
	}

	i.log.Info("Connected to chat", slog.String("channel", i.login))
	return true
}

func (i *IRC) handleData(data string) {
	lines := strings.FieldsFunc(data, func(r rune) bool { return r == '\r' || r == '\n' })
	for _, raw := range lines {
		i.handleLine(raw)
	}
}

func (i *IRC) handleLine(raw string) {
	l, ok := Parse(raw)
	if !ok {
		i.log.Trace("Dropped malformed line", slog.String("line", raw))
		return
	}
	metrics.LinesReceived.WithLabelValues(l.Command).Inc()

	i.mu.Lock()
	onMessage, onDelete, onTimeout := i.onMessage, i.onDelete, i.onTimeout
	i.mu.Unlock()

	switch l.Command {
	case "PING":
		pong := *l
		pong.Command = "PONG"
		i.mu.Lock()
		i.send(pong.String())
		i.mu.Unlock()
	case "PRIVMSG":
		if onMessage != nil {
			onMessage(BuildMessage(l))
		}
	case "CLEARCHAT":
		if onTimeout != nil {
			onTimeout(l.Trailing)
		}
	case "CLEARMSG":
		if id := l.Tags["target-msg-id"]; id != "" && onDelete != nil {
			onDelete(id)
		}
	}
}

func (i *IRC) handleDisconnect(gen uint64) {
	i.mu.Lock()
	// a socket that was already replaced by a newer connection
	if gen != i.gen {
		i.mu.Unlock()
		return
	}
	// prevent duplicate reconnection attempts
	if i.state == ports.Disconnected {
		i.mu.Unlock()
		return
	}

	i.setState(ports.Disconnected)
	i.teardownLocked()

	if i.forceDisconnect {
		i.mu.Unlock()
		return
	}

	delay := ReconnectDelay(i.attempts)
	i.reconnectTimer = i.afterFunc(delay, i.Connect)
	i.mu.Unlock()

	metrics.Reconnects.Inc()
	i.log.Warn("Disconnected from chat", slog.Duration("reconnect_in", delay))
}

func (i *IRC) Join(login string) {
	login = strings.ToLower(strings.TrimPrefix(login, "#"))

	i.mu.Lock()
	defer i.mu.Unlock()

	if login == i.login {
		return
	}

	if i.login != "" {
		i.send("PART #" + i.login)
	}
	i.login = login
	i.send("JOIN #" + i.login)
}

func (i *IRC) Disconnect() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.forceDisconnect = true
	stop(i.reconnectTimer)
	i.reconnectTimer = nil
	i.teardownLocked()
	i.setState(ports.Disconnected)

	i.log.Info("Disconnected from chat on request")
}

// teardownLocked stops the connect timer and drops the current socket. Caller holds mu.
func (i *IRC) teardownLocked() {
	stop(i.connectTimer)
	i.connectTimer = nil

	if i.cancelDial != nil {
		i.cancelDial()
		i.cancelDial = nil
	}

	if i.conn != nil {
		if err := i.conn.Close(); err != nil {
			i.log.Debug("Failed to close chat socket", slog.String("error", err.Error()))
		}
		i.conn = nil
	}
}

// send writes one line to the open socket. Caller holds mu.
func (i *IRC) send(line string) {
	if strings.ContainsAny(line, "\r\n") {
		return
	}
	if i.conn == nil || i.state != ports.Connected {
		return
	}

	if err := i.conn.WriteMessage(websocket.TextMessage, []byte(line+"\r\n")); err != nil {
		i.log.Error("Failed to write to chat socket", err)
	}
}

func (i *IRC) setState(s ports.ConnectionState) {
	i.state = s
	metrics.ConnectionState.Set(float64(s))
}

func (i *IRC) attemptsSnapshot() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.attempts
}

func stop(t stopper) {
	if t != nil {
		t.Stop()
	}
}
