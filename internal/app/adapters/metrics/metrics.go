package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectionState - состояние сокета чата (0 disconnected, 1 connecting, 2 connected).
	ConnectionState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "overlay_connection_state",
		Help: "Chat socket state: 0 disconnected, 1 connecting, 2 connected",
	})

	// Reconnects - сколько раз было запланировано переподключение.
	Reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "overlay_reconnects_total",
		Help: "Total number of scheduled chat reconnects",
	})

	LinesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlay_lines_received_total",
			Help: "Parsed protocol lines per command",
		},
		[]string{"command"},
	)

	MessagesEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "overlay_messages_emitted_total",
		Help: "Messages that survived the grace delay and reached the feed",
	})

	// ModerationEvents - удаления сообщений и таймауты по типу.
	ModerationEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "overlay_moderation_events_total",
			Help: "Moderation events applied to the feed",
		},
		[]string{"action"},
	)

	QueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "overlay_delay_queue_length",
		Help: "Entries physically held by the delay queue, including lazily cancelled ones",
	})

	BufferLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "overlay_feed_buffer_length",
		Help: "Messages currently on screen",
	})

	DirectoryEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "overlay_directory_entries",
			Help: "Loaded emote/badge entries per provider store",
		},
		[]string{"store"},
	)

	// FragmentBuildTime - время разбиения сообщения на фрагменты.
	FragmentBuildTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "overlay_fragment_build_milliseconds",
			Help:    "Time to tokenize a message into fragments",
			Buckets: prometheus.ExponentialBuckets(0.00005, 1.5, 25),
		},
	)
)
