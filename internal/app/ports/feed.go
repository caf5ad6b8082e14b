package ports

import "chatoverlay/internal/app/domain"

type FeedPort interface {
	Snapshot() []domain.RenderedMessage
	Subscribe() (id string, events <-chan domain.FeedEvent, unsubscribe func())
	Pending() int
}
