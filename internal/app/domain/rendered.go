package domain

type FragmentType string

const (
	FragmentText  FragmentType = "text"
	FragmentImage FragmentType = "image"
)

// Fragment is a contiguous piece of a rendered message. Image fragments keep the
// text they replace so the renderer can use it as alt text.
type Fragment struct {
	Type  FragmentType `json:"type"`
	Text  string       `json:"text"`
	Image string       `json:"image,omitempty"`
}

type RenderedBadge struct {
	ID  string `json:"id"`
	Alt string `json:"alt"`
	URL string `json:"url"`
}

type RenderedSender struct {
	ID     string          `json:"id"`
	Login  string          `json:"login"`
	Name   string          `json:"name"`
	Color  string          `json:"color"`
	Badges []RenderedBadge `json:"badges"`
}

// RenderedMessage is what the overlay shows for one chat message.
type RenderedMessage struct {
	ID        string         `json:"id"`
	Sender    RenderedSender `json:"sender"`
	Action    bool           `json:"action"`
	Fragments []Fragment     `json:"fragments"`
}

type FeedEventType string

const (
	FeedAdd    FeedEventType = "add"
	FeedRemove FeedEventType = "remove"
)

type FeedEvent struct {
	Type    FeedEventType    `json:"type"`
	Message *RenderedMessage `json:"message,omitempty"`
	IDs     []string         `json:"ids,omitempty"`
}
