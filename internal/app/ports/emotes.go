package ports

import "context"

type Emote struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type BadgeAsset struct {
	Alt string `json:"alt"`
	URL string `json:"url"`
}

type EmoteLookup interface {
	Lookup(word string) (Emote, bool)
}

type BadgeLookup interface {
	LookupBadge(id, version string) (BadgeAsset, bool)
}

type EmoteDirectoryPort interface {
	EmoteLookup
	BadgeLookup
	Load(ctx context.Context, channelID string) error
	Reload(ctx context.Context) error
	Size() int
}

type ColorPort interface {
	Calculate(color string) string
}
