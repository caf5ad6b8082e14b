package emotes

import (
	"chatoverlay/internal/app/ports"
	"net/http"
	"net/url"
)

type seventvEmoteSet struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Emotes []seventvEmote `json:"emotes"`
}

type seventvUser struct {
	ID         string          `json:"id"`
	Platform   string          `json:"platform"`
	Username   string          `json:"username"`
	EmoteSetID string          `json:"emote_set_id"`
	EmoteSet   seventvEmoteSet `json:"emote_set"`
}

type seventvEmote struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Data struct {
		Animated bool        `json:"animated"`
		Host     seventvHost `json:"host"`
	} `json:"data"`
}

type seventvHost struct {
	URL   string            `json:"url"`
	Files []seventvHostFile `json:"files"`
}

type seventvHostFile struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// seventvURL prefers WEBP files and, among those, the smallest one or the largest one
// for emote-only overlays.
func seventvURL(host seventvHost, large bool) string {
	if len(host.Files) == 0 {
		return ""
	}

	selected := host.Files[0]
	for _, f := range host.Files {
		if f.Format != "WEBP" {
			continue
		}
		if selected.Format != "WEBP" {
			selected = f
			continue
		}

		var better bool
		if large {
			better = f.Width > selected.Width || f.Height > selected.Height
		} else {
			better = f.Width < selected.Width || f.Height < selected.Height
		}
		if better {
			selected = f
		}
	}

	return absoluteURL(host.URL + "/" + selected.Name)
}

func decodeSeventv(emotes []seventvEmote, large bool) map[string]ports.Emote {
	out := make(map[string]ports.Emote, len(emotes))
	for _, e := range emotes {
		if e.Name == "" || len(e.Data.Host.Files) == 0 {
			continue
		}
		out[e.Name] = ports.Emote{ID: e.ID, URL: seventvURL(e.Data.Host, large)}
	}
	return out
}

func newSeventvGlobal(client *http.Client, base string, large bool) *Store[seventvEmoteSet, ports.Emote] {
	return NewStore("7tv_global", client,
		func(string) string { return base + "/emote-sets/global" },
		func(body seventvEmoteSet) map[string]ports.Emote { return decodeSeventv(body.Emotes, large) },
	)
}

func newSeventvChannel(client *http.Client, base string, large bool) *Store[seventvUser, ports.Emote] {
	return NewStore("7tv_channel", client,
		func(channelID string) string { return base + "/users/twitch/" + url.PathEscape(channelID) },
		func(body seventvUser) map[string]ports.Emote { return decodeSeventv(body.EmoteSet.Emotes, large) },
	)
}
