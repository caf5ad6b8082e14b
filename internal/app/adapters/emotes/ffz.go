package emotes

import (
	"chatoverlay/internal/app/ports"
	"net/http"
	"net/url"
	"slices"
	"strconv"
)

type ffzEmote struct {
	ID   int               `json:"id"`
	Name string            `json:"name"`
	URLs map[string]string `json:"urls"`
}

type ffzSet struct {
	Emoticons []ffzEmote `json:"emoticons"`
}

type ffzGlobal struct {
	DefaultSets []int             `json:"default_sets"`
	Sets        map[string]ffzSet `json:"sets"`
}

type ffzRoom struct {
	Room struct {
		Set int `json:"set"`
	} `json:"room"`
	Sets map[string]ffzSet `json:"sets"`
}

// ffzURL picks the smallest scale, or the largest one for emote-only overlays.
func ffzURL(urls map[string]string, large bool) string {
	if len(urls) == 0 {
		return ""
	}

	keys := make([]string, 0, len(urls))
	for k := range urls {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	if large {
		return absoluteURL(urls[keys[len(keys)-1]])
	}
	return absoluteURL(urls[keys[0]])
}

func decodeFFZSet(out map[string]ports.Emote, set ffzSet, large bool) {
	for _, e := range set.Emoticons {
		u := ffzURL(e.URLs, large)
		if e.Name == "" || u == "" {
			continue
		}
		out[e.Name] = ports.Emote{ID: strconv.Itoa(e.ID), URL: u}
	}
}

func newFFZGlobal(client *http.Client, base string, large bool) *Store[ffzGlobal, ports.Emote] {
	return NewStore("ffz_global", client,
		func(string) string { return base + "/set/global" },
		func(body ffzGlobal) map[string]ports.Emote {
			out := make(map[string]ports.Emote)
			for _, id := range body.DefaultSets {
				if set, ok := body.Sets[strconv.Itoa(id)]; ok {
					decodeFFZSet(out, set, large)
				}
			}
			return out
		},
	)
}

func newFFZChannel(client *http.Client, base string, large bool) *Store[ffzRoom, ports.Emote] {
	return NewStore("ffz_channel", client,
		func(channelID string) string { return base + "/room/id/" + url.PathEscape(channelID) },
		func(body ffzRoom) map[string]ports.Emote {
			out := make(map[string]ports.Emote)
			if set, ok := body.Sets[strconv.Itoa(body.Room.Set)]; ok {
				decodeFFZSet(out, set, large)
			}
			return out
		},
	)
}
