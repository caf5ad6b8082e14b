package emotes

import (
	"chatoverlay/internal/app/ports"
	"net/http"
	"net/url"
)

type bttvEmote struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

type bttvUser struct {
	ChannelEmotes []bttvEmote `json:"channelEmotes"`
	SharedEmotes  []bttvEmote `json:"sharedEmotes"`
}

const bttvCDN = "https://cdn.betterttv.net/emote/"

func bttvURL(id string, large bool) string {
	size := "1x"
	if large {
		size = "3x"
	}
	return bttvCDN + url.PathEscape(id) + "/" + size
}

func decodeBTTV(emotes []bttvEmote, large bool) map[string]ports.Emote {
	out := make(map[string]ports.Emote, len(emotes))
	for _, e := range emotes {
		if e.Code == "" || e.ID == "" {
			continue
		}
		out[e.Code] = ports.Emote{ID: e.ID, URL: bttvURL(e.ID, large)}
	}
	return out
}

func newBTTVGlobal(client *http.Client, base string, large bool) *Store[[]bttvEmote, ports.Emote] {
	return NewStore("bttv_global", client,
		func(string) string { return base + "/cached/emotes/global" },
		func(body []bttvEmote) map[string]ports.Emote { return decodeBTTV(body, large) },
	)
}

func newBTTVChannel(client *http.Client, base string, large bool) *Store[bttvUser, ports.Emote] {
	return NewStore("bttv_channel", client,
		func(channelID string) string { return base + "/cached/users/twitch/" + url.PathEscape(channelID) },
		func(body bttvUser) map[string]ports.Emote {
			// shared emotes win over channel ones with the same code
			return decodeBTTV(append(body.ChannelEmotes, body.SharedEmotes...), large)
		},
	)
}
