package emotes

import (
	"chatoverlay/internal/app/ports"
	"net/http"
	"net/url"
)

type fossabotAsset struct {
	Alt string `json:"alt"`
	URL string `json:"url"`
}

type fossabotBadges struct {
	Data []struct {
		ID       string `json:"id"`
		Versions []struct {
			ID      string         `json:"id"`
			Asset1x *fossabotAsset `json:"asset_1x"`
			Asset2x *fossabotAsset `json:"asset_2x"`
			Asset4x *fossabotAsset `json:"asset_4x"`
		} `json:"versions"`
	} `json:"data"`
}

// badgeVersions maps a badge version to its asset.
type badgeVersions map[string]ports.BadgeAsset

func decodeFossabot(body fossabotBadges) map[string]badgeVersions {
	out := make(map[string]badgeVersions, len(body.Data))
	for _, badge := range body.Data {
		versions := make(badgeVersions, len(badge.Versions))
		for _, v := range badge.Versions {
			asset := v.Asset1x
			if asset == nil {
				asset = v.Asset2x
			}
			if asset == nil {
				asset = v.Asset4x
			}
			if asset == nil {
				continue
			}
			versions[v.ID] = ports.BadgeAsset{Alt: asset.Alt, URL: absoluteURL(asset.URL)}
		}
		out[badge.ID] = versions
	}
	return out
}

func newGlobalBadges(client *http.Client, base string) *Store[fossabotBadges, badgeVersions] {
	return NewStore("badges_global", client,
		func(string) string { return base + "/cached/twitch/badges/global" },
		decodeFossabot,
	)
}

func newChannelBadges(client *http.Client, base string) *Store[fossabotBadges, badgeVersions] {
	return NewStore("badges_channel", client,
		func(channelID string) string {
			return base + "/cached/twitch/badges/users/" + url.PathEscape(channelID)
		},
		decodeFossabot,
	)
}
