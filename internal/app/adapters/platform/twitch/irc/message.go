package irc

import (
	"chatoverlay/internal/app/domain"
	"strconv"
	"strings"
)

const (
	actionPrefix = "\x01ACTION "
	actionSuffix = "\x01"
)

// BuildMessage converts a parsed PRIVMSG into a ChatMessage. Broken badge or emote
// entries are skipped one by one, the rest of the message is kept.
func BuildMessage(l *Line) *domain.ChatMessage {
	text, action := unwrapAction(l.Trailing)

	return &domain.ChatMessage{
		ID: l.Tags["id"],
		Sender: domain.Sender{
			ID:          l.Tags["user-id"],
			Login:       l.Nick(),
			DisplayName: l.Tags["display-name"],
			Color:       l.Tags["color"],
			Badges:      parseBadges(l.Tags["badges"]),
		},
		Content: domain.Content{
			Text:   text,
			Action: action,
			Emotes: parseEmotes(l.Tags["emotes"]),
		},
	}
}

func unwrapAction(trailing string) (string, bool) {
	if len(trailing) > len(actionPrefix) &&
		strings.HasPrefix(trailing, actionPrefix) &&
		strings.HasSuffix(trailing, actionSuffix) {
		return trailing[len(actionPrefix) : len(trailing)-len(actionSuffix)], true
	}
	return trailing, false
}

// badges=subscriber/12,premium/1
func parseBadges(raw string) []domain.Badge {
	if raw == "" {
		return nil
	}

	out := make([]domain.Badge, 0, strings.Count(raw, ",")+1)
	for _, pair := range strings.Split(raw, ",") {
		id, version, ok := strings.Cut(pair, "/")
		if !ok || id == "" || version == "" {
			continue
		}
		out = append(out, domain.Badge{ID: id, Version: version})
	}
	return out
}

// emotes=25:0-4,12-16/1902:6-10
func parseEmotes(raw string) map[int]domain.EmotePlacement {
	out := make(map[int]domain.EmotePlacement)
	if raw == "" {
		return out
	}

	for _, group := range strings.Split(raw, "/") {
		id, placements, ok := strings.Cut(group, ":")
		if !ok || id == "" || placements == "" {
			continue
		}

		for _, placement := range strings.Split(placements, ",") {
			rawStart, rawEnd, ok := strings.Cut(placement, "-")
			if !ok {
				continue
			}

			start, err := strconv.Atoi(rawStart)
			if err != nil || start < 0 {
				continue
			}
			end, err := strconv.Atoi(rawEnd)
			if err != nil || end < start {
				continue
			}

			out[start] = domain.EmotePlacement{ID: id, Start: start, End: end}
		}
	}
	return out
}
