package domain

import "strings"

// ChatMessage is a single PRIVMSG as received from chat. It is built once by the
// connection and never mutated afterwards.
type ChatMessage struct {
	ID      string
	Sender  Sender
	Content Content
}

type Sender struct {
	ID          string
	Login       string
	DisplayName string
	Color       string // empty when the user never picked a color
	Badges      []Badge
}

type Badge struct {
	ID      string
	Version string
}

type Content struct {
	Text   string
	Action bool
	Emotes map[int]EmotePlacement // keyed by start offset, in codepoints
}

// EmotePlacement is an inclusive codepoint range [Start, End] covered by a native emote.
type EmotePlacement struct {
	ID    string
	Start int
	End   int
}

// Name is what the overlay prints in front of the message.
func (s Sender) Name() string {
	if s.DisplayName == "" {
		return s.Login
	}
	if strings.EqualFold(s.DisplayName, s.Login) {
		return s.DisplayName
	}
	return s.DisplayName + " (" + s.Login + ")"
}
