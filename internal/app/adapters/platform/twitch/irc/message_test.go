package irc

import (
	"chatoverlay/internal/app/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	l, ok := Parse("@badges=broadcaster/1,subscriber/3012;color=#8A2BE2;display-name=Forsen;emotes=25:0-4,12-16/1902:6-10;id=msg-1;user-id=22484632 :forsen!forsen@forsen.tmi.twitch.tv PRIVMSG #forsen :Kappa Keepo Kappa")
	require.True(t, ok)

	got := BuildMessage(l)
	assert.Equal(t, &domain.ChatMessage{
		ID: "msg-1",
		Sender: domain.Sender{
			ID:          "22484632",
			Login:       "forsen",
			DisplayName: "Forsen",
			Color:       "#8A2BE2",
			Badges: []domain.Badge{
				{ID: "broadcaster", Version: "1"},
				{ID: "subscriber", Version: "3012"},
			},
		},
		Content: domain.Content{
			Text: "Kappa Keepo Kappa",
			Emotes: map[int]domain.EmotePlacement{
				0:  {ID: "25", Start: 0, End: 4},
				12: {ID: "25", Start: 12, End: 16},
				6:  {ID: "1902", Start: 6, End: 10},
			},
		},
	}, got)
}

func TestBuildMessage_Action(t *testing.T) {
	l, ok := Parse("@id=1 :a!a@a PRIVMSG #c :\x01ACTION waves\x01")
	require.True(t, ok)

	got := BuildMessage(l)
	assert.True(t, got.Content.Action)
	assert.Equal(t, "waves", got.Content.Text)
	assert.Empty(t, got.Sender.Color)
	assert.Nil(t, got.Sender.Badges)
}

func TestParseBadges(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []domain.Badge
	}{
		{name: "empty", raw: "", want: nil},
		{name: "single", raw: "vip/1", want: []domain.Badge{{ID: "vip", Version: "1"}}},
		{
			name: "broken entries are skipped",
			raw:  "moderator/1,broken,/2,premium/,turbo/1",
			want: []domain.Badge{{ID: "moderator", Version: "1"}, {ID: "turbo", Version: "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseBadges(tt.raw))
		})
	}
}

func TestParseEmotes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[int]domain.EmotePlacement
	}{
		{name: "empty", raw: "", want: map[int]domain.EmotePlacement{}},
		{
			name: "broken entries are skipped",
			raw:  "25:0-4,x-5,7-/nocolon/:1-2/88:9-12,20-18",
			want: map[int]domain.EmotePlacement{
				0: {ID: "25", Start: 0, End: 4},
				9: {ID: "88", Start: 9, End: 12},
			},
		},
		{
			name: "emotesv2 ids",
			raw:  "emotesv2_dc24652ada1e4c84a5e3ceebae4de709:0-6",
			want: map[int]domain.EmotePlacement{
				0: {ID: "emotesv2_dc24652ada1e4c84a5e3ceebae4de709", Start: 0, End: 6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseEmotes(tt.raw))
		})
	}
}
