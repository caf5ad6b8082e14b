package fragment

import (
	"chatoverlay/internal/app/domain"
	"chatoverlay/internal/app/ports"
	"testing"

	"github.com/stretchr/testify/assert"
)

type directory map[string]string

func (d directory) Lookup(word string) (ports.Emote, bool) {
	url, ok := d[word]
	if !ok {
		return ports.Emote{}, false
	}
	return ports.Emote{ID: word, URL: url}, true
}

func text(s string) domain.Fragment { return domain.Fragment{Type: domain.FragmentText, Text: s} }

func image(s, url string) domain.Fragment {
	return domain.Fragment{Type: domain.FragmentImage, Text: s, Image: url}
}

func TestBuild(t *testing.T) {
	dir := directory{
		":)":       "https://cdn/smile",
		"OMEGALUL": "https://cdn/omegalul",
		"X":        "https://cdn/x",
		"catJAM":   "https://cdn/catjam",
		"🙂":        "https://cdn/emoji",
	}

	tests := []struct {
		name    string
		content domain.Content
		want    []domain.Fragment
	}{
		{
			name:    "directory word in the middle",
			content: domain.Content{Text: "hello :) world"},
			want:    []domain.Fragment{text("hello "), image(":)", "https://cdn/smile"), text(" world")},
		},
		{
			name: "native placement wins over the directory",
			content: domain.Content{
				Text:   "X hi",
				Emotes: map[int]domain.EmotePlacement{0: {ID: "E1", Start: 0, End: 0}},
			},
			want: []domain.Fragment{image("X", NativeEmoteURL("E1", false)), text(" hi")},
		},
		{
			name:    "plain text",
			content: domain.Content{Text: "just chatting"},
			want:    []domain.Fragment{text("just chatting")},
		},
		{
			name:    "empty",
			content: domain.Content{},
			want:    nil,
		},
		{
			name:    "word only",
			content: domain.Content{Text: "OMEGALUL"},
			want:    []domain.Fragment{image("OMEGALUL", "https://cdn/omegalul")},
		},
		{
			name:    "consecutive emotes keep the space between them",
			content: domain.Content{Text: "catJAM catJAM"},
			want: []domain.Fragment{
				image("catJAM", "https://cdn/catjam"),
				text(" "),
				image("catJAM", "https://cdn/catjam"),
			},
		},
		{
			name:    "lookup is case sensitive",
			content: domain.Content{Text: "catjam"},
			want:    []domain.Fragment{text("catjam")},
		},
		{
			name: "pending word is flushed before a native emote",
			content: domain.Content{
				Text:   "ab:)Kappa c",
				Emotes: map[int]domain.EmotePlacement{4: {ID: "25", Start: 4, End: 8}},
			},
			want: []domain.Fragment{
				text("ab:)"),
				image("Kappa", NativeEmoteURL("25", false)),
				text(" c"),
			},
		},
		{
			name: "directory word glued to a native emote",
			content: domain.Content{
				Text:   ":)Kappa",
				Emotes: map[int]domain.EmotePlacement{2: {ID: "25", Start: 2, End: 6}},
			},
			want: []domain.Fragment{
				image(":)", "https://cdn/smile"),
				image("Kappa", NativeEmoteURL("25", false)),
			},
		},
		{
			name: "offsets are codepoints",
			content: domain.Content{
				Text:   "🙂🙂 Kappa ü",
				Emotes: map[int]domain.EmotePlacement{3: {ID: "25", Start: 3, End: 7}},
			},
			want: []domain.Fragment{
				text("🙂🙂 "),
				image("Kappa", NativeEmoteURL("25", false)),
				text(" ü"),
			},
		},
		{
			name:    "emoji word from the directory",
			content: domain.Content{Text: "hi 🙂"},
			want:    []domain.Fragment{text("hi "), image("🙂", "https://cdn/emoji")},
		},
		{
			name: "placement past the end is clamped",
			content: domain.Content{
				Text:   "a Kap",
				Emotes: map[int]domain.EmotePlacement{2: {ID: "25", Start: 2, End: 10}},
			},
			want: []domain.Fragment{text("a "), image("Kap", NativeEmoteURL("25", false))},
		},
		{
			name:    "leading and repeated spaces stay in the text",
			content: domain.Content{Text: "  a  :)"},
			want:    []domain.Fragment{text("  a  "), image(":)", "https://cdn/smile")},
		},
	}

	b := Builder{Emotes: dir}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Build(tt.content))
		})
	}
}

func TestBuild_NoDirectory(t *testing.T) {
	got := Builder{}.Build(domain.Content{Text: "hello :)"})
	assert.Equal(t, []domain.Fragment{text("hello :)")}, got)
}

func TestBuild_EmoteOnlyUsesLargeNativeImages(t *testing.T) {
	got := Builder{EmoteOnly: true}.Build(domain.Content{
		Text:   "Kappa",
		Emotes: map[int]domain.EmotePlacement{0: {ID: "25", Start: 0, End: 4}},
	})
	assert.Equal(t, []domain.Fragment{image("Kappa", "https://static-cdn.jtvnw.net/emoticons/v2/25/default/dark/3.0")}, got)
}

func TestNativeEmoteURL(t *testing.T) {
	assert.Equal(t, "https://static-cdn.jtvnw.net/emoticons/v2/25/default/dark/1.0", NativeEmoteURL("25", false))
	assert.Equal(t, "https://static-cdn.jtvnw.net/emoticons/v2/25/default/dark/3.0", NativeEmoteURL("25", true))
}
