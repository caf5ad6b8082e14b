package fragment

import (
	"chatoverlay/internal/app/domain"
	"chatoverlay/internal/app/ports"
	"strings"
)

const nativeEmoteURL = "https://static-cdn.jtvnw.net/emoticons/v2/"

type Builder struct {
	Emotes    ports.EmoteLookup
	EmoteOnly bool
}

func NativeEmoteURL(id string, large bool) string {
	size := "1.0"
	if large {
		size = "3.0"
	}
	return nativeEmoteURL + id + "/default/dark/" + size
}

// Build splits the message into text and image fragments. Native placements cover
// their span unconditionally, the directory is only asked about words outside them.
func (b Builder) Build(content domain.Content) []domain.Fragment {
	runes := []rune(content.Text)

	s := state{emotes: b.Emotes}
	for i := 0; i < len(runes); i++ {
		if placement, ok := content.Emotes[i]; ok && placement.End >= i {
			s.resolveWord()
			s.flushText()

			end := min(placement.End, len(runes)-1)
			s.out = append(s.out, domain.Fragment{
				Type:  domain.FragmentImage,
				Text:  string(runes[i : end+1]),
				Image: NativeEmoteURL(placement.ID, b.EmoteOnly),
			})
			i = end
			continue
		}

		if runes[i] == ' ' {
			s.resolveWord()
			s.text.WriteRune(' ')
			continue
		}

		s.word.WriteRune(runes[i])
	}

	s.resolveWord()
	s.flushText()

	return s.out
}

type state struct {
	emotes ports.EmoteLookup
	word   strings.Builder
	text   strings.Builder
	out    []domain.Fragment
}

func (s *state) resolveWord() {
	if s.word.Len() == 0 {
		return
	}
	word := s.word.String()
	s.word.Reset()

	if s.emotes != nil {
		if emote, ok := s.emotes.Lookup(word); ok {
			s.flushText()
			s.out = append(s.out, domain.Fragment{Type: domain.FragmentImage, Text: word, Image: emote.URL})
			return
		}
	}
	s.text.WriteString(word)
}

func (s *state) flushText() {
	if s.text.Len() == 0 {
		return
	}
	s.out = append(s.out, domain.Fragment{Type: domain.FragmentText, Text: s.text.String()})
	s.text.Reset()
}
