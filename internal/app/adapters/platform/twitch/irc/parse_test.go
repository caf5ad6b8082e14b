package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want *Line
	}{
		{
			name: "ping",
			line: "PING :tmi.twitch.tv\r\n",
			want: &Line{Tags: map[string]string{}, Command: "PING", Trailing: "tmi.twitch.tv", HasTrailing: true},
		},
		{
			name: "privmsg with tags",
			line: "@badges=subscriber/12;color=#FF0000;display-name=Forsen;id=abc-1;user-id=22484632 :forsen!forsen@forsen.tmi.twitch.tv PRIVMSG #forsen :hello chat",
			want: &Line{
				Tags: map[string]string{
					"badges":       "subscriber/12",
					"color":        "#FF0000",
					"display-name": "Forsen",
					"id":           "abc-1",
					"user-id":      "22484632",
				},
				Prefix:      "forsen!forsen@forsen.tmi.twitch.tv",
				Command:     "PRIVMSG",
				Params:      []string{"#forsen"},
				Trailing:    "hello chat",
				HasTrailing: true,
			},
		},
		{
			name: "clearchat without trailing",
			line: "@room-id=1 :tmi.twitch.tv CLEARCHAT #forsen",
			want: &Line{
				Tags:    map[string]string{"room-id": "1"},
				Prefix:  "tmi.twitch.tv",
				Command: "CLEARCHAT",
				Params:  []string{"#forsen"},
			},
		},
		{
			name: "escaped tag values and empty tag",
			line: `@system-msg=hello\sworld\:\\x;flag;empty= :tmi.twitch.tv USERNOTICE #forsen`,
			want: &Line{
				Tags:    map[string]string{"system-msg": `hello world;\x`, "flag": "", "empty": ""},
				Prefix:  "tmi.twitch.tv",
				Command: "USERNOTICE",
				Params:  []string{"#forsen"},
			},
		},
		{
			name: "trailing keeps colons and spaces",
			line: ":a!a@a PRIVMSG #c :  spaced: out :)",
			want: &Line{
				Tags:        map[string]string{},
				Prefix:      "a!a@a",
				Command:     "PRIVMSG",
				Params:      []string{"#c"},
				Trailing:    "  spaced: out :)",
				HasTrailing: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, line := range []string{
		"",
		"\r\n",
		"@only-tags",
		":prefix-only",
		"@a=b :prefix",
		"@a=b  ",
	} {
		_, ok := Parse(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestTagsRoundTrip(t *testing.T) {
	lines := []string{
		`@badges=moderator/1,subscriber/24;color=;emotes=25:0-4/1902:6-10;id=b34ccfc7;tmi-sent-ts=1507246572675 :ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #ronni :Kappa Keepo`,
		`@msg-param-sub-plan=Prime;system-msg=ronni\shas\ssubscribed\:\swith\\prime :tmi.twitch.tv USERNOTICE #dallas :Great stream`,
		`@login=ronni;target-msg-id=abc-123-def :tmi.twitch.tv CLEARMSG #dallas :HeyGuys`,
	}

	for _, line := range lines {
		first, ok := Parse(line)
		require.True(t, ok)

		second, ok := Parse("@" + first.TagString() + " PING")
		require.True(t, ok)
		assert.Equal(t, first.Tags, second.Tags)

		third, ok := Parse(first.String())
		require.True(t, ok)
		assert.Equal(t, first, third)
	}
}

func TestLine_Nick(t *testing.T) {
	assert.Equal(t, "forsen", (&Line{Prefix: "forsen!forsen@forsen.tmi.twitch.tv"}).Nick())
	assert.Equal(t, "tmi.twitch.tv", (&Line{Prefix: "tmi.twitch.tv"}).Nick())
	assert.Equal(t, "", (&Line{}).Nick())
}
