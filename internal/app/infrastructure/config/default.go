package config

func (m *Manager) GetDefault() *Config {
	return &Config{
		App: App{
			LogLevel: "info",
			GinMode:  "release",
			Listen:   ":8080",
		},
		Twitch: Twitch{
			URL:   "wss://irc-ws.chat.twitch.tv/",
			Token: "123123132",
			Nick:  "justinfan123",
		},
		Overlay: Overlay{
			Theme:     ThemeDefault,
			DelayMs:   1000,
			MaxBuffer: 100,
		},
		Directory: Directory{
			TimeoutSec: 10,
			TTLSec:     1800,
		},
	}
}
