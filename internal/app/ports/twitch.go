package ports

import "chatoverlay/internal/app/domain"

type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "disconnected"
}

type IRCPort interface {
	Connect()
	Disconnect()
	Join(login string)
	State() ConnectionState

	OnMessage(cb func(msg *domain.ChatMessage))
	OnDeleteMessage(cb func(id string))
	OnUserTimeout(cb func(login string))
}
