package chat

import "encoding/json"

// EventType определяет типы событий протокола
type EventType string

const (
	// Входящие события
	EventAuthenticate EventType = "authenticate"
	EventJoinRoom     EventType = "join_room"
	EventLeaveRoom    EventType = "leave_room"
	EventSendMessage  EventType = "send_message"
	EventTypingStart  EventType = "typing_start"
	EventTypingStop   EventType = "typing_stop"
	EventGetHistory   EventType = "get_history"
	EventMarkRead     EventType = "mark_read"

	// Исходящие события
	EventAuthenticated     EventType = "authenticated"
	EventError             EventType = "error"
	EventRoomJoined        EventType = "room_joined"
	EventRoomLeft          EventType = "room_left"
	EventUserJoined        EventType = "user_joined"
	EventUserLeft          EventType = "user_left"
	EventNewMessage        EventType = "new_message"
	EventUserTyping        EventType = "user_typing"
	EventUserStoppedTyping EventType = "user_stopped_typing"
	EventMessageHistory    EventType = "message_history"
	EventMessagesRead      EventType = "messages_read"
	EventUserStatusChanged EventType = "user_status_changed"
)

// Статусы присутствия
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Envelope — транспортно-независимый конверт сообщения
type Envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent собирает готовый к отправке конверт
func NewEvent(eventType EventType, payload interface{}) ([]byte, error) {
	env := Envelope{Type: eventType}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Data = data
	}

	return json.Marshal(env)
}

// Полезные нагрузки входящих событий

type AuthenticatePayload struct {
	Token string `json:"token"`
}

type RoomPayload struct {
	RoomID string `json:"roomId"`
}

type SendMessagePayload struct {
	RoomID      string       `json:"roomId"`
	Content     string       `json:"content"`
	Type        string       `json:"type,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type HistoryPayload struct {
	RoomID string `json:"roomId"`
	Offset int    `json:"offset,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// Полезные нагрузки исходящих событий

type AuthenticatedPayload struct {
	Identity *Identity `json:"identity"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type RoomJoinedPayload struct {
	RoomID  string   `json:"roomId"`
	Members []string `json:"members"`
}

type RoomLeftPayload struct {
	RoomID string `json:"roomId"`
}

type UserJoinedPayload struct {
	Identity *Identity `json:"identity"`
}

type UserLeftPayload struct {
	IdentityID string `json:"identityId"`
}

type NewMessagePayload struct {
	Message *Message `json:"message"`
}

type TypingPayload struct {
	IdentityID  string `json:"identityId"`
	DisplayName string `json:"displayName"`
}

type MessageHistoryPayload struct {
	RoomID   string    `json:"roomId"`
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"hasMore"`
}

type MessagesReadPayload struct {
	IdentityID string `json:"identityId"`
}

type StatusChangedPayload struct {
	IdentityID string `json:"identityId"`
	Status     string `json:"status"`
}
