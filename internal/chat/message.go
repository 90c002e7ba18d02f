package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Виды сообщений
const (
	MessageKindText         = "text"
	MessageKindFile         = "file"
	MessageKindNotification = "notification"
)

// Attachment — вложение к сообщению
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size,omitempty"`
}

// Message — сообщение в комнате. После создания неизменяемо,
// растёт только ReadBy.
type Message struct {
	ID          string       `json:"id"`
	RoomID      string       `json:"roomId"`
	Sender      Identity     `json:"sender"`
	Content     string       `json:"content"`
	Kind        string       `json:"type"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	ReadBy      []string     `json:"readBy"`
}

// NewMessage создает сообщение от имени отправителя;
// отправитель сразу числится прочитавшим
func NewMessage(roomID string, sender *Identity, content, kind string, attachments []Attachment) *Message {
	if kind == "" {
		kind = MessageKindText
	}

	return &Message{
		ID:          newMessageID(),
		RoomID:      roomID,
		Sender:      *sender,
		Content:     content,
		Kind:        kind,
		Attachments: attachments,
		CreatedAt:   time.Now(),
		ReadBy:      []string{sender.ID},
	}
}

// newMessageID выдает уникальный в пределах процесса идентификатор:
// метка времени плюс случайный суффикс
func newMessageID() string {
	return fmt.Sprintf("%d_%s", time.Now().UnixNano(), uuid.NewString()[:8])
}
