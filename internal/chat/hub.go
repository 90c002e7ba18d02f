package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const verifyTimeout = 10 * time.Second

// Hub — брокер сообщений: принимает входящие события соединений,
// проводит их через проверку доступа и рассылает исходящие события
// участникам комнат.
type Hub struct {
	verifier    IdentityVerifier
	policy      *AccessPolicy
	connections *ConnectionRegistry
	rooms       *RoomRegistry
	history     *HistoryStore

	// Сериализует публикацию сообщений: запись в историю и рассылка —
	// одна критическая секция, порядок доставки в комнате совпадает
	// с порядком истории
	publishMu sync.Mutex
}

// NewHub создает брокер поверх проверки учетных данных и политики
// доступа к комнатам
func NewHub(verifier IdentityVerifier, policy *AccessPolicy) *Hub {
	connections := NewConnectionRegistry()
	return &Hub{
		verifier:    verifier,
		policy:      policy,
		connections: connections,
		rooms:       NewRoomRegistry(connections),
		history:     NewHistoryStore(),
	}
}

// Dispatch обрабатывает одно входящее событие соединения.
// Любая ошибка уходит событием error только этому соединению и
// никогда не закрывает его.
func (h *Hub) Dispatch(c *Client, env *Envelope) {
	if env.Type == EventAuthenticate {
		h.handleAuthenticate(c, env.Data)
		return
	}

	if c.Identity() == nil {
		c.SendError(ErrNotAuthenticated.Error())
		return
	}

	switch env.Type {
	case EventJoinRoom:
		h.handleJoin(c, env.Data)
	case EventLeaveRoom:
		h.handleLeave(c, env.Data)
	case EventSendMessage:
		h.handleSend(c, env.Data)
	case EventTypingStart:
		h.handleTyping(c, env.Data, EventUserTyping)
	case EventTypingStop:
		h.handleTyping(c, env.Data, EventUserStoppedTyping)
	case EventGetHistory:
		h.handleGetHistory(c, env.Data)
	case EventMarkRead:
		h.handleMarkRead(c, env.Data)
	default:
		c.SendError(ErrUnsupportedEvent.Error())
	}
}

// Disconnect выполняет очистку после закрытия транспорта: выход из
// комнат, снятие с учета, рассылка статуса offline. Идемпотентен.
func (h *Hub) Disconnect(c *Client) {
	identity := c.Identity()
	if identity == nil {
		return
	}

	// Вытесненное соединение: его комнаты уже очищены при повторной
	// аутентификации, учетом владеет новое соединение
	if h.connections.Lookup(identity.ID) != c {
		return
	}

	if room := c.CurrentRoom(); room != "" {
		h.leaveRoom(c, room)
	}

	h.connections.Unregister(identity.ID, c)
	h.broadcastStatus(identity.ID, StatusOffline, c)

	logrus.WithField("user", identity.ID).Info("client disconnected")
}

func (h *Hub) handleAuthenticate(c *Client, data json.RawMessage) {
	if c.Identity() != nil {
		c.SendError("already authenticated")
		return
	}

	var payload AuthenticatePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Token == "" {
		c.SendError(ErrMissingField.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	identity, err := h.verifier.Verify(ctx, payload.Token)
	if err != nil {
		if errors.Is(err, ErrInvalidCredential) || errors.Is(err, ErrIdentityNotFound) {
			c.SendError(err.Error())
		} else {
			logrus.WithError(err).Error("credential verification failed")
			c.SendError(ErrInvalidCredential.Error())
		}
		return
	}

	c.setIdentity(identity)

	// Последняя аутентификация выигрывает: прежнее соединение того же
	// участника выводится из комнат и закрывается
	if prev := h.connections.Register(c); prev != nil {
		if room := prev.CurrentRoom(); room != "" {
			h.leaveRoom(prev, room)
		}
		prev.Close()
		logrus.WithField("user", identity.ID).Info("superseded previous connection")
	}

	c.Send(EventAuthenticated, AuthenticatedPayload{Identity: identity})
	h.broadcastStatus(identity.ID, StatusOnline, c)

	logrus.WithFields(logrus.Fields{
		"user": identity.ID,
		"role": identity.Role,
	}).Info("client authenticated")
}

func (h *Hub) handleJoin(c *Client, data json.RawMessage) {
	var payload RoomPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.RoomID == "" {
		c.SendError(ErrMissingField.Error())
		return
	}

	identity := c.Identity()

	// Некорректный id комнаты для пользователя неотличим от отказа
	room, err := ParseRoomID(payload.RoomID)
	if err != nil {
		c.SendError(ErrAccessDenied.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	if !h.policy.CanJoin(ctx, identity, room) {
		c.SendError(ErrAccessDenied.Error())
		return
	}

	// Соединение состоит максимум в одной комнате: вход в новую
	// неявно выводит из предыдущей
	if cur := c.CurrentRoom(); cur != "" && cur != room.String() {
		h.leaveRoom(c, cur)
	}

	members := h.rooms.Join(room.String(), identity.ID)
	c.setCurrentRoom(room.String())

	c.Send(EventRoomJoined, RoomJoinedPayload{RoomID: room.String(), Members: members})
	h.broadcastToRoom(room.String(), EventUserJoined, UserJoinedPayload{Identity: identity}, identity.ID)

	messages, hasMore := h.history.Page(room.String(), 0, defaultPageSize)
	c.Send(EventMessageHistory, MessageHistoryPayload{
		RoomID:   room.String(),
		Messages: messages,
		HasMore:  hasMore,
	})

	logrus.WithFields(logrus.Fields{
		"user": identity.ID,
		"room": room.String(),
	}).Info("client joined room")
}

func (h *Hub) handleLeave(c *Client, data json.RawMessage) {
	var payload RoomPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.RoomID == "" {
		c.SendError(ErrMissingField.Error())
		return
	}

	if c.CurrentRoom() != payload.RoomID {
		c.SendError(ErrNotInRoom.Error())
		return
	}

	h.leaveRoom(c, payload.RoomID)
	c.Send(EventRoomLeft, RoomLeftPayload{RoomID: payload.RoomID})
}

// leaveRoom выполняет комнатную часть выхода: удаление из состава и
// рассылка user_left оставшимся. Идемпотентен.
func (h *Hub) leaveRoom(c *Client, roomID string) {
	identity := c.Identity()
	if identity == nil {
		return
	}

	h.rooms.Leave(roomID, identity.ID)
	h.broadcastToRoom(roomID, EventUserLeft, UserLeftPayload{IdentityID: identity.ID}, identity.ID)
	c.clearCurrentRoom()
}

func (h *Hub) handleSend(c *Client, data json.RawMessage) {
	var payload SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.RoomID == "" || payload.Content == "" {
		c.SendError(ErrMissingField.Error())
		return
	}

	if c.CurrentRoom() != payload.RoomID {
		c.SendError(ErrNotInRoom.Error())
		return
	}

	identity := c.Identity()
	msg := NewMessage(payload.RoomID, identity, payload.Content, payload.Type, payload.Attachments)

	// Рассылается снимок: после Append чужой mark_read может менять
	// ReadBy живого сообщения параллельно с маршалингом
	snapshot := *msg
	snapshot.ReadBy = append([]string(nil), msg.ReadBy...)

	h.publishMu.Lock()
	defer h.publishMu.Unlock()

	h.history.Append(msg)

	// Отправитель тоже получает new_message: его интерфейс отражает
	// каноническое серверное состояние и id
	h.broadcastToRoom(payload.RoomID, EventNewMessage, NewMessagePayload{Message: &snapshot}, "")
}

func (h *Hub) handleTyping(c *Client, data json.RawMessage, eventType EventType) {
	var payload RoomPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.RoomID == "" {
		c.SendError(ErrMissingField.Error())
		return
	}

	if c.CurrentRoom() != payload.RoomID {
		c.SendError(ErrNotInRoom.Error())
		return
	}

	identity := c.Identity()
	h.broadcastToRoom(payload.RoomID, eventType, TypingPayload{
		IdentityID:  identity.ID,
		DisplayName: identity.DisplayName,
	}, identity.ID)
}

func (h *Hub) handleGetHistory(c *Client, data json.RawMessage) {
	var payload HistoryPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.RoomID == "" {
		c.SendError(ErrMissingField.Error())
		return
	}

	// История доступна по текущему или прежнему членству на этом
	// соединении
	if !c.hasVisited(payload.RoomID) {
		c.SendError(ErrNotInRoom.Error())
		return
	}

	messages, hasMore := h.history.Page(payload.RoomID, payload.Offset, payload.Limit)
	c.Send(EventMessageHistory, MessageHistoryPayload{
		RoomID:   payload.RoomID,
		Messages: messages,
		HasMore:  hasMore,
	})
}

func (h *Hub) handleMarkRead(c *Client, data json.RawMessage) {
	var payload RoomPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.RoomID == "" {
		c.SendError(ErrMissingField.Error())
		return
	}

	if c.CurrentRoom() != payload.RoomID {
		c.SendError(ErrNotInRoom.Error())
		return
	}

	identity := c.Identity()
	h.history.MarkRead(payload.RoomID, identity.ID)
	h.broadcastToRoom(payload.RoomID, EventMessagesRead, MessagesReadPayload{IdentityID: identity.ID}, identity.ID)
}

// CanJoin проверяет политику доступа, не входя в комнату
func (h *Hub) CanJoin(ctx context.Context, identity *Identity, room RoomID) bool {
	return h.policy.CanJoin(ctx, identity, room)
}

// HistoryPage возвращает страницу удержанной истории комнаты
func (h *Hub) HistoryPage(roomID string, offset, limit int) ([]Message, bool) {
	return h.history.Page(roomID, offset, limit)
}

// OnlineUsers возвращает id участников с живыми соединениями
func (h *Hub) OnlineUsers() []string {
	users := make([]string, 0)
	h.connections.Each(func(c *Client) {
		if identity := c.Identity(); identity != nil {
			users = append(users, identity.ID)
		}
	})
	return users
}

// broadcastToRoom собирает конверт и рассылает его участникам комнаты
func (h *Hub) broadcastToRoom(roomID string, eventType EventType, payload interface{}, excludeID string) {
	event, err := NewEvent(eventType, payload)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal room event")
		return
	}
	h.rooms.Broadcast(roomID, event, excludeID)
}

// broadcastStatus рассылает присутствие всем живым соединениям,
// кроме самого участника
func (h *Hub) broadcastStatus(identityID, status string, exclude *Client) {
	event, err := NewEvent(EventUserStatusChanged, StatusChangedPayload{
		IdentityID: identityID,
		Status:     status,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to marshal status event")
		return
	}

	h.connections.Each(func(c *Client) {
		if c != exclude {
			c.enqueue(event)
		}
	})
}
