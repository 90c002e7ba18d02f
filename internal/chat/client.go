package chat

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер сообщения
	maxMessageSize = 512 * 1024 // 512KB

	// Окно на аутентификацию после установки соединения
	authWindow = 30 * time.Second

	// Размер исходящей очереди соединения
	sendBufferSize = 256
)

// Client — одно живое соединение. До успешной аутентификации
// identity пуст; после входа в комнату currentRoom хранит ее id.
type Client struct {
	conn *websocket.Conn
	hub  *Hub

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu          sync.RWMutex
	identity    *Identity
	currentRoom string
	visited     map[string]struct{}
	connectedAt time.Time
}

// NewClient создает клиента для нового соединения
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		conn:        conn,
		hub:         hub,
		send:        make(chan []byte, sendBufferSize),
		done:        make(chan struct{}),
		visited:     make(map[string]struct{}),
		connectedAt: time.Now(),
	}
}

// Identity возвращает участника соединения (nil до аутентификации)
func (c *Client) Identity() *Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

func (c *Client) setIdentity(identity *Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = identity
}

// CurrentRoom возвращает id текущей комнаты ("" — вне комнаты)
func (c *Client) CurrentRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentRoom
}

func (c *Client) setCurrentRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentRoom = roomID
	c.visited[roomID] = struct{}{}
}

func (c *Client) clearCurrentRoom() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentRoom = ""
}

// hasVisited — входило ли соединение в комнату за свою жизнь
func (c *Client) hasVisited(roomID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.visited[roomID]
	return ok
}

// enqueue ставит событие в исходящую очередь без блокировки:
// медленный или мертвый получатель не должен задерживать отправителя.
// При переполнении вытесняется самое старое событие очереди: свежие
// события ценнее устаревших.
func (c *Client) enqueue(event []byte) error {
	select {
	case <-c.done:
		return ErrClientQueueFull
	default:
	}

	select {
	case c.send <- event:
		return nil
	default:
	}

	select {
	case <-c.send:
		logrus.WithField("user", c.identityID()).Warn("client send queue full, evicting oldest event")
	default:
	}

	select {
	case c.send <- event:
		return nil
	default:
		return ErrClientQueueFull
	}
}

// Send собирает конверт и ставит его в очередь
func (c *Client) Send(eventType EventType, payload interface{}) error {
	event, err := NewEvent(eventType, payload)
	if err != nil {
		return err
	}
	return c.enqueue(event)
}

// SendError отправляет событие error этому соединению
func (c *Client) SendError(message string) {
	c.Send(EventError, ErrorPayload{Message: message})
}

// Close закрывает соединение; повторные вызовы безопасны
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

func (c *Client) identityID() string {
	if identity := c.Identity(); identity != nil {
		return identity.ID
	}
	return ""
}

// ReadPump читает входящие события соединения и передает их брокеру.
// Соединение, не аутентифицировавшееся за authWindow, закрывается.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	authTimer := time.AfterFunc(authWindow, func() {
		if c.Identity() == nil {
			logrus.Warn("closing connection: authentication timed out")
			c.Close()
		}
	})
	defer authTimer.Stop()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).Debug("websocket read error")
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.SendError("invalid message format")
			continue
		}

		c.hub.Dispatch(c, &env)
	}
}

// WritePump отправляет события из очереди в соединение
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, event); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
