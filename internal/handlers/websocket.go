package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/marina-keet/MiaTech-sub000/internal/chat"
	"github.com/marina-keet/MiaTech-sub000/internal/database"
	"github.com/marina-keet/MiaTech-sub000/internal/middleware"
)

// ChatHandler поднимает websocket-соединения брокера и отдает
// историю/присутствие по REST
type ChatHandler struct {
	hub      *chat.Hub
	db       *database.Database
	upgrader websocket.Upgrader
}

func NewChatHandler(hub *chat.Hub, db *database.Database) *ChatHandler {
	return &ChatHandler{
		hub: hub,
		db:  db,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Проверить origin в prod
				return true
			},
		},
	}
}

// HandleWebSocket поднимает соединение. Аутентификации на этом этапе
// нет: соединение начинает жизнь неаутентифицированным и обязано
// прислать событие authenticate в отведенное окно.
func (h *ChatHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Debug("websocket upgrade failed")
		return
	}

	client := chat.NewClient(h.hub, conn)

	go client.WritePump()
	go client.ReadPump()
}

// GetRoomHistory отдает страницу истории комнаты по REST.
// Та же политика доступа, что и при входе в комнату.
func (h *ChatHandler) GetRoomHistory(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
	roomID := c.Param("id")

	room, err := chat.ParseRoomID(roomID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	user, err := h.db.GetUser(userID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	identity := &chat.Identity{
		ID:          user.ID.String(),
		DisplayName: user.Username,
		Role:        chat.Role(user.Role),
		AvatarURL:   user.AvatarURL,
	}

	if !h.hub.CanJoin(c.Request.Context(), identity, room) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, hasMore := h.hub.HistoryPage(room.String(), offset, limit)

	c.JSON(http.StatusOK, gin.H{
		"roomId":   room.String(),
		"messages": messages,
		"hasMore":  hasMore,
	})
}

// GetPresence возвращает список участников онлайн
func (h *ChatHandler) GetPresence(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": h.hub.OnlineUsers()})
}
