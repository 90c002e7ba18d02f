package chat

import "strings"

// RoomKind определяет вид комнаты
type RoomKind int

const (
	RoomKindProject RoomKind = iota
	RoomKindSupport
	RoomKindStaff
)

const staffRoomID = "staff"

// RoomID — разобранный идентификатор комнаты. Строковое соглашение
// ("project_{projectId}", "support_{clientId}", "staff") — стабильный
// контракт для внешних вызывающих; разбирается один раз при join,
// дальше используется тегированное представление.
type RoomID struct {
	Kind  RoomKind
	Owner string // projectId для project, clientId для support, пусто для staff
	raw   string
}

// String возвращает исходный строковый идентификатор
func (r RoomID) String() string {
	return r.raw
}

// ParseRoomID разбирает строковый идентификатор комнаты.
// Некорректная форма — ErrInvalidRoomID: для пользователя это
// неотличимо от отказа в доступе.
func ParseRoomID(s string) (RoomID, error) {
	if s == staffRoomID {
		return RoomID{Kind: RoomKindStaff, raw: s}, nil
	}

	kind, owner, found := strings.Cut(s, "_")
	if !found || owner == "" {
		return RoomID{}, ErrInvalidRoomID
	}

	switch kind {
	case "project":
		return RoomID{Kind: RoomKindProject, Owner: owner, raw: s}, nil
	case "support":
		return RoomID{Kind: RoomKindSupport, Owner: owner, raw: s}, nil
	default:
		return RoomID{}, ErrInvalidRoomID
	}
}
