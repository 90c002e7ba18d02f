package chat

import "sync"

// RoomRegistry отслеживает участников комнат. Комната создается
// лениво при первом входе и удаляется, когда пустеет.
// Изменения состава и рассылки по одной комнате сериализуются
// общим мьютексом: участник не получит рассылку после выхода
// и не пропустит рассылку после завершившегося входа.
type RoomRegistry struct {
	mu          sync.Mutex
	connections *ConnectionRegistry
	rooms       map[string]map[string]struct{}
}

func NewRoomRegistry(connections *ConnectionRegistry) *RoomRegistry {
	return &RoomRegistry{
		connections: connections,
		rooms:       make(map[string]map[string]struct{}),
	}
}

// Join добавляет участника в комнату и возвращает снимок
// текущего состава
func (r *RoomRegistry) Join(roomID, identityID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = make(map[string]struct{})
		r.rooms[roomID] = room
	}
	room[identityID] = struct{}{}

	members := make([]string, 0, len(room))
	for id := range room {
		members = append(members, id)
	}
	return members
}

// Leave удаляет участника; опустевшая комната удаляется целиком
func (r *RoomRegistry) Leave(roomID, identityID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return
	}

	delete(room, identityID)
	if len(room) == 0 {
		delete(r.rooms, roomID)
	}
}

// Broadcast доставляет событие всем участникам комнаты, кроме
// excludeID (пустая строка — всем). Участники без живого соединения
// молча пропускаются: их вычистит собственный путь отключения.
// Возвращает список участников, которым событие поставлено в очередь.
func (r *RoomRegistry) Broadcast(roomID string, event []byte, excludeID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}

	delivered := make([]string, 0, len(room))
	for id := range room {
		if id == excludeID {
			continue
		}

		client := r.connections.Lookup(id)
		if client == nil {
			continue
		}

		if err := client.enqueue(event); err == nil {
			delivered = append(delivered, id)
		}
	}
	return delivered
}

// Members возвращает снимок состава комнаты (nil, если комнаты нет)
func (r *RoomRegistry) Members(roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}

	members := make([]string, 0, len(room))
	for id := range room {
		members = append(members, id)
	}
	return members
}

// Exists сообщает, существует ли комната
func (r *RoomRegistry) Exists(roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.rooms[roomID]
	return ok
}
