package chat

import "sync"

const (
	// Максимум сообщений, удерживаемых в памяти на комнату
	historyCap = 1000

	// Размер страницы истории по умолчанию
	defaultPageSize = 50
)

// HistoryStore хранит ограниченное окно последних сообщений каждой
// комнаты. Никакой долговечности: при перезапуске процесса история
// теряется.
type HistoryStore struct {
	mu   sync.Mutex
	logs map[string][]*Message
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		logs: make(map[string][]*Message),
	}
}

// Append добавляет сообщение в журнал комнаты; при превышении
// лимита вытесняются самые старые
func (s *HistoryStore) Append(msg *Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := append(s.logs[msg.RoomID], msg)
	if len(log) > historyCap {
		log = log[len(log)-historyCap:]
	}
	s.logs[msg.RoomID] = log
}

// Page возвращает до limit сообщений, заканчивающихся за offset
// сообщений до самого нового; внутри страницы порядок от старых к
// новым. hasMore — есть ли сообщения старше возвращенного окна.
func (s *HistoryStore) Page(roomID string, offset, limit int) ([]Message, bool) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logs[roomID]

	end := len(log) - offset
	if end <= 0 {
		return []Message{}, false
	}

	start := end - limit
	hasMore := start > 0
	if start < 0 {
		start = 0
	}

	// Копии: ReadBy живых сообщений продолжает меняться
	page := make([]Message, 0, end-start)
	for _, msg := range log[start:end] {
		copied := *msg
		copied.ReadBy = append([]string(nil), msg.ReadBy...)
		page = append(page, copied)
	}
	return page, hasMore
}

// MarkRead отмечает участника прочитавшим все удержанные сообщения
// комнаты. Повторный вызов ничего не меняет.
func (s *HistoryStore) MarkRead(roomID, identityID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range s.logs[roomID] {
		if !containsID(msg.ReadBy, identityID) {
			msg.ReadBy = append(msg.ReadBy, identityID)
		}
	}
}

// Len возвращает число удержанных сообщений комнаты
func (s *HistoryStore) Len(roomID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs[roomID])
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
