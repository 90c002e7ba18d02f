package chat

import "sync"

// ConnectionRegistry отслеживает живые соединения по id участника.
// У одного участника не больше одного активного соединения:
// новая аутентификация вытесняет предыдущую.
type ConnectionRegistry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		clients: make(map[string]*Client),
	}
}

// Register регистрирует соединение и возвращает вытесненное
// соединение того же участника (nil, если его не было)
func (r *ConnectionRegistry) Register(c *Client) *Client {
	identity := c.Identity()

	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.clients[identity.ID]
	r.clients[identity.ID] = c

	if prev == c {
		return nil
	}
	return prev
}

// Unregister удаляет запись, только если она указывает на это же
// соединение: вытесненное соединение не снимает с учета новое
func (r *ConnectionRegistry) Unregister(identityID string, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.clients[identityID]; ok && cur == c {
		delete(r.clients, identityID)
		return true
	}
	return false
}

// Lookup возвращает живое соединение участника или nil
func (r *ConnectionRegistry) Lookup(identityID string) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[identityID]
}

// Each вызывает fn для каждого живого соединения
func (r *ConnectionRegistry) Each(fn func(c *Client)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		fn(c)
	}
}
