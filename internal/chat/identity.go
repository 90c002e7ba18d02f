package chat

import "context"

// Role определяет бизнес-роль участника
type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// IsStaff проверяет, относится ли роль к сотрудникам агентства
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Identity — аутентифицированный участник, привязанный к соединению.
// Разрешается один раз при аутентификации и не меняется до отключения.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// IdentityVerifier проверяет токен и возвращает Identity.
// Ошибки: ErrInvalidCredential (токен не декодируется/подпись/срок),
// ErrIdentityNotFound (субъект больше не активен).
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// ProjectOracle отвечает, участвует ли пользователь в проекте
// (клиент-владелец или назначенный член команды)
type ProjectOracle interface {
	IsProjectParticipant(ctx context.Context, identityID, projectID string) (bool, error)
}
