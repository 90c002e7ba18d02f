package chat

import (
	"context"

	"github.com/sirupsen/logrus"
)

// AccessPolicy решает, может ли участник войти в комнату.
// Решение принимается по виду комнаты и роли участника; для проектных
// комнат дополнительно спрашивается внешний оракул владения.
type AccessPolicy struct {
	projects ProjectOracle
}

func NewAccessPolicy(projects ProjectOracle) *AccessPolicy {
	return &AccessPolicy{projects: projects}
}

// CanJoin проверяет доступ участника к комнате.
// Ответ оракула не кэшируется дальше текущего запроса.
func (p *AccessPolicy) CanJoin(ctx context.Context, identity *Identity, room RoomID) bool {
	switch room.Kind {
	case RoomKindStaff:
		return identity.Role.IsStaff()

	case RoomKindSupport:
		// Владелец тикета или сотрудник
		return identity.ID == room.Owner || identity.Role.IsStaff()

	case RoomKindProject:
		if identity.Role == RoleAdmin {
			return true
		}
		ok, err := p.projects.IsProjectParticipant(ctx, identity.ID, room.Owner)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user": identity.ID,
				"room": room.String(),
			}).Warn("project participant lookup failed")
			return false
		}
		return ok

	default:
		return false
	}
}
