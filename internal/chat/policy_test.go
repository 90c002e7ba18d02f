package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOracle отвечает по заранее заданной таблице участников проектов
type fakeOracle struct {
	participants map[string]map[string]bool // projectID -> identityID
	err          error
}

func (o *fakeOracle) IsProjectParticipant(_ context.Context, identityID, projectID string) (bool, error) {
	if o.err != nil {
		return false, o.err
	}
	return o.participants[projectID][identityID], nil
}

func identity(id string, role Role) *Identity {
	return &Identity{ID: id, DisplayName: id, Role: role}
}

func mustRoom(t *testing.T, id string) RoomID {
	t.Helper()
	room, err := ParseRoomID(id)
	require.NoError(t, err)
	return room
}

func TestCanJoinStaffRoom(t *testing.T) {
	policy := NewAccessPolicy(&fakeOracle{})
	ctx := context.Background()
	room := mustRoom(t, "staff")

	assert.False(t, policy.CanJoin(ctx, identity("c1", RoleClient), room))
	assert.True(t, policy.CanJoin(ctx, identity("s1", RoleStaff), room))
	assert.True(t, policy.CanJoin(ctx, identity("a1", RoleAdmin), room))
}

func TestCanJoinSupportRoom(t *testing.T) {
	policy := NewAccessPolicy(&fakeOracle{})
	ctx := context.Background()
	room := mustRoom(t, "support_c1")

	// Владелец тикета и сотрудники — да, посторонний клиент — нет
	assert.True(t, policy.CanJoin(ctx, identity("c1", RoleClient), room))
	assert.False(t, policy.CanJoin(ctx, identity("c2", RoleClient), room))
	assert.True(t, policy.CanJoin(ctx, identity("s1", RoleStaff), room))
	assert.True(t, policy.CanJoin(ctx, identity("a1", RoleAdmin), room))
}

func TestCanJoinProjectRoom(t *testing.T) {
	oracle := &fakeOracle{participants: map[string]map[string]bool{
		"42": {"c1": true, "s1": true},
	}}
	policy := NewAccessPolicy(oracle)
	ctx := context.Background()
	room := mustRoom(t, "project_42")

	// Клиент без отношения к проекту — отказ
	assert.False(t, policy.CanJoin(ctx, identity("c2", RoleClient), room))
	// Тот же клиент, но владелец проекта — допуск
	assert.True(t, policy.CanJoin(ctx, identity("c1", RoleClient), room))
	// Назначенный член команды
	assert.True(t, policy.CanJoin(ctx, identity("s1", RoleStaff), room))
	// Не назначенный сотрудник — отказ, админ — всегда допуск
	assert.False(t, policy.CanJoin(ctx, identity("s2", RoleStaff), room))
	assert.True(t, policy.CanJoin(ctx, identity("a1", RoleAdmin), room))
}

func TestCanJoinOracleFailureDenies(t *testing.T) {
	policy := NewAccessPolicy(&fakeOracle{err: errors.New("db down")})
	room := mustRoom(t, "project_42")

	assert.False(t, policy.CanJoin(context.Background(), identity("c1", RoleClient), room))
}
