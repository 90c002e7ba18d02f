package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomsJoinLeaveRoundTrip(t *testing.T) {
	connections := NewConnectionRegistry()
	rooms := NewRoomRegistry(connections)

	members := rooms.Join("project_42", "u1")
	assert.ElementsMatch(t, []string{"u1"}, members)

	members = rooms.Join("project_42", "u2")
	assert.ElementsMatch(t, []string{"u1", "u2"}, members)

	// Вход и сразу выход возвращают состав к прежнему
	rooms.Leave("project_42", "u2")
	assert.ElementsMatch(t, []string{"u1"}, rooms.Members("project_42"))
}

func TestRoomsEmptyRoomDeleted(t *testing.T) {
	rooms := NewRoomRegistry(NewConnectionRegistry())

	rooms.Join("support_c1", "c1")
	require.True(t, rooms.Exists("support_c1"))

	rooms.Leave("support_c1", "c1")
	assert.False(t, rooms.Exists("support_c1"))
	assert.Nil(t, rooms.Members("support_c1"))

	// Выход из несуществующей комнаты — no-op
	rooms.Leave("support_c1", "c1")
}

func TestRoomsBroadcast(t *testing.T) {
	connections := NewConnectionRegistry()
	rooms := NewRoomRegistry(connections)

	c1 := authedClient("u1", RoleClient)
	c2 := authedClient("u2", RoleStaff)
	connections.Register(c1)
	connections.Register(c2)

	rooms.Join("staff", "u1")
	rooms.Join("staff", "u2")
	// Участник без живого соединения молча пропускается
	rooms.Join("staff", "ghost")

	event := []byte(`{"type":"user_typing"}`)

	delivered := rooms.Broadcast("staff", event, "u1")
	assert.ElementsMatch(t, []string{"u2"}, delivered)

	delivered = rooms.Broadcast("staff", event, "")
	assert.ElementsMatch(t, []string{"u1", "u2"}, delivered)

	select {
	case got := <-c2.send:
		assert.Equal(t, event, got)
	default:
		t.Fatal("expected event in c2 queue")
	}
}
