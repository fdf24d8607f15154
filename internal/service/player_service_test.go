package service

import (
	"encoding/json"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPlayerPresence(t *testing.T) {
	db := newTestDB(t)
	createPerson(t, db, "amy", model.RoleStudent)
	createPerson(t, db, "bob", model.RoleStudent)

	hub := NewPlayerHub(nil)
	svc := NewPlayerService(repository.NewPlayerRepository(db), repository.NewPersonRepository(db), nil, hub)

	_, err := svc.Connect("ghost")
	assert.ErrorIs(t, err, util.ErrPersonNotFound)

	p, err := svc.Connect("amy")
	require.NoError(t, err)
	assert.Equal(t, model.PlayerOnline, p.Status)
	assert.Equal(t, "amy name", p.Name)
	assert.Equal(t, 1, p.Level)
	require.NotNil(t, p.ConnectedAt)

	_, err = svc.Connect("bob")
	require.NoError(t, err)

	online, err := svc.Online()
	require.NoError(t, err)
	assert.Len(t, online, 2)

	_, err = svc.UpdateLocation("amy", 10.5, -3)
	require.NoError(t, err)
	hub.OnLocation("bob", 1, 2)

	locs, err := svc.Locations()
	require.NoError(t, err)
	byUID := map[string]PlayerLocation{}
	for _, l := range locs {
		byUID[l.UID] = l
	}
	assert.Equal(t, 10.5, byUID["amy"].X)
	assert.Equal(t, -3.0, byUID["amy"].Y)
	assert.Equal(t, 2.0, byUID["bob"].Y)

	_, err = svc.UpdateLevel("amy", 0)
	assert.ErrorIs(t, err, util.ErrOutOfRange)
	p, err = svc.UpdateLevel("amy", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Level)

	_, err = svc.UpdateStatus("amy", "away")
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	p, err = svc.Disconnect("amy")
	require.NoError(t, err)
	assert.Equal(t, model.PlayerOffline, p.Status)

	online, err = svc.Online()
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, "bob", online[0].UID)

	// 重新连接保留等级
	p, err = svc.Connect("amy")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Level)

	_, err = svc.UpdateLocation("nobody", 1, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPlayerHubDeliversToLocalClients(t *testing.T) {
	hub := NewPlayerHub(nil)
	go hub.Run()
	defer hub.Stop()

	client := &PlayerClient{Hub: hub, Send: make(chan []byte, 4), UID: "amy"}
	hub.register <- client

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast("PLAYER_STATUS", map[string]string{"uid": "amy"})

	select {
	case raw := <-client.Send:
		var msg WSMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "PLAYER_STATUS", msg.Type)
		assert.JSONEq(t, `{"uid":"amy"}`, string(msg.Data))
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered")
	}

	hub.unregister <- client
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-client.Send
	assert.False(t, open)
}
