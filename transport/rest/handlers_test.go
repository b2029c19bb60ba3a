package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/rocketscienceinc/battleship-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRoomLister struct {
	rooms []entity.RoomSummary
}

func (that *stubRoomLister) ListRooms() []entity.RoomSummary {
	return that.rooms
}

type stubStatsProvider struct {
	stats map[string]*entity.Stats
}

func (that *stubStatsProvider) GetByID(_ context.Context, id string) (*entity.Stats, error) {
	if stats, ok := that.stats[id]; ok {
		return stats, nil
	}

	return &entity.Stats{PlayerID: id}, nil
}

type stubPlayerProvider struct {
	players map[string]*entity.Player
}

func (that *stubPlayerProvider) GetByID(_ context.Context, id string) (*entity.Player, error) {
	if player, ok := that.players[id]; ok {
		return player, nil
	}

	return nil, repository.ErrPlayerNotFound
}

func TestPingHandler(t *testing.T) {
	router := NewRouter(&stubRoomLister{}, &stubStatsProvider{}, &stubPlayerProvider{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "pong", recorder.Body.String())
}

func TestRoomsHandler(t *testing.T) {
	// Given: a lobby with one open room
	lister := &stubRoomLister{rooms: []entity.RoomSummary{
		{ID: 1, Name: "Test", PlayerCount: 1, Capacity: 2, HostID: "alice", Public: true},
	}}
	router := NewRouter(lister, &stubStatsProvider{}, &stubPlayerProvider{})

	// When: fetching the lobby snapshot
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))

	// Then: the snapshot is served as JSON
	require.Equal(t, http.StatusOK, recorder.Code)

	var rooms []entity.RoomSummary
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, "Test", rooms[0].Name)
	assert.Equal(t, "alice", rooms[0].HostID)
}

func TestPlayerHandler(t *testing.T) {
	provider := &stubPlayerProvider{players: map[string]*entity.Player{
		"alice": {ID: "alice", Name: "Alice"},
	}}
	router := NewRouter(&stubRoomLister{}, &stubStatsProvider{}, provider)

	t.Run("Known player is served as JSON", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/players/alice", nil))

		require.Equal(t, http.StatusOK, recorder.Code)

		var player entity.Player
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &player))
		assert.Equal(t, "Alice", player.Name)
	})

	t.Run("Unknown player yields 404", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/players/ghost", nil))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestStatsHandler(t *testing.T) {
	provider := &stubStatsProvider{stats: map[string]*entity.Stats{
		"alice": {PlayerID: "alice", Wins: 3, Losses: 1},
	}}
	router := NewRouter(&stubRoomLister{}, provider, &stubPlayerProvider{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/players/alice/stats", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var stats entity.Stats
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
}
