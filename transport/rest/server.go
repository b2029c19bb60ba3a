package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

type RoomLister interface {
	ListRooms() []entity.RoomSummary
}

type StatsProvider interface {
	GetByID(ctx context.Context, id string) (*entity.Stats, error)
}

type PlayerProvider interface {
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

func Start(port string, rooms RoomLister, stats StatsProvider, players PlayerProvider) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(rooms, stats, players),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func NewRouter(rooms RoomLister, stats StatsProvider, players PlayerProvider) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rooms", roomsHandler(rooms)).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler(players)).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}/stats", statsHandler(stats)).Methods(http.MethodGet)

	return router
}
