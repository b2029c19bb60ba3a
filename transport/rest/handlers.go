package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/battleship-backend/internal/repository"
)

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// roomsHandler serves the read-only lobby snapshot.
func roomsHandler(rooms RoomLister) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, rooms.ListRooms())
	}
}

func playerHandler(players PlayerProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := players.GetByID(r.Context(), mux.Vars(r)["id"])
		if errors.Is(err, repository.ErrPlayerNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}

		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, player)
	}
}

func statsHandler(stats StatsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerStats, err := stats.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, playerStats)
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
