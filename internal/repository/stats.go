package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

const (
	statsWinsField   = "wins"
	statsLossesField = "losses"
)

type StatsRepository interface {
	RecordResult(ctx context.Context, winnerID, loserID string) error
	GetByID(ctx context.Context, id string) (*entity.Stats, error)
}

type dbStats struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) StatsRepository {
	return &dbStats{
		client: client,
	}
}

// RecordResult bumps the winner's win counter and the loser's loss counter.
func (that *dbStats) RecordResult(ctx context.Context, winnerID, loserID string) error {
	if err := that.client.HIncrBy(ctx, statsKey(winnerID), statsWinsField, 1).Err(); err != nil {
		return fmt.Errorf("failed to record win: %w", err)
	}

	if err := that.client.HIncrBy(ctx, statsKey(loserID), statsLossesField, 1).Err(); err != nil {
		return fmt.Errorf("failed to record loss: %w", err)
	}

	return nil
}

// GetByID returns the counters for a player; a player with no recorded
// games has zero counters rather than an error.
func (that *dbStats) GetByID(ctx context.Context, id string) (*entity.Stats, error) {
	fields, err := that.client.HGetAll(ctx, statsKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats by ID: %w", err)
	}

	stats := &entity.Stats{PlayerID: id}

	if raw, ok := fields[statsWinsField]; ok {
		if stats.Wins, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("failed to parse wins counter: %w", err)
		}
	}

	if raw, ok := fields[statsLossesField]; ok {
		if stats.Losses, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("failed to parse losses counter: %w", err)
		}
	}

	return stats, nil
}

func statsKey(id string) string {
	return "stats:" + id
}
