//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/haoyun/skill-trail/internal/server/storage"
)

// MockLeaderboard 排行榜 mock
type MockLeaderboard struct {
	mock.Mock
}

func (m *MockLeaderboard) RecordGameResult(ctx context.Context, playerID, playerName string, finalScore, trailGained int, isWinner bool) error {
	args := m.Called(ctx, playerID, playerName, finalScore, trailGained, isWinner)
	return args.Error(0)
}

func (m *MockLeaderboard) GetPlayerStats(ctx context.Context, playerID string) (*storage.PlayerStats, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PlayerStats), args.Error(1)
}

func (m *MockLeaderboard) GetPlayerRank(ctx context.Context, playerID string) (int64, error) {
	args := m.Called(ctx, playerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaderboard) GetLeaderboard(ctx context.Context, leaderboardType string, offset, limit int) ([]storage.LeaderboardEntry, error) {
	args := m.Called(ctx, leaderboardType, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.LeaderboardEntry), args.Error(1)
}

// MockRedisStore Redis 存储 mock
type MockRedisStore struct {
	mock.Mock
}

func (m *MockRedisStore) SaveRoom(ctx context.Context, roomCode string, data *storage.RoomData) error {
	args := m.Called(ctx, roomCode, data)
	return args.Error(0)
}

func (m *MockRedisStore) DeleteRoom(ctx context.Context, roomCode string) error {
	args := m.Called(ctx, roomCode)
	return args.Error(0)
}
