package room

import (
	"context"
	"sync"
	"time"

	"github.com/haoyun/skill-trail/internal/protocol"
	"github.com/haoyun/skill-trail/internal/server/storage"
	"github.com/haoyun/skill-trail/internal/types"
)

const (
	roomCodeLength = 6            // 房间号长度
	roomCodeChars  = "0123456789" // 房间号字符集

	MaxTeams    = 5 // 最多队伍数
	MaxTeamSize = 6 // 每队最多人数
	DuelPlayers = 2 // 1v1 模式恰好人数

	chatLogCap     = 100 // 房间聊天记录上限，超出淘汰最旧
	MaxChatMessage = 500 // 单条聊天消息最大长度
)

// RoomPlayer 房间中的玩家
type RoomPlayer struct {
	Client types.ClientInterface
	TeamID string // 组队模式下所属队伍，1v1 为空
}

// Team 队伍（组队模式按需创建，清空后保留）
type Team struct {
	ID      string
	Name    string
	Members []string // 成员 ID，按加入顺序
}

// Room 游戏房间
type Room struct {
	Code        string                 // 房间号
	Name        string                 // 房间名
	Mode        GameMode               // 游戏模式
	State       RoomState              // 房间状态
	Public      bool                   // 是否在公开列表展示（游戏中隐藏）
	LeaderID    string                 // 房主 ID
	Players     map[string]*RoomPlayer // 玩家列表
	PlayerOrder []string               // 玩家顺序（按加入先后）
	Teams       map[string]*Team       // 队伍列表（组队模式）
	Chat        []protocol.ChatPayload // 聊天记录（有界）
	CreatedAt   time.Time              // 创建时间

	mu sync.RWMutex
}

// RoomManager 房间管理器
type RoomManager struct {
	redisStore  *storage.RedisStore
	roomTimeout time.Duration
	rooms       map[string]*Room
	mu          sync.RWMutex

	// server 用于大厅列表推送，onPlayerLeft 通知游戏会话有玩家离开
	server       types.ServerInterface
	onPlayerLeft func(roomCode, playerID string, empty bool)
}

// NewRoomManager 创建房间管理器
func NewRoomManager(rs *storage.RedisStore, roomTimeout time.Duration) *RoomManager {
	rm := &RoomManager{
		redisStore:  rs,
		roomTimeout: roomTimeout,
		rooms:       make(map[string]*Room),
	}

	// 启动房间清理协程
	go rm.cleanupLoop()

	return rm
}

// AttachServer 绑定服务器（大厅房间列表推送用）
func (rm *RoomManager) AttachServer(s types.ServerInterface) {
	rm.server = s
}

// SetPlayerLeftNotifier 设置玩家离开回调（游戏会话清理选择并重查完成条件）
func (rm *RoomManager) SetPlayerLeftNotifier(fn func(roomCode, playerID string, empty bool)) {
	rm.onPlayerLeft = fn
}

// saveRoomAsync 异步镜像房间到 Redis，store 为 nil 时跳过
func (rm *RoomManager) saveRoomAsync(room *Room) {
	if rm.redisStore == nil {
		return
	}
	go func() { _ = rm.redisStore.SaveRoom(context.Background(), room.Code, room.ToRoomData()) }()
}

// deleteRoomAsync 异步删除 Redis 中的房间镜像
func (rm *RoomManager) deleteRoomAsync(code string) {
	if rm.redisStore == nil {
		return
	}
	go func() { _ = rm.redisStore.DeleteRoom(context.Background(), code) }()
}
