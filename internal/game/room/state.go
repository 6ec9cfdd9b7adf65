package room

// RoomState 房间状态
type RoomState int

const (
	RoomStateWaiting RoomState = iota
	RoomStateActive
	RoomStateFinished
)

// String 返回状态的协议表示
func (s RoomState) String() string {
	switch s {
	case RoomStateWaiting:
		return "waiting"
	case RoomStateActive:
		return "active"
	case RoomStateFinished:
		return "finished"
	}
	return "unknown"
}

// GameMode 游戏模式
type GameMode string

const (
	ModeSoloDuel GameMode = "1v1"  // 单挑，恰好 2 人
	ModeTeam     GameMode = "team" // 组队，自动分队
)

// ParseMode 解析游戏模式，空值默认组队
func ParseMode(s string) (GameMode, bool) {
	switch GameMode(s) {
	case ModeSoloDuel:
		return ModeSoloDuel, true
	case ModeTeam, GameMode(""):
		return ModeTeam, true
	}
	return "", false
}
