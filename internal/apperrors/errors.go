package apperrors

import (
	"github.com/haoyun/skill-trail/internal/protocol"
)

// GameError 游戏错误（房间和会话共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrNameRequired        = &GameError{Code: protocol.ErrCodeNameRequired, Message: "请先填写昵称"}
	ErrInvalidMode         = &GameError{Code: protocol.ErrCodeInvalidMode, Message: "无效的游戏模式"}
	ErrRoomNotFound        = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrRoomFull            = &GameError{Code: protocol.ErrCodeRoomFull, Message: "房间已满"}
	ErrTeamsFull           = &GameError{Code: protocol.ErrCodeTeamsFull, Message: "所有队伍已满"}
	ErrNotInRoom           = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "您不在房间中"}
	ErrGameStarted         = &GameError{Code: protocol.ErrCodeGameStarted, Message: "游戏已开始"}
	ErrGameNotStart        = &GameError{Code: protocol.ErrCodeGameNotStart, Message: "游戏尚未开始"}
	ErrNotLeader           = &GameError{Code: protocol.ErrCodeNotLeader, Message: "只有房主才能开始游戏"}
	ErrInsufficientPlayers = &GameError{Code: protocol.ErrCodeInsufficientPlayers, Message: "人数不足，无法开始"}
	ErrWrongHeadcount      = &GameError{Code: protocol.ErrCodeWrongHeadcount, Message: "单挑模式需要恰好两名玩家"}
	ErrInternalData        = &GameError{Code: protocol.ErrCodeInternalData, Message: "游戏数据异常"}
)
