package protocol

// 错误码
const (
	// 1xxx 协议/校验错误
	ErrCodeUnknown      = 1000
	ErrCodeInvalidMsg   = 1001
	ErrCodeRateLimit    = 1002 // 速率限制
	ErrCodeNameRequired = 1003 // 玩家昵称缺失
	ErrCodeInvalidMode  = 1004 // 未知的游戏模式

	// 2xxx 房间错误
	ErrCodeRoomNotFound = 2001
	ErrCodeRoomFull     = 2002
	ErrCodeNotInRoom    = 2003
	ErrCodeGameStarted  = 2004 // 游戏已开始，无法加入
	ErrCodeTeamsFull    = 2005 // 所有队伍已满

	// 3xxx 游戏错误
	ErrCodeGameNotStart        = 3001
	ErrCodeNotLeader           = 3002 // 只有房主可以开始游戏
	ErrCodeInsufficientPlayers = 3003 // 人数不足
	ErrCodeWrongHeadcount      = 3004 // 1v1 模式人数必须恰好为 2

	// 5xxx 服务器错误
	ErrCodeInternalData      = 5001 // 规则数据缺失/耗尽
	ErrCodeServerMaintenance = 5003 // 服务器维护中
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:             "未知错误",
	ErrCodeInvalidMsg:          "无效的消息格式",
	ErrCodeRateLimit:           "请求过于频繁",
	ErrCodeNameRequired:        "昵称不能为空",
	ErrCodeInvalidMode:         "未知的游戏模式",
	ErrCodeRoomNotFound:        "房间不存在",
	ErrCodeRoomFull:            "房间已满",
	ErrCodeNotInRoom:           "您不在房间中",
	ErrCodeGameStarted:         "游戏已开始或已结束",
	ErrCodeTeamsFull:           "所有队伍已满，无法加入",
	ErrCodeGameNotStart:        "游戏尚未开始",
	ErrCodeNotLeader:           "只有房主可以开始游戏",
	ErrCodeInsufficientPlayers: "人数不足，无法开始",
	ErrCodeWrongHeadcount:      "1v1 模式需要恰好 2 名玩家",
	ErrCodeInternalData:        "游戏规则数据异常",
	ErrCodeServerMaintenance:   "服务器维护中",
}
