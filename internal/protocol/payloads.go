package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// CreateRoomPayload 创建房间请求
type CreateRoomPayload struct {
	PlayerName string `json:"player_name"`
	RoomName   string `json:"room_name,omitempty"` // 为空时服务端生成默认房名
	Mode       string `json:"mode"`                // "1v1" 或 "team"
	Avatar     string `json:"avatar,omitempty"`    // 头像引用（不透明字符串）
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomCode   string `json:"room_code"`
	PlayerName string `json:"player_name"`
	Avatar     string `json:"avatar,omitempty"`
}

// ChooseSkillPayload 回合选择技能请求
type ChooseSkillPayload struct {
	SkillID string `json:"skill_id"`
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Offset int `json:"offset"` // 偏移量
	Limit  int `json:"limit"`  // 数量
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"` // 随机昵称，加入房间时可覆盖
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// OnlineCountPayload 在线人数更新
type OnlineCountPayload struct {
	Count int `json:"count"` // 当前在线人数
}

// PlayerInfo 玩家信息
type PlayerInfo struct {
	PlayerID      string `json:"player_id"`
	Name          string `json:"name"`
	Avatar        string `json:"avatar,omitempty"`
	Score         int    `json:"score"`
	TrailPosition int    `json:"trail_position"`
	TeamID        string `json:"team_id,omitempty"` // 仅组队模式
	IsLeader      bool   `json:"is_leader"`
}

// TeamMember 队伍成员（只带名字，不带头像）
type TeamMember struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// TeamInfo 队伍信息
type TeamInfo struct {
	TeamID        string       `json:"team_id"`
	Name          string       `json:"name"`
	Score         int          `json:"score"`
	TrailPosition int          `json:"trail_position"`
	Members       []TeamMember `json:"members"`
}

// SkillInfo 技能信息
type SkillInfo struct {
	SkillID     string `json:"skill_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// RoomListItem 房间列表项
type RoomListItem struct {
	RoomCode    string `json:"room_code"`
	Name        string `json:"name"`
	PlayerCount int    `json:"player_count"`
	State       string `json:"state"` // waiting/active/finished
	Mode        string `json:"mode"`
}

// RoomListUpdatePayload 公开房间列表
type RoomListUpdatePayload struct {
	Rooms []RoomListItem `json:"rooms"`
}

// RoomJoinedPayload 自己加入房间成功响应
type RoomJoinedPayload struct {
	RoomCode string        `json:"room_code"`
	RoomName string        `json:"room_name"`
	Mode     string        `json:"mode"`
	State    string        `json:"state"`
	LeaderID string        `json:"leader_id"`
	You      PlayerInfo    `json:"you"`
	Players  []PlayerInfo  `json:"players"`
	Teams    []TeamInfo    `json:"teams,omitempty"`
	Chat     []ChatPayload `json:"chat,omitempty"` // 房间聊天记录回放
}

// PlayerJoinedPayload 其他玩家加入通知
type PlayerJoinedPayload struct {
	Player  PlayerInfo   `json:"player"`
	Players []PlayerInfo `json:"players"`
	Teams   []TeamInfo   `json:"teams,omitempty"`
}

// PlayerLeftPayload 玩家离开通知
type PlayerLeftPayload struct {
	PlayerID   string       `json:"player_id"`
	PlayerName string       `json:"player_name"`
	Players    []PlayerInfo `json:"players"`
	Teams      []TeamInfo   `json:"teams,omitempty"`
}

// NewLeaderPayload 房主变更通知
type NewLeaderPayload struct {
	LeaderID   string `json:"leader_id"`
	LeaderName string `json:"leader_name"`
}

// GameStartedPayload 游戏开始通知
type GameStartedPayload struct {
	Mode      string       `json:"mode"`
	MaxRounds int          `json:"max_rounds"`
	Players   []PlayerInfo `json:"players"`
	Teams     []TeamInfo   `json:"teams,omitempty"`
}

// NewRoundPayload 新回合通知
type NewRoundPayload struct {
	Round         int          `json:"round"`
	SituationID   string       `json:"situation_id"`
	SituationText string       `json:"situation_text"`
	Skills        []SkillInfo  `json:"skills"`
	Deadline      int64        `json:"deadline"` // 截止时间戳（毫秒）
	Players       []PlayerInfo `json:"players"`
	Teams         []TeamInfo   `json:"teams,omitempty"`
}

// ChoiceRegisteredPayload 选择已记录（仅发给本人）
type ChoiceRegisteredPayload struct {
	Round   int    `json:"round"`
	SkillID string `json:"skill_id"`
}

// PlayerChoiceUpdatePayload 某玩家已选择通知（不透露选了什么）
type PlayerChoiceUpdatePayload struct {
	Round    int    `json:"round"`
	PlayerID string `json:"player_id"`
}

// RoundResult 回合结算条目（按计分单位：1v1 为玩家，组队为队伍）
type RoundResult struct {
	Choice        string `json:"choice,omitempty"` // 1v1 模式公开选择；组队模式留空
	Score         int    `json:"score"`            // 本回合得分
	TotalScore    int    `json:"total_score"`      // 累计得分
	AdvancedTrail bool   `json:"advanced_trail"`   // 是否前进赛道
}

// RoundEndPayload 回合结算通知
type RoundEndPayload struct {
	Round   int                    `json:"round"`
	Results map[string]RoundResult `json:"results"` // key 为玩家或队伍 ID
	Players []PlayerInfo           `json:"players"`
	Teams   []TeamInfo             `json:"teams,omitempty"`
}

// FinalScoreEntry 最终成绩条目
type FinalScoreEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Score         int    `json:"score"`
	TrailPosition int    `json:"trail_position"`
	FinalScore    int    `json:"final_score"` // score + trail_position × 赛道加成
}

// GameOverPayload 游戏结束通知
type GameOverPayload struct {
	Message     string                     `json:"message"`
	FinalScores map[string]FinalScoreEntry `json:"final_scores"`
	Winners     []string                   `json:"winners"`     // 并列最高分全部获胜
	SkillUsage  map[string]map[string]int  `json:"skill_usage"` // 计分单位 → 技能 → 次数
	SkillNames  map[string]string          `json:"skill_names"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatsResultPayload 个人统计结果
type StatsResultPayload struct {
	PlayerID      string  `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	TotalGames    int     `json:"total_games"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"win_rate"`
	BestFinal     int     `json:"best_final"` // 单局最高最终得分
	Score         int     `json:"score"`      // 排位积分
	Rank          int     `json:"rank"`
	CurrentStreak int     `json:"current_streak"`
	MaxWinStreak  int     `json:"max_win_streak"`
}

// LeaderboardResultPayload 排行榜结果
type LeaderboardResultPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
}

// ChatPayload 聊天消息
type ChatPayload struct {
	SenderID   string `json:"sender_id,omitempty"`   // 发送者 ID（服务端填充）
	SenderName string `json:"sender_name,omitempty"` // 发送者名字（服务端填充）
	Content    string `json:"content"`               // 消息内容
	Scope      string `json:"scope"`                 // "lobby" 或 "room"
	TeamID     string `json:"team_id,omitempty"`     // 发送者队伍（服务端填充）
	Time       int64  `json:"time,omitempty"`        // 发送时间（服务端填充）
}
