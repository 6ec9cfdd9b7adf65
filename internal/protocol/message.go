package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing MessageType = "ping" // 心跳 ping

	// 房间操作
	MsgCreateRoom  MessageType = "create_room"   // 创建房间
	MsgJoinRoom    MessageType = "join_room"     // 加入房间
	MsgLeaveRoom   MessageType = "leave_room"    // 离开房间
	MsgGetRoomList MessageType = "get_room_list" // 获取房间列表

	// 游戏操作
	MsgStartGame   MessageType = "start_game"   // 房主开始游戏
	MsgChooseSkill MessageType = "choose_skill" // 本回合选择技能

	// 信息查询
	MsgGetStats       MessageType = "get_stats"        // 获取个人统计
	MsgGetLeaderboard MessageType = "get_leaderboard"  // 获取排行榜
	MsgGetOnlineCount MessageType = "get_online_count" // 获取在线人数
	MsgChat           MessageType = "chat"             // 聊天消息
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected   MessageType = "connected"    // 连接成功
	MsgPong        MessageType = "pong"         // 心跳 pong
	MsgOnlineCount MessageType = "online_count" // 在线人数

	// 房间相关
	MsgRoomListUpdate MessageType = "room_list_update" // 公开房间列表推送
	MsgRoomJoined     MessageType = "room_joined"      // 自己加入房间成功（含创建）
	MsgPlayerJoined   MessageType = "player_joined"    // 其他玩家加入
	MsgPlayerLeft     MessageType = "player_left"      // 玩家离开
	MsgNewLeader      MessageType = "new_leader"       // 房主变更

	// 游戏流程
	MsgGameStarted        MessageType = "game_started"         // 游戏开始
	MsgNewRound           MessageType = "new_round"            // 新回合开始
	MsgChoiceRegistered   MessageType = "choice_registered"    // 自己的选择已记录
	MsgPlayerChoiceUpdate MessageType = "player_choice_update" // 某玩家已做出选择（不透露内容）
	MsgRoundEnd           MessageType = "round_end"            // 回合结算
	MsgGameOver           MessageType = "game_over"            // 游戏结束

	// 排行榜
	MsgStatsResult       MessageType = "stats_result"       // 个人统计结果
	MsgLeaderboardResult MessageType = "leaderboard_result" // 排行榜结果

	// 错误
	MsgJoinError MessageType = "join_error" // 创建/加入房间失败
	MsgGameError MessageType = "game_error" // 游戏内操作失败
	MsgError     MessageType = "error"      // 其他错误
)
