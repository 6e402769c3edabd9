package server

// 入站命令的扁平 JSON 信封（WebSocket 文本消息）
// 示例：{"type":"player_move","roomCode":"AB12CD","dx":1,"dy":0}
type CommandMessage struct {
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`     // create_room / join_room：显示名
	RoomCode string `json:"roomCode,omitempty"` // 除 create_room 外均需携带
	Dx       int    `json:"dx,omitempty"`
	Dy       int    `json:"dy,omitempty"`
	TargetID string `json:"targetId,omitempty"` // pvp_attack：目标连接标识
}

// 入站命令类型
const (
	CmdCreateRoom       = "create_room"
	CmdJoinRoom         = "join_room"
	CmdPlayerMove       = "player_move"
	CmdPvPAttack        = "pvp_attack"
	CmdGetNearbyPlayers = "get_nearby_players"
	CmdStartGame        = "start_game"
	CmdRestartGame      = "restart_game"
)

// 出站事件类型
const (
	EvtRoomCreated   = "room_created"
	EvtPlayerJoined  = "player_joined"
	EvtJoinError     = "join_error"
	EvtGameStarted   = "game_started"
	EvtGameRestarted = "game_restarted"
	EvtGameUpdate    = "game_update"
	EvtCombatResult  = "combat_result"
	EvtGameOver      = "game_over"
	EvtNearbyPlayers = "nearby_players"
	EvtPlayerLeft    = "player_left"
	EvtNewHost       = "new_host"
)

// RoomCreatedMsg 单播给建房者：房间码 + 自己的连接标识 + 初始快照
type RoomCreatedMsg struct {
	Type      string     `json:"type"`
	RoomCode  string     `json:"roomCode"`
	YourID    string     `json:"yourId"`
	GameState *RoomState `json:"gameState"`
}

// PlayerJoinedMsg 广播给全房间；YourID 仅在发给入房者本人的那份上填写
type PlayerJoinedMsg struct {
	Type       string     `json:"type"`
	RoomCode   string     `json:"roomCode"`
	PlayerName string     `json:"playerName"`
	YourID     string     `json:"yourId,omitempty"`
	GameState  *RoomState `json:"gameState"`
}

// JoinErrorMsg 单播给请求者：满员 / 房间不存在
type JoinErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// GameStateMsg 携带完整权威快照的通用事件（game_started / game_restarted / player_left）
type GameStateMsg struct {
	Type      string     `json:"type"`
	GameState *RoomState `json:"gameState"`
}

// GameUpdateMsg 移动成功后的快照广播，可能附带拾取结果
type GameUpdateMsg struct {
	Type       string      `json:"type"`
	GameState  *RoomState  `json:"gameState"`
	ItemResult *ItemResult `json:"itemResult,omitempty"`
}

// ItemResult 踩到道具格的副产物：叙述性消息
type ItemResult struct {
	Type    string `json:"type"` // "item_found"
	Message string `json:"message"`
}

// CombatResultMsg PvP 结算广播（成功时）或单播（too-far 等失败时）
type CombatResultMsg struct {
	Type        string     `json:"type"`
	Result      string     `json:"result"` // "pvp_attack" / "combat_error"
	Attacker    string     `json:"attacker,omitempty"`
	Target      string     `json:"target,omitempty"`
	Damage      int        `json:"damage,omitempty"`
	TargetHP    int        `json:"targetHp,omitempty"`
	TargetMaxHP int        `json:"targetMaxHp,omitempty"`
	Killed      bool       `json:"killed,omitempty"`
	LevelUp     bool       `json:"levelUp,omitempty"`
	Message     string     `json:"message,omitempty"`
	GameState   *RoomState `json:"gameState,omitempty"`
}

// GameOverMsg 存活人数 ≤1 时广播；Winner 为胜者名或 "Draw"
type GameOverMsg struct {
	Type      string     `json:"type"`
	Winner    string     `json:"winner"`
	GameState *RoomState `json:"gameState"`
}

// NearbyPlayersMsg 单播给请求者：相邻且存活的玩家列表
type NearbyPlayersMsg struct {
	Type    string        `json:"type"`
	Players []PlayerState `json:"players"`
}

// NewHostMsg 房主离开后广播新房主
type NewHostMsg struct {
	Type      string `json:"type"`
	NewHostID string `json:"newHostId"`
}
