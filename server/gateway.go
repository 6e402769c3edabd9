package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// Gateway 会话网关：连接许多并发客户端与房间层
// 每条入站命令解析出「哪个房间、哪个玩家」，调用对应房间操作，
// 成功则向全房间扇出最新权威快照，失败则静默或仅回执请求者
type Gateway struct {
	registry *Registry
	metrics  *GatewayMetrics

	mu      sync.RWMutex
	members map[ConnID]string // 连接 → 所在房间码
}

// NewGateway 构造网关，注册表由调用方显式传入
func NewGateway(reg *Registry) *Gateway {
	return &Gateway{
		registry: reg,
		metrics:  &GatewayMetrics{},
		members:  make(map[ConnID]string),
	}
}

// HandleWS WebSocket 接入：每条连接分配 uuid 作为连接标识
// 此时尚未加入任何房间，需后续 create_room / join_room 命令
func (gw *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	id := ConnID(uuid.NewString())
	client := NewClientConn(ws)
	gw.metrics.IncConnections()
	Log.Infof("player connected: %s", id)

	go client.writePump()
	go client.readPump(gw, id)
}

// Dispatch 按命令类型路由到房间操作。未知类型降级为 no-op
func (gw *Gateway) Dispatch(id ConnID, conn *ClientConn, cmd CommandMessage) {
	gw.metrics.IncCommands()
	switch cmd.Type {
	case CmdCreateRoom:
		gw.handleCreate(id, conn, cmd)
	case CmdJoinRoom:
		gw.handleJoin(id, conn, cmd)
	case CmdPlayerMove:
		gw.handleMove(id, cmd)
	case CmdPvPAttack:
		gw.handlePvPAttack(id, conn, cmd)
	case CmdGetNearbyPlayers:
		gw.handleNearby(id, conn)
	case CmdStartGame:
		gw.handleStart(id)
	case CmdRestartGame:
		gw.handleRestart(id)
	default:
		Log.Debugf("unknown command %q from %s", cmd.Type, id)
	}
}

// handleCreate 建房：生成房间码，建房者以房主身份入房，单播房间码与初始快照
// 发送者已在别的房间时先按离开处理，避免旧房残留幽灵成员
func (gw *Gateway) handleCreate(id ConnID, conn *ClientConn, cmd CommandMessage) {
	gw.leaveRoom(id)
	room := gw.registry.Create(id)
	state, ok := room.Join(id, cmd.Name, conn)
	if !ok {
		// 空房不可能满员，防御性回收
		gw.registry.Destroy(room.Code)
		return
	}
	gw.setMembership(id, room.Code)
	gw.metrics.IncRoomsCreated()

	gw.unicast(conn, RoomCreatedMsg{
		Type:      EvtRoomCreated,
		RoomCode:  room.Code,
		YourID:    string(id),
		GameState: state,
	})
	Log.Infof("room created: %s by %s", room.Code, cmd.Name)
}

// handleJoin 入房：房间不存在或满员仅回执请求者（原房间身份不受影响）；
// 成功则通知全房间，发送者若在别的房间先按离开处理
func (gw *Gateway) handleJoin(id ConnID, conn *ClientConn, cmd CommandMessage) {
	room, ok := gw.registry.Get(cmd.RoomCode)
	if !ok {
		gw.metrics.IncJoinErrors()
		gw.unicast(conn, JoinErrorMsg{Type: EvtJoinError, Message: "Room not found!"})
		return
	}
	state, ok := room.Join(id, cmd.Name, conn)
	if !ok {
		gw.metrics.IncJoinErrors()
		gw.unicast(conn, JoinErrorMsg{Type: EvtJoinError, Message: "Room is full!"})
		return
	}
	// 重复加入同一房间时 Join 已按原槽位重置，不走离开路径
	if cur, ok := gw.membershipOf(id); ok && cur != room.Code {
		gw.leaveRoom(id)
	}
	gw.setMembership(id, room.Code)

	msg := PlayerJoinedMsg{
		Type:       EvtPlayerJoined,
		RoomCode:   room.Code,
		PlayerName: cmd.Name,
		GameState:  state,
	}
	// 入房者收带 yourId 的版本，其余成员收普通版本
	withID := msg
	withID.YourID = string(id)
	gw.unicast(conn, withID)
	gw.broadcastExcept(room, id, msg)
	Log.Infof("%s joined room %s", cmd.Name, room.Code)
}

// handleMove 移动：仅接受四方向单步；非法移动静默吸收（无任何可观察效果）
func (gw *Gateway) handleMove(id ConnID, cmd CommandMessage) {
	if !isUnitStep(cmd.Dx, cmd.Dy) {
		return
	}
	room, ok := gw.roomOf(id)
	if !ok {
		return
	}
	state, item, ok := room.Move(id, cmd.Dx, cmd.Dy)
	if !ok {
		return
	}
	gw.broadcast(room, GameUpdateMsg{Type: EvtGameUpdate, GameState: state, ItemResult: item})
}

// handlePvPAttack PvP：规则性失败（太远）仅回执攻击者；成功广播结算，
// 存活 ≤1 时追加终局广播
func (gw *Gateway) handlePvPAttack(id ConnID, conn *ClientConn, cmd CommandMessage) {
	room, ok := gw.roomOf(id)
	if !ok {
		return
	}
	out := room.AttackPlayer(id, ConnID(cmd.TargetID))
	if out == nil {
		return
	}
	if out.ErrMessage != "" {
		gw.unicast(conn, CombatResultMsg{
			Type:    EvtCombatResult,
			Result:  "combat_error",
			Message: out.ErrMessage,
		})
		return
	}
	gw.broadcast(room, CombatResultMsg{
		Type:        EvtCombatResult,
		Result:      "pvp_attack",
		Attacker:    out.Attacker,
		Target:      out.Target,
		Damage:      out.Damage,
		TargetHP:    out.TargetHP,
		TargetMaxHP: out.TargetMaxHP,
		Killed:      out.Killed,
		LevelUp:     out.LevelUp,
		GameState:   out.State,
	})
	if out.GameOver {
		gw.broadcast(room, GameOverMsg{Type: EvtGameOver, Winner: out.Winner, GameState: room.Snapshot()})
	}
}

// handleNearby 查询相邻存活玩家，仅单播给请求者
func (gw *Gateway) handleNearby(id ConnID, conn *ClientConn) {
	room, ok := gw.roomOf(id)
	if !ok {
		return
	}
	players := room.Nearby(id)
	if players == nil {
		players = []PlayerState{}
	}
	gw.unicast(conn, NearbyPlayersMsg{Type: EvtNearbyPlayers, Players: players})
}

// handleStart 开局（房主专属）。非房主请求静默忽略，仅留调试日志
func (gw *Gateway) handleStart(id ConnID) {
	room, ok := gw.roomOf(id)
	if !ok {
		return
	}
	state, ok := room.Start(id)
	if !ok {
		Log.Debugf("non-host %s tried to start room %s", id, room.Code)
		return
	}
	gw.broadcast(room, GameStateMsg{Type: EvtGameStarted, GameState: state})
	Log.Infof("game started in room %s", room.Code)
}

// handleRestart 重开（房主专属）
func (gw *Gateway) handleRestart(id ConnID) {
	room, ok := gw.roomOf(id)
	if !ok {
		return
	}
	state, ok := room.Restart(id)
	if !ok {
		Log.Debugf("non-host %s tried to restart room %s", id, room.Code)
		return
	}
	gw.broadcast(room, GameStateMsg{Type: EvtGameRestarted, GameState: state})
	Log.Infof("game restarted in room %s", room.Code)
}

// HandleDisconnect 断线处理：移除玩家；空房销毁；
// 否则广播新名册，房主离开时另行广播新房主
func (gw *Gateway) HandleDisconnect(id ConnID) {
	gw.metrics.IncDisconnections()
	gw.leaveRoom(id)
}

// leaveRoom 把连接移出其当前房间（断线与换房共用此路径）
// 不触碰连接本身：换房场景下同一连接仍在使用，关闭只发生在读协程退出时
func (gw *Gateway) leaveRoom(id ConnID) {
	gw.mu.Lock()
	code, ok := gw.members[id]
	delete(gw.members, id)
	gw.mu.Unlock()
	if !ok {
		return
	}
	room, ok := gw.registry.Get(code)
	if !ok {
		return
	}

	empty, newHost, hostChanged, state := room.Remove(id)
	if empty {
		gw.registry.Destroy(code)
		gw.metrics.IncRoomsDestroyed()
		Log.Infof("room %s removed (empty)", code)
		return
	}
	gw.broadcast(room, GameStateMsg{Type: EvtPlayerLeft, GameState: state})
	if hostChanged {
		gw.broadcast(room, NewHostMsg{Type: EvtNewHost, NewHostID: string(newHost)})
	}
	Log.Infof("player %s left room %s", id, code)
}

// roomOf 由发送者连接标识解析所在房间（命令携带的房间码不作权威依据）
func (gw *Gateway) roomOf(id ConnID) (*Room, bool) {
	gw.mu.RLock()
	code, ok := gw.members[id]
	gw.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return gw.registry.Get(code)
}

func (gw *Gateway) membershipOf(id ConnID) (string, bool) {
	gw.mu.RLock()
	code, ok := gw.members[id]
	gw.mu.RUnlock()
	return code, ok
}

func (gw *Gateway) setMembership(id ConnID, code string) {
	gw.mu.Lock()
	gw.members[id] = code
	gw.mu.Unlock()
}

func (gw *Gateway) unicast(conn *ClientConn, msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		Log.Errorf("marshal unicast: %v", err)
		return
	}
	conn.Enqueue(b)
}

func (gw *Gateway) broadcast(room *Room, msg any) {
	gw.broadcastExcept(room, "", msg)
}

func (gw *Gateway) broadcastExcept(room *Room, except ConnID, msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		Log.Errorf("marshal broadcast: %v", err)
		return
	}
	gw.metrics.IncBroadcasts()
	room.BroadcastExcept(except, b)
}

func isUnitStep(dx, dy int) bool {
	return (dx == 0) != (dy == 0) && abs(dx)+abs(dy) == 1
}
