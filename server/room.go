package server

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Phase 房间阶段
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// MaxPlayers 每房间人数上限
const MaxPlayers = 4

// 重开局时的出生点与属性默认值（与首次加入不同，沿用既有数值）
var restartSlots = [4][2]int{{1, 1}, {13, 8}, {1, 8}, {13, 1}}

const (
	restartAttack  = 20
	restartDefense = 10
)

// itemHealBase + [0, itemHealRange) 为道具回复量
const (
	itemHealBase  = 20
	itemHealRange = 20
)

// pvpDamageRange PvP 伤害浮动：attack + [0, pvpDamageRange)
const pvpDamageRange = 10

// Room 一局游戏会话的权威状态机：名册、地图、移动校验、PvP 结算
// 所有方法内部持锁，同一房间的命令串行执行；不同房间互不阻塞
type Room struct {
	mu sync.Mutex

	Code   string
	hostID ConnID
	phase  Phase

	players   map[ConnID]*Player
	joinOrder []ConnID // 加入顺序 = 出生位/颜色分配顺序，也是快照中的玩家顺序

	mapGrid [][]Tile
	rng     *rand.Rand
}

// RoomState 广播给客户端的完整权威快照（客户端整体替换本地视图）
type RoomState struct {
	RoomCode  string        `json:"roomCode"`
	HostID    string        `json:"hostId"`
	Players   []PlayerState `json:"players"`
	Map       [][]Tile      `json:"map"`
	GameState string        `json:"gameState"`
}

// CombatOutcome PvP 结算结果描述，供网关广播与客户端叙事
type CombatOutcome struct {
	ErrMessage  string // 非空表示规则性失败（太远），仅回执给攻击者
	Attacker    string
	Target      string
	Damage      int
	TargetHP    int
	TargetMaxHP int
	Killed      bool
	LevelUp     bool
	GameOver    bool
	Winner      string // 胜者名，无人存活时为 "Draw"
	State       *RoomState
}

// NewRoom 创建房间：生成地图，房主为建房连接
// rng 为 nil 时自动播种；测试注入固定种子以获得确定性
func NewRoom(code string, host ConnID, rng *rand.Rand) *Room {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Room{
		Code:    code,
		hostID:  host,
		phase:   PhaseWaiting,
		players: make(map[ConnID]*Player),
		mapGrid: GenerateMap(rng),
		rng:     rng,
	}
}

// Join 加入玩家。满员返回 (nil, false)；成功返回最新快照
// 同一标识重复入房按原槽位重置，名册绝不重复登记（标识在房间内唯一）
func (r *Room) Join(id ConnID, name string, conn *ClientConn) (*RoomState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.players[id]; exists {
		p := newPlayer(id, name, r.slotOfLocked(id))
		p.Conn = conn
		r.players[id] = p
		return r.snapshotLocked(), true
	}
	if len(r.players) >= MaxPlayers {
		return nil, false
	}
	p := newPlayer(id, name, len(r.players))
	p.Conn = conn
	r.players[id] = p
	r.joinOrder = append(r.joinOrder, id)
	return r.snapshotLocked(), true
}

// slotOfLocked 标识在名册中的加入序号；不存在返回 -1
func (r *Room) slotOfLocked(id ConnID) int {
	for i, pid := range r.joinOrder {
		if pid == id {
			return i
		}
	}
	return -1
}

// Move 单步移动。越界/撞墙/占位/死亡/不在房均静默失败（无状态变化）
// 踩到道具格时消耗道具（Item→Floor）并回血，返回叙述性结果
func (r *Room) Move(id ConnID, dx, dy int) (*RoomState, *ItemResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[id]
	if !ok || !p.Alive {
		return nil, nil, false
	}
	nx, ny := p.X+dx, p.Y+dy
	if nx < 0 || nx >= MapWidth || ny < 0 || ny >= MapHeight {
		return nil, nil, false
	}
	tile := r.mapGrid[ny][nx]
	if tile == TileWall {
		return nil, nil, false
	}
	// 目标格已有活人则不可进入；尸体不挡路
	for _, other := range r.players {
		if other.ID != id && other.Alive && other.X == nx && other.Y == ny {
			return nil, nil, false
		}
	}

	p.X, p.Y = nx, ny

	var item *ItemResult
	if tile == TileItem {
		r.mapGrid[ny][nx] = TileFloor // 道具一次性消耗
		heal := itemHealBase + r.rng.Intn(itemHealRange)
		p.HP = min(p.MaxHP, p.HP+heal)
		item = &ItemResult{
			Type:    "item_found",
			Message: fmt.Sprintf("%s found a potion and recovered %d HP!", p.Name, heal),
		}
	}
	return r.snapshotLocked(), item, true
}

// AttackPlayer PvP 结算。任一方缺席或已死返回 nil（完全无效果）
// 曼哈顿距离 >1 返回带 ErrMessage 的结果；成功时按公式扣血并处理击杀/升级/终局
func (r *Room) AttackPlayer(attackerID, targetID ConnID) *CombatOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	attacker, ok := r.players[attackerID]
	if !ok || !attacker.Alive {
		return nil
	}
	target, ok := r.players[targetID]
	if !ok || !target.Alive {
		return nil
	}

	if manhattan(attacker.X, attacker.Y, target.X, target.Y) > 1 {
		return &CombatOutcome{ErrMessage: "Too far to attack!"}
	}

	// 伤害 = attack + [0,10)，减去防御，保底 1 点
	baseDamage := attacker.Attack + r.rng.Intn(pvpDamageRange)
	damage := max(1, baseDamage-target.Defense)
	target.HP = max(0, target.HP-damage)

	out := &CombatOutcome{
		Attacker:    attacker.Name,
		Target:      target.Name,
		Damage:      damage,
		TargetHP:    target.HP,
		TargetMaxHP: target.MaxHP,
	}

	if target.HP <= 0 {
		target.Alive = false
		out.Killed = true
		out.LevelUp = attacker.gainXP(killXPReward)
	}

	// 终局判定：存活 ≤1 即结束；phase 仅从 playing 推进到 finished
	if alive := r.alivePlayersLocked(); len(alive) <= 1 {
		out.GameOver = true
		if len(alive) == 1 {
			out.Winner = alive[0].Name
		} else {
			out.Winner = "Draw"
		}
		if r.phase == PhasePlaying {
			r.phase = PhaseFinished
		}
	}

	out.State = r.snapshotLocked()
	return out
}

// Start 房主开局：waiting → playing。非房主静默忽略
func (r *Room) Start(id ConnID) (*RoomState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id != r.hostID {
		return nil, false
	}
	r.phase = PhasePlaying
	return r.snapshotLocked(), true
}

// Restart 房主重开：重置所有成员到一级默认属性（保留标识与名字），
// 按固定重开出生点落位（溢出回退到默认位），重新生成地图，回到 waiting
func (r *Room) Restart(id ConnID) (*RoomState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id != r.hostID {
		return nil, false
	}
	for i, pid := range r.joinOrder {
		p := r.players[pid]
		pos := restartSlots[0]
		if i < len(restartSlots) {
			pos = restartSlots[i]
		}
		p.X, p.Y = pos[0], pos[1]
		p.HP, p.MaxHP = baseMaxHP, baseMaxHP
		p.MP, p.MaxMP = baseMaxMP, baseMaxMP
		p.Level = 1
		p.XP = 0
		p.Attack = restartAttack
		p.Defense = restartDefense
		p.Alive = true
		p.Color = colorForSlot(i)
	}
	r.mapGrid = GenerateMap(r.rng)
	r.phase = PhaseWaiting
	return r.snapshotLocked(), true
}

// Remove 移除成员。返回房间是否已空、是否需要转移房主及新房主标识
func (r *Room) Remove(id ConnID) (empty bool, newHost ConnID, hostChanged bool, state *RoomState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 连接的关闭由网关侧负责：换房场景下同一连接还会继续使用
	if _, ok := r.players[id]; !ok {
		return len(r.players) == 0, "", false, r.snapshotLocked()
	}
	delete(r.players, id)
	for i, pid := range r.joinOrder {
		if pid == id {
			r.joinOrder = append(r.joinOrder[:i], r.joinOrder[i+1:]...)
			break
		}
	}
	if len(r.players) == 0 {
		return true, "", false, nil
	}
	// 房主离开：按加入顺序把房主转给最早的剩余成员
	if r.hostID == id {
		r.hostID = r.joinOrder[0]
		return false, r.hostID, true, r.snapshotLocked()
	}
	return false, "", false, r.snapshotLocked()
}

// Nearby 返回与指定玩家曼哈顿距离 ≤1 的其他存活玩家（用于攻击目标选择）
func (r *Room) Nearby(id ConnID) []PlayerState {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[id]
	if !ok {
		return nil
	}
	nearby := make([]PlayerState, 0, len(r.players))
	for _, pid := range r.joinOrder {
		other := r.players[pid]
		if other.ID == id || !other.Alive {
			continue
		}
		if manhattan(p.X, p.Y, other.X, other.Y) <= 1 {
			nearby = append(nearby, other.snapshot())
		}
	}
	return nearby
}

// Snapshot 当前权威快照（只读副本，可安全序列化）
func (r *Room) Snapshot() *RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Broadcast 将已序列化的消息投递给全体成员（非阻塞，单个连接失败不影响其他）
func (r *Room) Broadcast(b []byte) {
	r.BroadcastExcept("", b)
}

// BroadcastExcept 投递给除 except 外的全体成员（入房通知场景：入房者单独收带标识的版本）
func (r *Room) BroadcastExcept(except ConnID, b []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.ID == except {
			continue
		}
		p.Conn.Enqueue(b)
	}
}

// Size 当前成员数（监控用）
func (r *Room) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

func (r *Room) snapshotLocked() *RoomState {
	players := make([]PlayerState, 0, len(r.players))
	for _, pid := range r.joinOrder {
		players = append(players, r.players[pid].snapshot())
	}
	// 地图按行拷贝：快照发出后地图仍会因拾取道具而变化
	grid := make([][]Tile, len(r.mapGrid))
	for y, row := range r.mapGrid {
		grid[y] = append([]Tile(nil), row...)
	}
	return &RoomState{
		RoomCode:  r.Code,
		HostID:    string(r.hostID),
		Players:   players,
		Map:       grid,
		GameState: string(r.phase),
	}
}

func (r *Room) alivePlayersLocked() []*Player {
	alive := make([]*Player, 0, len(r.players))
	for _, pid := range r.joinOrder {
		if p := r.players[pid]; p.Alive {
			alive = append(alive, p)
		}
	}
	return alive
}

func manhattan(x1, y1, x2, y2 int) int {
	return abs(x1-x2) + abs(y1-y2)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
