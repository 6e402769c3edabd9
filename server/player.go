package server

// ConnID 连接标识（uuid），也是玩家在房间内的唯一标识
type ConnID string

// 加入房间时的一级属性；重开局用另一组默认值（见 restart，沿用既有数值不做统一）
const (
	joinAttack  = 15
	joinDefense = 5

	baseMaxHP = 100
	baseMaxMP = 50

	killXPReward = 50  // 击杀奖励
	levelXPStep  = 100 // 升级阈值（PvP 规则固定 100，不随等级增长）
)

// 出生点与颜色按加入顺序分配；调色板用尽后回退到 fallbackColor
var spawnSlots = [4][2]int{{2, 2}, {12, 2}, {2, 7}, {12, 7}}

var playerColors = [4]string{"#27ae60", "#e74c3c", "#3498db", "#f39c12"}

const fallbackColor = "#9b59b6"

// PlayerState 广播给客户端的玩家快照（字段名与既有线上格式一致）
type PlayerState struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	HP      int    `json:"hp"`
	MaxHP   int    `json:"maxHp"`
	MP      int    `json:"mp"`
	MaxMP   int    `json:"maxMp"`
	Level   int    `json:"level"`
	XP      int    `json:"xp"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	Alive   bool   `json:"alive"`
	Color   string `json:"color"`
}

// Player 房间内的玩家实体（服务端权威状态），生命周期 = 该连接在房间内的成员期
type Player struct {
	ID      ConnID
	Name    string
	X, Y    int
	HP      int
	MaxHP   int
	MP      int
	MaxMP   int
	Level   int
	XP      int
	Attack  int
	Defense int
	Alive   bool
	Color   string

	Conn *ClientConn // 网络连接的发送端（写协程），测试中可为轻量伪连接
}

// newPlayer 以加入默认值构造玩家，slot 为加入顺序（决定出生点与颜色）
func newPlayer(id ConnID, name string, slot int) *Player {
	pos := spawnSlots[0]
	if slot >= 0 && slot < len(spawnSlots) {
		pos = spawnSlots[slot]
	}
	return &Player{
		ID:      id,
		Name:    name,
		X:       pos[0],
		Y:       pos[1],
		HP:      baseMaxHP,
		MaxHP:   baseMaxHP,
		MP:      baseMaxMP,
		MaxMP:   baseMaxMP,
		Level:   1,
		XP:      0,
		Attack:  joinAttack,
		Defense: joinDefense,
		Alive:   true,
		Color:   colorForSlot(slot),
	}
}

func colorForSlot(slot int) string {
	if slot >= 0 && slot < len(playerColors) {
		return playerColors[slot]
	}
	return fallbackColor
}

// gainXP 累加经验并在越过阈值时升级，余量保留。返回是否升级
// 阈值固定 100：一次越线只升一级（与击杀奖励 50 匹配，单次不会跨两级）
func (p *Player) gainXP(amount int) bool {
	p.XP += amount
	if p.XP < levelXPStep {
		return false
	}
	p.Level++
	p.XP -= levelXPStep
	p.MaxHP += 20
	p.MaxMP += 10
	p.Attack += 3
	p.Defense += 2
	// 升级完全回复
	p.HP = p.MaxHP
	p.MP = p.MaxMP
	return true
}

// snapshot 只读副本，供广播序列化
func (p *Player) snapshot() PlayerState {
	return PlayerState{
		ID:      string(p.ID),
		Name:    p.Name,
		X:       p.X,
		Y:       p.Y,
		HP:      p.HP,
		MaxHP:   p.MaxHP,
		MP:      p.MP,
		MaxMP:   p.MaxMP,
		Level:   p.Level,
		XP:      p.XP,
		Attack:  p.Attack,
		Defense: p.Defense,
		Alive:   p.Alive,
		Color:   p.Color,
	}
}
