package local

import (
	"fmt"
	"math/rand"
	"time"
)

// 单机地图与服务端同构：四周封墙、内部随机撒墙与道具
// 两侧各自实现生成逻辑，数值独立维护
const (
	MapWidth  = 15
	MapHeight = 10
)

// Tile 格子类型，数值与服务端线上格式一致（0/1/3）
type Tile int

const (
	TileFloor Tile = 0
	TileWall  Tile = 1
	TileItem  Tile = 3
)

const (
	wallProb = 0.10
	itemProb = 0.05

	// encounterProb 踩上普通地板触发遭遇战的概率
	encounterProb = 0.10
)

// Game 单机模式引擎：主角、地图、消息日志与进行中的遭遇战
// 所有规则在本地结算，无网络参与
type Game struct {
	rng *rand.Rand

	Player   *Player
	Map      [][]Tile
	Messages []string

	Encounter *Encounter // nil 表示不在战斗中
}

// NewGame 开新档。rng 为 nil 时自动播种
func NewGame(rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &Game{rng: rng, Player: NewPlayer()}
	g.Map = g.generateMap()
	g.addMessage("Welcome to the dungeon!")
	return g
}

// Reset 整局重置（主角阵亡后调用）
func (g *Game) Reset() {
	g.Player = NewPlayer()
	g.Map = g.generateMap()
	g.Encounter = nil
	g.addMessage("Game restarted!")
}

// InCombat 是否处于遭遇战
func (g *Game) InCombat() bool {
	return g.Encounter != nil
}

// Move 单步移动。战斗中或撞墙/越界不移动
// 踩道具格拾取道具；踩普通地板有概率触发遭遇战
func (g *Game) Move(dx, dy int) bool {
	if g.InCombat() {
		return false
	}
	p := g.Player
	nx, ny := p.X+dx, p.Y+dy
	if nx < 0 || nx >= MapWidth || ny < 0 || ny >= MapHeight {
		return false
	}
	tile := g.Map[ny][nx]
	if tile == TileWall {
		return false
	}
	p.X, p.Y = nx, ny

	if tile == TileFloor && g.rng.Float64() < encounterProb {
		g.startEncounter()
	}
	if tile == TileItem {
		g.findItem()
		g.Map[ny][nx] = TileFloor
	}
	return true
}

// findItem 从固定模板池随机拾取一件进背包
func (g *Game) findItem() {
	item := itemTemplates[g.rng.Intn(len(itemTemplates))]
	g.Player.Inventory = append(g.Player.Inventory, item)
	g.addMessage(fmt.Sprintf("You found: %s!", item.Name))
}

// startEncounter 随机抽取敌人开战；巨龙 5 级起解锁
func (g *Game) startEncounter() {
	pool := []EnemyKind{Goblin, Orc, Skeleton}
	if g.Player.Level >= dragonMinLevel {
		pool = append(pool, Dragon)
	}
	kind := pool[g.rng.Intn(len(pool))]
	g.Encounter = &Encounter{game: g, Enemy: NewEnemy(kind)}
	g.addMessage(fmt.Sprintf("A %s appeared!", g.Encounter.Enemy.Name))
}

func (g *Game) addMessage(msg string) {
	g.Messages = append(g.Messages, msg)
}

func (g *Game) generateMap() [][]Tile {
	m := make([][]Tile, MapHeight)
	for y := 0; y < MapHeight; y++ {
		row := make([]Tile, MapWidth)
		for x := 0; x < MapWidth; x++ {
			switch {
			case x == 0 || x == MapWidth-1 || y == 0 || y == MapHeight-1:
				row[x] = TileWall
			case g.rng.Float64() < wallProb:
				row[x] = TileWall
			case g.rng.Float64() < itemProb:
				row[x] = TileItem
			default:
				row[x] = TileFloor
			}
		}
		m[y] = row
	}
	return m
}
