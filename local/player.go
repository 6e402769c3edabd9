package local

// 单机规则与 PvP 规则是两套独立数值，刻意不与 server 包统一
// （升级阈值随等级 ×1.5 增长、存在魔法/逃跑动作等均为单机特有）

const (
	startX = 2
	startY = 2

	baseMaxHP   = 100
	baseMaxMP   = 50
	baseAttack  = 15
	baseDefense = 5

	baseXPToNext = 100
)

// Item 拾取物模板。消耗品带 Effect/Value，装备带攻防加成
type Item struct {
	Name    string
	Kind    string // "consumable" / "weapon" / "armor"
	Effect  string // "heal" / "mana"（仅消耗品）
	Value   int
	Attack  int
	Defense int
}

// itemTemplates 道具格可拾取的固定模板池
var itemTemplates = []Item{
	{Name: "Health Potion", Kind: "consumable", Effect: "heal", Value: 30},
	{Name: "Mana Potion", Kind: "consumable", Effect: "mana", Value: 20},
	{Name: "Iron Sword", Kind: "weapon", Attack: 20},
	{Name: "Leather Armor", Kind: "armor", Defense: 10},
}

// Equipment 装备槽位（拾取仅入背包，穿戴留待后续版本）
type Equipment struct {
	Weapon    *Item
	Armor     *Item
	Accessory *Item
}

// Player 单机模式主角
type Player struct {
	X, Y      int
	HP, MaxHP int
	MP, MaxMP int
	Level     int
	XP        int
	XPToNext  int
	Attack    int
	Defense   int
	Inventory []Item
	Equipment Equipment
}

// NewPlayer 一级默认属性的主角
func NewPlayer() *Player {
	return &Player{
		X:        startX,
		Y:        startY,
		HP:       baseMaxHP,
		MaxHP:    baseMaxHP,
		MP:       baseMaxMP,
		MaxMP:    baseMaxMP,
		Level:    1,
		XP:       0,
		XPToNext: baseXPToNext,
		Attack:   baseAttack,
		Defense:  baseDefense,
	}
}

// GainXP 累加经验，越过阈值时升级。返回是否升级
// 阈值逐级 ×1.5（与 PvP 的固定 100 阈值不同）
func (p *Player) GainXP(amount int) bool {
	p.XP += amount
	if p.XP < p.XPToNext {
		return false
	}
	p.Level++
	p.XP -= p.XPToNext
	p.XPToNext = p.XPToNext * 3 / 2
	p.MaxHP += 20
	p.MaxMP += 10
	p.Attack += 3
	p.Defense += 2
	// 升级完全回复
	p.HP = p.MaxHP
	p.MP = p.MaxMP
	return true
}

// TakeDamage 承受伤害（减防御，保底 1），返回实际伤害
func (p *Player) TakeDamage(damage int) int {
	actual := max(1, damage-p.Defense)
	p.HP = max(0, p.HP-actual)
	return actual
}

// Heal 回血（封顶 MaxHP）
func (p *Player) Heal(amount int) {
	p.HP = min(p.MaxHP, p.HP+amount)
}

// RestoreMana 回蓝（封顶 MaxMP）
func (p *Player) RestoreMana(amount int) {
	p.MP = min(p.MaxMP, p.MP+amount)
}
