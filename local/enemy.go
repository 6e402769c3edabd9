package local

// EnemyKind 遭遇敌人种类
type EnemyKind string

const (
	Goblin   EnemyKind = "goblin"
	Orc      EnemyKind = "orc"
	Skeleton EnemyKind = "skeleton"
	Dragon   EnemyKind = "dragon" // 仅 5 级后进入遭遇池
)

// dragonMinLevel 巨龙进入遭遇池的主角等级门槛
const dragonMinLevel = 5

type enemyTemplate struct {
	name     string
	hp       int
	attack   int
	defense  int
	xpReward int
}

var enemyTemplates = map[EnemyKind]enemyTemplate{
	Goblin:   {name: "Goblin", hp: 30, attack: 8, defense: 2, xpReward: 15},
	Orc:      {name: "Orc", hp: 50, attack: 12, defense: 4, xpReward: 25},
	Skeleton: {name: "Skeleton", hp: 40, attack: 10, defense: 3, xpReward: 20},
	Dragon:   {name: "Dragon", hp: 100, attack: 20, defense: 8, xpReward: 50},
}

// Enemy 一次遭遇战中的敌人
type Enemy struct {
	Name     string
	HP       int
	MaxHP    int
	Attack   int
	Defense  int
	XPReward int
}

// NewEnemy 按种类实例化敌人；未知种类回退为哥布林
func NewEnemy(kind EnemyKind) *Enemy {
	t, ok := enemyTemplates[kind]
	if !ok {
		t = enemyTemplates[Goblin]
	}
	return &Enemy{
		Name:     t.name,
		HP:       t.hp,
		MaxHP:    t.hp,
		Attack:   t.attack,
		Defense:  t.defense,
		XPReward: t.xpReward,
	}
}

// TakeDamage 承受伤害（减防御，保底 1），返回实际伤害
func (e *Enemy) TakeDamage(damage int) int {
	actual := max(1, damage-e.Defense)
	e.HP = max(0, e.HP-actual)
	return actual
}

// IsAlive 是否存活
func (e *Enemy) IsAlive() bool {
	return e.HP > 0
}
