package local

import "fmt"

// Action 玩家在遭遇战中的行动
type Action string

const (
	ActionAttack Action = "attack"
	ActionDefend Action = "defend"
	ActionMagic  Action = "magic"
	ActionRun    Action = "run"
)

const (
	magicMPCost   = 10
	runEscapeProb = 0.7

	// 伤害浮动范围：普攻 attack+[0,10)，魔法 1.5*attack+[0,15)，敌方 attack+[0,5)
	attackRange      = 10
	magicRange       = 15
	enemyAttackRange = 5
)

// Encounter 一场回合制遭遇战：玩家行动 → 敌人反击
type Encounter struct {
	game  *Game
	Enemy *Enemy
}

// Act 执行一次玩家行动并结算敌人回合
// 返回本回合产生的叙事消息（同时追加进游戏日志）
func (e *Encounter) Act(action Action) []string {
	g := e.game
	p := g.Player
	before := len(g.Messages)

	switch action {
	case ActionAttack:
		damage := p.Attack + g.rng.Intn(attackRange)
		actual := e.Enemy.TakeDamage(damage)
		g.addMessage(fmt.Sprintf("You attacked the %s for %d damage!", e.Enemy.Name, actual))

	case ActionDefend:
		// 仅叙事，无减伤效果
		g.addMessage("You brace yourself against the next attack!")

	case ActionMagic:
		if p.MP < magicMPCost {
			g.addMessage("Not enough MP!")
			return g.Messages[before:] // 施法失败不消耗敌人回合
		}
		damage := p.Attack*3/2 + g.rng.Intn(magicRange)
		actual := e.Enemy.TakeDamage(damage)
		p.MP -= magicMPCost
		g.addMessage(fmt.Sprintf("You cast a spell for %d damage!", actual))

	case ActionRun:
		if g.rng.Float64() < runEscapeProb {
			g.addMessage("You fled from combat!")
			g.Encounter = nil
			return g.Messages[before:]
		}
		g.addMessage("You couldn't escape!")
	}

	if !e.Enemy.IsAlive() {
		g.addMessage(fmt.Sprintf("You defeated the %s!", e.Enemy.Name))
		g.addMessage(fmt.Sprintf("You gained %d XP!", e.Enemy.XPReward))
		if p.GainXP(e.Enemy.XPReward) {
			g.addMessage(fmt.Sprintf("Congratulations! You reached level %d!", p.Level))
		}
		g.Encounter = nil
		return g.Messages[before:]
	}

	e.enemyTurn()
	return g.Messages[before:]
}

// enemyTurn 敌人反击；主角血量归零则整局重置
func (e *Encounter) enemyTurn() {
	g := e.game
	damage := e.Enemy.Attack + g.rng.Intn(enemyAttackRange)
	actual := g.Player.TakeDamage(damage)
	g.addMessage(fmt.Sprintf("The %s attacked you for %d damage!", e.Enemy.Name, actual))

	if g.Player.HP <= 0 {
		g.addMessage("You were defeated! Game Over!")
		g.Reset()
	}
}
