package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"gridrpg/local"
)

// runLocal 单机模式主循环：渲染 → 等按键 → 结算
func runLocal(screen tcell.Screen) {
	g := local.NewGame(nil)

	for {
		drawLocal(screen, g)

		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
				return
			}
			if g.InCombat() {
				handleCombatKey(g, ev)
				continue
			}
			if dx, dy, ok := moveKey(ev); ok {
				g.Move(dx, dy)
			}
		}
	}
}

// moveKey 方向键/wasd → 单步位移
func moveKey(ev *tcell.EventKey) (dx, dy int, ok bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return 0, -1, true
	case tcell.KeyDown:
		return 0, 1, true
	case tcell.KeyLeft:
		return -1, 0, true
	case tcell.KeyRight:
		return 1, 0, true
	}
	switch ev.Rune() {
	case 'w':
		return 0, -1, true
	case 's':
		return 0, 1, true
	case 'a':
		return -1, 0, true
	case 'd':
		return 1, 0, true
	}
	return 0, 0, false
}

// handleCombatKey 遭遇战按键：a 普攻 / d 防御 / m 魔法 / r 逃跑
func handleCombatKey(g *local.Game, ev *tcell.EventKey) {
	var action local.Action
	switch ev.Rune() {
	case 'a':
		action = local.ActionAttack
	case 'd':
		action = local.ActionDefend
	case 'm':
		action = local.ActionMagic
	case 'r':
		action = local.ActionRun
	default:
		return
	}
	if g.Encounter != nil {
		g.Encounter.Act(action)
	}
}

func drawLocal(screen tcell.Screen, g *local.Game) {
	screen.Clear()

	wallStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	itemStyle := tcell.StyleDefault.Foreground(tcell.ColorGold)
	for y, row := range g.Map {
		for x, tile := range row {
			style := wallStyle
			if tile == local.TileItem {
				style = itemStyle
			}
			screen.SetContent(x, y, tileRune(int(tile)), nil, style)
		}
	}
	screen.SetContent(g.Player.X, g.Player.Y, glyphPlayer, nil,
		tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true))

	p := g.Player
	status := fmt.Sprintf("Lv%d  HP %d/%d  MP %d/%d  XP %d/%d  ATK %d  DEF %d  Items %d",
		p.Level, p.HP, p.MaxHP, p.MP, p.MaxMP, p.XP, p.XPToNext, p.Attack, p.Defense, len(p.Inventory))
	drawText(screen, 0, local.MapHeight+1, status, tcell.StyleDefault.Foreground(tcell.ColorWhite))

	if g.InCombat() {
		e := g.Encounter.Enemy
		combat := fmt.Sprintf("[COMBAT] %s  HP %d/%d   (a)ttack (d)efend (m)agic (r)un",
			e.Name, e.HP, e.MaxHP)
		drawText(screen, 0, local.MapHeight+2, combat,
			tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
	} else {
		drawText(screen, 0, local.MapHeight+2, "arrows/wasd: move   q: quit",
			tcell.StyleDefault.Foreground(tcell.ColorDarkGray))
	}

	drawMessages(screen, 0, local.MapHeight+4, 5, g.Messages)
	screen.Show()
}
