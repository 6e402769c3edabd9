package main

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"

	"gridrpg/server"
)

// serverEvent 服务端出站事件的并集信封（按 type 区分有效字段）
type serverEvent struct {
	Type       string               `json:"type"`
	RoomCode   string               `json:"roomCode"`
	PlayerName string               `json:"playerName"`
	YourID     string               `json:"yourId"`
	Message    string               `json:"message"`
	Winner     string               `json:"winner"`
	NewHostID  string               `json:"newHostId"`
	Result     string               `json:"result"`
	Attacker   string               `json:"attacker"`
	Target     string               `json:"target"`
	Damage     int                  `json:"damage"`
	Killed     bool                 `json:"killed"`
	LevelUp    bool                 `json:"levelUp"`
	Players    []server.PlayerState `json:"players"`
	GameState  *server.RoomState    `json:"gameState"`
	ItemResult *server.ItemResult   `json:"itemResult"`
}

// onlineClient 联机模式客户端状态：只保存最近一次权威快照，整体替换
type onlineClient struct {
	mu       sync.Mutex
	conn     *websocket.Conn
	writeMu  sync.Mutex // reader 协程与 UI 协程都会发命令
	screen   tcell.Screen
	yourID   string
	roomCode string
	state    *server.RoomState
	messages []string
	readErr  error
	closed   bool
}

// runOnline 联机模式：连接网关，建房或入房，之后只发送意图、渲染快照
func runOnline(screen tcell.Screen, serverURL, roomCode, name string) error {
	conn, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", serverURL, err)
	}
	defer conn.Close()

	c := &onlineClient{conn: conn, screen: screen, roomCode: roomCode}

	if roomCode == "" {
		c.send(server.CommandMessage{Type: server.CmdCreateRoom, Name: name})
	} else {
		c.send(server.CommandMessage{Type: server.CmdJoinRoom, RoomCode: roomCode, Name: name})
	}

	go c.readLoop()

	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventInterrupt:
			c.mu.Lock()
			err, done := c.readErr, c.closed
			c.draw()
			c.mu.Unlock()
			if done {
				return err
			}
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
				return nil
			}
			c.handleKey(ev)
		}
	}
}

// handleKey 按键 → 意图命令。权威结算全部在服务端
func (c *onlineClient) handleKey(ev *tcell.EventKey) {
	c.mu.Lock()
	code := c.roomCode
	c.mu.Unlock()
	if code == "" {
		return // 尚未入房
	}

	// 联机模式下字母键留给命令，移动仅用方向键
	var dx, dy int
	switch ev.Key() {
	case tcell.KeyUp:
		dy = -1
	case tcell.KeyDown:
		dy = 1
	case tcell.KeyLeft:
		dx = -1
	case tcell.KeyRight:
		dx = 1
	}
	if dx != 0 || dy != 0 {
		c.send(server.CommandMessage{Type: server.CmdPlayerMove, RoomCode: code, Dx: dx, Dy: dy})
		return
	}
	switch ev.Rune() {
	case 'a': // 先查相邻目标，收到应答后自动出手
		c.send(server.CommandMessage{Type: server.CmdGetNearbyPlayers, RoomCode: code})
	case 's':
		c.send(server.CommandMessage{Type: server.CmdStartGame, RoomCode: code})
	case 'r':
		c.send(server.CommandMessage{Type: server.CmdRestartGame, RoomCode: code})
	}
}

// readLoop 读取服务端事件并更新本地视图，读失败即会话结束
func (c *onlineClient) readLoop() {
	for {
		var ev serverEvent
		if err := c.conn.ReadJSON(&ev); err != nil {
			c.mu.Lock()
			c.readErr = err
			c.closed = true
			c.mu.Unlock()
			_ = c.screen.PostEvent(tcell.NewEventInterrupt(nil))
			return
		}
		c.apply(ev)
		_ = c.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// apply 按事件类型更新视图：快照整体替换，叙事消息进日志
func (c *onlineClient) apply(ev serverEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ev.GameState != nil {
		c.state = ev.GameState
		c.roomCode = ev.GameState.RoomCode
	}
	if ev.YourID != "" {
		c.yourID = ev.YourID
	}

	switch ev.Type {
	case server.EvtRoomCreated:
		c.addMessage(fmt.Sprintf("Room created: %s (share this code)", ev.RoomCode))
	case server.EvtPlayerJoined:
		c.addMessage(fmt.Sprintf("%s joined the room", ev.PlayerName))
	case server.EvtJoinError:
		c.addMessage("Join failed: " + ev.Message)
		c.closed = true
		c.readErr = fmt.Errorf("join failed: %s", ev.Message)
	case server.EvtGameStarted:
		c.addMessage("Game started!")
	case server.EvtGameRestarted:
		c.addMessage("Game restarted!")
	case server.EvtGameUpdate:
		if ev.ItemResult != nil {
			c.addMessage(ev.ItemResult.Message)
		}
	case server.EvtCombatResult:
		if ev.Result == "combat_error" {
			c.addMessage(ev.Message)
			break
		}
		c.addMessage(fmt.Sprintf("%s hit %s for %d damage", ev.Attacker, ev.Target, ev.Damage))
		if ev.Killed {
			c.addMessage(fmt.Sprintf("%s was slain!", ev.Target))
		}
		if ev.LevelUp {
			c.addMessage(fmt.Sprintf("%s leveled up!", ev.Attacker))
		}
	case server.EvtGameOver:
		c.addMessage("Game over! Winner: " + ev.Winner)
	case server.EvtPlayerLeft:
		c.addMessage("A player left the room")
	case server.EvtNewHost:
		c.addMessage("Host changed")
	case server.EvtNearbyPlayers:
		// 自动攻击最近应答中的第一个相邻目标
		if len(ev.Players) == 0 {
			c.addMessage("No one nearby to attack")
			break
		}
		target := ev.Players[0]
		c.send(server.CommandMessage{
			Type:     server.CmdPvPAttack,
			RoomCode: c.roomCode,
			TargetID: target.ID,
		})
	}
}

func (c *onlineClient) addMessage(msg string) {
	c.messages = append(c.messages, msg)
}

func (c *onlineClient) send(cmd server.CommandMessage) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.WriteJSON(cmd)
}

// draw 渲染最近一次快照；调用方持有 c.mu
func (c *onlineClient) draw() {
	s := c.screen
	s.Clear()

	if c.state == nil {
		drawText(s, 0, 0, "Connecting...", tcell.StyleDefault)
		s.Show()
		return
	}

	wallStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	itemStyle := tcell.StyleDefault.Foreground(tcell.ColorGold)
	for y, row := range c.state.Map {
		for x, tile := range row {
			style := wallStyle
			if tile == server.TileItem {
				style = itemStyle
			}
			s.SetContent(x, y, tileRune(int(tile)), nil, style)
		}
	}

	var me *server.PlayerState
	for i := range c.state.Players {
		p := &c.state.Players[i]
		glyph := glyphPlayer
		if !p.Alive {
			glyph = glyphCorpse
		}
		style := tcell.StyleDefault.Foreground(tcell.GetColor(p.Color))
		if p.ID == c.yourID {
			style = style.Bold(true)
			me = p
		}
		s.SetContent(p.X, p.Y, glyph, nil, style)
	}

	mapH := len(c.state.Map)
	header := fmt.Sprintf("Room %s  [%s]  players %d/4",
		c.state.RoomCode, c.state.GameState, len(c.state.Players))
	drawText(s, 0, mapH+1, header, tcell.StyleDefault.Foreground(tcell.ColorWhite))

	if me != nil {
		status := fmt.Sprintf("Lv%d  HP %d/%d  MP %d/%d  XP %d  ATK %d  DEF %d",
			me.Level, me.HP, me.MaxHP, me.MP, me.MaxMP, me.XP, me.Attack, me.Defense)
		drawText(s, 0, mapH+2, status, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	}
	drawText(s, 0, mapH+3, "arrows: move   a: attack nearby   s: start (host)   r: restart (host)   q: quit",
		tcell.StyleDefault.Foreground(tcell.ColorDarkGray))

	drawMessages(s, 0, mapH+5, 6, c.messages)
	s.Show()
}
