package server

import (
	"math/rand"
	"testing"
)

// openMap 全地板测试地图（仅保留边框墙），消除随机地形干扰
func openMap() [][]Tile {
	m := make([][]Tile, MapHeight)
	for y := 0; y < MapHeight; y++ {
		row := make([]Tile, MapWidth)
		for x := 0; x < MapWidth; x++ {
			if x == 0 || x == MapWidth-1 || y == 0 || y == MapHeight-1 {
				row[x] = TileWall
			}
		}
		m[y] = row
	}
	return m
}

func newTestRoom(t *testing.T, n int) (*Room, []ConnID) {
	t.Helper()
	ids := []ConnID{"c1", "c2", "c3", "c4"}[:n]
	r := NewRoom("ABC123", ids[0], rand.New(rand.NewSource(1)))
	r.mapGrid = openMap()
	names := []string{"P1", "P2", "P3", "P4"}
	for i, id := range ids {
		if _, ok := r.Join(id, names[i], nil); !ok {
			t.Fatalf("join %s failed", id)
		}
	}
	return r, ids
}

// seedForIntn 找一个首次 Intn(n) 恰为 want 的随机源（测试中固定伤害浮动）
func seedForIntn(t *testing.T, n, want int) *rand.Rand {
	t.Helper()
	for s := int64(0); s < 100000; s++ {
		if rand.New(rand.NewSource(s)).Intn(n) == want {
			return rand.New(rand.NewSource(s))
		}
	}
	t.Fatal("no seed found")
	return nil
}

func TestJoinAssignsSlotsAndColors(t *testing.T) {
	r, _ := newTestRoom(t, 4)

	wantPos := [][2]int{{2, 2}, {12, 2}, {2, 7}, {12, 7}}
	wantColor := []string{"#27ae60", "#e74c3c", "#3498db", "#f39c12"}
	st := r.Snapshot()
	for i, p := range st.Players {
		if p.X != wantPos[i][0] || p.Y != wantPos[i][1] {
			t.Errorf("player %d spawn = (%d,%d), want (%d,%d)", i, p.X, p.Y, wantPos[i][0], wantPos[i][1])
		}
		if p.Color != wantColor[i] {
			t.Errorf("player %d color = %s, want %s", i, p.Color, wantColor[i])
		}
		if p.HP != 100 || p.MP != 50 || p.Attack != 15 || p.Defense != 5 || p.Level != 1 {
			t.Errorf("player %d has wrong join defaults: %+v", i, p)
		}
	}

	if _, ok := r.Join("c5", "P5", nil); ok {
		t.Error("fifth join should fail (capacity 4)")
	}
}

func TestMoveValidation(t *testing.T) {
	r, ids := newTestRoom(t, 2)

	// 撞边框墙：P1 在 (2,2)，两步到 (0,2) 被墙挡
	if _, _, ok := r.Move(ids[0], -1, 0); !ok {
		t.Fatal("move to (1,2) should succeed")
	}
	if _, _, ok := r.Move(ids[0], -1, 0); ok {
		t.Error("move into border wall should fail")
	}

	// 内部墙
	r.mapGrid[2][2] = TileWall
	if _, _, ok := r.Move(ids[0], 1, 0); ok {
		t.Error("move into interior wall should fail")
	}

	// 活人占位
	r.players[ids[1]].X, r.players[ids[1]].Y = 1, 3
	if _, _, ok := r.Move(ids[0], 0, 1); ok {
		t.Error("move onto living player should fail")
	}

	// 尸体不挡路
	r.players[ids[1]].Alive = false
	if _, _, ok := r.Move(ids[0], 0, 1); !ok {
		t.Error("move onto dead player's tile should succeed")
	}

	// 死人不能动
	if _, _, ok := r.Move(ids[1], 0, 1); ok {
		t.Error("dead player should not move")
	}

	// 不在房
	if _, _, ok := r.Move("ghost", 0, 1); ok {
		t.Error("unknown player should not move")
	}
}

func TestNoTwoLivingPlayersShareTile(t *testing.T) {
	r, ids := newTestRoom(t, 4)
	rng := rand.New(rand.NewSource(7))
	steps := [][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	for i := 0; i < 500; i++ {
		id := ids[rng.Intn(len(ids))]
		d := steps[rng.Intn(len(steps))]
		r.Move(id, d[0], d[1])

		seen := map[[2]int]bool{}
		for _, p := range r.players {
			if !p.Alive {
				continue
			}
			pos := [2]int{p.X, p.Y}
			if seen[pos] {
				t.Fatalf("two living players share tile %v after %d moves", pos, i+1)
			}
			seen[pos] = true
		}
	}
}

func TestItemPickupHealsOnce(t *testing.T) {
	r, ids := newTestRoom(t, 1)
	r.players[ids[0]].HP = 50
	r.mapGrid[2][3] = TileItem

	state, item, ok := r.Move(ids[0], 1, 0)
	if !ok {
		t.Fatal("move onto item should succeed")
	}
	if item == nil || item.Type != "item_found" {
		t.Fatalf("expected item result, got %+v", item)
	}
	heal := r.players[ids[0]].HP - 50
	if heal < 20 || heal >= 40 {
		t.Errorf("heal amount = %d, want in [20,40)", heal)
	}
	if state.Map[2][3] != TileFloor {
		t.Error("item tile should become floor after pickup")
	}

	// 回头再踩不再回血
	r.Move(ids[0], -1, 0)
	hp := r.players[ids[0]].HP
	if _, item, _ := r.Move(ids[0], 1, 0); item != nil {
		t.Error("re-visiting consumed tile should not yield an item")
	}
	if r.players[ids[0]].HP != hp {
		t.Error("re-visiting consumed tile should not heal")
	}
}

func TestItemHealCapsAtMaxHP(t *testing.T) {
	r, ids := newTestRoom(t, 1)
	r.players[ids[0]].HP = 95
	r.mapGrid[2][3] = TileItem
	r.Move(ids[0], 1, 0)
	if hp := r.players[ids[0]].HP; hp != 100 {
		t.Errorf("hp = %d, want capped at 100", hp)
	}
}

func TestPvPKnownDamage(t *testing.T) {
	// 场景：attack=15 defense=5，浮动强制为 0 → 伤害 max(1,15-5)=10
	r, ids := newTestRoom(t, 2)
	r.players[ids[1]].X, r.players[ids[1]].Y = 3, 2 // 与 (2,2) 相邻
	r.rng = seedForIntn(t, pvpDamageRange, 0)

	out := r.AttackPlayer(ids[0], ids[1])
	if out == nil || out.ErrMessage != "" {
		t.Fatalf("expected successful attack, got %+v", out)
	}
	if out.Damage != 10 {
		t.Errorf("damage = %d, want 10", out.Damage)
	}
	if out.TargetHP != 90 {
		t.Errorf("target hp = %d, want 90", out.TargetHP)
	}
}

func TestPvPDamageFloor(t *testing.T) {
	r, ids := newTestRoom(t, 2)
	r.players[ids[1]].X, r.players[ids[1]].Y = 3, 2
	r.players[ids[1]].Defense = 1000

	out := r.AttackPlayer(ids[0], ids[1])
	if out == nil || out.Damage != 1 {
		t.Fatalf("damage floor violated: %+v", out)
	}
}

func TestPvPTooFar(t *testing.T) {
	r, ids := newTestRoom(t, 2) // 出生点 (2,2) 与 (12,2)
	out := r.AttackPlayer(ids[0], ids[1])
	if out == nil || out.ErrMessage == "" {
		t.Fatalf("expected too-far error, got %+v", out)
	}
	if r.players[ids[1]].HP != 100 {
		t.Error("too-far attack must not change state")
	}
}

func TestPvPAbsentOrDeadIsNoop(t *testing.T) {
	r, ids := newTestRoom(t, 2)
	r.players[ids[1]].X, r.players[ids[1]].Y = 3, 2

	if out := r.AttackPlayer(ids[0], "ghost"); out != nil {
		t.Error("attack on absent target should return nil")
	}
	r.players[ids[1]].Alive = false
	if out := r.AttackPlayer(ids[0], ids[1]); out != nil {
		t.Error("attack on dead target should return nil")
	}
	if out := r.AttackPlayer(ids[1], ids[0]); out != nil {
		t.Error("dead attacker should return nil")
	}
}

func TestKillXPAndLevelUpCarry(t *testing.T) {
	r, ids := newTestRoom(t, 2)
	r.players[ids[1]].X, r.players[ids[1]].Y = 3, 2
	r.players[ids[1]].HP = 1
	r.players[ids[0]].XP = 60 // 60+50=110 → 升级，余 10

	out := r.AttackPlayer(ids[0], ids[1])
	if out == nil || !out.Killed {
		t.Fatalf("expected kill, got %+v", out)
	}
	if !out.LevelUp {
		t.Error("expected level-up")
	}
	a := r.players[ids[0]]
	if a.Level != 2 {
		t.Errorf("level = %d, want 2", a.Level)
	}
	if a.XP != 10 {
		t.Errorf("xp = %d, want leftover 10", a.XP)
	}
	if a.HP != a.MaxHP || a.MP != a.MaxMP {
		t.Error("level-up should fully restore hp/mp")
	}
	if a.MaxHP != 120 || a.MaxMP != 60 || a.Attack != 18 || a.Defense != 7 {
		t.Errorf("level-up stat gains wrong: %+v", a)
	}

	if r.players[ids[1]].Alive {
		t.Error("target must be dead")
	}
	// 死者不会复活（除重开外）
	if out := r.AttackPlayer(ids[0], ids[1]); out != nil {
		t.Error("dead target stays dead")
	}
}

func TestKillBelowThresholdNoLevelUp(t *testing.T) {
	r, ids := newTestRoom(t, 2)
	r.players[ids[1]].X, r.players[ids[1]].Y = 3, 2
	r.players[ids[1]].HP = 1

	out := r.AttackPlayer(ids[0], ids[1])
	if out == nil || !out.Killed {
		t.Fatalf("expected kill, got %+v", out)
	}
	if out.LevelUp {
		t.Error("50 xp must not level up from 0")
	}
	if a := r.players[ids[0]]; a.XP != 50 || a.Level != 1 {
		t.Errorf("xp/level = %d/%d, want 50/1", a.XP, a.Level)
	}
}

func TestGameOverFinishesPlayingRoom(t *testing.T) {
	r, ids := newTestRoom(t, 2)
	if _, ok := r.Start(ids[0]); !ok {
		t.Fatal("host start failed")
	}
	r.players[ids[1]].X, r.players[ids[1]].Y = 3, 2
	r.players[ids[1]].HP = 1

	out := r.AttackPlayer(ids[0], ids[1])
	if out == nil || !out.GameOver {
		t.Fatalf("expected game over, got %+v", out)
	}
	if out.Winner != "P1" {
		t.Errorf("winner = %q, want P1", out.Winner)
	}
	if st := r.Snapshot(); st.GameState != string(PhaseFinished) {
		t.Errorf("phase = %s, want finished", st.GameState)
	}
}

func TestStartIsHostOnly(t *testing.T) {
	r, ids := newTestRoom(t, 2)
	if _, ok := r.Start(ids[1]); ok {
		t.Error("non-host start should be refused")
	}
	if st := r.Snapshot(); st.GameState != string(PhaseWaiting) {
		t.Errorf("phase = %s, want waiting", st.GameState)
	}
	if _, ok := r.Start(ids[0]); !ok {
		t.Error("host start should succeed")
	}
	if st := r.Snapshot(); st.GameState != string(PhasePlaying) {
		t.Errorf("phase = %s, want playing", st.GameState)
	}
}

func TestRestartResetsEverything(t *testing.T) {
	r, ids := newTestRoom(t, 2)
	r.Start(ids[0])
	// 打乱状态：升级、击杀
	r.players[ids[0]].Level = 3
	r.players[ids[0]].XP = 40
	r.players[ids[1]].HP = 0
	r.players[ids[1]].Alive = false

	if _, ok := r.Restart(ids[1]); ok {
		t.Error("non-host restart should be refused")
	}
	state, ok := r.Restart(ids[0])
	if !ok {
		t.Fatal("host restart failed")
	}
	if state.GameState != string(PhaseWaiting) {
		t.Errorf("phase = %s, want waiting", state.GameState)
	}

	wantPos := [][2]int{{1, 1}, {13, 8}}
	for i, p := range state.Players {
		if p.Level != 1 || p.XP != 0 || !p.Alive {
			t.Errorf("player %d not reset: %+v", i, p)
		}
		if p.HP != 100 || p.MaxHP != 100 || p.MP != 50 || p.MaxMP != 50 {
			t.Errorf("player %d hp/mp not restored: %+v", i, p)
		}
		if p.Attack != restartAttack || p.Defense != restartDefense {
			t.Errorf("player %d restart stats = %d/%d, want %d/%d",
				i, p.Attack, p.Defense, restartAttack, restartDefense)
		}
		if p.X != wantPos[i][0] || p.Y != wantPos[i][1] {
			t.Errorf("player %d restart spawn = (%d,%d), want %v", i, p.X, p.Y, wantPos[i])
		}
		if p.Name == "" || p.ID == "" {
			t.Errorf("player %d identity lost on restart", i)
		}
	}

	// 地图重新生成：边框墙不变式必须保持
	for x := 0; x < MapWidth; x++ {
		if state.Map[0][x] != TileWall || state.Map[MapHeight-1][x] != TileWall {
			t.Fatal("regenerated map lost border walls")
		}
	}
}

func TestRemoveAndHostTransfer(t *testing.T) {
	r, ids := newTestRoom(t, 3)

	empty, newHost, hostChanged, _ := r.Remove(ids[0])
	if empty {
		t.Error("room with 2 remaining players is not empty")
	}
	if !hostChanged || newHost != ids[1] {
		t.Errorf("host should transfer to earliest remaining joiner, got %q (changed=%v)", newHost, hostChanged)
	}

	if empty, _, _, _ := r.Remove(ids[1]); empty {
		t.Error("room with 1 remaining player is not empty")
	}
	if empty, _, _, _ := r.Remove(ids[2]); !empty {
		t.Error("room should be empty after last player leaves")
	}
}

func TestNearbyPlayers(t *testing.T) {
	r, ids := newTestRoom(t, 3)
	// P1 (2,2)；P2 相邻 (3,2)；P3 远处
	r.players[ids[1]].X, r.players[ids[1]].Y = 3, 2

	nearby := r.Nearby(ids[0])
	if len(nearby) != 1 || nearby[0].ID != string(ids[1]) {
		t.Fatalf("nearby = %+v, want just P2", nearby)
	}

	// 相邻但已死的不算
	r.players[ids[1]].Alive = false
	if nearby := r.Nearby(ids[0]); len(nearby) != 0 {
		t.Errorf("dead neighbors must be excluded, got %+v", nearby)
	}

	if nearby := r.Nearby("ghost"); nearby != nil {
		t.Error("unknown player has no neighbors")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	r, _ := newTestRoom(t, 1)
	st := r.Snapshot()
	st.Map[2][2] = TileWall
	if r.mapGrid[2][2] == TileWall {
		t.Error("mutating snapshot map must not affect room state")
	}
}

func TestRejoinSameIDKeepsRosterUnique(t *testing.T) {
	r, ids := newTestRoom(t, 2)

	// 同一标识重复入房：按原槽位重置，名册不得重复登记
	r.players[ids[0]].XP = 60
	r.players[ids[0]].HP = 30
	st, ok := r.Join(ids[0], "P1", nil)
	if !ok {
		t.Fatal("rejoin with same id must succeed")
	}
	if len(st.Players) != 2 {
		t.Fatalf("roster should stay at 2 players, got %d", len(st.Players))
	}
	p := r.players[ids[0]]
	if p.XP != 0 || p.HP != baseMaxHP {
		t.Errorf("rejoin should reset stats, got xp=%d hp=%d", p.XP, p.HP)
	}
	if p.X != spawnSlots[0][0] || p.Y != spawnSlots[0][1] || p.Color != playerColors[0] {
		t.Errorf("rejoin should keep original slot, got (%d,%d) %s", p.X, p.Y, p.Color)
	}

	// 重复登记会让后续移除遍历到悬空标识；这里必须干净地只剩一人
	empty, _, hostChanged, st := r.Remove(ids[0])
	if empty || !hostChanged {
		t.Fatalf("removing host of a 2-player room: empty=%v hostChanged=%v", empty, hostChanged)
	}
	if len(st.Players) != 1 || st.Players[0].ID != string(ids[1]) {
		t.Fatalf("expected only %s to remain, got %+v", ids[1], st.Players)
	}
}
