package server

import (
	"math/rand"
	"sync"
	"time"
)

// roomCodeLen 房间码长度：6 位大写字母数字，便于口头/手工输入
const roomCodeLen = 6

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Registry 管理全部在线房间：code → Room，显式构造后传入网关，无包级单例
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	rng   *rand.Rand
}

// NewRegistry 构造空注册表
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Create 生成新房间码并安装房间，建房连接即房主
// 房间码冲突时重新抽取（理论上的碰撞不允许覆盖已有房间）
func (g *Registry) Create(host ConnID) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	code := g.drawCodeLocked()
	for _, taken := g.rooms[code]; taken; _, taken = g.rooms[code] {
		code = g.drawCodeLocked()
	}
	room := NewRoom(code, host, rand.New(rand.NewSource(g.rng.Int63())))
	g.rooms[code] = room
	return room
}

// Get 按房间码查找，未找到返回 (nil, false)
func (g *Registry) Get(code string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[code]
	return r, ok
}

// Destroy 移除房间（最后一名成员离开后由网关调用）
func (g *Registry) Destroy(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.rooms, code)
}

// Codes 当前所有房间码（监控用）
func (g *Registry) Codes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	codes := make([]string, 0, len(g.rooms))
	for code := range g.rooms {
		codes = append(codes, code)
	}
	return codes
}

func (g *Registry) drawCodeLocked() string {
	b := make([]byte, roomCodeLen)
	for i := range b {
		b[i] = codeAlphabet[g.rng.Intn(len(codeAlphabet))]
	}
	return string(b)
}
