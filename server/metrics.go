package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// GatewayMetrics 记录网关运行期的关键指标（用于监控与调试）
type GatewayMetrics struct {
	Connections    int64 // 累计接入连接数
	Disconnections int64 // 累计断开数
	Commands       int64 // 已分发的入站命令数
	RoomsCreated   int64 // 累计建房数
	RoomsDestroyed int64 // 累计销毁房间数
	JoinErrors     int64 // 入房失败（不存在/满员）数
	Broadcasts     int64 // 已扇出的广播消息数（按消息计，不按连接计）
}

func (m *GatewayMetrics) IncConnections()    { atomic.AddInt64(&m.Connections, 1) }
func (m *GatewayMetrics) IncDisconnections() { atomic.AddInt64(&m.Disconnections, 1) }
func (m *GatewayMetrics) IncCommands()       { atomic.AddInt64(&m.Commands, 1) }
func (m *GatewayMetrics) IncRoomsCreated()   { atomic.AddInt64(&m.RoomsCreated, 1) }
func (m *GatewayMetrics) IncRoomsDestroyed() { atomic.AddInt64(&m.RoomsDestroyed, 1) }
func (m *GatewayMetrics) IncJoinErrors()     { atomic.AddInt64(&m.JoinErrors, 1) }
func (m *GatewayMetrics) IncBroadcasts()     { atomic.AddInt64(&m.Broadcasts, 1) }

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *GatewayMetrics) Snapshot() map[string]any {
	return map[string]any{
		"connections":     atomic.LoadInt64(&m.Connections),
		"disconnections":  atomic.LoadInt64(&m.Disconnections),
		"commands":        atomic.LoadInt64(&m.Commands),
		"rooms_created":   atomic.LoadInt64(&m.RoomsCreated),
		"rooms_destroyed": atomic.LoadInt64(&m.RoomsDestroyed),
		"join_errors":     atomic.LoadInt64(&m.JoinErrors),
		"broadcasts":      atomic.LoadInt64(&m.Broadcasts),
	}
}

// HandleMetrics 输出网关运行指标
// GET /metrics
func (gw *Gateway) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"rooms_live": len(gw.registry.Codes()),
		"metrics":    gw.metrics.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
