package server

import (
	"encoding/json"
	"net/http"
)

// HandleAdminRooms 提供在线房间总览（排障用）
// GET /admin/rooms 返回每个房间的房间码、阶段与成员数
func (gw *Gateway) HandleAdminRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type roomInfo struct {
		Code    string `json:"code"`
		Phase   string `json:"phase"`
		Players int    `json:"players"`
		Host    string `json:"host"`
	}

	codes := gw.registry.Codes()
	rooms := make([]roomInfo, 0, len(codes))
	for _, code := range codes {
		room, ok := gw.registry.Get(code)
		if !ok {
			continue // 枚举与查询之间房间可能已销毁
		}
		st := room.Snapshot()
		rooms = append(rooms, roomInfo{
			Code:    st.RoomCode,
			Phase:   st.GameState,
			Players: len(st.Players),
			Host:    st.HostID,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"rooms": rooms})
}
