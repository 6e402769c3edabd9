package server

import "math/rand"

// 地图尺寸固定，与客户端渲染网格保持一致
const (
	MapWidth  = 15
	MapHeight = 10
)

// Tile 格子类型。数值直接进入 JSON 快照，0/1/3 是既有线上格式，不可改动
type Tile int

const (
	TileFloor Tile = 0
	TileWall  Tile = 1
	TileItem  Tile = 3
)

// 随机生成概率：内部格子先判墙，再判道具
const (
	wallProb = 0.10
	itemProb = 0.05
)

// GenerateMap 生成一张随机地图：四周封墙，内部随机撒墙与道具
// 不保证连通性——墙簇可能把玩家困住，这是已知的设计取舍
func GenerateMap(rng *rand.Rand) [][]Tile {
	m := make([][]Tile, MapHeight)
	for y := 0; y < MapHeight; y++ {
		row := make([]Tile, MapWidth)
		for x := 0; x < MapWidth; x++ {
			switch {
			case x == 0 || x == MapWidth-1 || y == 0 || y == MapHeight-1:
				row[x] = TileWall
			case rng.Float64() < wallProb:
				row[x] = TileWall
			case rng.Float64() < itemProb:
				row[x] = TileItem
			default:
				row[x] = TileFloor
			}
		}
		m[y] = row
	}
	return m
}
