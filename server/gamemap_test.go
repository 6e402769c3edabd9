package server

import (
	"math/rand"
	"testing"
)

func TestGenerateMapShape(t *testing.T) {
	m := GenerateMap(rand.New(rand.NewSource(42)))

	if len(m) != MapHeight {
		t.Fatalf("height = %d, want %d", len(m), MapHeight)
	}
	for y, row := range m {
		if len(row) != MapWidth {
			t.Fatalf("row %d width = %d, want %d", y, len(row), MapWidth)
		}
		for x, tile := range row {
			onBorder := x == 0 || x == MapWidth-1 || y == 0 || y == MapHeight-1
			if onBorder && tile != TileWall {
				t.Errorf("border cell (%d,%d) = %d, want wall", x, y, tile)
			}
			if tile != TileFloor && tile != TileWall && tile != TileItem {
				t.Errorf("cell (%d,%d) has unknown tile kind %d", x, y, tile)
			}
		}
	}
}

func TestGenerateMapVaries(t *testing.T) {
	a := GenerateMap(rand.New(rand.NewSource(1)))
	b := GenerateMap(rand.New(rand.NewSource(2)))
	same := true
	for y := range a {
		for x := range a[y] {
			if a[y][x] != b[y][x] {
				same = false
			}
		}
	}
	if same {
		t.Error("different seeds should produce different layouts")
	}
}
