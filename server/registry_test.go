package server

import (
	"strings"
	"testing"
)

func TestRegistryLifecycle(t *testing.T) {
	reg := NewRegistry()
	room := reg.Create("host-1")

	if len(room.Code) != roomCodeLen {
		t.Errorf("code %q length = %d, want %d", room.Code, len(room.Code), roomCodeLen)
	}
	for _, ch := range room.Code {
		if !strings.ContainsRune(codeAlphabet, ch) {
			t.Errorf("code %q contains invalid rune %q", room.Code, ch)
		}
	}

	got, ok := reg.Get(room.Code)
	if !ok || got != room {
		t.Fatal("created room should be retrievable by code")
	}

	reg.Destroy(room.Code)
	if _, ok := reg.Get(room.Code); ok {
		t.Error("destroyed room code should behave as not found")
	}
}

func TestRegistryCodesAreUnique(t *testing.T) {
	reg := NewRegistry()
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		room := reg.Create("h")
		if seen[room.Code] {
			t.Fatalf("duplicate live room code %q", room.Code)
		}
		seen[room.Code] = true
	}
}

func TestRegistryCodesListsLiveRooms(t *testing.T) {
	reg := NewRegistry()
	a := reg.Create("h1")
	b := reg.Create("h2")

	codes := reg.Codes()
	if len(codes) != 2 {
		t.Fatalf("codes = %v, want 2 entries", codes)
	}
	reg.Destroy(a.Code)
	codes = reg.Codes()
	if len(codes) != 1 || codes[0] != b.Code {
		t.Errorf("codes after destroy = %v, want [%s]", codes, b.Code)
	}
}
