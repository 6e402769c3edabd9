package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
)

// GridRPG 终端客户端：纯展示层
// -mode local  本地单机（规则在本地 local 包结算）
// -mode online 多人联机（意图发往服务端，整体替换收到的权威快照）
func main() {
	var (
		mode      string
		serverURL string
		roomCode  string
		name      string
	)
	flag.StringVar(&mode, "mode", "local", "game mode: local or online")
	flag.StringVar(&serverURL, "server", "ws://localhost:3000/ws", "gateway websocket url")
	flag.StringVar(&roomCode, "room", "", "room code to join; empty creates a new room")
	flag.StringVar(&name, "name", "Hero", "display name")
	flag.Parse()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "init screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	switch mode {
	case "local":
		runLocal(screen)
	case "online":
		if err := runOnline(screen, serverURL, roomCode, name); err != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "online mode: %v\n", err)
			os.Exit(1)
		}
	default:
		screen.Fini()
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", mode)
		os.Exit(1)
	}
}
