package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// 地图格子字形：墙/地板/道具
const (
	glyphWall   = '#'
	glyphFloor  = '.'
	glyphItem   = '*'
	glyphPlayer = '@'
	glyphCorpse = 'x'
)

// drawText 逐字写出一行文本，按 rune 宽度推进（宽字符占两列）
func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		s.SetContent(col, y, ch, nil, style)
		col += runewidth.RuneWidth(ch)
	}
}

// drawMessages 渲染日志区的最后 n 条消息
func drawMessages(s tcell.Screen, x, y, n int, messages []string) {
	start := 0
	if len(messages) > n {
		start = len(messages) - n
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorLightYellow)
	for i, msg := range messages[start:] {
		drawText(s, x, y+i, msg, style)
	}
}

// tileRune 把格子值映射为字形（0/1/3 = 地板/墙/道具）
func tileRune(tile int) rune {
	switch tile {
	case 1:
		return glyphWall
	case 3:
		return glyphItem
	default:
		return glyphFloor
	}
}
