package server

import "testing"

func TestCloseIsIdempotent(t *testing.T) {
	c := newFakeConn()
	c.Close()
	c.Close() // 二次关闭不得 panic（断线与换房路径可能都触发）
}

func TestEnqueueAfterCloseIsNoop(t *testing.T) {
	c := newFakeConn()
	c.Enqueue([]byte(`{"type":"x"}`))
	c.Close()
	c.Enqueue([]byte(`{"type":"y"}`)) // 已关闭的发送队列不得被写入

	// 关闭前压入的消息仍可读出，之后通道即告耗尽
	if b, ok := <-c.send; !ok || len(b) == 0 {
		t.Fatal("message queued before close should still drain")
	}
	if _, ok := <-c.send; ok {
		t.Fatal("send queue should be closed and empty")
	}
}

func TestEnqueueOnNilConnIsSafe(t *testing.T) {
	var c *ClientConn
	c.Enqueue([]byte("x"))
	c.Close()
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	c := &ClientConn{send: make(chan []byte, 1)}
	c.Enqueue([]byte("a"))
	c.Enqueue([]byte("b")) // 队列已满：丢弃而非阻塞
	if got := string(<-c.send); got != "a" {
		t.Fatalf("expected first message to survive, got %q", got)
	}
	select {
	case b := <-c.send:
		t.Fatalf("overflow message should be dropped, got %q", b)
	default:
	}
}
