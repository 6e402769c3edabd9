package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gridrpg/server"
)

// GridRPG 服务端入口：启动 HTTP + WebSocket 服务，初始化房间注册表与会话网关
func main() {
	var (
		addr     string
		logLevel string
	)
	flag.StringVar(&addr, "addr", ":3000", "server listen address, e.g. :3000")
	flag.StringVar(&logLevel, "log-level", "info", "minimum log level: debug, info, warn, error")
	flag.Parse()
	// 使用第三方 zap 日志库写入 app.log（带滚动）
	if err := server.InitLogger("app.log", logLevel); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	// 显式构造服务对象（注册表 + 网关），不依赖包级全局状态
	registry := server.NewRegistry()
	gateway := server.NewGateway(registry)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gateway.HandleWS)
	// 前后端分离：将 / 映射到 web 目录的静态资源（浏览器客户端）
	mux.Handle("/", http.FileServer(http.Dir("web")))
	// 管理与监控接口
	mux.HandleFunc("/admin/rooms", gateway.HandleAdminRooms)
	mux.HandleFunc("/metrics", gateway.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		server.Log.Infof("GridRPG listening on %s; open http://localhost%v/", addr, addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")
}
