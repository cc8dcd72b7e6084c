package playhttp

import (
	"context"
	_ "embed"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"palmvote/internal/game"
	"palmvote/internal/logger"
	webassets "palmvote/internal/transport/web"

	"github.com/gin-gonic/gin"
)

//go:embed response_schema.json
var responseSchema []byte

// Player 运行一局并返回结果；实现必须总能给出完整结果。
type Player interface {
	Play(ctx context.Context) game.GameOutcome
}

// Server 提供 /api/play、健康检查与前端静态页。
type Server struct {
	addr   string
	router *gin.Engine
}

// ServerConfig 描述 HTTP 服务依赖。
type ServerConfig struct {
	Addr      string
	Game      Player
	StaticDir string
}

// NewServer 构建 HTTP server（不启动）。
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Game == nil {
		return nil, errors.New("play http server requires a game")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":3000"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := router.Group("/api")
	api.GET("/play", playHandler(cfg.Game))
	api.GET("/play/schema", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/schema+json", responseSchema)
	})

	static, err := staticFS(cfg.StaticDir)
	if err != nil {
		return nil, err
	}
	fileServer := http.FileServer(static)
	router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	})

	return &Server{addr: cfg.Addr, router: router}, nil
}

func playHandler(g Player) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, g.Play(c.Request.Context()))
	}
}

// staticFS 优先使用磁盘目录，找不到时回退到内置页面。
func staticFS(dir string) (http.FileSystem, error) {
	dir = strings.TrimSpace(dir)
	if dir != "" {
		if stat, err := os.Stat(dir); err == nil && stat.IsDir() {
			logger.Infof("serving static files from %s", dir)
			return http.Dir(dir), nil
		}
	}
	sub, err := fs.Sub(webassets.Static, "static")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}

// requestLogger 记录每个请求的耗时与状态。
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s",
			c.Request.Method, c.Request.URL.RequestURI(), c.Writer.Status(), c.ClientIP(), time.Since(start))
	}
}

// Handler 暴露路由，便于测试。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr 返回监听地址。
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Start 启动 HTTP 服务，直到 ctx 取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Infof("HTTP 服务监听 %s", s.addr)

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	case err := <-errCh:
		return err
	}
}
