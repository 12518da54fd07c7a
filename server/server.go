package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imattdu/assistdash/assistant"
	"github.com/imattdu/assistdash/dashboard"
	"github.com/imattdu/assistdash/logx"
	"github.com/imattdu/assistdash/metricx"
	"github.com/imattdu/assistdash/middleware"
)

// Server 面板 HTTP 服务；冲刺、清单、家庭看板的状态保存在进程内
type Server struct {
	api     assistant.API
	metrics *metricx.Metrics
	logger  logx.Logger
	now     func() time.Time
	engine  *gin.Engine

	mu        sync.Mutex
	sprint    dashboard.SprintState
	rituals   map[string]dashboard.RitualChecklist
	ritualIDs []string
	family    *dashboard.FamilyBoard
}

type Option func(*Server)

func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }
func WithLogger(l logx.Logger) Option       { return func(s *Server) { s.logger = l } }

func New(api assistant.API, m *metricx.Metrics, opts ...Option) *Server {
	s := &Server{
		api:     api,
		metrics: m,
		now:     time.Now,
		rituals: map[string]dashboard.RitualChecklist{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logx.L()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.TraceMiddleware(), middleware.AccessMiddleware(s.logger))
	if m != nil {
		r.Use(middleware.MetricsMiddleware(m))
	}
	s.routes(r)
	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/dashboard/overview", s.overview)

	api.GET("/projects", s.listProjects)
	api.GET("/projects/:id", s.getProject)
	api.POST("/projects", s.createProject)
	api.PUT("/projects/:id", s.updateProject)
	api.DELETE("/projects/:id", s.deleteProject)

	api.GET("/sprint", s.sprintStatus)
	api.POST("/sprint/start", s.startSprint)
	api.POST("/sprint/nudge", s.nudgeSprint)
	api.POST("/sprint/distraction", s.logDistraction)
	api.POST("/sprint/complete", s.completeSprint)

	api.GET("/rituals", s.listRituals)
	api.POST("/rituals/:id/steps/:step/toggle", s.toggleRitualStep)
	api.POST("/rituals/:id/reset", s.resetRitual)

	api.GET("/family", s.familyBoard)
	api.POST("/family/tasks/:index/toggle", s.toggleFamilyTask)
	api.POST("/family/members", s.addFamilyMember)

	api.GET("/tools", s.toolCatalog)
	api.POST("/tools/execute", s.executeTool)
}

// Run 阻塞直到 ctx 结束，然后在 shutdownTimeout 内优雅退出
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info(ctx, logx.TagStartup, "dashboard listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	logx.Info(shutdownCtx, logx.TagShutdown, "dashboard shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
