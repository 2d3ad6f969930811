package router

import (
	"net/http"

	"github.com/couplewatch/couplewatch/internal/config"
	"github.com/couplewatch/couplewatch/internal/handler"
	"github.com/couplewatch/couplewatch/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// sessionName 会话 cookie 名称
const sessionName = "couplewatch"

// NewEngine 创建 gin 实例并挂载中间件与路由
func NewEngine(cfg *config.Config, h *handler.Handler) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 设置 Session 中间件
	store := cookie.NewStore([]byte(cfg.AppSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", h.Health)

	// ==================== 认证 ====================
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
	}

	// ==================== API（需要登录）====================
	api := r.Group("/api")
	api.Use(middleware.RequireSession(h.Repos.User, h.Config.SessionRevalidate))
	{
		api.GET("/me", h.Me)
		api.POST("/partner", h.ConnectPartner)

		// 首页视图
		api.GET("/views", h.ActiveView)
		api.GET("/views/:mode", h.View)
		api.GET("/search", h.Search)

		// 影片操作
		api.GET("/movies/:id", h.MovieDetail)
		api.POST("/movies/:id/status", h.SetStatus)
		api.DELETE("/movies/:id", h.RemoveMovie)
		api.POST("/movies/:id/review", h.SubmitReview)
	}
}
