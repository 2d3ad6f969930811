package handler

import (
	"net/http"

	"github.com/couplewatch/couplewatch/internal/config"
	"github.com/couplewatch/couplewatch/internal/middleware"
	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/couplewatch/couplewatch/internal/repository"
	"github.com/couplewatch/couplewatch/internal/service"
	"github.com/couplewatch/couplewatch/internal/utils"
	"github.com/gin-gonic/gin"
)

// Handler HTTP 处理器
type Handler struct {
	Repos      *repository.Repositories
	Config     *config.Config
	Aggregator *service.Aggregator
	Library    *service.LibraryService
	Tracker    *service.ViewTracker
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	return &Handler{
		Repos:      repos,
		Config:     cfg,
		Aggregator: service.NewAggregator(repos.Catalog, repos.Relationship, cfg.AggregateConcurrency),
		Library:    service.NewLibraryService(repos.Catalog, repos.Relationship),
		Tracker:    service.NewViewTracker(cfg.ViewTrackerTTL),
	}
}

// sessionHolder 绑定当前请求 cookie 会话的会话管理
func (h *Handler) sessionHolder(c *gin.Context) *service.SessionHolder {
	return service.NewSessionHolder(h.Repos.User, middleware.NewCookieSnapshot(c), h.Config.SessionRevalidate)
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "movies": h.Repos.Catalog.Len()})
}

// respondError 按错误类别返回；未分类错误记录日志并返回通用提示
func respondError(c *gin.Context, err error, fallback string) {
	msg := model.MessageOf(err)
	switch model.KindOf(err) {
	case model.KindAuth:
		utils.Unauthorized(c, msg)
	case model.KindNotFound:
		utils.NotFound(c, msg)
	case model.KindValidation:
		utils.BadRequest(c, msg)
	default:
		_ = c.Error(err)
		utils.Log.WithError(err).WithField("path", c.Request.URL.Path).Error("[Handler] 请求处理失败")
		utils.InternalServerError(c, fallback)
	}
}
