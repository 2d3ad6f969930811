package handler

import (
	"strings"

	"github.com/couplewatch/couplewatch/internal/middleware"
	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/couplewatch/couplewatch/internal/service"
	"github.com/couplewatch/couplewatch/internal/utils"
	"github.com/gin-gonic/gin"
)

// viewResponse 视图响应，stale 表示返回前已有更新的视图请求
type viewResponse struct {
	Mode       model.ViewMode             `json:"mode"`
	Generation uint64                     `json:"generation"`
	Stale      bool                       `json:"stale"`
	Entries    []model.EnrichedMovieEntry `json:"entries"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// ActiveView 当前视图，默认 explore
func (h *Handler) ActiveView(c *gin.Context) {
	user := middleware.CurrentUser(c)
	h.renderView(c, user, h.Tracker.Active(user.ID))
}

// View 切换到指定视图
func (h *Handler) View(c *gin.Context) {
	mode, err := model.ParseViewMode(c.Param("mode"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	h.renderView(c, middleware.CurrentUser(c), mode)
}

func (h *Handler) renderView(c *gin.Context, user *model.User, mode model.ViewMode) {
	gen := h.Tracker.Begin(user.ID, mode)
	res, err := h.Aggregator.View(c.Request.Context(), user.ID, user.PartnerID, mode)
	if err != nil {
		respondError(c, err, "failed to load movies")
		return
	}
	h.writeView(c, user, gen, res)
}

// Search 搜索影片，结果以 explore 视图返回
func (h *Handler) Search(c *gin.Context) {
	user := middleware.CurrentUser(c)
	query := strings.TrimSpace(c.Query("q"))

	gen := h.Tracker.Begin(user.ID, model.ViewExplore)
	res, err := h.Aggregator.Search(c.Request.Context(), user.ID, user.PartnerID, query)
	if err != nil {
		respondError(c, err, "failed to load movies")
		return
	}
	h.writeView(c, user, gen, res)
}

func (h *Handler) writeView(c *gin.Context, user *model.User, gen uint64, res *service.ViewResult) {
	utils.Success(c, viewResponse{
		Mode:       res.Mode,
		Generation: gen,
		Stale:      !h.Tracker.IsCurrent(user.ID, gen),
		Entries:    res.Entries,
	})
}

// MovieDetail 影片详情
func (h *Handler) MovieDetail(c *gin.Context) {
	user := middleware.CurrentUser(c)
	detail, err := h.Aggregator.Detail(c.Request.Context(), user.ID, user.PartnerID, c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to load movie")
		return
	}
	utils.Success(c, detail)
}

// SetStatus 标记已看或想看
func (h *Handler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}

	user := middleware.CurrentUser(c)
	movieID := c.Param("id")
	if err := h.Library.SaveMovie(c.Request.Context(), user.ID, movieID, req.Status); err != nil {
		respondError(c, err, "failed to update movie")
		return
	}
	utils.Success(c, gin.H{"movieId": movieID, "status": req.Status})
}

// RemoveMovie 从列表移除
func (h *Handler) RemoveMovie(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.Library.RemoveMovie(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		respondError(c, err, "failed to update movie")
		return
	}
	utils.SuccessWithMessage(c, "removed", nil)
}

// SubmitReview 提交影评
func (h *Handler) SubmitReview(c *gin.Context) {
	var in service.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}

	review, err := h.Library.SubmitReview(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err, "failed to save review")
		return
	}
	utils.Success(c, review)
}
