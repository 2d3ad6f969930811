package handler

import (
	"github.com/couplewatch/couplewatch/internal/middleware"
	"github.com/couplewatch/couplewatch/internal/utils"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type partnerRequest struct {
	Email string `json:"email"`
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.sessionHolder(c).Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "login failed")
		return
	}
	utils.Success(c, user)
}

// Register 注册，不自动登录
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.sessionHolder(c).Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err, "registration failed")
		return
	}
	utils.SuccessWithMessage(c, "account created, please log in", user)
}

// Logout 登出，未登录时同样成功
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	snapshot := middleware.NewCookieSnapshot(c)
	if user, _ := snapshot.Load(ctx); user != nil {
		h.Tracker.Forget(user.ID)
	}

	if err := h.sessionHolder(c).Logout(ctx); err != nil {
		respondError(c, err, "logout failed")
		return
	}
	utils.SuccessWithMessage(c, "logged out", nil)
}

// Me 当前用户
func (h *Handler) Me(c *gin.Context) {
	utils.Success(c, middleware.CurrentUser(c))
}

// ConnectPartner 通过邮箱关联伴侣
func (h *Handler) ConnectPartner(c *gin.Context) {
	var req partnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.sessionHolder(c).ConnectPartner(c.Request.Context(), middleware.CurrentUser(c), req.Email)
	if err != nil {
		respondError(c, err, "failed to connect partner")
		return
	}
	utils.SuccessWithMessage(c, "connected with "+user.PartnerName, user)
}
