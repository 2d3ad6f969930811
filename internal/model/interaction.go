package model

import (
	"time"
)

// Status 用户与影片的关系
type Status string

const (
	StatusWatched     Status = "watched"
	StatusWantToWatch Status = "want-to-watch"
)

// ParseStatus 解析状态字符串
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusWatched, StatusWantToWatch:
		return Status(s), nil
	}
	return "", NewValidationError("status must be one of watched, want-to-watch")
}

// StatusPtr 返回状态指针，用于可选过滤
func StatusPtr(s Status) *Status {
	return &s
}

// SavedMovie 用户保存的影片，(UserID, MovieID) 唯一
type SavedMovie struct {
	ID      uint      `json:"-" gorm:"primaryKey"`
	UserID  string    `json:"userId" gorm:"size:64;uniqueIndex:idx_saved_user_movie"`
	MovieID string    `json:"movieId" gorm:"size:64;uniqueIndex:idx_saved_user_movie"`
	Status  Status    `json:"status" gorm:"size:20;not null"`
	AddedAt time.Time `json:"addedAt"`
}

// MovieReview 用户影评，(UserID, MovieID) 唯一
type MovieReview struct {
	ID          string    `json:"id" gorm:"primaryKey;size:64"`
	MovieID     string    `json:"movieId" gorm:"size:64;uniqueIndex:idx_review_user_movie;index"`
	UserID      string    `json:"userId" gorm:"size:64;uniqueIndex:idx_review_user_movie"`
	UserName    string    `json:"userName"`
	Rating      int       `json:"rating"`
	Review      string    `json:"review"`
	WatchedDate string    `json:"watchedDate"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
}

// SavedMovieWithMovie 保存记录与影片的关联结果
type SavedMovieWithMovie struct {
	Movie      Movie      `json:"movie"`
	SavedMovie SavedMovie `json:"savedMovie"`
}

// ViewMode 首页视图
type ViewMode string

const (
	ViewExplore   ViewMode = "explore"
	ViewWatched   ViewMode = "watched"
	ViewWatchlist ViewMode = "watchlist"
	ViewPartner   ViewMode = "partner"
)

// ParseViewMode 解析视图名称
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewExplore, ViewWatched, ViewWatchlist, ViewPartner:
		return ViewMode(s), nil
	}
	return "", NewValidationError("unknown view: " + s)
}

// EnrichedMovieEntry 聚合输出，每次请求重新构造
type EnrichedMovieEntry struct {
	Movie         Movie        `json:"movie"`
	UserReview    *MovieReview `json:"userReview"`
	PartnerReview *MovieReview `json:"partnerReview"`
	UserStatus    *Status      `json:"userStatus"`
}

// MovieDetail 影片详情页数据
type MovieDetail struct {
	Movie         Movie         `json:"movie"`
	UserReview    *MovieReview  `json:"userReview"`
	PartnerReview *MovieReview  `json:"partnerReview"`
	UserStatus    *Status       `json:"userStatus"`
	Reviews       []MovieReview `json:"reviews"`
}
