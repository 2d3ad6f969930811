package service

import (
	"context"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/couplewatch/couplewatch/internal/repository"
	"github.com/couplewatch/couplewatch/internal/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// watchedDateLayout 观看日期只保留日历日
const watchedDateLayout = "2006-01-02"

// ReviewInput 影评表单
type ReviewInput struct {
	Rating      int    `json:"rating" validate:"required,gte=1,lte=5"`
	Review      string `json:"review" validate:"max=2000"`
	WatchedDate string `json:"watchedDate" validate:"required"`
}

// LibraryService 保存状态与影评的写操作
type LibraryService struct {
	catalog Catalog
	rel     repository.RelationshipStore
}

func NewLibraryService(catalog Catalog, rel repository.RelationshipStore) *LibraryService {
	return &LibraryService{catalog: catalog, rel: rel}
}

// SaveMovie 标记为已看或想看
func (s *LibraryService) SaveMovie(ctx context.Context, userID, movieID, status string) error {
	st, err := model.ParseStatus(status)
	if err != nil {
		return err
	}
	if err := s.ensureMovie(ctx, movieID); err != nil {
		return err
	}
	if err := s.rel.UpsertSavedMovie(ctx, userID, movieID, st); err != nil {
		return errors.Wrap(err, "save movie")
	}

	utils.Log.WithFields(logrus.Fields{
		"user_id":  userID,
		"movie_id": movieID,
		"status":   st,
	}).Debug("[Library] 更新保存状态")
	return nil
}

// RemoveMovie 从列表移除，未保存时为空操作
func (s *LibraryService) RemoveMovie(ctx context.Context, userID, movieID string) error {
	return errors.Wrap(s.rel.RemoveSavedMovie(ctx, userID, movieID), "remove movie")
}

// SubmitReview 提交或更新影评，影片同时被标记为已看
func (s *LibraryService) SubmitReview(ctx context.Context, user *model.User, movieID string, in ReviewInput) (*model.MovieReview, error) {
	if user == nil {
		return nil, model.NewAuthError("you must be logged in")
	}
	if err := Validate(in); err != nil {
		return nil, err
	}
	watched, err := NormalizeWatchedDate(in.WatchedDate)
	if err != nil {
		return nil, err
	}
	if err := s.ensureMovie(ctx, movieID); err != nil {
		return nil, err
	}

	review, err := s.rel.UpsertReview(ctx, user.ID, user.Name, movieID, in.Rating, strings.TrimSpace(in.Review), watched)
	if err != nil {
		return nil, errors.Wrap(err, "save review")
	}

	utils.Log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"movie_id": movieID,
		"rating":   in.Rating,
	}).Info("[Library] 影评已保存")
	return review, nil
}

// NormalizeWatchedDate 将各种日期写法统一为 YYYY-MM-DD
func NormalizeWatchedDate(s string) (string, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
	if err != nil {
		return "", model.NewValidationError("watchedDate is not a valid date")
	}
	return t.Format(watchedDateLayout), nil
}

func (s *LibraryService) ensureMovie(ctx context.Context, movieID string) error {
	movie, err := s.catalog.FindByID(ctx, movieID)
	if err != nil {
		return err
	}
	if movie == nil {
		return model.NewNotFoundError("movie not found")
	}
	return nil
}
