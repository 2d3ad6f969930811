package repository

import (
	"context"
	"time"

	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRelationshipStore 基于 gorm 的保存状态与影评存储
type GormRelationshipStore struct {
	db      *gorm.DB
	catalog MovieFinder
	now     func() time.Time
}

func NewGormRelationshipStore(db *gorm.DB, catalog MovieFinder) *GormRelationshipStore {
	return &GormRelationshipStore{db: db, catalog: catalog, now: time.Now}
}

// SetClock 替换时间来源
func (r *GormRelationshipStore) SetClock(now func() time.Time) {
	r.now = now
}

// savedMovieUpsert 冲突时仅在状态变化时更新状态与时间
func savedMovieUpsert() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "added_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "saved_movies.status <> excluded.status"},
		}},
	}
}

func upsertSaved(tx *gorm.DB, userID, movieID string, status model.Status, now time.Time) error {
	rec := &model.SavedMovie{
		UserID:  userID,
		MovieID: movieID,
		Status:  status,
		AddedAt: now,
	}
	return tx.Clauses(savedMovieUpsert()).Create(rec).Error
}

func (r *GormRelationshipStore) Load(ctx context.Context, saved []model.SavedMovie, reviews []model.MovieReview) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range saved {
			rec.ID = 0
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error; err != nil {
				return errors.Wrap(err, "load saved movie")
			}
		}
		for _, rec := range reviews {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error; err != nil {
				return errors.Wrap(err, "load review")
			}
		}
		return nil
	})
}

func (r *GormRelationshipStore) UpsertSavedMovie(ctx context.Context, userID, movieID string, status model.Status) error {
	return upsertSaved(r.db.WithContext(ctx), userID, movieID, status, r.now())
}

func (r *GormRelationshipStore) RemoveSavedMovie(ctx context.Context, userID, movieID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&model.SavedMovie{}).Error
}

func (r *GormRelationshipStore) GetSavedMovie(ctx context.Context, userID, movieID string) (*model.SavedMovie, error) {
	var rec model.SavedMovie
	err := r.db.WithContext(ctx).Where("user_id = ? AND movie_id = ?", userID, movieID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *GormRelationshipStore) ListSavedMovies(ctx context.Context, userID string, status *model.Status) ([]model.SavedMovieWithMovie, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var records []model.SavedMovie
	if err := q.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return joinMovies(ctx, r.catalog, records)
}

func (r *GormRelationshipStore) UpsertReview(ctx context.Context, userID, userName, movieID string, rating int, text, watchedDate string) (*model.MovieReview, error) {
	now := r.now()
	var rec model.MovieReview

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&rec).Error
		switch {
		case err == nil:
			rec.Rating = rating
			rec.Review = text
			rec.WatchedDate = watchedDate
			rec.CreatedAt = now
			if err := tx.Save(&rec).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec = model.MovieReview{
				ID:          uuid.NewString(),
				MovieID:     movieID,
				UserID:      userID,
				UserName:    userName,
				Rating:      rating,
				Review:      text,
				WatchedDate: watchedDate,
				CreatedAt:   now,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		default:
			return err
		}

		// 有影评即视为已看
		return upsertSaved(tx, userID, movieID, model.StatusWatched, now)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "upsert review %s/%s", userID, movieID)
	}
	return &rec, nil
}

func (r *GormRelationshipStore) GetReview(ctx context.Context, userID, movieID string) (*model.MovieReview, error) {
	var rec model.MovieReview
	err := r.db.WithContext(ctx).Where("user_id = ? AND movie_id = ?", userID, movieID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *GormRelationshipStore) ListReviewsByMovie(ctx context.Context, movieID string) ([]model.MovieReview, error) {
	records := make([]model.MovieReview, 0)
	err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}
