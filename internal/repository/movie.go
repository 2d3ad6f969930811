package repository

import (
	"context"
	"slices"
	"strings"

	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/couplewatch/couplewatch/internal/utils"
	"golang.org/x/sync/singleflight"
)

// MovieFinder 按 ID 查找影片
type MovieFinder interface {
	FindByID(ctx context.Context, id string) (*model.Movie, error)
}

// CatalogRepository 静态影片目录，只读
type CatalogRepository struct {
	movies []model.Movie
	index  map[string]int
	cache  *utils.SearchCache[[]model.Movie]
	sf     singleflight.Group
}

// NewCatalogRepository 创建影片目录，cache 为空时不缓存搜索结果
func NewCatalogRepository(movies []model.Movie, cache *utils.SearchCache[[]model.Movie]) *CatalogRepository {
	index := make(map[string]int, len(movies))
	for i, m := range movies {
		index[m.ID] = i
	}
	return &CatalogRepository{
		movies: slices.Clone(movies),
		index:  index,
		cache:  cache,
	}
}

// FindAll 全部影片，保持插入顺序
func (r *CatalogRepository) FindAll(ctx context.Context) []model.Movie {
	return slices.Clone(r.movies)
}

// FindByID 根据 ID 查找影片，不存在返回 nil
func (r *CatalogRepository) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	i, ok := r.index[id]
	if !ok {
		return nil, nil
	}
	m := r.movies[i]
	return &m, nil
}

// Search 标题、简介、类型的大小写不敏感子串匹配，结果按目录顺序
func (r *CatalogRepository) Search(ctx context.Context, query string) []model.Movie {
	if query == "" {
		return r.FindAll(ctx)
	}

	key := strings.ToLower(query)
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			return slices.Clone(cached)
		}
	}

	// 相同关键词的并发搜索只扫描一次
	v, _, _ := r.sf.Do(key, func() (interface{}, error) {
		out := make([]model.Movie, 0)
		for _, m := range r.movies {
			if m.Matches(key) {
				out = append(out, m)
			}
		}
		if r.cache != nil {
			r.cache.Set(key, out)
		}
		return out, nil
	})

	return slices.Clone(v.([]model.Movie))
}

// Len 影片数量
func (r *CatalogRepository) Len() int {
	return len(r.movies)
}
