package model

import (
	"strings"
)

// Movie 影片目录条目（加载后不可变）
type Movie struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Overview     string   `json:"overview"`
	PosterPath   string   `json:"posterPath"`
	BackdropPath string   `json:"backdropPath,omitempty"`
	ReleaseDate  string   `json:"releaseDate"`
	VoteAverage  float64  `json:"voteAverage"`
	Genres       []string `json:"genres"`
}

// Matches 标题、简介或任一类型包含 query（大小写不敏感）
// query 需已转为小写
func (m Movie) Matches(query string) bool {
	if strings.Contains(strings.ToLower(m.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Overview), query) {
		return true
	}
	for _, genre := range m.Genres {
		if strings.Contains(strings.ToLower(genre), query) {
			return true
		}
	}
	return false
}
