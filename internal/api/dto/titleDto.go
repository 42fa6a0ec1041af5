package dto

import (
	"math"

	"reviewhub/internal/api/repository"
)

// TitleResponse is the read shape: nested category/genre objects plus the
// average review score rounded to the nearest integer (null when the
// title has no reviews).
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *int              `json:"rating"`
	Description *string           `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func FromModelToTitleResponse(rt repository.RatedTitle) TitleResponse {
	resp := TitleResponse{
		ID:          rt.Title.ID,
		Name:        rt.Title.Name,
		Year:        rt.Title.Year,
		Description: rt.Title.Description,
		Genre:       make([]GenreResponse, 0, len(rt.Title.Genres)),
	}
	for _, g := range rt.Title.Genres {
		resp.Genre = append(resp.Genre, GenreFromModel(g))
	}
	if rt.Title.Category != nil {
		c := CategoryFromModel(*rt.Title.Category)
		resp.Category = &c
	}
	if rt.Rating != nil {
		rounded := int(math.Round(*rt.Rating))
		resp.Rating = &rounded
	}
	return resp
}

// CreateTitleDTO is the write shape: category and genres arrive as slug
// references, validated against the catalog. Year is a pointer so that
// a legitimate year 0 still counts as present; an empty genre list is
// allowed and produces a title without genre links.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        *int     `json:"year" binding:"required"`
	Description *string  `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Genre       []string `json:"genre"`
}

// UpdateTitleDTO is a partial update; nil fields are left untouched.
type UpdateTitleDTO struct {
	Name        *string  `json:"name" binding:"omitempty,max=256"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genre       []string `json:"genre"`
}
