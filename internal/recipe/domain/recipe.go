// Package domain defines the recipe catalogue entities.
package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrDuplicate is returned when a recipe with the same name, category and difficulty exists.
var ErrDuplicate = errors.New("recipe already exists")

// Media used when a recipe arrives without a gallery.
const (
	DefaultImage = "https://default.com/image.png"
	DefaultIcon  = "https://default.com/icon.png"
)

// Recipe is a catalogue entry. Gallery, Ingredients and Steps are only
// populated when the recipe is loaded individually.
type Recipe struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Time        int            `json:"time"`
	Image       string         `json:"image"`
	Icon        string         `json:"icon"`
	Category    string         `json:"category"`
	Nationality string         `json:"nationality"`
	Difficulty  string         `json:"difficulty"`
	Description string         `json:"description"`
	Meal        string         `json:"meal"`
	CreatedAt   time.Time      `json:"createdAt"`
	Gallery     []GalleryImage `json:"gallery,omitempty"`
	Ingredients []Ingredient   `json:"ingredients,omitempty"`
	Steps       []Step         `json:"steps,omitempty"`
}

type GalleryImage struct {
	URL string `json:"url"`
}

type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Step is one instruction; Order is the position given by the author.
type Step struct {
	Order       int    `json:"order"`
	Description string `json:"description"`
}

// Validate reports the first missing required field.
func (r *Recipe) Validate() error {
	required := []struct{ field, value string }{
		{"name", r.Name},
		{"category", r.Category},
		{"nationality", r.Nationality},
		{"difficulty", r.Difficulty},
		{"description", r.Description},
		{"meal", r.Meal},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return errors.New(f.field + " should not be empty")
		}
	}
	if r.Time < 0 {
		return errors.New("time must not be negative")
	}
	for _, g := range r.Gallery {
		if strings.TrimSpace(g.URL) == "" {
			return errors.New("gallery url should not be empty")
		}
	}
	for _, i := range r.Ingredients {
		if strings.TrimSpace(i.Name) == "" {
			return errors.New("ingredient name should not be empty")
		}
	}
	return nil
}

// ApplyDefaultMedia fills Image and Icon from the first gallery entry, or the defaults.
func (r *Recipe) ApplyDefaultMedia() {
	fallbackImage, fallbackIcon := DefaultImage, DefaultIcon
	if len(r.Gallery) > 0 && r.Gallery[0].URL != "" {
		fallbackImage, fallbackIcon = r.Gallery[0].URL, r.Gallery[0].URL
	}
	if r.Image == "" {
		r.Image = fallbackImage
	}
	if r.Icon == "" {
		r.Icon = fallbackIcon
	}
}
