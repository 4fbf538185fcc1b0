package inventory

import (
	"context"
	"errors"
	"strings"

	"inventory-adapter/internal/apperr"
	"inventory-adapter/internal/extract"
	"inventory-adapter/internal/model"
	"inventory-adapter/internal/transport"

	"github.com/antzucaro/matchr"
)

const report_categories_list = "categories.list"

// fallbackCatalog is served whenever the live categories cannot be read.
// Order and ids are fixed.
var fallbackCatalog = []model.Category{
	{ID: "00000000-0000-0000-0000-000000000001", Name: "Electronics"},
	{ID: "00000000-0000-0000-0000-000000000002", Name: "Gaming"},
	{ID: "00000000-0000-0000-0000-000000000003", Name: "Books & Media"},
	{ID: "00000000-0000-0000-0000-000000000004", Name: "Clothing"},
	{ID: "00000000-0000-0000-0000-000000000005", Name: "Home & Garden"},
	{ID: "00000000-0000-0000-0000-000000000006", Name: "Toys"},
	{ID: "00000000-0000-0000-0000-000000000007", Name: "Sports"},
	{ID: "00000000-0000-0000-0000-000000000008", Name: "Automotive"},
	{ID: "00000000-0000-0000-0000-000000000009", Name: "General"},
}

// FallbackCatalog returns a copy of the fixed default categories.
func FallbackCatalog() []model.Category {
	return append([]model.Category{}, fallbackCatalog...)
}

// FallbackCategory looks a category of the fallback catalog up by name.
func FallbackCategory(name string) (model.Category, bool) {
	for _, c := range fallbackCatalog {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return model.Category{}, false
}

type CategoriesService struct {
	backend
}

// List returns the categories offered by the add-item form. When the form
// cannot be fetched or carries no category options, the fallback catalog is
// returned instead. An expired or missing session still comes back as
// ErrUnauthorized, alongside the catalog.
func (s *CategoriesService) List(ctx context.Context) ([]model.Category, error) {
	page, err := s.page(ctx, transport.Get("/items/bought", nil))
	if errors.Is(err, apperr.ErrUnauthorized) {
		return FallbackCatalog(), err
	}
	if err != nil {
		s.tel.ReportWarning(report_categories_list, err)
		return FallbackCatalog(), nil
	}
	categories := extract.Categories(page)
	if len(categories) == 0 {
		s.tel.ReportWarning(report_categories_list, "no category options on page")
		return FallbackCatalog(), nil
	}
	return categories, nil
}

// minResolveSimilarity is the lowest Jaro-Winkler similarity Resolve accepts.
const minResolveSimilarity = 0.85

// Resolve finds the category whose name best matches name, tolerating case
// and small typos ("electronic" finds "Electronics").
func (s *CategoriesService) Resolve(ctx context.Context, name string) (model.Category, bool, error) {
	categories, err := s.List(ctx)
	if err != nil {
		return model.Category{}, false, err
	}
	category, ok := ResolveCategory(categories, name)
	return category, ok, nil
}

func ResolveCategory(categories []model.Category, name string) (model.Category, bool) {
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return model.Category{}, false
	}

	var best model.Category
	bestScore := 0.0
	for _, c := range categories {
		candidate := strings.ToLower(c.Name)
		if candidate == target || c.ID == name {
			return c, true
		}
		score := matchr.JaroWinkler(candidate, target, false)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < minResolveSimilarity {
		return model.Category{}, false
	}
	return best, true
}
