package extract

import (
	"strconv"
	"strings"

	"inventory-adapter/internal/model"
	"inventory-adapter/internal/normalize"
	"inventory-adapter/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var categoryPlaceholders = map[string]bool{
	"":          true,
	"select":    true,
	"category":  true,
	"choose...": true,
	"choose":    true,
}

func isPlaceholder(label string) bool {
	label = strings.ToLower(label)
	label = strings.Trim(label, "-— ")
	if categoryPlaceholders[label] {
		return true
	}
	return strings.HasPrefix(label, "select a") || strings.HasPrefix(label, "choose a")
}

// Categories reads the options of the category select control, and only
// that control: the same page carries other selects (groups, storage).
func Categories(p *Page) []model.Category {
	var categories []model.Category
	p.Doc.Find(`select[name="category"] option`).Each(func(_ int, option *goquery.Selection) {
		name := DecodeEntities(htmlutil.Text(option))
		id := strings.TrimSpace(DecodeEntities(option.AttrOr("value", "")))
		if isPlaceholder(name) || id == "" {
			return
		}
		category := model.Category{ID: id, Name: normalize.CleanText(name)}
		if raw, ok := option.Attr("data-user-id"); ok {
			if userID, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
				category.UserID = &userID
			}
		}
		categories = append(categories, category)
	})
	return categories
}
