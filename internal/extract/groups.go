package extract

import (
	"regexp"
	"strings"

	"inventory-adapter/internal/model"
	"inventory-adapter/internal/normalize"
	"inventory-adapter/pkg/htmlutil"
)

const groupIDParam = "group_id"

// Groups reads the group list and search result pages, which share a shape.
func Groups(p *Page) []model.Group {
	return FirstNonEmpty(
		GroupsWithCountColumn,
		GroupsWithoutCountColumn,
		GroupsFromLinks,
	)(p)
}

// GroupsWithCountColumn reads rows shaped "# | <a>name</a> | date | ...".
func GroupsWithCountColumn(p *Page) []model.Group {
	var groups []model.Group
	for _, row := range Rows(p) {
		if row.Len() < 2 || !isCount(row.Text(0)) {
			continue
		}
		group, ok := groupFromRow(row, 1)
		if ok {
			groups = append(groups, group)
		}
	}
	return groups
}

// GroupsWithoutCountColumn reads rows shaped "<a>name</a> | date | ...".
func GroupsWithoutCountColumn(p *Page) []model.Group {
	var groups []model.Group
	for _, row := range Rows(p) {
		group, ok := groupFromRow(row, 0)
		if ok {
			groups = append(groups, group)
		}
	}
	return groups
}

func groupFromRow(row Row, linkCell int) (model.Group, bool) {
	anchor, ok := row.Anchor(linkCell)
	if !ok {
		return model.Group{}, false
	}
	id := anchor.Param(groupIDParam)
	if id == "" || IsSentinel(anchor.Name) {
		return model.Group{}, false
	}

	group := model.Group{ID: id, Name: anchor.Name}
	dates := 0
	for i := linkCell + 1; i < row.Len(); i++ {
		text := row.Text(i)
		if text == "" {
			continue
		}
		if date, ok := normalize.ParseDate(text); ok {
			switch dates {
			case 0:
				group.CreatedAt = date
			case 1:
				group.UpdatedAt = date
			}
			dates++
			continue
		}
		if normalize.LooksLikeMoney(text, false) {
			continue
		}
		if _, isLink := row.Anchor(i); isLink {
			continue
		}
		if group.Description == "" {
			group.Description = text
		}
	}
	if dates < 2 {
		group.UpdatedAt = group.CreatedAt
	}
	return group, true
}

var groupLinkPattern = regexp.MustCompile(`(?is)<a\s[^>]*href\s*=\s*["']([^"']*group_id=[^"']*)["'][^>]*>(.*?)</a>`)

var actionLabels = map[string]bool{
	"remove": true,
	"delete": true,
	"edit":   true,
	"modify": true,
	"view":   true,
}

// GroupsFromLinks is the last resort: any link on the page carrying a group
// id. Ids are deduplicated so action links next to a name do not repeat it.
func GroupsFromLinks(p *Page) []model.Group {
	var groups []model.Group
	seen := map[string]bool{}
	for _, match := range groupLinkPattern.FindAllStringSubmatch(p.Raw, -1) {
		anchor := htmlutil.Anchor{
			Href: DecodeEntities(match[1]),
			Name: stripTags(match[2]),
		}
		id := anchor.Param(groupIDParam)
		if id == "" || seen[id] {
			continue
		}
		if IsSentinel(anchor.Name) || actionLabels[strings.ToLower(anchor.Name)] {
			continue
		}
		seen[id] = true
		groups = append(groups, model.Group{ID: id, Name: anchor.Name})
	}
	return groups
}

// GroupIDFromLocation reads the group id out of a redirect target such as
// "/groups/detail?group_id=...".
func GroupIDFromLocation(location string) string {
	anchor := htmlutil.Anchor{Href: location}
	if id := anchor.Param(groupIDParam); id != "" {
		return id
	}
	return anchor.Param("id")
}
