package fields

import "sort"

// ClaimGroup is a set of claims in the same category
type ClaimGroup struct {
	Category ClaimCategory `json:"category"`
	Names    []string      `json:"names"`
}

// GroupClaims groups claim names by category.
// Groups are ordered by category rank, with unknown claims last;
// names keep the input order within a group.
func (r *Registry) GroupClaims(names []string) []ClaimGroup {
	var groups []ClaimGroup
	index := map[string]int{}

	for _, name := range names {
		id := UnknownCategory
		if c, ok := r.claims[name]; ok {
			id = c.Category
		}

		if i, ok := index[id]; ok {
			groups[i].Names = append(groups[i].Names, name)
			continue
		}

		cat, ok := r.Category(id)
		if !ok {
			cat = ClaimCategory{ID: UnknownCategory, Title: UnknownCategoryTitle}
		}
		index[id] = len(groups)
		groups = append(groups, ClaimGroup{Category: cat, Names: []string{name}})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return r.groupRank(groups[i].Category.ID) < r.groupRank(groups[j].Category.ID)
	})
	return groups
}

func (r *Registry) groupRank(id string) int {
	if id == UnknownCategory {
		return len(r.categories)
	}
	return r.CategoryRank(id)
}
