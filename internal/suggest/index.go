// Package suggest matches partial search text against a fixed taxonomy of
// photo categories and keywords. Nothing here touches the network.
package suggest

import (
	"sort"
	"strings"
)

type Category struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// Index is read-only after construction and safe for concurrent use.
type Index struct {
	categories []Category
}

var defaultCategories = []Category{
	{"nature", []string{"mountains", "forest", "ocean", "sunset", "landscape", "trees", "sky"}},
	{"animal", []string{"cat", "dog", "bird", "wildlife", "pets", "horse"}},
	{"city", []string{"urban", "architecture", "building", "street", "downtown"}},
	{"people", []string{"portrait", "family", "children", "friends", "business"}},
	{"food", []string{"restaurant", "cooking", "dessert", "fruits", "vegetables"}},
	{"travel", []string{"beach", "vacation", "adventure", "tourism", "culture"}},
	{"technology", []string{"computer", "phone", "gadget", "coding", "digital"}},
	{"sports", []string{"football", "basketball", "gym", "running", "cycling"}},
	{"art", []string{"painting", "drawing", "sculpture", "design", "creative"}},
	{"fashion", []string{"style", "clothing", "shoes", "accessories", "model"}},
}

// Default returns the index built from the built-in taxonomy.
func Default() *Index {
	return New(defaultCategories)
}

// New copies categories, so later changes by the caller do not leak in.
func New(categories []Category) *Index {
	cp := make([]Category, len(categories))
	for i, c := range categories {
		cp[i] = Category{Name: c.Name, Keywords: append([]string(nil), c.Keywords...)}
	}
	return &Index{categories: cp}
}

// Suggest returns every category name and keyword containing partial,
// case-insensitively. The result is sorted and free of duplicates. Blank
// input matches nothing.
func (idx *Index) Suggest(partial string) []string {
	needle := strings.ToLower(strings.TrimSpace(partial))
	if needle == "" {
		return []string{}
	}

	found := make(map[string]struct{})
	for _, c := range idx.categories {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			found[c.Name] = struct{}{}
		}
		for _, kw := range c.Keywords {
			if strings.Contains(strings.ToLower(kw), needle) {
				found[kw] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(found))
	for s := range found {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
