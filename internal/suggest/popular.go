package suggest

// PopularGroup is a themed list of search terms shown as quick links.
type PopularGroup struct {
	Title string   `json:"title"`
	Terms []string `json:"terms"`
}

var popular = []PopularGroup{
	{"Nature & Landscape", []string{"mountains", "ocean", "forest", "sunset", "waterfall"}},
	{"Animals & Wildlife", []string{"cat", "dog", "bird", "lion", "elephant"}},
	{"Urban & City", []string{"architecture", "building", "city", "street", "night"}},
	{"People & Lifestyle", []string{"portrait", "business", "family", "friends", "happiness"}},
	{"Food & Drink", []string{"coffee", "food", "restaurant", "dessert", "fruits"}},
	{"Travel & Places", []string{"beach", "travel", "hotel", "vacation", "airplane"}},
	{"Technology", []string{"computer", "phone", "laptop", "gadget", "technology"}},
	{"Sports & Fitness", []string{"gym", "running", "yoga", "sport", "fitness"}},
}

// Popular returns the curated popular searches in display order.
func Popular() []PopularGroup {
	out := make([]PopularGroup, len(popular))
	for i, g := range popular {
		out[i] = PopularGroup{Title: g.Title, Terms: append([]string(nil), g.Terms...)}
	}
	return out
}
