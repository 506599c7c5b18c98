package domain

// CategoryRegistry is the fixed, ordered set of skill categories. The
// order here is the order categories are returned to clients in.
var CategoryRegistry = []Category{
	{ID: "verbal-logic", Title: "Verbal Logic", Description: "Reasoning with language and words.", Icon: "message-circle"},
	{ID: "pattern-recognition", Title: "Pattern Recognition", Description: "Identifying sequences and connections.", Icon: "grid-3x3"},
	{ID: "spatial-reasoning", Title: "Spatial Reasoning", Description: "Visualizing and manipulating shapes.", Icon: "box"},
	{ID: "memory", Title: "Memory", Description: "Recalling information accurately.", Icon: "brain"},
	{ID: "numerical-reasoning", Title: "Numerical Reasoning", Description: "Solving problems with numbers.", Icon: "calculator"},
	{ID: "attention-to-detail", Title: "Attention to Detail", Description: "Focusing on the small particulars.", Icon: "search"},
}

// CategoryTitleByID resolves a category slug to its canonical title.
func CategoryTitleByID(id string) (string, bool) {
	for _, c := range CategoryRegistry {
		if c.ID == id {
			return c.Title, true
		}
	}
	return "", false
}
