package models

// DefaultColumn describes one of the columns seeded on a user's first
// dashboard visit.
type DefaultColumn struct {
	Name  string
	Color string
}

// DefaultColumns are created, in order, for any user with zero columns.
var DefaultColumns = []DefaultColumn{
	{Name: "Bookmarked", Color: "indigo"},
	{Name: "Applied", Color: "blue"},
	{Name: "Interview", Color: "amber"},
	{Name: "Offer", Color: "green"},
}

// ColumnColors maps the named palette to display hex values. Colors
// outside the palette are accepted and rendered with FallbackColor.
var ColumnColors = map[string]string{
	"indigo": "#6366F1",
	"blue":   "#3B82F6",
	"amber":  "#F59E0B",
	"green":  "#22C55E",
	"teal":   "#14B8A6",
	"purple": "#A855F7",
	"pink":   "#EC4899",
	"orange": "#F97316",
	"red":    "#EF4444",
}

// FallbackColor is used when a column's color is not in the palette.
const FallbackColor = "#6B7280"

// DefaultSalaryCurrency is applied when a request omits the currency.
const DefaultSalaryCurrency = "USD"
