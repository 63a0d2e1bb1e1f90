package scoring

// Theme is a cosmetic palette unlocked by reaching a tier. Colors are hex
// strings consumed by the TUI.
type Theme struct {
	ID         string
	Name       string
	Primary    string
	Background string
	Card       string
	Text       string
}

// DefaultTheme is unlocked for every user.
const DefaultTheme = "bronze"

var themes = map[string]Theme{
	"bronze":    {ID: "bronze", Name: "Bronze Scholar", Primary: "#D97706", Background: "#1C1407", Card: "#2B1D0A", Text: "#FEF3C7"},
	"silver":    {ID: "silver", Name: "Silver Apprentice", Primary: "#94A3B8", Background: "#0F172A", Card: "#1E293B", Text: "#F8FAFC"},
	"gold":      {ID: "gold", Name: "Gold Scholar", Primary: "#EAB308", Background: "#1A1505", Card: "#2A2208", Text: "#FEFCE8"},
	"platinum":  {ID: "platinum", Name: "Platinum Expert", Primary: "#9CA3AF", Background: "#111827", Card: "#1F2937", Text: "#F9FAFB"},
	"diamond":   {ID: "diamond", Name: "Diamond Master", Primary: "#06B6D4", Background: "#071A1F", Card: "#0E2A33", Text: "#ECFEFF"},
	"legendary": {ID: "legendary", Name: "Legendary Grandmaster", Primary: "#A855F7", Background: "#150A22", Card: "#24113A", Text: "#FAF5FF"},
}

// ThemeByID looks up a theme.
func ThemeByID(id string) (Theme, bool) {
	t, ok := themes[id]
	return t, ok
}
