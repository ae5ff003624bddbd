package guide

// Binding pairs a key chord with the action it performs.
type Binding struct {
	Keys   string
	Action string
}

// Section groups related bindings under a heading.
type Section struct {
	Title    string
	Bindings []Binding
}

// Sections returns the key reference rendered by the help overlay.
func Sections() []Section {
	return []Section{
		{
			Title: "Navigate",
			Bindings: []Binding{
				{Keys: "l / j / → / ↓", Action: "next page"},
				{Keys: "h / k / ← / ↑", Action: "previous page"},
				{Keys: "g / home", Action: "first page"},
				{Keys: "G / end", Action: "last page"},
				{Keys: "i", Action: "jump to a page number"},
				{Keys: "esc", Action: "leave the jump box"},
			},
		},
		{
			Title: "Scroll",
			Bindings: []Binding{
				{Keys: "pgup / pgdn", Action: "scroll within the page"},
				{Keys: "mouse wheel", Action: "scroll within the page"},
			},
		},
		{
			Title: "General",
			Bindings: []Binding{
				{Keys: "?", Action: "toggle this help"},
				{Keys: "q / ctrl+q / ctrl+c", Action: "quit"},
			},
		},
	}
}
