package model

// Preference keys inside the userPreferences record
const (
	PrefDarkTheme     = "darkTheme"
	PrefCurrentFilter = "currentFilter"
)

// Preferences holds UI preferences persisted alongside the task list
type Preferences struct {
	DarkTheme     bool   `json:"darkTheme"`
	CurrentFilter Filter `json:"currentFilter"`
}

// DefaultPreferences returns the preferences used when nothing is stored
func DefaultPreferences() Preferences {
	return Preferences{CurrentFilter: FilterAll}
}
