// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// DashboardViewModel holds everything the main page renders.
type DashboardViewModel struct {
	CSRFToken string

	// Loading is true while a discovery is in flight; the page then refreshes itself.
	Loading  bool
	NotFound bool
	Attempts int
	Dog      *DogViewModel

	Bans    []BanViewModel
	History []HistoryViewModel

	// Notice is a one-line message carried over a redirect, empty when absent.
	Notice string
	// Suggestion is a breed label offered in place of a misspelled ban.
	Suggestion string
	About      string // sanitized HTML
}

// DogViewModel holds presentation-ready data for the displayed dog.
type DogViewModel struct {
	ImageURL string
	Breed    string
	// Tags lists the breed followed by the fixed attributes; each can be banned.
	Tags []TagViewModel
}

// TagViewModel is a clickable term shown next to the dog image.
type TagViewModel struct {
	Term   string
	Banned bool
}

// BanViewModel holds presentation-ready data for one ban-list entry.
type BanViewModel struct {
	Term    string
	AddedAt string
}

// HistoryViewModel holds presentation-ready data for one previously seen dog.
type HistoryViewModel struct {
	ImageURL string
	Breed    string
	SeenAt   string
}

// BreedsViewModel holds the data for the breed catalog page.
type BreedsViewModel struct {
	CSRFToken   string
	Breeds      []BreedViewModel
	Unavailable bool
}

// BreedViewModel holds presentation-ready data for one catalog breed.
type BreedViewModel struct {
	Label  string
	Banned bool
}
