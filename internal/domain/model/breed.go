package model

// Breed is a catalog entry from the upstream breed list.
type Breed struct {
	Slug   string
	Label  string
	Banned bool
}
