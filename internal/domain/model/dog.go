package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fixed attribute tags carried by every discovered dog regardless of breed.
const (
	AttributeFriendly = "Friendly"
	AttributeActive   = "Active"
)

// UnknownBreed is the label used when no breed can be derived from an image URL.
const UnknownBreed = "Unknown"

// StatusSuccess is the upstream status literal for a usable response.
const StatusSuccess = "success"

// breedMarker precedes the breed slug in dog.ceo image paths.
const breedMarker = "/breeds/"

// FixedAttributes returns the attribute tags attached to every dog.
func FixedAttributes() []string {
	return []string{AttributeFriendly, AttributeActive}
}

// DogResult is an accepted discovery: an image and the breed label derived from it.
type DogResult struct {
	ImageURL string
	Breed    string
}

// Attributes returns the fixed attribute tags of the dog.
func (d DogResult) Attributes() []string {
	return FixedAttributes()
}

// RandomImage is a single decoded response from the random image endpoint.
type RandomImage struct {
	Status   string
	ImageURL string
}

// OK reports whether the upstream marked the response as successful.
func (r RandomImage) OK() bool {
	return r.Status == StatusSuccess
}

// BreedFromURL derives a human-readable breed label from an image URL such as
// https://images.dog.ceo/breeds/hound-afghan/n02088094_1003.jpg ("Hound Afghan").
// URLs without a breed segment yield UnknownBreed.
func BreedFromURL(imageURL string) string {
	_, rest, found := strings.Cut(imageURL, breedMarker)
	if !found {
		return UnknownBreed
	}
	slug, _, _ := strings.Cut(rest, "/")
	return BreedLabel(slug)
}

// BreedLabel converts a hyphenated breed slug into a title-cased label.
// "hound-afghan" becomes "Hound Afghan". An empty slug yields UnknownBreed.
func BreedLabel(slug string) string {
	if slug == "" {
		return UnknownBreed
	}

	words := strings.Split(slug, "-")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// capitalize upper-cases the first rune and leaves the rest untouched.
func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if size == 0 {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}
