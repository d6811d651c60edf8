package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreedFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"sub-breed", "https://dog.ceo/api/breeds/hound-afghan/n02088094_1003.jpg", "Hound Afghan"},
		{"single word", "https://images.dog.ceo/breeds/labrador/img.jpg", "Labrador"},
		{"three words", "https://images.dog.ceo/breeds/terrier-west-highland/x.jpg", "Terrier West Highland"},
		{"no marker", "https://images.dog.ceo/dogs/labrador/img.jpg", UnknownBreed},
		{"empty string", "", UnknownBreed},
		{"empty slug", "https://images.dog.ceo/breeds//img.jpg", UnknownBreed},
		{"slug without trailing path", "https://images.dog.ceo/breeds/poodle", "Poodle"},
		{"first marker wins", "https://x/breeds/pug/breeds/boxer/a.jpg", "Pug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BreedFromURL(tt.url))
		})
	}
}

func TestBreedLabel_KeepsRestOfWord(t *testing.T) {
	assert.Equal(t, "BullDog French", BreedLabel("bullDog-french"))
}

func TestBreedLabel_DoubleHyphenKeepsEmptyWord(t *testing.T) {
	assert.Equal(t, "Hound  Afghan", BreedLabel("hound--afghan"))
}

func TestDogResult_CarriesFixedAttributes(t *testing.T) {
	d := DogResult{ImageURL: "u", Breed: "Pug"}
	assert.Equal(t, []string{AttributeFriendly, AttributeActive}, d.Attributes())
}

func TestRandomImage_OK(t *testing.T) {
	assert.True(t, RandomImage{Status: "success"}.OK())
	assert.False(t, RandomImage{Status: "error"}.OK())
	assert.False(t, RandomImage{Status: "Success"}.OK())
}
