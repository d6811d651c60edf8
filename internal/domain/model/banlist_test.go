package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBanList_AddThenContains(t *testing.T) {
	var b BanList
	assert.True(t, b.Add("Labrador"))
	assert.True(t, b.Contains("Labrador"))
}

func TestBanList_RemoveThenNotContains(t *testing.T) {
	b := NewBanList("Labrador")
	assert.True(t, b.Remove("Labrador"))
	assert.False(t, b.Contains("Labrador"))
}

func TestBanList_AddTwice_Idempotent(t *testing.T) {
	var b BanList
	b.Add("Pug")
	assert.False(t, b.Add("Pug"))
	assert.Equal(t, 1, b.Len())
}

func TestBanList_RemoveAbsent_NoOp(t *testing.T) {
	b := NewBanList("Pug")
	assert.False(t, b.Remove("Boxer"))
	assert.Equal(t, []string{"Pug"}, b.Terms())
}

func TestBanList_CaseSensitive(t *testing.T) {
	b := NewBanList("Labrador")
	assert.False(t, b.Contains("labrador"))
}

func TestBanList_PreservesInsertionOrder(t *testing.T) {
	b := NewBanList("Pug", "Active", "Boxer", "Pug")
	b.Remove("Active")
	b.Add("Friendly")
	assert.Equal(t, []string{"Pug", "Boxer", "Friendly"}, b.Terms())
}

func TestBanList_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		bans  []string
		breed string
		want  bool
	}{
		{"empty list", nil, "Pug", false},
		{"breed banned", []string{"Pug"}, "Pug", true},
		{"other breed banned", []string{"Boxer"}, "Pug", false},
		{"friendly bans everything", []string{AttributeFriendly}, "Pug", true},
		{"active bans everything", []string{AttributeActive}, "Unknown", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewBanList(tt.bans...).Rejects(tt.breed))
		})
	}
}

func TestBanList_CloneIsIndependent(t *testing.T) {
	b := NewBanList("Pug")
	c := b.Clone()
	c.Add("Boxer")
	assert.False(t, b.Contains("Boxer"))
	assert.Equal(t, 1, b.Len())
}
