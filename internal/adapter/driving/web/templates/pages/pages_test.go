package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vm "github.com/ericfisherdev/dogdiscoverer/internal/adapter/driving/web/viewmodel"
)

func TestTermForm_EscapesValues(t *testing.T) {
	var buf bytes.Buffer

	err := termForm("/app/bans", `tok"en`, `Hound "Afghan"`, "/app/breeds", "<b>Ban</b>", false).Render(context.Background(), &buf)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `<form method="post" action="/app/bans" class="inline">`)
	assert.Contains(t, out, `name="csrf_token" value="tok&#34;en"`)
	assert.Contains(t, out, `name="term" value="Hound &#34;Afghan&#34;"`)
	assert.Contains(t, out, `name="return" value="/app/breeds"`)
	assert.Contains(t, out, `<button type="submit" class="link">&lt;b&gt;Ban&lt;/b&gt;</button>`)
}

func TestTermForm_TagVariantWithoutReturn(t *testing.T) {
	var buf bytes.Buffer

	err := termForm("/app/bans", "tok", "Friendly", "", "Friendly", true).Render(context.Background(), &buf)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `<button type="submit" class="tag">Friendly</button>`)
	assert.NotContains(t, buf.String(), `name="return"`)
}

func TestBreeds_Toggles(t *testing.T) {
	var buf bytes.Buffer

	err := Breeds(vm.BreedsViewModel{
		CSRFToken: "tok",
		Breeds:    []vm.BreedViewModel{{Label: "Boxer"}, {Label: "Pug", Banned: true}},
	}).Render(context.Background(), &buf)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `<span class="term">Boxer</span>`)
	assert.Contains(t, out, `action="/app/bans/remove"`)
	assert.Contains(t, out, `>Unban</button>`)
	assert.NotContains(t, out, "unavailable")
}

func TestBreeds_Unavailable(t *testing.T) {
	var buf bytes.Buffer

	err := Breeds(vm.BreedsViewModel{Unavailable: true}).Render(context.Background(), &buf)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "The breed list is unavailable right now.")
	assert.NotContains(t, buf.String(), `<ul class="breed-list">`)
}
