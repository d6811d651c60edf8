package web

import (
	"time"

	vm "github.com/ericfisherdev/dogdiscoverer/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
)

const displayTimeLayout = "Jan 2 15:04:05"

// notices maps redirect notice codes to the message shown on the dashboard.
var notices = map[string]string{
	"empty-term": "Enter a term to ban.",
	"failed":     "Something went wrong. Try again.",
	"suggest":    "No breed has exactly that name.",
}

// toDashboardViewModel converts session state into a DashboardViewModel.
func toDashboardViewModel(
	state model.DiscoveryState,
	bans []model.BannedTerm,
	history []model.HistoryEntry,
	token string,
	notice string,
	about string,
) vm.DashboardViewModel {
	banned := model.NewBanList()
	for _, b := range bans {
		banned.Add(b.Term)
	}

	m := vm.DashboardViewModel{
		CSRFToken: token,
		Loading:   state.Loading(),
		NotFound:  state.Status == model.DiscoveryFailed,
		Attempts:  state.Attempts,
		Bans:      make([]vm.BanViewModel, 0, len(bans)),
		History:   make([]vm.HistoryViewModel, 0, len(history)),
		Notice:    notices[notice],
		About:     about,
	}

	if state.Result != nil {
		m.Dog = toDogViewModel(*state.Result, banned)
	}

	for _, b := range bans {
		m.Bans = append(m.Bans, vm.BanViewModel{
			Term:    b.Term,
			AddedAt: formatDisplayTime(b.AddedAt),
		})
	}

	for _, e := range history {
		m.History = append(m.History, vm.HistoryViewModel{
			ImageURL: e.Dog.ImageURL,
			Breed:    e.Dog.Breed,
			SeenAt:   formatDisplayTime(e.SeenAt),
		})
	}

	return m
}

func toDogViewModel(dog model.DogResult, banned model.BanList) *vm.DogViewModel {
	terms := append([]string{dog.Breed}, dog.Attributes()...)
	tags := make([]vm.TagViewModel, 0, len(terms))
	for _, t := range terms {
		tags = append(tags, vm.TagViewModel{Term: t, Banned: banned.Contains(t)})
	}

	return &vm.DogViewModel{
		ImageURL: dog.ImageURL,
		Breed:    dog.Breed,
		Tags:     tags,
	}
}

// toBreedsViewModel converts the flagged breed catalog into a BreedsViewModel.
// A nil catalog renders as unavailable.
func toBreedsViewModel(breeds []model.Breed, token string) vm.BreedsViewModel {
	m := vm.BreedsViewModel{
		CSRFToken:   token,
		Unavailable: breeds == nil,
		Breeds:      make([]vm.BreedViewModel, 0, len(breeds)),
	}
	for _, b := range breeds {
		m.Breeds = append(m.Breeds, vm.BreedViewModel{Label: b.Label, Banned: b.Banned})
	}
	return m
}

func formatDisplayTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(displayTimeLayout)
}
