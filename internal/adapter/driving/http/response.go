package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// StateResponse is the JSON representation of the display state.
// Dog is null unless a dog is currently shown.
type StateResponse struct {
	Status    string       `json:"status"`
	Loading   bool         `json:"loading"`
	Dog       *DogResponse `json:"dog"`
	Attempts  int          `json:"attempts"`
	UpdatedAt string       `json:"updated_at,omitempty"`
}

// DogResponse is the JSON representation of a displayed dog.
type DogResponse struct {
	ImageURL   string   `json:"image_url"`
	Breed      string   `json:"breed"`
	Attributes []string `json:"attributes"`
}

// BanResponse is the JSON representation of a banned term.
type BanResponse struct {
	Term    string `json:"term"`
	AddedAt string `json:"added_at"`
}

// AddBanRequest is the JSON body for the add ban endpoint.
type AddBanRequest struct {
	Term string `json:"term"`
}

// HistoryResponse is the JSON representation of a history entry.
type HistoryResponse struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"image_url"`
	Breed    string `json:"breed"`
	SeenAt   string `json:"seen_at"`
}

// BreedResponse is the JSON representation of a catalog breed.
type BreedResponse struct {
	Slug   string `json:"slug"`
	Label  string `json:"label"`
	Banned bool   `json:"banned"`
}

// SuggestionResponse is the JSON representation of a breed spelling suggestion.
type SuggestionResponse struct {
	Term       string `json:"term"`
	Suggestion string `json:"suggestion"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toStateResponse(st model.DiscoveryState) StateResponse {
	resp := StateResponse{
		Status:   string(st.Status),
		Loading:  st.Loading(),
		Attempts: st.Attempts,
	}
	if !st.UpdatedAt.IsZero() {
		resp.UpdatedAt = st.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if st.Result != nil {
		resp.Dog = &DogResponse{
			ImageURL:   st.Result.ImageURL,
			Breed:      st.Result.Breed,
			Attributes: st.Result.Attributes(),
		}
	}
	return resp
}

func toBanResponse(t model.BannedTerm) BanResponse {
	return BanResponse{
		Term:    t.Term,
		AddedAt: t.AddedAt.UTC().Format(time.RFC3339),
	}
}

func toHistoryResponse(e model.HistoryEntry) HistoryResponse {
	return HistoryResponse{
		ID:       e.ID,
		ImageURL: e.Dog.ImageURL,
		Breed:    e.Dog.Breed,
		SeenAt:   e.SeenAt.UTC().Format(time.RFC3339),
	}
}

func toBreedResponse(b model.Breed) BreedResponse {
	return BreedResponse{
		Slug:   b.Slug,
		Label:  b.Label,
		Banned: b.Banned,
	}
}
