package entities

import (
	"sort"

	"voteparty/internal/domain"
)

// Act is a competing entry of a show.
type Act struct {
	ID           string           `json:"id"`
	Country      string           `json:"country"`
	Artist       string           `json:"artist"`
	Song         string           `json:"song"`
	RunningOrder int              `json:"runningOrder"`
	EventType    domain.EventType `json:"eventType"`
}

type ActsResponse struct {
	Acts []Act `json:"acts"`
}

// SortByRunningOrder returns a copy of acts ordered by ascending running order.
func SortByRunningOrder(acts []Act) []Act {
	out := make([]Act, len(acts))
	copy(out, acts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RunningOrder < out[j].RunningOrder
	})
	return out
}
