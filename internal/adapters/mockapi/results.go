package mockapi

import (
	"sort"
	"strconv"

	"voteparty/internal/domain/entities"
)

// tally sums the points of every act. Equal totals share a rank and the
// next rank is skipped (1, 1, 3).
func tally(party entities.Party, acts []entities.Act, votes map[string]*entities.Vote) entities.PartyResults {
	totals := make(map[string]int, len(acts))
	for _, v := range votes {
		for key, actID := range v.Votes {
			points, err := strconv.Atoi(key)
			if err != nil {
				continue
			}
			totals[actID] += points
		}
	}

	order := make(map[string]int, len(acts))
	results := make([]entities.VoteResult, 0, len(acts))
	for _, a := range acts {
		order[a.ID] = a.RunningOrder
		results = append(results, entities.VoteResult{
			ActID:       a.ID,
			Country:     a.Country,
			Artist:      a.Artist,
			Song:        a.Song,
			TotalPoints: totals[a.ID],
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].TotalPoints != results[j].TotalPoints {
			return results[i].TotalPoints > results[j].TotalPoints
		}
		return order[results[i].ActID] < order[results[j].ActID]
	})
	for i := range results {
		if i > 0 && results[i].TotalPoints == results[i-1].TotalPoints {
			results[i].Rank = results[i-1].Rank
		} else {
			results[i].Rank = i + 1
		}
	}

	return entities.PartyResults{
		PartyID:     party.ID,
		PartyName:   party.Name,
		TotalVoters: len(votes),
		Results:     results,
	}
}
