package triviaboard

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTeamCount turns raw user input into a playable team count.
// Non-numeric input coerces to MinTeams; numeric input is clamped to
// [MinTeams, MaxTeams]. There is no error path; clamping replaces
// rejection.
func ParseTeamCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return MinTeams
	}
	if n < MinTeams {
		return MinTeams
	}
	if n > MaxTeams {
		return MaxTeams
	}
	return n
}

// NewTeams returns n sequentially named teams, each with score 0.
// n is clamped to the allowed range.
func NewTeams(n int) []Team {
	if n < MinTeams {
		n = MinTeams
	}
	if n > MaxTeams {
		n = MaxTeams
	}
	teams := make([]Team, n)
	for i := range teams {
		teams[i] = Team{
			ID:   i + 1,
			Name: fmt.Sprintf("Team %d", i+1),
		}
	}
	return teams
}
