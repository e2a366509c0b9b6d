package game

import "github.com/bellapacxx/crupier/models"

// tally counts the drawn cards once so every predicate reads the same view.
type tally struct {
	bySuit [len(models.Suits)]int
	byRank [models.MaxRank + 1]int
	// present[suit][rank]
	present [len(models.Suits)][models.MaxRank + 2]bool
}

func newTally(drawn []models.Card) *tally {
	t := &tally{}
	for _, c := range drawn {
		s := c.Suit.Index()
		if s < 0 || c.Rank < models.MinRank || c.Rank > models.MaxRank {
			continue
		}
		t.bySuit[s]++
		t.byRank[c.Rank]++
		t.present[s][c.Rank] = true
	}
	return t
}

func (t *tally) maxSuit() int {
	best := 0
	for _, n := range t.bySuit {
		best = max(best, n)
	}
	return best
}

func (t *tally) maxRank() int {
	best := 0
	for _, n := range t.byRank {
		best = max(best, n)
	}
	return best
}

// longestRun is the longest stretch of consecutive ranks drawn in one suit.
func (t *tally) longestRun() int {
	best := 0
	for s := range t.present {
		run := 0
		for r := models.MinRank; r <= models.MaxRank; r++ {
			if t.present[s][r] {
				run++
				best = max(best, run)
			} else {
				run = 0
			}
		}
	}
	return best
}

func (t *tally) count(m models.Milestone) int {
	switch m {
	case models.Linea:
		return t.maxSuit()
	case models.Poker:
		return t.maxRank()
	case models.Esquinas:
		return t.byRank[1]
	case models.Escalera:
		return t.longestRun()
	}
	return 0
}

func (t *tally) satisfied(m models.Milestone) bool {
	switch m {
	case models.Linea:
		for _, n := range t.bySuit {
			if n == models.SuitCards {
				return true
			}
		}
		return false
	case models.Poker:
		for _, n := range t.byRank {
			if n == len(models.Suits) {
				return true
			}
		}
		return false
	case models.Esquinas:
		return t.byRank[1] == len(models.Suits)
	case models.Escalera:
		return t.longestRun() >= models.Escalera.Target()
	}
	return false
}

// Satisfied reports whether drawn currently meets m.
func Satisfied(m models.Milestone, drawn []models.Card) bool {
	return newTally(drawn).satisfied(m)
}

// Evaluate returns the milestones satisfied by drawn that are not yet in
// achieved. Several may fire on the same draw.
func Evaluate(drawn []models.Card, achieved models.MilestoneSet) []models.Milestone {
	t := newTally(drawn)
	var fresh []models.Milestone
	for _, m := range models.Milestones {
		if achieved.Has(m) {
			continue
		}
		if t.satisfied(m) {
			fresh = append(fresh, m)
		}
	}
	return fresh
}

// Progress reports the best partial count towards every milestone.
func Progress(drawn []models.Card) []models.MilestoneProgress {
	t := newTally(drawn)
	out := make([]models.MilestoneProgress, 0, len(models.Milestones))
	for _, m := range models.Milestones {
		out = append(out, models.MilestoneProgress{
			Milestone: m,
			Name:      m.Name(),
			Count:     min(t.count(m), m.Target()),
			Target:    m.Target(),
			Complete:  t.satisfied(m),
		})
	}
	return out
}
