package voting

import "math"

// Vote is a single user's vote. The zero value means no vote.
type Vote string

const (
	None Vote = ""
	Up   Vote = "upvote"
	Down Vote = "downvote"
)

// Tally holds the up and down counters of a game
type Tally struct {
	Up   int
	Down int
}

// Next returns the vote that results from casting cast on top of current.
// Casting the same direction again retracts the vote, casting the other
// direction switches it.
func Next(current, cast Vote) Vote {
	if current == cast {
		return None
	}
	return cast
}

// Apply moves one vote from the from counter to the to counter. Counters
// never drop below zero.
func (t Tally) Apply(from, to Vote) Tally {
	if from == to {
		return t
	}
	switch from {
	case Up:
		t.Up = decrement(t.Up)
	case Down:
		t.Down = decrement(t.Down)
	}
	switch to {
	case Up:
		t.Up++
	case Down:
		t.Down++
	}
	return t
}

// Total returns Up + Down
func (t Tally) Total() int {
	return t.Up + t.Down
}

func decrement(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}

// AverageRating returns the mean of the positive ratings rounded to one
// decimal, or 0 when none qualify.
func AverageRating(ratings []float64) float64 {
	var sum float64
	var n int
	for _, r := range ratings {
		if r > 0 {
			sum += r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*10) / 10
}
