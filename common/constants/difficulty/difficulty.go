package difficulty

import "strings"

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Parse accepts the remote spelling ("Easy", "MEDIUM", ...) and returns
// the canonical lowercase value.
func Parse(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(s))
	return d, d.Valid()
}

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}
