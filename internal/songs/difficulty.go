package songs

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Difficulty identifies one of the game's chart difficulty classes.
type Difficulty int

const (
	DifficultyPast Difficulty = iota
	DifficultyPresent
	DifficultyFuture
	DifficultyEternal
	DifficultyBeyond

	difficultyCount
)

var difficultyNames = [difficultyCount]string{
	"Past", "Present", "Future", "Eternal", "Beyond",
}

var difficultyCodes = [difficultyCount]string{
	"PST", "PRS", "FTR", "ETR", "BYD",
}

// Difficulties lists every difficulty in ascending order.
func Difficulties() [difficultyCount]Difficulty {
	var all [difficultyCount]Difficulty
	for i := range all {
		all[i] = Difficulty(i)
	}
	return all
}

// String returns the full difficulty name.
func (d Difficulty) String() string {
	if d < 0 || d >= difficultyCount {
		return "Unknown"
	}
	return difficultyNames[d]
}

// Code returns the three-letter difficulty code shown on result screens.
func (d Difficulty) Code() string {
	if d < 0 || d >= difficultyCount {
		return "???"
	}
	return difficultyCodes[d]
}

// ParseDifficulty accepts a full name or three-letter code, case
// insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	t := strings.TrimSpace(s)
	for i := Difficulty(0); i < difficultyCount; i++ {
		if strings.EqualFold(t, difficultyNames[i]) || strings.EqualFold(t, difficultyCodes[i]) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// MarshalJSON implements json.Marshaler.
func (d Difficulty) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Code())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDifficulty(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
