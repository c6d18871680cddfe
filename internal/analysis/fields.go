package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prescientmoon/shimmeringmoon-sub000/internal/songs"
)

// parseScore interprets recognized score text. The grouping apostrophes
// are cosmetic and dropped; what remains must be 1 to 8 digits (the score
// cap is eight digits long).
func parseScore(text string) (int, error) {
	digits := strings.ReplaceAll(text, "'", "")
	if digits == "" {
		return 0, fmt.Errorf("no score digits recognized")
	}
	if len(digits) > 8 {
		return 0, fmt.Errorf("score %q has too many digits", digits)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("score %q: %w", digits, err)
	}
	return n, nil
}

// parseCounter interprets a recognized note counter (pure/far/lost/max
// recall), which is at most 5 digits on screen.
func parseCounter(text string) (int, error) {
	if text == "" {
		return 0, fmt.Errorf("no counter digits recognized")
	}
	if len(text) > 5 {
		return 0, fmt.Errorf("counter %q has too many digits", text)
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("counter %q: %w", text, err)
	}
	return n, nil
}

// parseDifficultyText tries interpretations of recognized difficulty text
// in order: an exact name or code, then a prefix of a name (recognition
// drops trailing characters it cannot place). At least three characters
// must have been read.
func parseDifficultyText(text string) (songs.Difficulty, error) {
	if d, err := songs.ParseDifficulty(text); err == nil {
		return d, nil
	}

	up := strings.ToUpper(strings.TrimSpace(text))
	if len(up) >= 3 {
		for _, d := range songs.Difficulties() {
			name := strings.ToUpper(d.String())
			if strings.HasPrefix(name, up) || strings.HasPrefix(up, name) {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("unreadable difficulty text %q", text)
}
