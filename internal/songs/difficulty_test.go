package songs

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"FTR", DifficultyFuture, false},
		{"ftr", DifficultyFuture, false},
		{"Future", DifficultyFuture, false},
		{"future", DifficultyFuture, false},
		{" PST ", DifficultyPast, false},
		{"PRS", DifficultyPresent, false},
		{"ETR", DifficultyEternal, false},
		{"Beyond", DifficultyBeyond, false},
		{"EXPERT", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDifficulty(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDifficulty(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseDifficulty(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDifficultyNames(t *testing.T) {
	if got := DifficultyFuture.String(); got != "Future" {
		t.Errorf("String() = %q, want %q", got, "Future")
	}
	if got := DifficultyBeyond.Code(); got != "BYD" {
		t.Errorf("Code() = %q, want %q", got, "BYD")
	}
	if got := Difficulty(42).String(); got != "Unknown" {
		t.Errorf("out-of-range String() = %q, want %q", got, "Unknown")
	}
}

func TestDifficultyJSON(t *testing.T) {
	data, err := json.Marshal(Chart{ID: 1, Difficulty: DifficultyBeyond, Level: "10"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"BYD"`) {
		t.Errorf("marshaled chart = %s, want difficulty code \"BYD\"", data)
	}

	var c Chart
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Difficulty != DifficultyBeyond {
		t.Errorf("difficulty = %s, want Beyond", c.Difficulty)
	}

	if err := json.Unmarshal([]byte(`{"difficulty":"EASY"}`), &c); err == nil {
		t.Error("unmarshal accepted an unknown difficulty")
	}
}
