package event

import "testing"

func TestSeverityNumberTable(t *testing.T) {
	tests := []struct {
		text string
		want int32
	}{
		{"TRACE", 1},
		{"DEBUG", 5},
		{"INFO", 9},
		{"WARN", 13},
		{"WARNING", 13},
		{"ERROR", 17},
		{"FATAL", 21},
		{"CRITICAL", 21},
		{"", 9},
		{"NONSENSE", 9},
	}
	for _, tt := range tests {
		if got := SeverityNumber(tt.text); got != tt.want {
			t.Errorf("SeverityNumber(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
