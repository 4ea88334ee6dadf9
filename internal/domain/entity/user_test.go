package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollNumberExact(t *testing.T) {
	valid := []string{"ECE2024-001", "CSE2023-042", "MEC2025-999"}
	for _, roll := range valid {
		assert.True(t, RollNumberExact.MatchString(roll), "%s should match", roll)
	}

	invalid := []string{"", "ece2024-001", "ECE2024001", "EC2024-001", "ECEX2024-001", "ECE24-001", "ECE2024-01", "XECE2024-001X"}
	for _, roll := range invalid {
		assert.False(t, RollNumberExact.MatchString(roll), "%s should not match", roll)
	}
}

func TestRollNumberPatternFindsEmbedded(t *testing.T) {
	text := "STUDENT ID CARD\nName: A. Example\nRoll: ECE2024-001\nValid until 2027"
	assert.Equal(t, "ECE2024-001", RollNumberPattern.FindString(text))

	assert.Empty(t, RollNumberPattern.FindString("no identifiers here"))
}
