package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessLevelSatisfies(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		required string
		want     bool
	}{
		{"admin đạt mọi mức", AccessLevelAdministrator, AccessLevelReadOnly, true},
		{"admin đạt conductor", AccessLevelAdministrator, AccessLevelConductor, true},
		{"admin đạt admin", AccessLevelAdministrator, AccessLevelAdministrator, true},
		{"conductor đạt read-only", AccessLevelConductor, AccessLevelReadOnly, true},
		{"conductor đạt chính nó", AccessLevelConductor, AccessLevelConductor, true},
		{"conductor không đạt admin", AccessLevelConductor, AccessLevelAdministrator, false},
		{"read-only không đạt conductor", AccessLevelReadOnly, AccessLevelConductor, false},
		{"read-only đạt chính nó", AccessLevelReadOnly, AccessLevelReadOnly, true},
		{"level lạ luôn trượt", "superuser", AccessLevelReadOnly, false},
		{"required lạ luôn trượt", AccessLevelAdministrator, "owner", false},
		{"rỗng trượt", "", AccessLevelReadOnly, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AccessLevelSatisfies(tt.level, tt.required))
		})
	}
}
