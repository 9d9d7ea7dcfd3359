package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fileconvert-backend/internal/convert"
)

func TestIsOfficeMime(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		want     bool
	}{
		{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true},
		{"pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation", true},
		{"pdf", "application/pdf", false},
		{"plain text", "text/plain", false},
		{"legacy doc", "application/msword", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convert.IsOfficeMime(tt.mimeType))
		})
	}
}
