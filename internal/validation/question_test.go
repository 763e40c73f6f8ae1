package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateQuestion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		title   string
		text    string
		wantErr bool
	}{
		{"Valid", "How do I seed?", "Some details", false},
		{"Blank Title", "   ", "text", true},
		{"Blank Text", "title", "\n", true},
		{"Title At Limit", strings.Repeat("é", MaxTitleLen), "text", false},
		{"Title Too Long", strings.Repeat("t", MaxTitleLen+1), "text", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestion(tt.title, tt.text)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	got, err := NormalizeTags([]string{" go ", "Go", "go", "", "sql"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "Go", "sql"}, got)

	_, err = NormalizeTags([]string{"a", "b", "c", "d", "e", "f"})
	assert.Error(t, err)

	_, err = NormalizeTags([]string{strings.Repeat("x", MaxTagNameLen+1)})
	assert.Error(t, err)

	_, err = NormalizeTags([]string{"two words"})
	assert.Error(t, err)

	empty, err := NormalizeTags(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestValidateAvatar(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateAvatar("me.PNG"))
	assert.NoError(t, ValidateAvatar("common_avatar.png"))
	assert.Error(t, ValidateAvatar("../etc/passwd.png"))
	assert.Error(t, ValidateAvatar("script.js"))
	assert.Error(t, ValidateAvatar(".png"))
	assert.Error(t, ValidateAvatar(""))
}

func TestValidateAnswer(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateAnswer("use CreateInBatches"))
	assert.Error(t, ValidateAnswer("  "))
}
