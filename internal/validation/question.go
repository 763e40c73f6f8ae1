package validation

import (
	"fmt"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxTitleLen        = 256
	MaxTextLen         = 20000
	MaxTagsPerQuestion = 5
	MaxTagNameLen      = 20
	MaxAnswerTextLen   = 20000
)

var avatarExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

// ValidateQuestion checks title and body of a new question.
func ValidateQuestion(title, text string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return fmt.Errorf("title must not exceed %d characters", MaxTitleLen)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	if utf8.RuneCountInString(text) > MaxTextLen {
		return fmt.Errorf("text must not exceed %d characters", MaxTextLen)
	}
	return nil
}

// ValidateAnswer checks the body of a new answer.
func ValidateAnswer(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	if utf8.RuneCountInString(text) > MaxAnswerTextLen {
		return fmt.Errorf("text must not exceed %d characters", MaxAnswerTextLen)
	}
	return nil
}

// NormalizeTags trims names, drops empties and repeats (keeping first-seen
// order) and enforces the per-question limits. Names are case-sensitive.
func NormalizeTags(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		if utf8.RuneCountInString(name) > MaxTagNameLen {
			return nil, fmt.Errorf("tag %q must not exceed %d characters", name, MaxTagNameLen)
		}
		if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
			return nil, fmt.Errorf("tag %q must not contain whitespace", name)
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if len(out) > MaxTagsPerQuestion {
		return nil, fmt.Errorf("at most %d tags are allowed", MaxTagsPerQuestion)
	}
	return out, nil
}

// ValidateAvatar accepts a bare image file name such as "me.png".
func ValidateAvatar(name string) error {
	if name == "" || len(name) > 255 {
		return fmt.Errorf("avatar must be 1-255 characters")
	}
	if strings.ContainsAny(name, `/\`) || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("avatar must be a plain file name")
	}
	if _, ok := avatarExtensions[strings.ToLower(path.Ext(name))]; !ok {
		return fmt.Errorf("avatar must be a png, jpg, gif or webp image")
	}
	return nil
}
