package logger

import (
	"fmt"
	"runtime"
	"strings"
)

// FilenameValidationError represents an error in filename pattern validation
type FilenameValidationError struct {
	Pattern      string
	InvalidChars []rune
	Platform     string
	Suggestion   string
}

func (e *FilenameValidationError) Error() string {
	charList := make([]string, len(e.InvalidChars))
	for i, char := range e.InvalidChars {
		charList[i] = fmt.Sprintf("'%c'", char)
	}

	msg := fmt.Sprintf("invalid filename pattern %q contains invalid characters: %s",
		e.Pattern, strings.Join(charList, ", "))

	if e.Platform != "all" {
		msg += fmt.Sprintf(" (invalid on %s)", e.Platform)
	}

	if e.Suggestion != "" {
		msg += fmt.Sprintf(". Suggestion: %s", e.Suggestion)
	}

	return msg
}

// ValidateFilenamePattern checks that a log filename pattern names a single
// file that can be created on the current platform. Directories belong in
// Config.Directory, so path separators are rejected everywhere.
func ValidateFilenamePattern(pattern string) error {
	if pattern == "" {
		return nil // Empty pattern uses default, which is safe
	}

	invalid := findInvalidChars(pattern, runtime.GOOS)
	if len(invalid) == 0 {
		return nil
	}

	platform := "all"
	for _, r := range invalid {
		if !strings.ContainsRune("/\\\x00", r) {
			platform = "Windows"
			break
		}
	}

	return &FilenameValidationError{
		Pattern:      pattern,
		InvalidChars: invalid,
		Platform:     platform,
		Suggestion:   suggestFilename(pattern, invalid),
	}
}

// findInvalidChars returns the characters of filename that goos cannot use.
// AIDEV-NOTE: Windows reserves more characters than Unix-like systems
func findInvalidChars(filename, goos string) []rune {
	forbidden := "/\\\x00"
	if goos == "windows" {
		forbidden += `<>:"|?*`
	}

	var invalid []rune
	for _, char := range forbidden {
		if strings.ContainsRune(filename, char) {
			invalid = append(invalid, char)
		}
	}
	return invalid
}

// suggestFilename provides a safe alternative pattern
func suggestFilename(pattern string, invalidChars []rune) string {
	replacements := map[rune]string{
		'/':    "-", // %Y/%m/%d -> %Y-%m-%d
		'\\':   "-",
		':':    "-", // %H:%M -> %H-%M
		'|':    "-",
		'*':    "X",
		'?':    "X",
		'<':    "",
		'>':    "",
		'"':    "",
		'\x00': "",
	}

	suggestion := pattern
	for _, char := range invalidChars {
		suggestion = strings.ReplaceAll(suggestion, string(char), replacements[char])
	}

	for strings.Contains(suggestion, "--") {
		suggestion = strings.ReplaceAll(suggestion, "--", "-")
	}
	return suggestion
}
