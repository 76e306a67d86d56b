package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/diary/internal/common"
)

const (
	maxUsernameLen = 64
	maxPasswordLen = 1024
	maxNameLen     = 128
	maxEmailLen    = 254
	maxTitleLen    = 256
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

func validateCredentials(username, password string) error {
	switch {
	case username == "":
		return invalid("username is empty")
	case strings.TrimSpace(username) != username:
		return invalid("username has surrounding whitespace")
	case utf8.RuneCountInString(username) > maxUsernameLen:
		return invalid("username longer than %d characters", maxUsernameLen)
	case strings.ContainsAny(username, "/?#"):
		return invalid("username contains a reserved character")
	case password == "":
		return invalid("password is empty")
	case len(password) > maxPasswordLen:
		return invalid("password longer than %d bytes", maxPasswordLen)
	}
	return nil
}

func validateName(field, name string, max int) error {
	if strings.TrimSpace(name) == "" {
		return invalid("%s is empty", field)
	}
	if utf8.RuneCountInString(name) > max {
		return invalid("%s longer than %d characters", field, max)
	}
	return nil
}

// ValidDate reports whether date is a real calendar day written as YYYYMMDD.
func ValidDate(date int64) bool {
	if date < 10000101 || date > 99991231 {
		return false
	}
	_, err := time.Parse("20060102", fmt.Sprintf("%08d", date))
	return err == nil
}
