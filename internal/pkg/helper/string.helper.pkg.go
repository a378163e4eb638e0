package helper

import (
	"strings"
)

// NormalizeConfirmationCode uppercases and trims a manual confirmation code
// the way customers copy them out of provider messages.
func NormalizeConfirmationCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
