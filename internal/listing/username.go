package listing

import (
	"fmt"
	"regexp"
	"strings"
)

// handlePattern is the allowed username shape: 3-20 characters of letters,
// digits, and underscores.
var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// reservedHandles can never be claimed. Mostly route names and roles that
// would be confusing or abusable as usernames.
var reservedHandles = map[string]struct{}{
	"admin": {}, "root": {}, "user": {}, "test": {}, "api": {}, "www": {},
	"mail": {}, "support": {}, "help": {}, "info": {}, "contact": {},
	"about": {}, "terms": {}, "privacy": {}, "dashboard": {}, "profile": {},
	"settings": {}, "auth": {}, "login": {}, "signup": {}, "register": {},
	"swapzo": {}, "offers": {}, "needs": {}, "messages": {}, "history": {},
}

// InvalidHandleError reports a handle that fails format or reserved-name
// rules. Callers use it to distinguish client mistakes from store failures.
type InvalidHandleError struct {
	Handle string
	Reason string
}

func (e *InvalidHandleError) Error() string { return e.Reason }

// ValidateHandle checks the handle's format and reserved-name status.
// Uniqueness is a separate, store-backed check.
func ValidateHandle(handle string) error {
	if handle == "" {
		return &InvalidHandleError{Handle: handle, Reason: "username is required"}
	}
	if !handlePattern.MatchString(handle) {
		return &InvalidHandleError{Handle: handle, Reason: "username must be 3-20 characters long and contain only letters, numbers, and underscores"}
	}
	if _, reserved := reservedHandles[strings.ToLower(handle)]; reserved {
		return &InvalidHandleError{Handle: handle, Reason: fmt.Sprintf("username %q is reserved", handle)}
	}
	return nil
}

// HandleFromEmail derives a candidate handle from an email's local part,
// keeping only letters and digits, lower-cased.
func HandleFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}

// SuggestHandles produces numbered variants of a desired handle, trimming the
// base so every suggestion stays within the 20-character limit.
func SuggestHandles(desired string, count int) []string {
	base := strings.ToLower(desired)
	if len(base) > 17 {
		base = base[:17]
	}
	suggestions := make([]string, 0, count)
	for i := 1; len(suggestions) < count && i <= count+5; i++ {
		s := fmt.Sprintf("%s%d", base, i)
		if ValidateHandle(s) == nil {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions
}
