// Package policy holds the stateless input validation rules for registration
// and login. Registration checks are specific (they tell a legitimate user
// what to fix); the login shape check is deliberately generic so error
// messages cannot be used to probe accounts or password policy.
package policy

import (
	"net/mail"
	"regexp"
	"strings"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 20
	minPasswordLength = 12
	maxPasswordLength = 72
	minLoginPassword  = 8
)

// MalformedLoginMessage is the single message returned for every login shape
// failure, regardless of which field was at fault.
const MalformedLoginMessage = "login details are incomplete or malformed"

var (
	usernamePattern   = regexp.MustCompile(`^[a-zA-Z0-9@#$]+$`)
	tagPattern        = regexp.MustCompile(`(?is)<script.*?>.*?</script>|<.*?>`)
	loginEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	digitPattern  = regexp.MustCompile(`[0-9]`)
	upperPattern  = regexp.MustCompile(`[A-Z]`)
	lowerPattern  = regexp.MustCompile(`[a-z]`)
	symbolPattern = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

// Result is the outcome of a validation check. Message is empty on success
// and carries the first failed rule's message otherwise.
type Result struct {
	Valid   bool
	Message string
}

// rule pairs a failure predicate with the message surfaced when it fires.
// Rules are evaluated in order with early exit, so only the first violated
// rule's message is ever returned.
type rule struct {
	fails   func(string) bool
	message string
}

func evaluate(input string, rules []rule) Result {
	for _, r := range rules {
		if r.fails(input) {
			return Result{Message: r.message}
		}
	}
	return Result{Valid: true}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

var usernameRules = []rule{
	{isBlank, "input must not be empty"},
	{func(s string) bool { return len(s) < minUsernameLength || len(s) > maxUsernameLength },
		"length must be between 3 and 20 characters"},
	{func(s string) bool { return !usernamePattern.MatchString(s) },
		"only letters, digits and @, #, $ are allowed"},
}

var passwordRules = []rule{
	{isBlank, "password must not be empty"},
	{func(s string) bool { return len(s) < minPasswordLength },
		"password must be at least 12 characters"},
	// bcrypt only reads the first 72 bytes of its input; anything longer
	// must be rejected here so the hasher never sees it.
	{func(s string) bool { return len(s) > maxPasswordLength },
		"password must be at most 72 characters"},
	{func(s string) bool { return !digitPattern.MatchString(s) },
		"password must contain at least one digit (0-9)"},
	{func(s string) bool { return !upperPattern.MatchString(s) },
		"password must contain at least one uppercase letter"},
	{func(s string) bool { return !lowerPattern.MatchString(s) },
		"password must contain at least one lowercase letter"},
	{func(s string) bool { return !symbolPattern.MatchString(s) },
		"password must contain at least one special character"},
}

// ValidateUsername checks emptiness, length and character class, in that
// order.
func ValidateUsername(input string) Result {
	return evaluate(input, usernameRules)
}

// ValidatePassword enforces the registration complexity policy: between 12
// and 72 characters with a digit, an uppercase letter, a lowercase letter and
// a symbol. The upper bound matches the hasher's input limit, so any password
// that clears this gate can always be hashed.
func ValidatePassword(input string) Result {
	return evaluate(input, passwordRules)
}

// IsSafeInput reports whether input is free of HTML/script tag patterns.
// It is a blacklist, not a sanitiser: suspect input is rejected, never
// stripped. Empty input counts as unsafe.
func IsSafeInput(input string) bool {
	if isBlank(input) {
		return false
	}
	return !tagPattern.MatchString(input)
}

// ValidateEmail accepts a bare local@domain.tld address. The input must
// survive a round trip through the canonical address parser unchanged, which
// rejects anything the parser would silently normalise (display names,
// comments, angle brackets).
func ValidateEmail(input string) Result {
	if !loginEmailPattern.MatchString(input) {
		return Result{Message: "email address is not valid"}
	}
	addr, err := mail.ParseAddress(input)
	if err != nil || addr.Address != input {
		return Result{Message: "email address is not valid"}
	}
	return Result{Valid: true}
}

// ValidateLogin is the generic pre-check run before any store lookup: both
// fields present, relaxed email shape, password of at least 8 characters.
// Every failure returns the same message.
func ValidateLogin(email, password string) Result {
	if isBlank(email) || isBlank(password) {
		return Result{Message: MalformedLoginMessage}
	}
	if !loginEmailPattern.MatchString(email) {
		return Result{Message: MalformedLoginMessage}
	}
	if len(password) < minLoginPassword {
		return Result{Message: MalformedLoginMessage}
	}
	return Result{Valid: true}
}
