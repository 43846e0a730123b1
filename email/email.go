package email

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/idna"
)

// RFC 5321 length limits, in octets.
const (
	maxLocalPartLength = 64
	maxDomainLength    = 253
	maxEmailLength     = 254
)

// atext are the characters allowed in an unquoted local part, with
// dots permitted only between runs.
var (
	dotAtomText     = regexp.MustCompile("^[A-Za-z0-9!#$%&'*+\\-/=?^_`{|}~]+(?:\\.[A-Za-z0-9!#$%&'*+\\-/=?^_`{|}~]+)*$")
	dotAtomTextUTF8 = regexp.MustCompile("^[A-Za-z0-9!#$%&'*+\\-/=?^_`{|}~\\p{L}\\p{M}\\p{N}]+(?:\\.[A-Za-z0-9!#$%&'*+\\-/=?^_`{|}~\\p{L}\\p{M}\\p{N}]+)*$")
	atextUTF8       = regexp.MustCompile("^[A-Za-z0-9!#$%&'*+\\-/=?^_`{|}~\\p{L}\\p{M}\\p{N}]$")
)

// Like idna.Lookup but without DNS length enforcement; length rules
// for email addresses differ and are checked separately.
var domainProfile = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.CheckHyphens(true),
	idna.StrictDomainName(true),
)

// Unicode dot variants that IDNA maps to an ASCII period.
var dotMapper = strings.NewReplacer(
	"。", ".",
	"．", ".",
	"｡", ".",
)

// SyntaxError reports why an address failed validation.
type SyntaxError struct {
	Message string
}

func (e *SyntaxError) Error() string {
	return e.Message
}

func syntaxErrorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprintf(format, args...)}
}

// ValidatedEmail holds the parsed forms of a syntactically valid
// address. The ASCII fields are empty when the local part needs
// SMTPUTF8.
type ValidatedEmail struct {
	Email          string `json:"email"`
	OriginalEmail  string `json:"original_email"`
	LocalPart      string `json:"local_part"`
	ASCIILocalPart string `json:"ascii_local_part,omitempty"`
	Domain         string `json:"domain"`
	ASCIIDomain    string `json:"ascii_domain"`
	ASCIIEmail     string `json:"ascii_email,omitempty"`
	SMTPUTF8       bool   `json:"smtputf8"`
}

// Validate checks addr and returns its parsed forms. Failures are
// always a *SyntaxError.
func Validate(addr string) (*ValidatedEmail, error) {
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return nil, syntaxErrorf("The email address is not valid. It must have exactly one @-sign.")
	}

	local := addr[:at]
	domainPart := addr[at+1:]

	if local == "" {
		return nil, syntaxErrorf("There must be something before the @-sign.")
	}
	if domainPart == "" {
		return nil, syntaxErrorf("There must be something after the @-sign.")
	}

	localPart, asciiLocal, smtputf8, err := validateLocalPart(local)
	if err != nil {
		return nil, err
	}

	domain, asciiDomain, err := validateDomain(domainPart)
	if err != nil {
		return nil, err
	}

	v := &ValidatedEmail{
		Email:          localPart + "@" + domain,
		OriginalEmail:  addr,
		LocalPart:      localPart,
		ASCIILocalPart: asciiLocal,
		Domain:         domain,
		ASCIIDomain:    asciiDomain,
		SMTPUTF8:       smtputf8,
	}
	if !smtputf8 {
		v.ASCIIEmail = asciiLocal + "@" + asciiDomain
	}

	if err := checkLength(v); err != nil {
		return nil, err
	}
	return v, nil
}

func validateLocalPart(local string) (localPart, asciiLocal string, smtputf8 bool, err error) {
	if over := len(local) - maxLocalPartLength; over > 0 {
		return "", "", false, syntaxErrorf(
			"The email address is too long before the @-sign (%s too many).", characters(over))
	}

	if dotAtomText.MatchString(local) {
		return local, local, false, nil
	}
	if dotAtomTextUTF8.MatchString(local) {
		return local, "", true, nil
	}

	// Either a dot in a bad position or a character outside atext.
	bad := map[string]struct{}{}
	for _, r := range local {
		s := string(r)
		if s != "." && !atextUTF8.MatchString(s) {
			bad[s] = struct{}{}
		}
	}
	if len(bad) == 0 {
		bad["."] = struct{}{}
	}
	chars := make([]string, 0, len(bad))
	for s := range bad {
		chars = append(chars, s)
	}
	sort.Strings(chars)
	return "", "", false, syntaxErrorf(
		"The email address contains invalid characters before the @-sign: %s.", strings.Join(chars, ", "))
}

func validateDomain(domainPart string) (domain, asciiDomain string, err error) {
	mapped := dotMapper.Replace(domainPart)

	if strings.HasPrefix(mapped, ".") {
		return "", "", syntaxErrorf("An email address cannot have a period immediately after the @-sign.")
	}
	if strings.HasSuffix(mapped, ".") {
		return "", "", syntaxErrorf("An email address cannot end with a period.")
	}
	if strings.Contains(mapped, "..") {
		return "", "", syntaxErrorf("An email address cannot have two periods in a row.")
	}

	asciiDomain, err = domainProfile.ToASCII(mapped)
	if err != nil {
		return "", "", syntaxErrorf(
			"The domain name %s contains invalid characters (%v).", domainPart, err)
	}
	asciiDomain = strings.ToLower(asciiDomain)

	if len(asciiDomain) > maxDomainLength {
		return "", "", syntaxErrorf("The email address is too long after the @-sign.")
	}

	domain, err = domainProfile.ToUnicode(asciiDomain)
	if err != nil {
		domain = asciiDomain
	}
	return domain, asciiDomain, nil
}

func checkLength(v *ValidatedEmail) error {
	if v.SMTPUTF8 {
		if len(v.Email) > maxEmailLength {
			return syntaxErrorf("The email address is too long (when encoded in bytes).")
		}
		if len(v.LocalPart)+1+len(v.ASCIIDomain) > maxEmailLength {
			return syntaxErrorf("The email address is too long (when converted to IDNA ASCII).")
		}
		return nil
	}
	if over := len(v.ASCIIEmail) - maxEmailLength; over > 0 {
		return syntaxErrorf("The email address is too long (%s too many).", characters(over))
	}
	return nil
}

func characters(n int) string {
	if n == 1 {
		return "1 character"
	}
	return fmt.Sprintf("%d characters", n)
}
