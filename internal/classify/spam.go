package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mailsift/mailsift/internal/model"
)

// Spam heuristic thresholds.
const (
	// shoutMinSubjectLen is the minimum subject length before the
	// uppercase-ratio check applies.
	shoutMinSubjectLen = 10
	// shoutUppercaseRatio is the uppercase fraction above which a subject
	// counts as shouting.
	shoutUppercaseRatio = 0.7
)

// spamPhrasePatterns are known scam/promotional phrase groups. First match
// wins; there is no accumulation.
var spamPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(you have|you've)\s+won`),
	regexp.MustCompile(`(?i)claim\s+your\s+(prize|reward|gift)`),
	regexp.MustCompile(`(?i)(lottery|jackpot)\s+(win|winner)`),
	regexp.MustCompile(`(?i)make\s+money\s+fast`),
	regexp.MustCompile(`(?i)(miracle|guaranteed)\s+(cure|results|income)`),
	regexp.MustCompile(`(?i)100%\s*(free|gratuit)`),
	regexp.MustCompile(`(?i)act\s+now.{0,20}(limited|offer)`),
	regexp.MustCompile(`(?i)f[ée]licitations.{0,30}gagn[ée]`),
	regexp.MustCompile(`(?i)cliquez\s+ici\s+pour\s+r[ée]clamer`),
	regexp.MustCompile(`(?i)offre\s+exclusive.{0,20}limit[ée]e`),
	regexp.MustCompile(`(?i)(hot|sexy)\s+singles`),
	regexp.MustCompile(`(?i)no\s+credit\s+check`),
}

// disposableDomainHints flag throwaway sender domains by substring.
var disposableDomainHints = []string{
	"tempmail",
	"temp-mail",
	"throwaway",
	"guerrillamail",
	"mailinator",
	"10minutemail",
	"trashmail",
	"yopmail",
	"fakeinbox",
	"getnada",
}

// SpamDetector applies a small set of pre-filters before category scoring.
type SpamDetector struct {
	phrases     []*regexp.Regexp
	domainHints []string
}

// NewSpamDetector returns a detector with the default phrase and domain lists.
func NewSpamDetector() *SpamDetector {
	return &SpamDetector{
		phrases:     spamPhrasePatterns,
		domainHints: disposableDomainHints,
	}
}

// Check reports whether any heuristic flags the email as spam. text is the
// email's combined analysis text.
func (d *SpamDetector) Check(email *model.Email, text string) bool {
	for _, re := range d.phrases {
		if re.MatchString(text) {
			return true
		}
	}

	if isShouting(email.Subject) {
		return true
	}

	domain := senderDomain(email.SenderAddress())
	if domain != "" {
		for _, hint := range d.domainHints {
			if strings.Contains(domain, hint) {
				return true
			}
		}
	}

	return false
}

// isShouting reports whether a subject is mostly uppercase letters.
func isShouting(subject string) bool {
	if utf8.RuneCountInString(subject) <= shoutMinSubjectLen {
		return false
	}
	letters, uppers := 0, 0
	for _, r := range subject {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			uppers++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(uppers)/float64(letters) > shoutUppercaseRatio
}

func senderDomain(address string) string {
	if at := strings.LastIndexByte(address, '@'); at >= 0 {
		return address[at+1:]
	}
	return ""
}
