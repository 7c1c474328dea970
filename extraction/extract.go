package extraction

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/centimehq/centime/model"
)

// ErrNoMatch is returned once every rule in the set has been tried and
// failed. Callers treat it as a normal skip outcome, not a failure.
var ErrNoMatch = errors.New("no pattern rule matched")

// DefaultDescription is used when a matching rule has no description slot
// or captures an empty one.
const DefaultDescription = "Bank Transaction"

// timeNow is swapped in tests to pin the fallback date.
var timeNow = time.Now

// Candidate is an extracted transaction before persistence.
type Candidate struct {
	RuleID       string
	Kind         string
	Amount       decimal.Decimal
	AccountLast4 string
	Description  string
	Date         time.Time
}

// Extract normalizes text and evaluates the institution's rules strictly in
// list order, returning the first successful candidate. A rule whose
// expression fails to compile is logged and skipped; a structural match
// whose amount slot does not parse falls through to the next rule, since an
// amount is mandatory evidence of a transaction. The engine is pure and
// deterministic: identical text and rules always yield identical fields.
func Extract(text string, rules []model.PatternRule) (*Candidate, error) {
	clean := CleanText(text)

	for _, rule := range rules {
		re, err := regexp.Compile("(?i)" + rule.Expression)
		if err != nil {
			logrus.Warnf("skipping malformed rule %s: %v", rule.RuleID, err)
			continue
		}

		match := re.FindStringSubmatch(clean)
		if match == nil {
			continue
		}
		groups := namedGroups(re, match)

		amountStr := strings.ReplaceAll(groups["amount"], ",", "")
		if amountStr == "" {
			continue
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			continue
		}

		description := strings.TrimSpace(groups["description"])
		if description == "" {
			description = DefaultDescription
		}

		return &Candidate{
			RuleID:       rule.RuleID,
			Kind:         rule.Kind,
			Amount:       amount,
			AccountLast4: groups["account"],
			Description:  description,
			Date:         parseDate(groups["date"], rule.DateLayout, timeNow()),
		}, nil
	}

	return nil, ErrNoMatch
}

func namedGroups(re *regexp.Regexp, match []string) map[string]string {
	groups := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name == "" || i >= len(match) {
			continue
		}
		groups[name] = match[i]
	}
	return groups
}
