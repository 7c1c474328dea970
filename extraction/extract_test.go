package extraction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/centimehq/centime/model"
)

const debitExpression = `Rs\.?\s*(?P<amount>[\d,]+(?:\.\d{2})?)\s*(?:is\s+)?debited\s+from\s+(?:a/c|account)\s*(?:no\.?\s*)?\**(?P<account>\d{4})\s+on\s+(?P<date>\d{2}-\d{2}-\d{2,4})(?:\s+(?:to|at)\s+(?P<description>.*?))?(?:\.|$)`

const creditExpression = `Rs\.?\s*(?P<amount>[\d,]+(?:\.\d{2})?)\s*(?:is\s+)?successfully\s+credited\s+to\s+(?:your\s+)?(?:a/c|account)\s*(?:no\.?\s*)?\**(?P<account>\d{4})(?:\s+by\s+(?P<description>.*?))?\s+on\s+(?P<date>\d{2}-\d{2}-\d{2,4})`

func debitRule() model.PatternRule {
	return model.PatternRule{
		RuleID:     "rul_debit",
		Kind:       model.KindDebit,
		Expression: debitExpression,
		DateLayout: "02-01-2006",
	}
}

func creditRule() model.PatternRule {
	return model.PatternRule{
		RuleID:     "rul_credit",
		Kind:       model.KindCredit,
		Expression: creditExpression,
		DateLayout: "02-01-2006",
	}
}

func TestExtract_DebitEndToEnd(t *testing.T) {
	text := "Rs. 1,500.00 debited from a/c **1234 on 12-05-2024 to Zomato UPI"

	candidate, err := Extract(text, []model.PatternRule{debitRule()})
	assert.NoError(t, err)
	assert.Equal(t, model.KindDebit, candidate.Kind)
	assert.True(t, candidate.Amount.Equal(decimal.RequireFromString("1500.00")), "amount was %s", candidate.Amount)
	assert.Equal(t, "1234", candidate.AccountLast4)
	assert.Equal(t, "Zomato UPI", candidate.Description)
	assert.Equal(t, time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC), candidate.Date)
}

func TestExtract_CreditWithGroupingSeparators(t *testing.T) {
	text := "Rs. 25,000.00 is successfully credited to your account **0072 by Salary on 01-03-2024"

	candidate, err := Extract(text, []model.PatternRule{debitRule(), creditRule()})
	assert.NoError(t, err)
	assert.Equal(t, model.KindCredit, candidate.Kind)
	assert.True(t, candidate.Amount.Equal(decimal.RequireFromString("25000.00")))
	assert.Equal(t, "Salary", candidate.Description)
}

func TestExtract_NoMatch(t *testing.T) {
	candidate, err := Extract("Your OTP for net banking is 482910", []model.PatternRule{debitRule(), creditRule()})
	assert.Nil(t, candidate)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestExtract_EmptyRuleSet(t *testing.T) {
	_, err := Extract("Rs. 10.00 debited from a/c **1234 on 12-05-2024", nil)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestExtract_MalformedRuleIsSkipped(t *testing.T) {
	rules := []model.PatternRule{
		{RuleID: "rul_bad", Kind: model.KindDebit, Expression: `Rs\.(?P<amount>[\d,]+`}, // unbalanced paren
		debitRule(),
	}

	candidate, err := Extract("Rs. 99.00 debited from a/c **1234 on 12-05-2024 to Swiggy", rules)
	assert.NoError(t, err)
	assert.Equal(t, "rul_debit", candidate.RuleID)
	assert.Equal(t, "Swiggy", candidate.Description)
}

func TestExtract_RuleOrderWins(t *testing.T) {
	// Both rules structurally match; the earlier one must win, repeatedly.
	specific := model.PatternRule{RuleID: "rul_specific", Kind: model.KindDebit, Expression: `Rs\.\s*(?P<amount>[\d,]+\.\d{2}) debited`}
	generic := model.PatternRule{RuleID: "rul_generic", Kind: model.KindDebit, Expression: `(?P<amount>[\d,]+\.\d{2})`}

	for i := 0; i < 5; i++ {
		candidate, err := Extract("Rs. 42.00 debited", []model.PatternRule{specific, generic})
		assert.NoError(t, err)
		assert.Equal(t, "rul_specific", candidate.RuleID)
	}
}

func TestExtract_AmountFailureFallsThrough(t *testing.T) {
	// First rule matches structurally but its amount group captures nothing
	// numeric; evaluation must continue to the next rule.
	noAmount := model.PatternRule{RuleID: "rul_noamount", Kind: model.KindDebit, Expression: `(?P<amount>)debited`}

	candidate, err := Extract("Rs. 77.00 debited from a/c **1234 on 12-05-2024", []model.PatternRule{noAmount, debitRule()})
	assert.NoError(t, err)
	assert.Equal(t, "rul_debit", candidate.RuleID)
	assert.True(t, candidate.Amount.Equal(decimal.RequireFromString("77.00")))
}

func TestExtract_DefaultDescription(t *testing.T) {
	candidate, err := Extract("Rs. 310.00 debited from a/c **1234 on 12-05-2024", []model.PatternRule{debitRule()})
	assert.NoError(t, err)
	assert.Equal(t, DefaultDescription, candidate.Description)
}

func TestExtract_TwoDigitYearExpansion(t *testing.T) {
	candidate, err := Extract("Rs. 1.00 debited from a/c **1234 on 08-02-26 to Tea Stall", []model.PatternRule{debitRule()})
	assert.NoError(t, err)
	assert.Equal(t, 2026, candidate.Date.Year())
	assert.Equal(t, time.February, candidate.Date.Month())
	assert.Equal(t, 8, candidate.Date.Day())
}

func TestExtract_UnparsableDateDefaultsToNow(t *testing.T) {
	fixed := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	rule := model.PatternRule{
		RuleID:     "rul_odd",
		Kind:       model.KindDebit,
		Expression: `Rs\.\s*(?P<amount>[\d,]+\.\d{2}) debited on (?P<date>\S+)`,
	}

	candidate, err := Extract("Rs. 12.00 debited on someday", []model.PatternRule{rule})
	assert.NoError(t, err)
	assert.Equal(t, fixed, candidate.Date)
}

func TestExtract_MissingDateSlotDefaultsToNow(t *testing.T) {
	fixed := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	rule := model.PatternRule{
		RuleID:     "rul_nodate",
		Kind:       model.KindCredit,
		Expression: `credited with Rs\.\s*(?P<amount>[\d,]+\.\d{2})`,
	}

	candidate, err := Extract("Your account was credited with Rs. 5.00 today", []model.PatternRule{rule})
	assert.NoError(t, err)
	assert.Equal(t, fixed, candidate.Date)
}

func TestExtract_Deterministic(t *testing.T) {
	text := "<html><body>Rs. 1,500.00 debited from a/c **1234 on 12-05-2024 to Zomato UPI</body></html>"
	rules := []model.PatternRule{debitRule(), creditRule()}

	first, err := Extract(text, rules)
	assert.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := Extract(text, rules)
		assert.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
