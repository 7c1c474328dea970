package centime

import (
	"context"

	"github.com/centimehq/centime/model"
)

// hdfcInstitution is the built-in HDFC Bank template. The rules cover the
// classic debit/credit alert wording plus the newer UPI/VPA variants, which
// must come after the generic forms so rule order decides ties.
func hdfcInstitution() model.Institution {
	return model.Institution{
		InstitutionID:  model.GenerateUUIDWithSuffix("ins"),
		Name:           "HDFC Bank",
		SenderIdentity: "alerts@hdfcbank.bank.in",
		Rules: []model.PatternRule{
			{
				RuleID: model.GenerateUUIDWithSuffix("rul"),
				Kind:   model.KindDebit,
				// "Rs. 1500.00 debited from a/c **1234 on 12-05-2024 to Zomato"
				Expression: `Rs\.?\s*(?P<amount>[\d,]+(?:\.\d{2})?)\s*(?:is\s+)?debited\s+from\s+(?:a/c|account)\s*(?:no\.?\s*)?\**(?P<account>\d{4})\s+on\s+(?P<date>\d{2}-\d{2}-\d{2,4})(?:\s+(?:to|at)\s+(?P<description>.*?))?(?:\.|\s+Your\b|$)`,
				DateLayout: "02-01-2006",
			},
			{
				RuleID: model.GenerateUUIDWithSuffix("rul"),
				Kind:   model.KindCredit,
				// "Rs. 5000.00 successfully credited to a/c **1234 by Salary on 12-05-2024"
				Expression: `Rs\.?\s*(?P<amount>[\d,]+(?:\.\d{2})?)\s*(?:is\s+)?successfully\s+credited\s+to\s+(?:your\s+)?(?:a/c|account)\s*(?:no\.?\s*)?\**(?P<account>\d{4})(?:\s+by\s+(?P<description>.*?))?\s+on\s+(?P<date>\d{2}-\d{2}-\d{2,4})`,
				DateLayout: "02-01-2006",
			},
			{
				RuleID: model.GenerateUUIDWithSuffix("rul"),
				Kind:   model.KindCredit,
				// "Rs. 1.00 is successfully credited to your account **0072 by VPA 7210072672@ptyes Ashwani Soni on 08-02-26."
				Expression: `Rs\.?\s*(?P<amount>[\d,]+(?:\.\d{2})?)\s*is\s*successfully\s*credited\s*to\s*your\s*account\s*\**(?P<account>\d{4})\s*by\s*VPA\s*(?P<description>.*?)\s*on\s*(?P<date>\d{2}-\d{2}-\d{2,4})`,
				DateLayout: "02-01-06",
			},
			{
				RuleID: model.GenerateUUIDWithSuffix("rul"),
				Kind:   model.KindDebit,
				// "Rs. 100.00 is debited from your account **0072 to VPA ... on 08-02-26."
				Expression: `Rs\.?\s*(?P<amount>[\d,]+(?:\.\d{2})?)\s*is\s*debited\s*from\s*your\s*account\s*\**(?P<account>\d{4})\s*to\s*VPA\s*(?P<description>.*?)\s*on\s*(?P<date>\d{2}-\d{2}-\d{2,4})`,
				DateLayout: "02-01-06",
			},
		},
	}
}

// SeedDefaultInstitutions installs the built-in bank templates. Seeding is an
// upsert keyed by institution name, so restarts refresh the rule sets instead
// of duplicating them.
func (c *Centime) SeedDefaultInstitutions(ctx context.Context) error {
	for _, institution := range []model.Institution{hdfcInstitution()} {
		if _, err := c.datasource.UpsertInstitution(ctx, institution); err != nil {
			return err
		}
	}
	return nil
}
