package centime

import (
	"context"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/centimehq/centime/internal/apierror"
	"github.com/centimehq/centime/model"
)

// CreateInstitution registers a new institution with its pattern rules.
// Expressions that do not compile are accepted but logged; the extraction
// engine skips them at match time.
func (c *Centime) CreateInstitution(ctx context.Context, institution model.Institution) (model.Institution, error) {
	if institution.Name == "" {
		return model.Institution{}, apierror.NewAPIError(apierror.ErrInvalidInput, "Institution name is required", nil)
	}

	institution.InstitutionID = model.GenerateUUIDWithSuffix("ins")
	for i := range institution.Rules {
		rule := &institution.Rules[i]
		rule.RuleID = model.GenerateUUIDWithSuffix("rul")
		rule.InstitutionID = institution.InstitutionID
		rule.Position = i
		if _, err := regexp.Compile("(?i)" + rule.Expression); err != nil {
			logrus.Warnf("institution %s: rule %d does not compile and will never match: %v", institution.Name, i, err)
		}
	}

	return c.datasource.CreateInstitution(ctx, institution)
}

func (c *Centime) GetInstitutions(ctx context.Context) ([]model.Institution, error) {
	return c.datasource.GetAllInstitutions(ctx)
}

func (c *Centime) GetInstitution(ctx context.Context, id string) (*model.Institution, error) {
	return c.datasource.GetInstitution(ctx, id)
}
