package centime

import (
	"context"

	"github.com/centimehq/centime/internal/apierror"
	"github.com/centimehq/centime/model"
)

// CreateHolder registers a new holder with a zero balance.
func (c *Centime) CreateHolder(ctx context.Context, holder model.Holder) (model.Holder, error) {
	if holder.Email == "" {
		return model.Holder{}, apierror.NewAPIError(apierror.ErrInvalidInput, "Holder email is required", nil)
	}
	if holder.CurrencyCode == "" {
		holder.CurrencyCode = "INR"
	}

	holder.HolderID = model.GenerateUUIDWithSuffix("hld")
	return c.datasource.CreateHolder(ctx, holder)
}

func (c *Centime) GetHolder(ctx context.Context, id string) (*model.Holder, error) {
	return c.datasource.GetHolder(ctx, id)
}

func (c *Centime) GetAllHolders(ctx context.Context) ([]model.Holder, error) {
	return c.datasource.GetAllHolders(ctx)
}
