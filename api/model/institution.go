package model

// CreateInstitution is the request body for registering an institution with
// its extraction rules.
type CreateInstitution struct {
	Name           string             `json:"name"`
	SenderIdentity string             `json:"sender_identity"`
	Rules          []PatternRuleInput `json:"rules"`
}

// PatternRuleInput is one extraction rule in a CreateInstitution request.
// Rules are stored and evaluated in the order they are given.
type PatternRuleInput struct {
	Kind       string `json:"kind"`
	Expression string `json:"match_expression"`
	DateLayout string `json:"date_layout"`
}

// CreateHolder is the request body for registering a holder.
type CreateHolder struct {
	Email        string `json:"email"`
	CurrencyCode string `json:"currency_code"`
}
