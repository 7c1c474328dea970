package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDWithSuffix(t *testing.T) {
	module := "test_module"
	id := GenerateUUIDWithSuffix(module)
	assert.Contains(t, id, module+"_")
}

func TestTransaction_SignedAmount(t *testing.T) {
	credit := &Transaction{Amount: decimal.NewFromFloat(250.75), Kind: KindCredit}
	assert.True(t, credit.SignedAmount().Equal(decimal.NewFromFloat(250.75)))

	debit := &Transaction{Amount: decimal.NewFromFloat(250.75), Kind: KindDebit}
	assert.True(t, debit.SignedAmount().Equal(decimal.NewFromFloat(-250.75)))
}

func TestTransaction_IsTerminal(t *testing.T) {
	pending := &Transaction{Status: StatusPending}
	assert.False(t, pending.IsTerminal())

	confirmed := &Transaction{Status: StatusConfirmed}
	assert.True(t, confirmed.IsTerminal())

	discarded := &Transaction{Status: StatusDiscarded}
	assert.True(t, discarded.IsTerminal())
}

func TestInstitution_MatchesSender(t *testing.T) {
	institution := &Institution{SenderIdentity: "alerts@hdfcbank.bank.in"}

	assert.True(t, institution.MatchesSender("HDFC Bank <Alerts@HDFCBank.bank.in>"))
	assert.True(t, institution.MatchesSender("alerts@hdfcbank.bank.in"))
	assert.False(t, institution.MatchesSender("noreply@icicibank.com"))
}

func TestInstitution_MatchesSender_EmptyIdentity(t *testing.T) {
	institution := &Institution{SenderIdentity: "   "}
	assert.False(t, institution.MatchesSender("alerts@hdfcbank.bank.in"))
}
