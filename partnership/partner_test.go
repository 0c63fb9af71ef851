package partnership

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIdentity(t *testing.T) {
	identity, err := ParseIdentity(" 42 ")
	require.NoError(t, err)
	require.NotNil(t, identity.ID)
	require.Equal(t, PartnerID(42), *identity.ID)
	require.Empty(t, identity.Email)
	require.Equal(t, "#42", identity.String())

	identity, err = ParseIdentity("Admin@Example.com")
	require.NoError(t, err)
	require.Nil(t, identity.ID)
	require.Equal(t, "Admin@Example.com", identity.Email)
	require.False(t, identity.IsEmpty())

	_, err = ParseIdentity("  ")
	require.ErrorIs(t, err, ErrAuthRequired)

	for _, source := range []string{"0", "-3", "not an email"} {
		_, err = ParseIdentity(source)
		var kindErr *Error
		require.True(t, errors.As(err, &kindErr), source)
		require.Equal(t, ErrorKindValidation, kindErr.Kind, source)
	}
}

func TestIdentityIs(t *testing.T) {
	partner := &Partner{ID: 7, Email: "jane@example.com"}

	id := PartnerID(7)
	require.True(t, Identity{ID: &id}.Is(partner))
	require.True(t, Identity{Email: "JANE@example.com"}.Is(partner))

	other := PartnerID(8)
	require.False(t, Identity{ID: &other}.Is(partner))
	require.False(t, Identity{Email: "john@example.com"}.Is(partner))
	require.True(t, Identity{}.IsEmpty())
}

func TestPartnerStatus(t *testing.T) {
	partner := &Partner{}
	require.Equal(t, PartnerStatusPending, partner.GetStatus())
	partner.Approved = true
	require.Equal(t, PartnerStatusApproved, partner.GetStatus())
}

func TestParsePartnerID(t *testing.T) {
	id, err := ParsePartnerID("15")
	require.NoError(t, err)
	require.Equal(t, PartnerID(15), id)

	for _, source := range []string{"", "abc", "0", "-1"} {
		_, err = ParsePartnerID(source)
		require.Error(t, err, source)
	}
}

func TestValidateStructMessages(t *testing.T) {
	err := validateStruct(PartnerApplication{
		Name:  "J",
		Email: "jane@example.com",
		Phone: "5551234567",
	})
	require.EqualError(t, err, "Name could not be shorter than 2 symbols")

	err = validateStruct(LeadRequest{ClientPhone: "555"})
	require.EqualError(t, err, "Client name is required")

	negative := -1.0
	err = validateStruct(LeadRequest{
		ClientName:     "Client",
		ClientPhone:    "555",
		EstimateAmount: &negative,
	})
	require.EqualError(t, err, "Estimate amount could not be negative")
}

func TestLeadEarnedCommission(t *testing.T) {
	amount := 150.0
	lead := &Lead{Status: LeadStatusNew, CommissionAmount: &amount}
	require.Zero(t, lead.GetEarnedCommission())
	lead.Status = LeadStatusApproved
	require.Equal(t, 150.0, lead.GetEarnedCommission())
	lead.CommissionAmount = nil
	require.Zero(t, lead.GetEarnedCommission())
}

func TestParseLeadStatus(t *testing.T) {
	status, err := parseLeadStatus(" Approved ")
	require.NoError(t, err)
	require.Equal(t, LeadStatusApproved, status)

	status, err = parseLeadStatus("contacted")
	require.NoError(t, err)
	require.Equal(t, LeadStatus("contacted"), status)

	_, err = parseLeadStatus("")
	require.Error(t, err)
	_, err = parseLeadStatus(strings.Repeat("x", 51))
	require.Error(t, err)
}
