package partnership

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

////////////////////////////////////////////////////////////////////////////////

// LeadID is a lead unique ID.
type LeadID = int64

// ParseLeadID parses lead ID in string.
func ParseLeadID(source string) (LeadID, error) {
	result, err := strconv.ParseInt(strings.TrimSpace(source), 10, 64)
	if err != nil {
		return 0, fmt.Errorf(`failed to parse lead ID "%s": "%w"`, source, err)
	}
	if result <= 0 {
		return 0, fmt.Errorf(`lead ID "%s" is not positive`, source)
	}
	return result, nil
}

////////////////////////////////////////////////////////////////////////////////

// LeadStatus is a lead review state. The set is open, admins may use any
// value, but only LeadStatusApproved makes commission count.
type LeadStatus string

const (
	// LeadStatusNew is the status of just created lead.
	LeadStatusNew LeadStatus = "new"
	// LeadStatusInProgress means the lead is being processed.
	LeadStatusInProgress LeadStatus = "in_progress"
	// LeadStatusApproved means the lead is converted, commission is final.
	LeadStatusApproved LeadStatus = "approved"
	// LeadStatusRejected means the lead is declined.
	LeadStatusRejected LeadStatus = "rejected"
)

const maxLeadStatusLength = 50

// MaxAmount is the exclusive upper bound of lead money amounts.
const MaxAmount = 1e10

// validateAmount checks an optional money amount, it is stored with cents
// precision.
func validateAmount(name string, amount *float64) error {
	if amount == nil {
		return nil
	}
	switch value := *amount; {
	case math.IsNaN(value) || math.IsInf(value, 0):
		return newValidationError("%s has invalid value", name)
	case value < 0:
		return newValidationError("%s could not be negative", name)
	case math.Round(value*100)/100 >= MaxAmount:
		return newValidationError("%s is too large", name)
	}
	return nil
}

func parseLeadStatus(source string) (LeadStatus, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", newValidationError("Lead ID and status are required")
	}
	if len([]rune(source)) > maxLeadStatusLength {
		return "", newValidationError(
			"Status could not be longer than %d symbols", maxLeadStatusLength)
	}
	return LeadStatus(strings.ToLower(source)), nil
}

////////////////////////////////////////////////////////////////////////////////

// Lead describes a client referred by a partner.
type Lead struct {
	ID               LeadID
	PartnerID        PartnerID
	ClientName       string
	ClientPhone      string
	ClientEmail      string
	ExtraInfo        string
	EstimateAmount   *float64
	Notes            string
	Status           LeadStatus
	CommissionAmount *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// GetEarnedCommission returns commission which counts in partner
// statistics: zero until the lead is approved.
func (lead *Lead) GetEarnedCommission() float64 {
	if lead.Status != LeadStatusApproved || lead.CommissionAmount == nil {
		return 0
	}
	return *lead.CommissionAmount
}

// LeadWithPartner is a lead with owner contacts.
type LeadWithPartner struct {
	Lead
	PartnerName  string
	PartnerEmail string
}

// LeadStats is a partner leads aggregate.
type LeadStats struct {
	TotalLeads      int64
	ApprovedLeads   int64
	TotalCommission float64
}

// PartnerLeads is a partner dashboard content.
type PartnerLeads struct {
	Leads []*Lead
	Stats LeadStats
}

// LeadRequest is a new lead from a partner.
type LeadRequest struct {
	ClientName     string   `validate:"required,max=255"`
	ClientPhone    string   `validate:"required,max=50"`
	ClientEmail    string   `validate:"max=255"`
	ExtraInfo      string   `validate:"max=2000"`
	EstimateAmount *float64 `validate:"omitempty,gte=0"`
	Notes          string   `validate:"max=5000"`
}

func (request *LeadRequest) normalize() {
	request.ClientName = strings.TrimSpace(request.ClientName)
	request.ClientPhone = strings.TrimSpace(request.ClientPhone)
	request.ClientEmail = strings.TrimSpace(request.ClientEmail)
	request.ExtraInfo = strings.TrimSpace(request.ExtraInfo)
	request.Notes = strings.TrimSpace(request.Notes)
}

// LeadStatusUpdate is an admin decision on a lead.
type LeadStatusUpdate struct {
	LeadID           LeadID
	Status           string
	CommissionAmount *float64
}
