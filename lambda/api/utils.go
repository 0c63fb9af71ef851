package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/palchukovsky/partnership-aws/partnership"
)

// flexibleID is an ID which clients send as JSON number or as string.
type flexibleID int64

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var source string
		if err := json.Unmarshal(data, &source); err != nil {
			return err
		}
		if strings.TrimSpace(source) == "" {
			*id = 0
			return nil
		}
		data = []byte(strings.TrimSpace(source))
	}
	value, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf(`failed to parse ID "%s": "%w"`, string(data), err)
	}
	*id = flexibleID(value)
	return nil
}

// flexibleAmount is a money amount which clients send as JSON number or as
// string.
type flexibleAmount struct{ value *float64 }

func (amount *flexibleAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		amount.value = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var source string
		if err := json.Unmarshal(data, &source); err != nil {
			return err
		}
		if strings.TrimSpace(source) == "" {
			amount.value = nil
			return nil
		}
		data = []byte(strings.TrimSpace(source))
	}
	value, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf(`failed to parse amount "%s": "%w"`, string(data), err)
	}
	amount.value = &value
	return nil
}

func (amount flexibleAmount) get() *float64 { return amount.value }

////////////////////////////////////////////////////////////////////////////////

type partnerSummaryResponse struct {
	ID      partnership.PartnerID `json:"id"`
	Name    string                `json:"name"`
	Email   string                `json:"email"`
	IsAdmin bool                  `json:"is_admin"`
}

type partnerResponse struct {
	ID            partnership.PartnerID     `json:"id"`
	Name          string                    `json:"name"`
	Email         string                    `json:"email"`
	Phone         string                    `json:"phone"`
	TrafficSource string                    `json:"traffic_source"`
	Experience    string                    `json:"experience"`
	Status        partnership.PartnerStatus `json:"status"`
	IsApproved    bool                      `json:"is_approved"`
	IsAdmin       bool                      `json:"is_admin"`
	CreatedAt     time.Time                 `json:"created_at"`
}

func newPartnerResponse(partner *partnership.Partner) partnerResponse {
	return partnerResponse{
		ID:            partner.ID,
		Name:          partner.Name,
		Email:         partner.Email,
		Phone:         partner.Phone,
		TrafficSource: partner.TrafficSource,
		Experience:    partner.Experience,
		Status:        partner.GetStatus(),
		IsApproved:    partner.Approved,
		IsAdmin:       partner.Admin,
		CreatedAt:     partner.CreatedAt,
	}
}

type partnerWithStatsResponse struct {
	partnerResponse
	LeadsCount      int64   `json:"leads_count"`
	TotalCommission float64 `json:"total_commission"`
}

func newPartnerListResponse(
	partners []*partnership.PartnerSummary) []partnerWithStatsResponse {
	result := make([]partnerWithStatsResponse, 0, len(partners))
	for _, partner := range partners {
		result = append(result, partnerWithStatsResponse{
			partnerResponse: newPartnerResponse(&partner.Partner),
			LeadsCount:      partner.LeadsCount,
			TotalCommission: partner.TotalCommission,
		})
	}
	return result
}

type leadResponse struct {
	ID               partnership.LeadID     `json:"id"`
	PartnerID        partnership.PartnerID  `json:"partner_id"`
	ClientName       string                 `json:"client_name"`
	ClientPhone      string                 `json:"client_phone"`
	ClientEmail      string                 `json:"client_email"`
	ExtraInfo        string                 `json:"extra_info"`
	EstimateAmount   *float64               `json:"estimate_amount"`
	Notes            string                 `json:"notes"`
	Status           partnership.LeadStatus `json:"status"`
	CommissionAmount *float64               `json:"commission_amount"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

func newLeadResponse(lead *partnership.Lead) leadResponse {
	return leadResponse{
		ID:               lead.ID,
		PartnerID:        lead.PartnerID,
		ClientName:       lead.ClientName,
		ClientPhone:      lead.ClientPhone,
		ClientEmail:      lead.ClientEmail,
		ExtraInfo:        lead.ExtraInfo,
		EstimateAmount:   lead.EstimateAmount,
		Notes:            lead.Notes,
		Status:           lead.Status,
		CommissionAmount: lead.CommissionAmount,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
}

func newLeadListResponse(leads []*partnership.Lead) []leadResponse {
	result := make([]leadResponse, 0, len(leads))
	for _, lead := range leads {
		result = append(result, newLeadResponse(lead))
	}
	return result
}

type leadWithPartnerResponse struct {
	leadResponse
	PartnerName  string `json:"partner_name"`
	PartnerEmail string `json:"partner_email"`
}

func newLeadWithPartnerListResponse(
	leads []*partnership.LeadWithPartner) []leadWithPartnerResponse {
	result := make([]leadWithPartnerResponse, 0, len(leads))
	for _, lead := range leads {
		result = append(result, leadWithPartnerResponse{
			leadResponse: newLeadResponse(&lead.Lead),
			PartnerName:  lead.PartnerName,
			PartnerEmail: lead.PartnerEmail,
		})
	}
	return result
}

type leadStatsResponse struct {
	TotalLeads      int64   `json:"total_leads"`
	ApprovedLeads   int64   `json:"approved_leads"`
	TotalCommission float64 `json:"total_commission"`
}

func fmtLeadLog(lead *partnership.Lead) string {
	result := fmt.Sprintf(`Lead %d "%s" of partner %d`,
		lead.ID, lead.Status, lead.PartnerID)
	if lead.CommissionAmount != nil {
		result += fmt.Sprintf(` (commission %.2f)`, *lead.CommissionAmount)
	}
	result += "."
	return result
}
