package partnership

import (
	"context"
	"fmt"
)

// CreateLead stores a new lead of the approved partner.
func (service *Service) CreateLead(
	ctx context.Context, partner Identity, request LeadRequest) (*Lead, error) {
	if partner.IsEmpty() {
		return nil, ErrAuthRequired
	}
	request.normalize()
	if request.ClientName == "" || request.ClientPhone == "" {
		return nil, newValidationError("Client name and phone are required")
	}
	if err := validateAmount("Estimate amount", request.EstimateAmount); err != nil {
		return nil, err
	}
	if err := validateStruct(request); err != nil {
		return nil, err
	}
	if request.ClientEmail != "" {
		if err := validateEmail(request.ClientEmail); err != nil {
			return nil, err
		}
	}

	tx, err := service.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	owner, err := findPrincipal(tx, partner)
	if err != nil {
		return nil, err
	}
	if owner == nil || !owner.Approved {
		return nil, ErrPartnerNotApproved
	}

	result, err := tx.CreateLead(owner.ID, request)
	if err != nil {
		return nil, fmt.Errorf(`failed to create lead for partner %d: "%w"`,
			owner.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateLeadStatus sets lead status and commission by admin decision.
func (service *Service) UpdateLeadStatus(
	ctx context.Context,
	admin Identity,
	update LeadStatusUpdate,
) (*Lead, error) {
	if update.LeadID <= 0 {
		return nil, newValidationError("Lead ID and status are required")
	}
	status, err := parseLeadStatus(update.Status)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(
		"Commission amount", update.CommissionAmount); err != nil {
		return nil, err
	}

	tx, err := service.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := requireAdmin(tx, admin); err != nil {
		return nil, err
	}
	result, err := tx.UpdateLeadStatus(
		update.LeadID, status, update.CommissionAmount)
	if err != nil {
		return nil, fmt.Errorf(`failed to update lead %d: "%w"`,
			update.LeadID, err)
	}
	if result == nil {
		return nil, ErrLeadNotFound
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}
