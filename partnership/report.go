package partnership

import (
	"context"
	"fmt"
)

// ListPartnerLeads returns partner leads ordered from newest with
// statistics. If the caller identity is set, it has to be the partner itself
// or an admin.
func (service *Service) ListPartnerLeads(
	ctx context.Context,
	caller Identity,
	partnerID PartnerID,
) (*PartnerLeads, error) {
	if partnerID <= 0 {
		return nil, newValidationError("Partner ID is required")
	}

	tx, err := service.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if !caller.IsEmpty() {
		principal, err := findPrincipal(tx, caller)
		if err != nil {
			return nil, err
		}
		if principal == nil ||
			(principal.ID != partnerID && !isAdminBy(caller, principal)) {
			return nil, ErrForeignLeads
		}
	}

	leads, err := tx.GetPartnerLeads(partnerID)
	if err != nil {
		return nil, fmt.Errorf(`failed to get leads of partner %d: "%w"`,
			partnerID, err)
	}
	stats, err := tx.GetPartnerLeadStats(partnerID)
	if err != nil {
		return nil, fmt.Errorf(`failed to get lead stats of partner %d: "%w"`,
			partnerID, err)
	}
	return &PartnerLeads{Leads: leads, Stats: stats}, nil
}

// ListLeads returns all leads with owner contacts, ordered from newest.
func (service *Service) ListLeads(
	ctx context.Context, admin Identity) ([]*LeadWithPartner, error) {
	tx, err := service.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := requireAdmin(tx, admin); err != nil {
		return nil, err
	}
	result, err := tx.GetLeads()
	if err != nil {
		return nil, fmt.Errorf(`failed to get leads: "%w"`, err)
	}
	return result, nil
}
