package partnership

import (
	"context"
	"fmt"
)

// MinPasswordLength is the minimal length of a password assigned at approval.
const MinPasswordLength = 6

// MaxPasswordBytes is the maximal password size in bytes the canonical hash
// scheme accepts.
const MaxPasswordBytes = 72

// RegisterPartner stores a new partner application. The partner stays
// pending and without password until an admin approves it.
func (service *Service) RegisterPartner(
	ctx context.Context, application PartnerApplication) (*Partner, error) {
	application.normalize()
	if err := validateStruct(application); err != nil {
		return nil, err
	}
	if err := validateEmail(application.Email); err != nil {
		return nil, err
	}

	tx, err := service.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.CreatePartner(application)
	if err != nil {
		return nil, fmt.Errorf(`failed to create partner: "%w"`, err)
	}
	if result == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

// ApprovePartner assigns the password to the partner and approves it. Every
// call re-hashes and overwrites the password. The partner is notified by
// e-mail after commit, mail failure does not revert the approval.
func (service *Service) ApprovePartner(
	ctx context.Context,
	admin Identity,
	partnerID PartnerID,
	password string,
) (*Partner, error) {
	if partnerID <= 0 || password == "" {
		return nil, newValidationError("Partner ID and password are required")
	}
	if len([]rune(password)) < MinPasswordLength {
		return nil, newValidationError(
			"Password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return nil, newValidationError(
			"Password could not be longer than %d bytes", MaxPasswordBytes)
	}

	tx, err := service.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	approver, err := requireAdmin(tx, admin)
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	result, err := tx.ApprovePartner(partnerID, hash)
	if err != nil {
		return nil, fmt.Errorf(`failed to approve partner %d: "%w"`,
			partnerID, err)
	}
	if result == nil {
		return nil, ErrPartnerNotFound
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	Log.Info(`Partner %d approved by admin %d.`, result.ID, approver.ID)
	if err := service.mailer.SendPartnerApproval(
		ctx, result, password); err != nil {
		Log.Error(`Failed to notify approved partner %d: "%v".`, result.ID, err)
	}
	return result, nil
}

// RejectPartner deletes the partner application with all its leads.
func (service *Service) RejectPartner(
	ctx context.Context, admin Identity, partnerID PartnerID) error {
	if partnerID <= 0 {
		return newValidationError("Partner ID is required")
	}

	tx, err := service.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rejecter, err := requireAdmin(tx, admin)
	if err != nil {
		return err
	}
	isDeleted, err := tx.DeletePartner(partnerID)
	if err != nil {
		return fmt.Errorf(`failed to delete partner %d: "%w"`, partnerID, err)
	}
	if !isDeleted {
		return ErrPartnerNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	Log.Info(`Partner %d rejected by admin %d.`, partnerID, rejecter.ID)
	return nil
}

// PartnerListRequest is a request of partners with lead aggregates.
type PartnerListRequest struct {
	// Admin is the caller identity.
	Admin Identity
	// ClaimedAdmin is an optional admin reference given in the request
	// parameters, it must denote the same admin as Admin.
	ClaimedAdmin *Identity
	// IncludeAdmins returns admins too.
	IncludeAdmins bool
}

// ListPartners returns partners ordered from newest, each with its leads
// count and commission earned by approved leads.
func (service *Service) ListPartners(
	ctx context.Context, request PartnerListRequest) ([]*PartnerSummary, error) {
	tx, err := service.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var claims []Identity
	if request.ClaimedAdmin != nil {
		claims = append(claims, *request.ClaimedAdmin)
	}
	if _, err := requireAdmin(tx, request.Admin, claims...); err != nil {
		return nil, err
	}

	result, err := tx.GetPartners(request.IncludeAdmins)
	if err != nil {
		return nil, fmt.Errorf(`failed to get partners: "%w"`, err)
	}
	return result, nil
}
