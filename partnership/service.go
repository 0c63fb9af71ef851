package partnership

import (
	"context"
	"fmt"
)

// Service implements partnership workflows. Each method is a single
// all-or-nothing database transaction.
type Service struct {
	db     DB
	mailer Mailer
}

// NewService creates new service instance.
func NewService(db DB, mailer Mailer) *Service {
	return &Service{db: db, mailer: mailer}
}

// Ping checks the store availability.
func (service *Service) Ping(ctx context.Context) error {
	return service.db.Ping(ctx)
}

func (service *Service) begin(ctx context.Context) (DBTrans, error) {
	tx, err := service.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf(`failed to start transaction: "%w"`, err)
	}
	return tx, nil
}

////////////////////////////////////////////////////////////////////////////////

func findPrincipal(tx DBTrans, identity Identity) (*Partner, error) {
	var result *Partner
	var err error
	if identity.ID != nil {
		result, err = tx.FindPartnerByID(*identity.ID)
	} else {
		result, err = tx.FindPartnerByEmail(identity.Email)
	}
	if err != nil {
		return nil, fmt.Errorf(`failed to find principal "%s": "%w"`,
			identity, err)
	}
	return result, nil
}

// isAdminBy returns true if the principal found by the identity has admin
// rights: admins referenced by e-mail also must be approved.
func isAdminBy(identity Identity, principal *Partner) bool {
	if principal == nil || !principal.IsAdmin() {
		return false
	}
	return identity.ID != nil || principal.IsApproved()
}

// requireAdmin resolves the identity into an admin. Every claimed identity
// must denote the same admin.
func requireAdmin(
	tx DBTrans, identity Identity, claims ...Identity) (*Partner, error) {
	if identity.IsEmpty() {
		return nil, ErrAuthRequired
	}
	result, err := findPrincipal(tx, identity)
	if err != nil {
		return nil, err
	}
	if !isAdminBy(identity, result) {
		return nil, ErrNotAdmin
	}
	for _, claim := range claims {
		if !claim.Is(result) {
			return nil, ErrNotAdmin
		}
	}
	return result, nil
}

// FindPrincipal resolves the identity into a principal, returns nil if the
// identity is unknown.
func (service *Service) FindPrincipal(
	ctx context.Context, identity Identity) (Principal, error) {
	if identity.IsEmpty() {
		return nil, ErrAuthRequired
	}
	tx, err := service.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := findPrincipal(tx, identity)
	if err != nil || result == nil {
		return nil, err
	}
	return result, nil
}
