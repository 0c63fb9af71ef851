package partnership

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/badoux/checkmail"
)

////////////////////////////////////////////////////////////////////////////////

// PartnerID is a partner unique ID.
type PartnerID = int64

// ParsePartnerID parses partner ID in string.
func ParsePartnerID(source string) (PartnerID, error) {
	result, err := strconv.ParseInt(strings.TrimSpace(source), 10, 64)
	if err != nil {
		return 0, fmt.Errorf(`failed to parse partner ID "%s": "%w"`, source, err)
	}
	if result <= 0 {
		return 0, fmt.Errorf(`partner ID "%s" is not positive`, source)
	}
	return result, nil
}

////////////////////////////////////////////////////////////////////////////////

// PartnerStatus is partner application status enumeration.
type PartnerStatus string

const (
	// PartnerStatusPending means the application waits for admin decision.
	PartnerStatusPending PartnerStatus = "pending"
	// PartnerStatusApproved means the partner has password and may log in.
	PartnerStatusApproved PartnerStatus = "approved"
)

////////////////////////////////////////////////////////////////////////////////

// Principal is an authenticated actor, partner or admin.
type Principal interface {
	GetID() PartnerID
	GetEmail() string
	GetName() string
	IsAdmin() bool
	IsApproved() bool
}

// Partner describes partner record. Admins are partners with admin flag.
type Partner struct {
	ID            PartnerID
	Name          string
	Email         string
	Phone         string
	TrafficSource string
	Experience    string
	// Password is nil until approval.
	Password  *PasswordHash
	Approved  bool
	Admin     bool
	CreatedAt time.Time
}

func (partner *Partner) GetID() PartnerID { return partner.ID }
func (partner *Partner) GetEmail() string { return partner.Email }
func (partner *Partner) GetName() string  { return partner.Name }
func (partner *Partner) IsAdmin() bool    { return partner.Admin }
func (partner *Partner) IsApproved() bool { return partner.Approved }

// GetStatus returns application status.
func (partner *Partner) GetStatus() PartnerStatus {
	if partner.Approved {
		return PartnerStatusApproved
	}
	return PartnerStatusPending
}

// PartnerApplication is a registration request.
type PartnerApplication struct {
	Name          string `validate:"min=2,max=255"`
	Email         string `validate:"required,max=255"`
	Phone         string `validate:"min=10,max=50"`
	TrafficSource string `validate:"max=255"`
	Experience    string `validate:"max=2000"`
}

func (application *PartnerApplication) normalize() {
	application.Name = strings.TrimSpace(application.Name)
	application.Email = strings.TrimSpace(application.Email)
	application.Phone = strings.TrimSpace(application.Phone)
	application.TrafficSource = strings.TrimSpace(application.TrafficSource)
	application.Experience = strings.TrimSpace(application.Experience)
}

// PartnerSummary is a partner with lead aggregates.
type PartnerSummary struct {
	Partner
	LeadsCount      int64
	TotalCommission float64
}

////////////////////////////////////////////////////////////////////////////////

// Identity is a caller-claimed principal reference: ID or e-mail.
type Identity struct {
	ID    *PartnerID
	Email string
}

// ParseIdentity parses identity header value: numeric value is ID, other
// values must be e-mails.
func ParseIdentity(source string) (Identity, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return Identity{}, ErrAuthRequired
	}
	if id, err := strconv.ParseInt(source, 10, 64); err == nil {
		if id <= 0 {
			return Identity{}, newValidationError("Invalid identity")
		}
		return Identity{ID: &id}, nil
	}
	if err := checkmail.ValidateFormat(source); err != nil {
		return Identity{}, newValidationError("Invalid identity")
	}
	return Identity{Email: source}, nil
}

// IsEmpty returns true if identity has no reference.
func (identity Identity) IsEmpty() bool {
	return identity.ID == nil && identity.Email == ""
}

// Is returns true if identity denotes the principal.
func (identity Identity) Is(principal Principal) bool {
	if identity.ID != nil {
		return *identity.ID == principal.GetID()
	}
	return strings.EqualFold(identity.Email, principal.GetEmail())
}

func (identity Identity) String() string {
	if identity.ID != nil {
		return fmt.Sprintf("#%d", *identity.ID)
	}
	return identity.Email
}
