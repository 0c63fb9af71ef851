package partnershiptest

import (
	"context"
	"sync"

	"github.com/palchukovsky/partnership-aws/partnership"
)

// Approval is a recorded approval e-mail.
type Approval struct {
	PartnerID partnership.PartnerID
	Email     string
	Password  string
}

// Mailer records sent e-mails.
type Mailer struct {
	// Failure is returned by every send if set, nothing is recorded then.
	Failure error

	mutex     sync.Mutex
	approvals []Approval
}

func (mailer *Mailer) SendPartnerApproval(
	_ context.Context, partner partnership.Principal, password string) error {
	if mailer.Failure != nil {
		return mailer.Failure
	}
	mailer.mutex.Lock()
	defer mailer.mutex.Unlock()
	mailer.approvals = append(mailer.approvals, Approval{
		PartnerID: partner.GetID(),
		Email:     partner.GetEmail(),
		Password:  password,
	})
	return nil
}

// GetApprovals returns recorded approval e-mails.
func (mailer *Mailer) GetApprovals() []Approval {
	mailer.mutex.Lock()
	defer mailer.mutex.Unlock()
	return append([]Approval(nil), mailer.approvals...)
}
