package api

import (
	"net/http"
	"strings"

	"github.com/palchukovsky/partnership-aws/partnership"
)

// NewAdminLoginLambda creates new instance of admin login lambda.
func (*lambdaFactory) NewAdminLoginLambda() lambdaImpl {
	return &adminLoginLambda{}
}

type adminSummaryResponse struct {
	ID    partnership.PartnerID `json:"id"`
	Email string                `json:"email"`
	Name  string                `json:"name"`
}

type adminLoginResponse struct {
	Success bool                 `json:"success"`
	Admin   adminSummaryResponse `json:"admin"`
}

type adminLoginLambda struct{ serviceLambda }

func (*adminLoginLambda) HasSecrets() bool { return true }

func (*adminLoginLambda) GetMethods() []string {
	return []string{http.MethodPost}
}

func (*adminLoginLambda) CreateRequest(string) interface{} {
	return &loginRequest{}
}

func (lambda *adminLoginLambda) Run(
	request LambdaRequest) (*httpResponse, error) {
	args := request.GetRequest().(*loginRequest)
	admin, err := lambda.service.LoginAdmin(request.GetContext(),
		args.Email, args.Password)
	if err != nil {
		return nil, err
	}
	partnership.Log.Info(`Request %s: admin %d logged in.`,
		request.GetID(), admin.GetID())
	return newHTTPResponseOK(&adminLoginResponse{
		Success: true,
		Admin: adminSummaryResponse{
			ID:    admin.GetID(),
			Email: admin.GetEmail(),
			Name:  admin.GetName(),
		},
	})
}

////////////////////////////////////////////////////////////////////////////////

type partnerListResponse struct {
	Success  bool                       `json:"success"`
	Partners []partnerWithStatsResponse `json:"partners"`
}

func getAdminIdentity(request LambdaRequest) (partnership.Identity, error) {
	return request.GetIdentity(AdminIDHeaderName, UserIDHeaderName)
}

// NewAdminPartnersLambda creates new instance of lambda which lists
// partners for admin.
func (*lambdaFactory) NewAdminPartnersLambda() lambdaImpl {
	return &adminPartnersLambda{}
}

type adminPartnersLambda struct{ serviceLambda }

func (*adminPartnersLambda) GetMethods() []string {
	return []string{http.MethodGet}
}

func (*adminPartnersLambda) CreateRequest(string) interface{} { return nil }

func (lambda *adminPartnersLambda) Run(
	request LambdaRequest) (*httpResponse, error) {
	var claimed *partnership.Identity
	if source := strings.TrimSpace(request.GetQueryArgs()["admin_id"]); source != "" {
		identity, err := partnership.ParseIdentity(source)
		if err != nil {
			return nil, err
		}
		claimed = &identity
	}
	admin, err := getAdminIdentity(request)
	if err != nil {
		return nil, err
	}
	if admin.IsEmpty() {
		if claimed == nil {
			return nil, newBadParamError("Admin ID is required")
		}
		// The query parameter alone does not prove the caller is the admin.
		return nil, partnership.ErrAuthRequired
	}

	partners, err := lambda.service.ListPartners(request.GetContext(),
		partnership.PartnerListRequest{Admin: admin, ClaimedAdmin: claimed})
	if err != nil {
		return nil, err
	}
	return newHTTPResponseOK(&partnerListResponse{
		Success:  true,
		Partners: newPartnerListResponse(partners),
	})
}

////////////////////////////////////////////////////////////////////////////////

// NewAdminManageLambda creates new instance of admin management lambda.
func (*lambdaFactory) NewAdminManageLambda() lambdaImpl {
	return &adminManageLambda{}
}

const (
	adminActionPartners = "partners"
	adminActionLeads    = "leads"
	adminActionApprove  = "approve"
	adminActionReject   = "reject"
)

type partnerDecisionRequest struct {
	Action    string     `json:"action"`
	PartnerID flexibleID `json:"partner_id"`
	Password  string     `json:"password"`
}

type partnerApprovalResponse struct {
	Success  bool            `json:"success"`
	Partner  partnerResponse `json:"partner"`
	Password string          `json:"password"`
	Message  string          `json:"message"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type leadStatusRequest struct {
	LeadID           flexibleID     `json:"lead_id"`
	Status           string         `json:"status"`
	CommissionAmount flexibleAmount `json:"commission_amount"`
}

type leadListResponse struct {
	Success bool                      `json:"success"`
	Leads   []leadWithPartnerResponse `json:"leads"`
}

type adminManageLambda struct{ serviceLambda }

func (*adminManageLambda) HasSecrets() bool { return true }

func (*adminManageLambda) GetMethods() []string {
	return []string{http.MethodGet, http.MethodPost, http.MethodPut}
}

func (*adminManageLambda) CreateRequest(method string) interface{} {
	switch method {
	case http.MethodPost:
		return &partnerDecisionRequest{}
	case http.MethodPut:
		return &leadStatusRequest{}
	default:
		return nil
	}
}

func (lambda *adminManageLambda) Run(
	request LambdaRequest) (*httpResponse, error) {
	admin, err := getAdminIdentity(request)
	if err != nil {
		return nil, err
	}
	switch request.GetMethod() {
	case http.MethodPost:
		return lambda.decide(request, admin,
			request.GetRequest().(*partnerDecisionRequest))
	case http.MethodPut:
		return lambda.updateLead(request, admin,
			request.GetRequest().(*leadStatusRequest))
	default:
		return lambda.list(request, admin)
	}
}

func (lambda *adminManageLambda) list(
	request LambdaRequest, admin partnership.Identity) (*httpResponse, error) {
	switch strings.ToLower(strings.TrimSpace(request.GetQueryArgs()["action"])) {
	case adminActionPartners, "":
		partners, err := lambda.service.ListPartners(request.GetContext(),
			partnership.PartnerListRequest{Admin: admin, IncludeAdmins: true})
		if err != nil {
			return nil, err
		}
		return newHTTPResponseOK(&partnerListResponse{
			Success:  true,
			Partners: newPartnerListResponse(partners),
		})
	case adminActionLeads:
		leads, err := lambda.service.ListLeads(request.GetContext(), admin)
		if err != nil {
			return nil, err
		}
		return newHTTPResponseOK(&leadListResponse{
			Success: true,
			Leads:   newLeadWithPartnerListResponse(leads),
		})
	default:
		return nil, newBadParamError("Invalid action")
	}
}

func (lambda *adminManageLambda) decide(
	request LambdaRequest,
	admin partnership.Identity,
	args *partnerDecisionRequest,
) (*httpResponse, error) {
	partnerID := partnership.PartnerID(args.PartnerID)
	switch strings.ToLower(strings.TrimSpace(args.Action)) {
	case adminActionApprove:
		partner, err := lambda.service.ApprovePartner(request.GetContext(),
			admin, partnerID, args.Password)
		if err != nil {
			return nil, err
		}
		return newHTTPResponseOK(&partnerApprovalResponse{
			Success:  true,
			Partner:  newPartnerResponse(partner),
			Password: args.Password,
			Message:  "Partner approved",
		})
	case adminActionReject:
		err := lambda.service.RejectPartner(request.GetContext(), admin, partnerID)
		if err != nil {
			return nil, err
		}
		return newHTTPResponseOK(&successResponse{
			Success: true,
			Message: "Partner rejected",
		})
	default:
		return nil, newBadParamError("Invalid action")
	}
}

func (lambda *adminManageLambda) updateLead(
	request LambdaRequest,
	admin partnership.Identity,
	args *leadStatusRequest,
) (*httpResponse, error) {
	lead, err := lambda.service.UpdateLeadStatus(request.GetContext(), admin,
		partnership.LeadStatusUpdate{
			LeadID:           partnership.LeadID(args.LeadID),
			Status:           args.Status,
			CommissionAmount: args.CommissionAmount.get(),
		})
	if err != nil {
		return nil, err
	}
	partnership.Log.Info(`Request %s: updated. %s`,
		request.GetID(), fmtLeadLog(lead))
	return newHTTPResponseOK(&singleLeadResponse{
		Success: true,
		Lead:    newLeadResponse(lead),
	})
}
