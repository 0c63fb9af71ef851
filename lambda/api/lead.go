package api

import (
	"net/http"
	"strings"

	"github.com/palchukovsky/partnership-aws/partnership"
)

// NewLeadCreateLambda creates new instance of lead creation lambda.
func (*lambdaFactory) NewLeadCreateLambda() lambdaImpl {
	return &leadCreateLambda{}
}

type leadCreateRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`
	// The extra field has a name for each partnership program.
	ExtraField     string         `json:"extra_field"`
	EducationLevel string         `json:"education_level"`
	ProjectAddress string         `json:"project_address"`
	EstimateAmount flexibleAmount `json:"estimate_amount"`
	Notes          string         `json:"notes"`
}

func (request *leadCreateRequest) getExtraInfo() string {
	return firstNotEmpty(
		request.ExtraField, request.EducationLevel, request.ProjectAddress)
}

func firstNotEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

type singleLeadResponse struct {
	Success bool         `json:"success"`
	Lead    leadResponse `json:"lead"`
}

type leadCreateLambda struct{ serviceLambda }

func (*leadCreateLambda) GetMethods() []string {
	return []string{http.MethodPost}
}

func (*leadCreateLambda) CreateRequest(string) interface{} {
	return &leadCreateRequest{}
}

func (lambda *leadCreateLambda) Run(
	request LambdaRequest) (*httpResponse, error) {
	partner, err := request.GetIdentity(UserIDHeaderName)
	if err != nil {
		return nil, err
	}
	args := request.GetRequest().(*leadCreateRequest)
	lead, err := lambda.service.CreateLead(request.GetContext(), partner,
		partnership.LeadRequest{
			ClientName:     firstNotEmpty(args.Name, args.ClientName),
			ClientPhone:    firstNotEmpty(args.Phone, args.ClientPhone),
			ClientEmail:    firstNotEmpty(args.Email, args.ClientEmail),
			ExtraInfo:      args.getExtraInfo(),
			EstimateAmount: args.EstimateAmount.get(),
			Notes:          args.Notes,
		})
	if err != nil {
		return nil, err
	}
	partnership.Log.Info(`Request %s: created. %s`,
		request.GetID(), fmtLeadLog(lead))
	return newHTTPResponseCreated(&singleLeadResponse{
		Success: true,
		Lead:    newLeadResponse(lead),
	})
}

////////////////////////////////////////////////////////////////////////////////

// NewPartnerLeadsLambda creates new instance of partner dashboard lambda.
func (*lambdaFactory) NewPartnerLeadsLambda() lambdaImpl {
	return &partnerLeadsLambda{}
}

type partnerLeadsResponse struct {
	Success    bool              `json:"success"`
	Leads      []leadResponse    `json:"leads"`
	Statistics leadStatsResponse `json:"statistics"`
}

type partnerLeadsLambda struct{ serviceLambda }

func (*partnerLeadsLambda) GetMethods() []string {
	return []string{http.MethodGet}
}

func (*partnerLeadsLambda) CreateRequest(string) interface{} { return nil }

func (lambda *partnerLeadsLambda) Run(
	request LambdaRequest) (*httpResponse, error) {
	source := strings.TrimSpace(request.GetQueryArgs()["partner_id"])
	if source == "" {
		return nil, newBadParamError("Partner ID is required")
	}
	partnerID, err := partnership.ParsePartnerID(source)
	if err != nil {
		return nil, newBadParamError("Partner ID is invalid")
	}
	caller, err := request.GetIdentity(UserIDHeaderName)
	if err != nil {
		return nil, err
	}

	leads, err := lambda.service.ListPartnerLeads(
		request.GetContext(), caller, partnerID)
	if err != nil {
		return nil, err
	}
	return newHTTPResponseOK(&partnerLeadsResponse{
		Success: true,
		Leads:   newLeadListResponse(leads.Leads),
		Statistics: leadStatsResponse{
			TotalLeads:      leads.Stats.TotalLeads,
			ApprovedLeads:   leads.Stats.ApprovedLeads,
			TotalCommission: leads.Stats.TotalCommission,
		},
	})
}
