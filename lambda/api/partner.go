package api

import (
	"net/http"

	"github.com/palchukovsky/partnership-aws/partnership"
)

// serviceLambda is a base of lambdas which execute partnership workflows.
type serviceLambda struct {
	service *partnership.Service
}

func (lambda *serviceLambda) Init(service *partnership.Service) error {
	lambda.service = service
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// NewPartnerRegisterLambda creates new instance of partner registration
// lambda.
func (*lambdaFactory) NewPartnerRegisterLambda() lambdaImpl {
	return &partnerRegisterLambda{}
}

type partnerRegisterRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	TrafficSource string `json:"traffic_source"`
	Experience    string `json:"experience"`
}

type partnerRegisterResponse struct {
	Success   bool                  `json:"success"`
	PartnerID partnership.PartnerID `json:"partner_id"`
	Message   string                `json:"message"`
}

type partnerRegisterLambda struct{ serviceLambda }

func (*partnerRegisterLambda) GetMethods() []string {
	return []string{http.MethodPost}
}

func (*partnerRegisterLambda) CreateRequest(string) interface{} {
	return &partnerRegisterRequest{}
}

func (lambda *partnerRegisterLambda) Run(
	request LambdaRequest) (*httpResponse, error) {
	args := request.GetRequest().(*partnerRegisterRequest)
	partner, err := lambda.service.RegisterPartner(request.GetContext(),
		partnership.PartnerApplication{
			Name:          args.Name,
			Email:         args.Email,
			Phone:         args.Phone,
			TrafficSource: args.TrafficSource,
			Experience:    args.Experience,
		})
	if err != nil {
		return nil, err
	}
	partnership.Log.Info(`Request %s: partner %d registered.`,
		request.GetID(), partner.ID)
	return newHTTPResponseCreated(&partnerRegisterResponse{
		Success:   true,
		PartnerID: partner.ID,
		Message: "Application submitted. " +
			"We will contact you after reviewing it.",
	})
}

////////////////////////////////////////////////////////////////////////////////

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewPartnerLoginLambda creates new instance of partner login lambda.
func (*lambdaFactory) NewPartnerLoginLambda() lambdaImpl {
	return &partnerLoginLambda{}
}

type partnerLoginResponse struct {
	Success      bool                     `json:"success"`
	Partner      partnerSummaryResponse   `json:"partner"`
	SessionToken partnership.SessionToken `json:"session_token"`
}

type partnerLoginLambda struct{ serviceLambda }

func (*partnerLoginLambda) HasSecrets() bool { return true }

func (*partnerLoginLambda) GetMethods() []string {
	return []string{http.MethodPost}
}

func (*partnerLoginLambda) CreateRequest(string) interface{} {
	return &loginRequest{}
}

func (lambda *partnerLoginLambda) Run(
	request LambdaRequest) (*httpResponse, error) {
	args := request.GetRequest().(*loginRequest)
	session, err := lambda.service.LoginPartner(request.GetContext(),
		args.Email, args.Password)
	if err != nil {
		return nil, err
	}
	partnership.Log.Debug(`Request %s: partner %d logged in.`,
		request.GetID(), session.Partner.GetID())
	return newHTTPResponseOK(&partnerLoginResponse{
		Success: true,
		Partner: partnerSummaryResponse{
			ID:      session.Partner.GetID(),
			Name:    session.Partner.GetName(),
			Email:   session.Partner.GetEmail(),
			IsAdmin: session.Partner.IsAdmin(),
		},
		SessionToken: session.Token,
	})
}
