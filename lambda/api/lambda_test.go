package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"github.com/palchukovsky/partnership-aws/partnership"
	"github.com/palchukovsky/partnership-aws/partnership/partnershiptest"
)

type lambdaFixture struct {
	db      *partnershiptest.DB
	mailer  *partnershiptest.Mailer
	service *partnership.Service
	admin   *partnership.Partner
}

func newLambdaFixture(t *testing.T) *lambdaFixture {
	t.Helper()
	result := &lambdaFixture{
		db:     partnershiptest.NewDB(),
		mailer: &partnershiptest.Mailer{},
	}
	result.service = partnership.NewService(result.db, result.mailer)
	result.admin = result.db.AddAdmin("Admin", "admin@example.com", "adminpass")
	return result
}

type testRequest struct {
	method  string
	body    interface{}
	query   map[string]string
	headers map[string]string
}

func (fixture *lambdaFixture) call(
	t *testing.T,
	name string,
	request testRequest,
) (*httpResponse, map[string]interface{}) {
	t.Helper()
	impl, err := newLambdaFactory().NewLambdaImpl(name)
	require.NoError(t, err)
	require.NoError(t, impl.Init(fixture.service))

	httpRequest := &httpRequest{
		HTTPMethod:            request.method,
		QueryStringParameters: request.query,
		Headers:               request.headers,
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID: "test-request",
			Stage:     "dev",
		},
	}
	switch body := request.body.(type) {
	case nil:
	case string:
		httpRequest.Body = body
	default:
		data, err := json.Marshal(body)
		require.NoError(t, err)
		httpRequest.Body = string(data)
	}

	response := execute(context.Background(), impl, httpRequest)
	require.NotNil(t, response)
	require.Equal(t, "*", response.Headers["Access-Control-Allow-Origin"])

	var result map[string]interface{}
	if response.Body != "" {
		require.NoError(t, json.Unmarshal([]byte(response.Body), &result),
			response.Body)
	}
	return response, result
}

func (fixture *lambdaFixture) adminHeaders() map[string]string {
	return map[string]string{AdminIDHeaderName: fixture.admin.Email}
}

////////////////////////////////////////////////////////////////////////////////

func TestLambdaFactory(t *testing.T) {
	factory := newLambdaFactory()
	for _, name := range []string{
		"PartnerRegister",
		"PartnerLogin",
		"AdminLogin",
		"AdminPartners",
		"AdminManage",
		"LeadCreate",
		"PartnerLeads",
	} {
		impl, err := factory.NewLambdaImpl(name)
		require.NoError(t, err, name)
		require.NotNil(t, impl, name)
		require.NotEmpty(t, impl.GetMethods(), name)
	}

	_, err := factory.NewLambdaImpl("Unknown")
	require.Error(t, err)
}

func TestLambdaPreflight(t *testing.T) {
	fixture := newLambdaFixture(t)
	response, body := fixture.call(t, "AdminManage",
		testRequest{method: http.MethodOptions})
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Nil(t, body)
	require.Equal(t, "GET, POST, PUT, OPTIONS",
		response.Headers["Access-Control-Allow-Methods"])
	require.Contains(t, response.Headers["Access-Control-Allow-Headers"],
		UserIDHeaderName)
	require.Equal(t, corsMaxAge, response.Headers["Access-Control-Max-Age"])
}

func TestLambdaMethodNotAllowed(t *testing.T) {
	fixture := newLambdaFixture(t)
	response, body := fixture.call(t, "PartnerRegister",
		testRequest{method: http.MethodGet})
	require.Equal(t, http.StatusMethodNotAllowed, response.StatusCode)
	require.Equal(t, "Method not allowed", body["error"])
}

func TestLambdaInvalidJSON(t *testing.T) {
	fixture := newLambdaFixture(t)
	response, body := fixture.call(t, "PartnerRegister",
		testRequest{method: http.MethodPost, body: "{not json"})
	require.Equal(t, http.StatusBadRequest, response.StatusCode)
	require.Equal(t, "Request is not valid JSON object", body["error"])
}

func TestLambdaStoreFailure(t *testing.T) {
	fixture := newLambdaFixture(t)
	fixture.db.Failure = context.DeadlineExceeded
	response, body := fixture.call(t, "PartnerLogin", testRequest{
		method: http.MethodPost,
		body:   map[string]string{"email": "jane@x.com", "password": "secret1"},
	})
	require.Equal(t, http.StatusInternalServerError, response.StatusCode)
	require.Equal(t, "Internal server error", body["error"])
}

func TestGetIdentity(t *testing.T) {
	request := newLambdaRequest(context.Background(), &httpRequest{
		Headers: map[string]string{"x-user-id": "jane@x.com"},
	})
	require.NotEmpty(t, request.GetID())
	identity, err := request.GetIdentity(UserIDHeaderName)
	require.NoError(t, err)
	require.Equal(t, "jane@x.com", identity.Email)

	identity, err = request.GetIdentity(AdminIDHeaderName)
	require.NoError(t, err)
	require.True(t, identity.IsEmpty())

	request = newLambdaRequest(context.Background(), &httpRequest{
		Headers: map[string]string{UserIDHeaderName: "jane@x.com"},
		RequestContext: events.APIGatewayProxyRequestContext{
			Authorizer: map[string]interface{}{PrincipalIDAuthorizerKey: "12"},
		},
	})
	identity, err = request.GetIdentity(UserIDHeaderName)
	require.NoError(t, err)
	require.NotNil(t, identity.ID)
	require.Equal(t, partnership.PartnerID(12), *identity.ID)

	request = newLambdaRequest(context.Background(), &httpRequest{
		Headers: map[string]string{UserIDHeaderName: "not an identity"},
	})
	_, err = request.GetIdentity(UserIDHeaderName)
	require.Error(t, err)
}

func TestFlexibleValues(t *testing.T) {
	var request struct {
		ID     flexibleID     `json:"id"`
		Amount flexibleAmount `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(
		[]byte(`{"id": "15", "amount": "150.50"}`), &request))
	require.Equal(t, flexibleID(15), request.ID)
	require.Equal(t, 150.5, *request.Amount.get())

	require.NoError(t, json.Unmarshal(
		[]byte(`{"id": 16, "amount": null}`), &request))
	require.Equal(t, flexibleID(16), request.ID)
	require.Nil(t, request.Amount.get())

	require.Error(t, json.Unmarshal([]byte(`{"id": "abc"}`), &request))
}
