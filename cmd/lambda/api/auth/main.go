package main

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	aws "github.com/aws/aws-lambda-go/lambda"

	"github.com/palchukovsky/partnership-aws/lambda/api"
	"github.com/palchukovsky/partnership-aws/partnership"
)

type request = events.APIGatewayCustomAuthorizerRequestTypeRequest
type response = events.APIGatewayCustomAuthorizerResponse

var service *partnership.Service

func newPolicy(effect, resource string) *response {
	return &response{
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: "2012-10-17",
			Statement: []events.IAMPolicyStatement{
				{
					Action:   []string{"execute-api:Invoke"},
					Effect:   effect,
					Resource: []string{resource},
				},
			},
		},
	}
}

func getHeader(request *request, name string) string {
	for key, value := range request.Headers {
		if strings.EqualFold(key, name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func getIdentity(request *request) (partnership.Identity, error) {
	for _, name := range []string{api.AdminIDHeaderName, api.UserIDHeaderName} {
		if value := getHeader(request, name); value != "" {
			return partnership.ParseIdentity(value)
		}
	}
	return partnership.Identity{}, partnership.ErrAuthRequired
}

func handle(ctx context.Context, request *request) (*response, error) {
	identity, err := getIdentity(request)
	if err != nil {
		// Special return to generate 401.
		partnership.Log.Debug(`Failed to get identity: "%v".`, err)
		return &response{}, errors.New("Unauthorized")
	}

	principal, err := service.FindPrincipal(ctx, identity)
	if err != nil {
		partnership.Log.Error(`Failed to find principal "%s": "%v".`,
			identity, err)
		return nil, err
	}
	if principal == nil {
		partnership.Log.Debug(`Unknown principal "%s".`, identity)
		return newPolicy("Deny", request.MethodArn), nil
	}

	result := newPolicy("Allow", request.MethodArn)
	// The principal keeps the identity form as admins referenced by e-mail
	// have to be approved.
	result.PrincipalID = identity.String()
	if identity.ID != nil {
		result.PrincipalID = strings.TrimPrefix(result.PrincipalID, "#")
	}
	return result, nil
}

func main() {
	config, err := partnership.LoadConfig()
	if err != nil {
		log.Panicf(`Failed to load config: "%v".`, err)
	}
	partnership.InitProductLog("partnership", "api", "Authorizer",
		config.SentryDSN)
	defer partnership.Log.Flush()

	db, err := partnership.NewDB(context.Background(), config)
	if err != nil {
		partnership.Log.Panicf(`Failed to init DB: "%v".`, err)
	}
	service = partnership.NewService(db, partnership.NewMailer(config))

	aws.Start(handle)
}
