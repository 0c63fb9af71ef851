package api

import (
	"fmt"
	"strings"

	"github.com/palchukovsky/partnership-aws/partnership"
)

func (request *lambdaRequest) GetIdentity(
	headerNames ...string) (partnership.Identity, error) {
	if principal, has := request.getAuthorizerPrincipal(); has {
		return partnership.ParseIdentity(principal)
	}
	for _, name := range headerNames {
		if value, has := findHeader(request.Request.Headers, name); has {
			return partnership.ParseIdentity(value)
		}
	}
	return partnership.Identity{}, nil
}

func (request *lambdaRequest) getAuthorizerPrincipal() (string, bool) {
	authorizer := request.Request.RequestContext.Authorizer
	if authorizer == nil {
		return "", false
	}
	principal, has := authorizer[PrincipalIDAuthorizerKey]
	if !has || principal == nil {
		return "", false
	}
	result := strings.TrimSpace(fmt.Sprintf("%v", principal))
	return result, result != ""
}

// findHeader finds header value by name case-insensitively.
func findHeader(headers map[string]string, name string) (string, bool) {
	if value, has := headers[name]; has && strings.TrimSpace(value) != "" {
		return value, true
	}
	for key, value := range headers {
		if strings.EqualFold(key, name) && strings.TrimSpace(value) != "" {
			return value, true
		}
	}
	return "", false
}
