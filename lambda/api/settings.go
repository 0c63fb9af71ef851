package api

// UserIDHeaderName is the name of the header with caller identity, partner
// or admin ID or e-mail.
const UserIDHeaderName = "X-User-Id"

// AdminIDHeaderName is the name of the header with admin identity.
const AdminIDHeaderName = "X-Admin-Id"

// PrincipalIDAuthorizerKey is the key of the principal set by the request
// authorizer.
const PrincipalIDAuthorizerKey = "principalId"

const corsMaxAge = "86400"

var allowedHeaders = []string{
	"Content-Type",
	"Authorization",
	UserIDHeaderName,
	AdminIDHeaderName,
}

func isDev(request *httpRequest) bool {
	return request.RequestContext.Stage == "dev"
}
