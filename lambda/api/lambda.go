package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	aws "github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"

	"github.com/palchukovsky/partnership-aws/partnership"
)

// Lambda describes API lambda interface.
type Lambda interface {
	Start()
}

// NewLambda creates lambda by name and connects it to the store.
func NewLambda(name string, config *partnership.Config) Lambda {
	impl, err := newLambdaFactory().NewLambdaImpl(name)
	if err != nil {
		log.Panicf(`Failed to create lambda: "%v".`, err)
	}
	db, err := partnership.NewDB(context.Background(), config)
	if err != nil {
		partnership.Log.Panicf(`Failed to init DB: "%v".`, err)
	}
	service := partnership.NewService(db, partnership.NewMailer(config))
	if err := impl.Init(service); err != nil {
		partnership.Log.Panicf(`Failed to init lambda "%s": "%v".`, name, err)
	}
	return &lambda{impl: impl}
}

type lambdaImpl interface {
	Init(*partnership.Service) error
	// GetMethods returns HTTP methods the lambda serves, OPTIONS is served
	// for every lambda.
	GetMethods() []string
	// CreateRequest returns object to parse the request body into, or nil if
	// the method has no body.
	CreateRequest(method string) interface{}
	// Run executes the request, returned partnership errors are converted
	// into responses with the corresponding status.
	Run(LambdaRequest) (*httpResponse, error)
}

// secretLambda is a lambda which requests or responses contain credentials
// and so could not be dumped.
type secretLambda interface {
	HasSecrets() bool
}

type lambdaFactory struct{}

func newLambdaFactory() *lambdaFactory { return &lambdaFactory{} }

// NewLambdaImpl creates new API lambda implementation.
func (factory *lambdaFactory) NewLambdaImpl(name string) (lambdaImpl, error) {
	method := reflect.ValueOf(factory).MethodByName("New" + name + "Lambda")
	if (method == reflect.Value{}) {
		return nil, fmt.Errorf(`failed to find lambda with name: "%s"`, name)
	}
	return method.Call([]reflect.Value{})[0].Interface().(lambdaImpl), nil
}

type lambda struct{ impl lambdaImpl }

func (lambda *lambda) Start() {
	aws.Start(
		func(ctx context.Context, httpRequest *httpRequest) (*httpResponse, error) {
			return execute(ctx, lambda.impl, httpRequest), nil
		})
}

func execute(
	ctx context.Context, impl lambdaImpl, httpRequest *httpRequest) *httpResponse {
	request := newLambdaRequest(ctx, httpRequest)
	request.Execute(impl)
	return request.Response
}

////////////////////////////////////////////////////////////////////////////////

// LambdaRequest describes request to lambda.
type LambdaRequest interface {
	GetContext() context.Context
	GetID() string
	GetMethod() string
	GetRequest() interface{}
	GetHTTPRequest() *httpRequest
	GetQueryArgs() map[string]string
	// GetIdentity returns the caller identity from the authorizer principal or
	// from the first set header with one of the names. The identity is empty
	// if the request has no one.
	GetIdentity(headerNames ...string) (partnership.Identity, error)
}

type lambdaRequest struct {
	Request  *httpRequest
	Response *httpResponse

	ctx         context.Context
	id          string
	implRequest interface{}
}

func newLambdaRequest(
	ctx context.Context, httpRequest *httpRequest) *lambdaRequest {
	id := httpRequest.RequestContext.RequestID
	if id == "" {
		id = uuid.New().String()
	}
	return &lambdaRequest{Request: httpRequest, ctx: ctx, id: id}
}

func (request *lambdaRequest) dumpRequest(hasSecrets bool) {
	dumped := *request.Request
	if hasSecrets {
		dumped.Body = "<hidden>"
	}
	dump, err := json.Marshal(&dumped)
	if err != nil {
		partnership.Log.Error(`Failed to dump request %s: "%v".`, request.id, err)
		return
	}
	partnership.Log.Debug("Request %s: %s", request.id, string(dump))
}

func (request *lambdaRequest) dumpResponse(hasSecrets bool) {
	if request.Response == nil {
		partnership.Log.Debug(`Request %s: no response.`, request.id)
		return
	}
	dumped := *request.Response
	if hasSecrets {
		dumped.Body = "<hidden>"
	}
	dump, err := json.Marshal(&dumped)
	if err != nil {
		partnership.Log.Error(`Failed to dump response %s: "%v".`, request.id, err)
		return
	}
	partnership.Log.Debug("Response %s: %s", request.id, string(dump))
}

func (request *lambdaRequest) parseBody(result interface{}) error {
	body := strings.TrimSpace(request.Request.Body)
	if body == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(body), result); err != nil {
		return newBadParamError("Request is not valid JSON object")
	}
	return nil
}

func (request *lambdaRequest) Execute(impl lambdaImpl) {
	isDev := isDev(request.Request)
	hasSecrets := false
	if secret, isSecret := impl.(secretLambda); isSecret {
		hasSecrets = secret.HasSecrets()
	}
	if isDev {
		request.dumpRequest(hasSecrets)
	}

	methods := impl.GetMethods()
	defer func() {
		setCORSHeaders(request.Response, methods)
		if isDev {
			request.dumpResponse(hasSecrets)
		}
	}()

	method := request.GetMethod()
	if method == http.MethodOptions {
		request.Response = newHTTPResponsePreflight()
		return
	}
	if !isMethodAllowed(method, methods) {
		request.Response = newHTTPResponseMethodNotAllowed()
		return
	}

	request.implRequest = impl.CreateRequest(method)
	if request.implRequest != nil {
		switch method {
		case http.MethodPost, http.MethodPut:
			if err := request.parseBody(request.implRequest); err != nil {
				request.Response = request.newErrorResponse(err)
				return
			}
		}
	}

	response, err := impl.Run(request)
	if err != nil {
		request.Response = request.newErrorResponse(err)
		return
	}
	request.Response = response
}

func (request *lambdaRequest) newErrorResponse(err error) *httpResponse {
	response, reason := newHTTPResponseError(err)
	if reason == nil {
		partnership.Log.Error(`Request %s failed: "%v".`, request.id, err)
	} else {
		partnership.Log.Debug(`Request %s rejected (%s): "%v".`,
			request.id, reason.Kind, reason)
	}
	return response
}

func (request *lambdaRequest) GetContext() context.Context { return request.ctx }

func (request *lambdaRequest) GetID() string { return request.id }

func (request *lambdaRequest) GetMethod() string {
	if request.Request.HTTPMethod != "" {
		return strings.ToUpper(request.Request.HTTPMethod)
	}
	return strings.ToUpper(request.Request.RequestContext.HTTPMethod)
}

func (request *lambdaRequest) GetRequest() interface{} {
	return request.implRequest
}

func (request *lambdaRequest) GetHTTPRequest() *httpRequest {
	return request.Request
}

func (request *lambdaRequest) GetQueryArgs() map[string]string {
	if request.Request.QueryStringParameters == nil {
		return map[string]string{}
	}
	return request.Request.QueryStringParameters
}

func isMethodAllowed(method string, methods []string) bool {
	for _, allowed := range methods {
		if method == allowed {
			return true
		}
	}
	return false
}
