package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/palchukovsky/partnership-aws/partnership"
)

type httpRequest = events.APIGatewayProxyRequest

type httpResponse = events.APIGatewayProxyResponse

type errorResponse struct {
	Error string `json:"error"`
}

func newHTTPResponseWithBody(
	statusCode int,
	body string,
	headers map[string]string) *httpResponse {
	return &httpResponse{
		StatusCode: statusCode,
		Body:       body,
		Headers:    headers}
}

func newHTTPResponse(statusCode int, data interface{}) (*httpResponse, error) {
	body, err := json.Marshal(data)
	if err != nil {
		// Only internal server error could be returned as serialization error
		// means a broken response type.
		partnership.Log.Error(
			`Failed serialize response with status code %d: "%v".`,
			statusCode, err)
		return newHTTPResponseInternalServerError(), nil
	}
	return newHTTPResponseWithBody(statusCode, string(body),
		map[string]string{"Content-Type": "application/json"}), nil
}

func newHTTPResponseOK(data interface{}) (*httpResponse, error) {
	return newHTTPResponse(http.StatusOK, data)
}

func newHTTPResponseCreated(data interface{}) (*httpResponse, error) {
	return newHTTPResponse(http.StatusCreated, data)
}

func newHTTPResponseMessage(statusCode int, message string) *httpResponse {
	result, _ := newHTTPResponse(statusCode, &errorResponse{Error: message})
	return result
}

func newHTTPResponseInternalServerError() *httpResponse {
	return newHTTPResponseWithBody(http.StatusInternalServerError,
		`{"error":"Internal server error"}`,
		map[string]string{"Content-Type": "application/json"})
}

func newHTTPResponseMethodNotAllowed() *httpResponse {
	return newHTTPResponseMessage(http.StatusMethodNotAllowed,
		"Method not allowed")
}

func newHTTPResponsePreflight() *httpResponse {
	return newHTTPResponseWithBody(http.StatusOK, "", map[string]string{
		"Access-Control-Max-Age": corsMaxAge})
}

// newHTTPResponseError converts error into response. It returns the
// partnership error if the error is an expected workflow failure.
func newHTTPResponseError(err error) (*httpResponse, *partnership.Error) {
	var reason *partnership.Error
	if !errors.As(err, &reason) {
		return newHTTPResponseInternalServerError(), nil
	}
	return newHTTPResponseMessage(getErrorStatusCode(reason.Kind),
		reason.Message), reason
}

func getErrorStatusCode(kind partnership.ErrorKind) int {
	switch kind {
	case partnership.ErrorKindValidation:
		return http.StatusBadRequest
	case partnership.ErrorKindAuthentication:
		return http.StatusUnauthorized
	case partnership.ErrorKindAuthorization:
		return http.StatusForbidden
	case partnership.ErrorKindNotFound:
		return http.StatusNotFound
	case partnership.ErrorKindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newBadParamError(message string) error {
	return &partnership.Error{
		Kind:    partnership.ErrorKindValidation,
		Message: message}
}

func setCORSHeaders(response *httpResponse, methods []string) {
	if response == nil {
		return
	}
	if response.Headers == nil {
		response.Headers = map[string]string{}
	}
	response.Headers["Access-Control-Allow-Origin"] = "*"
	response.Headers["Access-Control-Allow-Methods"] = strings.Join(
		append(append([]string{}, methods...), http.MethodOptions), ", ")
	response.Headers["Access-Control-Allow-Headers"] = strings.Join(
		allowedHeaders, ", ")
}
