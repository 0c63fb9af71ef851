package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartnerRegisterLambda(t *testing.T) {
	fixture := newLambdaFixture(t)

	response, body := fixture.call(t, "PartnerRegister", testRequest{
		method: http.MethodPost,
		body: map[string]string{
			"name":           "Jane",
			"email":          "jane@x.com",
			"phone":          "5551234567",
			"traffic_source": "blog",
		},
	})
	require.Equal(t, http.StatusCreated, response.StatusCode, response.Body)
	require.Equal(t, true, body["success"])
	require.NotEmpty(t, body["message"])
	id := int64(body["partner_id"].(float64))
	partner := fixture.db.GetPartner(id)
	require.NotNil(t, partner)
	require.False(t, partner.Approved)
	require.Equal(t, "blog", partner.TrafficSource)

	response, body = fixture.call(t, "PartnerRegister", testRequest{
		method: http.MethodPost,
		body: map[string]string{
			"name":  "Jane",
			"email": "jane@x.com",
			"phone": "5551234567",
		},
	})
	require.Equal(t, http.StatusConflict, response.StatusCode)
	require.NotEmpty(t, body["error"])

	response, body = fixture.call(t, "PartnerRegister", testRequest{
		method: http.MethodPost,
		body: map[string]string{
			"name":  "Jane",
			"email": "jane2@x.com",
			"phone": "555",
		},
	})
	require.Equal(t, http.StatusBadRequest, response.StatusCode)
	require.Equal(t, "Phone could not be shorter than 10 symbols", body["error"])

	response, _ = fixture.call(t, "PartnerRegister",
		testRequest{method: http.MethodPost})
	require.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestPartnerLoginLambda(t *testing.T) {
	fixture := newLambdaFixture(t)
	register := func(email string) int64 {
		_, body := fixture.call(t, "PartnerRegister", testRequest{
			method: http.MethodPost,
			body: map[string]string{
				"name":  "Jane",
				"email": email,
				"phone": "5551234567",
			},
		})
		return int64(body["partner_id"].(float64))
	}
	login := func(email, password string) (int, map[string]interface{}) {
		response, body := fixture.call(t, "PartnerLogin", testRequest{
			method: http.MethodPost,
			body:   map[string]string{"email": email, "password": password},
		})
		return response.StatusCode, body
	}

	id := register("jane@x.com")

	status, body := login("jane@x.com", "secret1")
	require.Equal(t, http.StatusForbidden, status)
	require.NotEmpty(t, body["error"])

	status, body = login("nobody@x.com", "secret1")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Invalid email or password", body["error"])

	status, _ = login("", "")
	require.Equal(t, http.StatusBadRequest, status)

	response, _ := fixture.call(t, "AdminManage", testRequest{
		method:  http.MethodPost,
		headers: fixture.adminHeaders(),
		body: map[string]interface{}{
			"action":     "approve",
			"partner_id": id,
			"password":   "secret1",
		},
	})
	require.Equal(t, http.StatusOK, response.StatusCode, response.Body)

	status, body = login("jane@x.com", "wrong")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Invalid email or password", body["error"])

	status, body = login("jane@x.com", "secret1")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])
	require.NotEmpty(t, body["session_token"])
	partner := body["partner"].(map[string]interface{})
	require.Equal(t, float64(id), partner["id"])
	require.Equal(t, "jane@x.com", partner["email"])
	require.Equal(t, false, partner["is_admin"])
}
