package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	valid string
}

func (v stubValidator) ValidateToken(token string) bool {
	return token == v.valid
}

func TestRequireToken(t *testing.T) {
	cases := []struct {
		id             string
		header         string
		expectedStatus int
	}{
		{id: "valid", header: "Bearer secret", expectedStatus: http.StatusOK},
		{id: "missing", header: "", expectedStatus: http.StatusUnauthorized},
		{id: "wrong scheme", header: "Basic secret", expectedStatus: http.StatusUnauthorized},
		{id: "empty token", header: "Bearer ", expectedStatus: http.StatusUnauthorized},
		{id: "invalid", header: "Bearer other", expectedStatus: http.StatusUnauthorized},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/reminders", nil)
			if testcase.header != "" {
				req.Header.Set("Authorization", testcase.header)
			}
			rr := httptest.NewRecorder()

			next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) { rw.WriteHeader(http.StatusOK) })
			RequireToken(stubValidator{valid: "secret"})(next).ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
		})
	}
}
