package requestpermission

import (
	service "apptreminder/internal/core/services/request_permission"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubService struct {
	granted bool
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	return service.Result{Granted: s.granted}, nil
}

func TestRequestPermissionHandler(t *testing.T) {
	for _, granted := range []bool{true, false} {
		rr := httptest.NewRecorder()

		New(&stubService{granted: granted}).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/permission", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		if granted {
			assert.JSONEq(t, `{"granted": true}`, rr.Body.String())
		} else {
			assert.JSONEq(t, `{"granted": false}`, rr.Body.String())
		}
	}
}
