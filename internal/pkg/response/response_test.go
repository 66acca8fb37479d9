package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/nekogravitycat/reservation-backend/internal/pkg/apperror"
)

func TestNewPageResponse(t *testing.T) {
	p := NewPageResponse[string](nil, 2, 20, 41)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPageResponse([]int{}, 1, 20, 0)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", apperror.New(apperror.KindNotFound, "reservation not found"), http.StatusNotFound, `{"error":"reservation not found"}`},
		{"conflict", apperror.New(apperror.KindConflict, "time slot is already booked"), http.StatusConflict, `{"error":"time slot is already booked"}`},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			Error(c, tt.err)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
