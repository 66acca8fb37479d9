package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/reservation-backend/internal/scheduling"
)

func TestNewContainer_WithoutInfrastructure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewContainer(Config{
		BusinessHours:       scheduling.BusinessHours{Start: 9, End: 21},
		Location:            time.UTC,
		AvailabilityMaxDays: 31,
		RateLimitPerMinute:  60,
	})
	require.NotNil(t, c.Router)

	// Defaults are in effect before Load.
	assert.Equal(t, scheduling.BusinessHours{Start: 9, End: 21}, c.SalonService.BusinessHours())

	w := httptest.NewRecorder()
	c.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, c.Close())
}
