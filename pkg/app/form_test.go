package app

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindForm struct {
	Title string `form:"title" binding:"required"`
	Year  int    `form:"year" binding:"omitempty,gte=1900"`
}

func TestBindAndValid(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?title=Lease&year=2024", nil)
	f := &bindForm{}
	ok, errs := BindAndValid(c, f)
	assert.True(t, ok)
	assert.Empty(t, errs)
	assert.Equal(t, "Lease", f.Title)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?year=12", nil)
	ok, errs = BindAndValid(c, &bindForm{})
	assert.False(t, ok)
	assert.Len(t, errs, 2)
	assert.Contains(t, errs.MapsToString(), "Title")
	assert.NotEmpty(t, errs.ErrorsToString())
}
