package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contractForm struct {
	Title  string `json:"title" binding:"notblank"`
	Status string `json:"status" binding:"omitempty,oneof=draft signed"`
}

func TestInstall_TranslatesWithJSONNames(t *testing.T) {
	uni, err := Install()
	require.NoError(t, err)

	cv := binding.Validator
	err = cv.ValidateStruct(&contractForm{Title: "  ", Status: "lost"})
	require.Error(t, err)

	verrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	require.Len(t, verrs, 2)
	assert.Equal(t, "title", verrs[0].Field())

	trans, found := uni.GetTranslator("de")
	require.True(t, found)
	assert.Equal(t, "title must not be blank", verrs[0].Translate(trans))

	assert.NoError(t, cv.ValidateStruct(contractForm{Title: "Lease"}))
	assert.NoError(t, cv.ValidateStruct("not a struct"))
}
