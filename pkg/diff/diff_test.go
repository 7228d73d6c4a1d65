package diff

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestTextChange(t *testing.T) {
	c := TextChange("Miete für Büro Nord", "Miete für Büro Süd")
	assert.False(t, c.Unchanged)
	assert.Contains(t, c.Pretty, "[-")
	assert.Contains(t, c.Pretty, "{+")
	assert.Greater(t, c.Inserted, 0)
	assert.Greater(t, c.Deleted, 0)

	got, ok := Apply("Miete für Büro Nord", c.Patch)
	assert.True(t, ok)
	assert.Equal(t, "Miete für Büro Süd", got)

	assert.True(t, TextChange("same", "same").Unchanged)
}

func TestApply_BadPatch(t *testing.T) {
	_, ok := Apply("x", "@@ not a patch")
	assert.False(t, ok)
}

// 补丁应用到旧文本后总能得到新文本
func TestProperty_PatchRestoresNewText(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("apply(old, patch(old,new)) == new", prop.ForAll(
		func(oldWords, newWords []string) bool {
			oldText := strings.Join(oldWords, " ")
			newText := strings.Join(newWords, " ")
			c := TextChange(oldText, newText)
			if c.Unchanged {
				return oldText == newText
			}
			got, ok := Apply(oldText, c.Patch)
			return ok && got == newText
		},
		gen.SliceOfN(6, gen.RegexMatch(`[a-zA-Z]{0,8}`)),
		gen.SliceOfN(6, gen.RegexMatch(`[a-zA-Z]{0,8}`)),
	))

	properties.Property("pretty text keeps both sides", prop.ForAll(
		func(a, b string) bool {
			c := TextChange(a, b)
			if c.Unchanged {
				return true
			}
			stripNew := strings.NewReplacer("[-", "", "-]", "")
			// 去掉删除标记与新增片段后得到旧文本
			var sb strings.Builder
			rest := c.Pretty
			for {
				i := strings.Index(rest, "{+")
				if i < 0 {
					sb.WriteString(rest)
					break
				}
				sb.WriteString(rest[:i])
				j := strings.Index(rest[i:], "+}")
				if j < 0 {
					return false
				}
				rest = rest[i+j+2:]
			}
			return stripNew.Replace(sb.String()) == a
		},
		gen.RegexMatch(`[a-z ]{0,20}`),
		gen.RegexMatch(`[a-z ]{0,20}`),
	))

	properties.TestingRun(t)
}
