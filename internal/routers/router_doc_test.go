package routers

import (
	"go/parser"
	"go/token"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entityNames = []string{"contract", "outgoing-mail", "incoming-mail", "visitorbook"}

// annotatedRoutes 读取 api_router 中 @Router 注释，{entity} 展开为每个实体
func annotatedRoutes(t *testing.T) map[string]bool {
	t.Helper()
	files, err := filepath.Glob("api_router/handler*.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	out := make(map[string]bool)
	fset := token.NewFileSet()
	for _, name := range files {
		f, err := parser.ParseFile(fset, name, nil, parser.ParseComments)
		require.NoError(t, err)
		for _, group := range f.Comments {
			for _, c := range group.List {
				text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
				if !strings.HasPrefix(text, "@Router ") {
					continue
				}
				fields := strings.Fields(strings.TrimPrefix(text, "@Router "))
				require.Len(t, fields, 2, text)
				method := strings.ToUpper(strings.Trim(fields[1], "[]"))
				path := fields[0]
				if !strings.Contains(path, "{entity}") {
					out[method+" "+path] = true
					continue
				}
				for _, e := range entityNames {
					out[method+" "+strings.ReplaceAll(path, "{entity}", e)] = true
				}
			}
		}
	}
	return out
}

func TestRouter_AnnotationsMatchRoutes(t *testing.T) {
	r, _ := newTestServer(t)

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	documented := annotatedRoutes(t)
	for route := range documented {
		assert.True(t, registered[route], "documented but not mounted: %s", route)
	}
	for route := range registered {
		assert.True(t, documented[route], "mounted but not documented: %s", route)
	}
	assert.True(t, documented[http.MethodGet+" /api/visitorbooks"])
}
