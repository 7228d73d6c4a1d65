package routers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/haierkeys/projectforge-office-service/internal/app"
	"github.com/haierkeys/projectforge-office-service/internal/dao"
	"github.com/haierkeys/projectforge-office-service/internal/dto"
	pkgapp "github.com/haierkeys/projectforge-office-service/pkg/app"
	"github.com/haierkeys/projectforge-office-service/pkg/code"
	"github.com/haierkeys/projectforge-office-service/pkg/validator"

	"github.com/bytedance/sonic"
	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var uni *ut.UniversalTranslator

func init() {
	gin.SetMode(gin.TestMode)
	var err error
	if uni, err = validator.Install(); err != nil {
		panic(err)
	}
}

func newTestServer(t *testing.T, configure ...func(*app.AppConfig)) (*gin.Engine, *app.App) {
	t.Helper()
	cfg := new(app.AppConfig)
	require.NoError(t, defaults.Set(cfg))
	cfg.Database.Path = ":memory:"
	cfg.User.RegisterIsEnable = true
	cfg.Security.LoginRateLimit = 0
	for _, fn := range configure {
		fn(cfg)
	}

	db, err := dao.NewDBEngineWithConfig(cfg.GetDatabaseConfig(), zap.NewNop())
	require.NoError(t, err)
	a, err := app.NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	return NewRouter(a, uni), a
}

func call(t *testing.T, r http.Handler, method, path, token string, body interface{}) pkgapp.Res {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res pkgapp.Res
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

// into decodes res.Data into out
func into(t *testing.T, res pkgapp.Res, out interface{}) {
	t.Helper()
	b, err := sonic.Marshal(res.Data)
	require.NoError(t, err)
	require.NoError(t, sonic.Unmarshal(b, out))
}

func login(t *testing.T, r http.Handler) string {
	t.Helper()
	res := call(t, r, http.MethodPost, "/api/user/register", "", map[string]string{
		"email":           "anna@example.org",
		"username":        "anna",
		"password":        "geheim123",
		"confirmPassword": "geheim123",
	})
	require.True(t, res.Status, "%+v", res)

	res = call(t, r, http.MethodPost, "/api/user/login", "", map[string]string{
		"credentials": "anna",
		"password":    "geheim123",
	})
	require.True(t, res.Status, "%+v", res)
	var user dto.UserDTO
	into(t, res, &user)
	require.NotEmpty(t, user.Token)
	return user.Token
}

func editToken(t *testing.T, r http.Handler, token, entity string, id int64) string {
	t.Helper()
	res := call(t, r, http.MethodGet, "/api/"+entity+"/edit?id="+strconv.FormatInt(id, 10), token, nil)
	require.True(t, res.Status, "%+v", res)
	var edit dto.EditDTO
	into(t, res, &edit)
	require.NotEmpty(t, edit.EditToken)
	return edit.EditToken
}

func TestRouter_RequiresLogin(t *testing.T) {
	r, _ := newTestServer(t)

	res := call(t, r, http.MethodGet, "/api/contracts", "", nil)
	assert.Equal(t, code.ErrorNotUserAuthToken.Code(), res.Code)

	res = call(t, r, http.MethodGet, "/api/visitorbooks", "garbage", nil)
	assert.Equal(t, code.ErrorInvalidUserAuthToken.Code(), res.Code)
}

func TestRouter_ContractLifecycle(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r)

	res := call(t, r, http.MethodGet, "/api/contract/next-number", token, nil)
	var next dto.NextNumberDTO
	into(t, res, &next)
	assert.Equal(t, 1, next.Number)

	form := map[string]interface{}{
		"editToken": editToken(t, r, token, "contract", 0),
		"title":     "Wartungsvertrag Heizung",
		"date":      "2026-03-02",
		"status":    "signed",
	}
	res = call(t, r, http.MethodPost, "/api/contract", token, form)
	require.True(t, res.Status, "%+v", res)
	assert.Equal(t, code.SuccessCreate.Code(), res.Code)
	var saved dto.SaveResultDTO
	into(t, res, &saved)
	require.NotZero(t, saved.ID)

	// 同一表单再次提交
	res = call(t, r, http.MethodPost, "/api/contract", token, form)
	assert.Equal(t, code.ErrorAlreadySubmitted.Code(), res.Code)

	id := strconv.FormatInt(saved.ID, 10)
	res = call(t, r, http.MethodGet, "/api/contract?id="+id, token, nil)
	var contract dto.ContractDTO
	into(t, res, &contract)
	assert.Equal(t, "Wartungsvertrag Heizung", contract.Title)
	assert.Equal(t, 1, contract.Number)

	res = call(t, r, http.MethodGet, "/api/contracts?sort=title&asc=true", token, nil)
	var list struct {
		List  []dto.ContractDTO `json:"list"`
		Pager pkgapp.Pager      `json:"pager"`
	}
	into(t, res, &list)
	require.Len(t, list.List, 1)
	assert.Equal(t, 1, list.Pager.TotalRows)

	res = call(t, r, http.MethodGet, "/api/contract/years", token, nil)
	var years []int
	into(t, res, &years)
	assert.Equal(t, []int{2026}, years)

	update := map[string]interface{}{
		"editToken": editToken(t, r, token, "contract", saved.ID),
		"id":        saved.ID,
		"title":     "Wartungsvertrag Heizung und Lüftung",
		"date":      "2026-03-02",
		"status":    "signed",
	}
	res = call(t, r, http.MethodPost, "/api/contract", token, update)
	assert.Equal(t, code.SuccessUpdate.Code(), res.Code)

	res = call(t, r, http.MethodGet, "/api/contract/history?id="+id, token, nil)
	var history []dto.HistoryEntryDTO
	into(t, res, &history)
	require.NotEmpty(t, history)
	assert.Equal(t, "title", history[0].Property)
	assert.Equal(t, "anna", history[0].Username)

	res = call(t, r, http.MethodDelete, "/api/contract", token, map[string]interface{}{
		"editToken": editToken(t, r, token, "contract", saved.ID),
		"id":        saved.ID,
	})
	assert.Equal(t, code.SuccessDelete.Code(), res.Code)

	res = call(t, r, http.MethodGet, "/api/contracts", token, nil)
	into(t, res, &list)
	assert.Empty(t, list.List)

	res = call(t, r, http.MethodPut, "/api/contract/undelete", token, map[string]interface{}{
		"editToken": editToken(t, r, token, "contract", saved.ID),
		"id":        saved.ID,
	})
	assert.Equal(t, code.SuccessUndelete.Code(), res.Code)

	res = call(t, r, http.MethodGet, "/api/contracts", token, nil)
	into(t, res, &list)
	assert.Len(t, list.List, 1)
}

func TestRouter_InvalidParams(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r)

	res := call(t, r, http.MethodPost, "/api/outgoing-mail", token, map[string]interface{}{
		"editToken": editToken(t, r, token, "outgoing-mail", 0),
		"receiver":  "   ",
		"date":      "2026-03-02",
	})
	assert.Equal(t, code.ErrorInvalidParams.Code(), res.Code)
	var fields map[string]string
	into(t, res, &fields)
	assert.Contains(t, fields, "receiver")
	assert.Contains(t, fields, "content")

	res = call(t, r, http.MethodGet, "/api/contract/autocomplete?property=password", token, nil)
	assert.Equal(t, code.ErrorAutocompleteField.Code(), res.Code)
}

func TestRouter_SavedFilter(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r)

	res := call(t, r, http.MethodGet, "/api/incoming-mails?year=2025&month=4&searchString=Finanzamt", token, nil)
	require.True(t, res.Status, "%+v", res)

	res = call(t, r, http.MethodGet, "/api/incoming-mail/filter", token, nil)
	var filter dto.MailFilterDTO
	into(t, res, &filter)
	assert.Equal(t, dto.MailFilterDTO{SearchString: "Finanzamt", Year: 2025, Month: 4}, filter)

	res = call(t, r, http.MethodDelete, "/api/incoming-mail/filter", token, nil)
	assert.True(t, res.Status)

	res = call(t, r, http.MethodGet, "/api/incoming-mail/filter", token, nil)
	filter = dto.MailFilterDTO{}
	into(t, res, &filter)
	assert.Equal(t, dto.MailFilterDTO{}, filter)
}

func TestRouter_Visitorbook(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r)

	res := call(t, r, http.MethodPost, "/api/visitorbook", token, map[string]interface{}{
		"editToken":   editToken(t, r, token, "visitorbook", 0),
		"firstname":   "Jörg",
		"lastname":    "Müller",
		"company":     "Acme GmbH",
		"visitorType": "visitor",
		"entries": []map[string]string{
			{"dateOfVisit": "2026-03-02", "arrived": "09:00", "departed": "11:30"},
		},
	})
	require.True(t, res.Status, "%+v", res)

	res = call(t, r, http.MethodGet, "/api/visitorbooks?searchString=müller", token, nil)
	var list struct {
		List []dto.VisitorbookDTO `json:"list"`
	}
	into(t, res, &list)
	require.Len(t, list.List, 1)
	assert.Equal(t, "09:00", list.List[0].Arrived)
}

func TestRouter_UserInfoAndPassword(t *testing.T) {
	r, _ := newTestServer(t)
	token := login(t, r)

	res := call(t, r, http.MethodGet, "/api/user/info", token, nil)
	var user dto.UserDTO
	into(t, res, &user)
	assert.Equal(t, "anna", user.Username)

	res = call(t, r, http.MethodPost, "/api/user/change-password", token, map[string]string{
		"oldPassword":     "falsch",
		"password":        "neuesGeheim",
		"confirmPassword": "neuesGeheim",
	})
	assert.Equal(t, code.ErrorUserOldPasswordFailed.Code(), res.Code)

	res = call(t, r, http.MethodPost, "/api/user/change-password", token, map[string]string{
		"oldPassword":     "geheim123",
		"password":        "neuesGeheim",
		"confirmPassword": "neuesGeheim",
	})
	assert.True(t, res.Status, "%+v", res)
}

func TestRouter_LoginRateLimit(t *testing.T) {
	r, _ := newTestServer(t, func(cfg *app.AppConfig) { cfg.Security.LoginRateLimit = 2 })
	body := map[string]string{"credentials": "nobody", "password": "x"}

	for i := 0; i < 2; i++ {
		res := call(t, r, http.MethodPost, "/api/user/login", "", body)
		assert.Equal(t, code.ErrorUserLoginPasswordFailed.Code(), res.Code)
	}
	res := call(t, r, http.MethodPost, "/api/user/login", "", body)
	assert.Equal(t, code.ErrorTooManyRequests.Code(), res.Code)
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r, _ := newTestServer(t)

	res := call(t, r, http.MethodGet, "/api/health", "", nil)
	var health dto.HealthDTO
	into(t, res, &health)
	assert.Equal(t, "ok", health.Status)

	res = call(t, r, http.MethodGet, "/api/version", "", nil)
	var version pkgapp.VersionInfo
	into(t, res, &version)
	assert.Equal(t, app.Version, version.Version)

	res = call(t, r, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, code.ErrorNotFoundAPI.Code(), res.Code)
}

func TestPrivateRouter(t *testing.T) {
	_, a := newTestServer(t)
	r := NewPrivateRouter(a)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/vars", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "memstats")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, DefaultPrefix+"/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "pprof is only mounted in debug mode")
}
