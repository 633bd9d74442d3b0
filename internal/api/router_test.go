package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/ai/service"
	"recipe-assistant/internal/core/assistant"
	"recipe-assistant/internal/core/kb"
	"recipe-assistant/internal/core/state"
	"recipe-assistant/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var summer = time.Date(2026, time.July, 15, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		App:         config.AppConfig{Debug: true, Version: "test"},
		Server:      config.ServerConfig{MaxBodyBytes: 1 << 20, WriteTimeout: 5 * time.Second},
		Assistant:   config.AssistantConfig{ServingSize: 4, MaxMessageLength: 500},
		CORS:        config.CORSConfig{AllowOrigins: []string{"*"}},
		DedupWindow: time.Second,
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	store := state.NewMemoryStore()
	a := assistant.New(kb.New(), store, assistant.WithSeed(42), assistant.WithClock(func() time.Time { return summer }))
	r, err := SetupRouter(cfg, Dependencies{
		Assistant: a,
		Store:     store,
		AIService: service.NewService(cfg, nil),
	})
	require.NoError(t, err)
	return r
}

type call struct {
	method  string
	path    string
	body    string
	session string
}

func do(t *testing.T, r http.Handler, c call) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if c.body != "" {
		req = httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(c.method, c.path, nil)
	}
	if c.session != "" {
		req.Header.Set(middleware.SessionHeader, c.session)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestChat(t *testing.T) {
	r := newTestRouter(t, testConfig())

	rec, body := do(t, r, call{method: http.MethodPost, path: "/api/v1/chat", body: `{"message":"set a timer for 10 minutes"}`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "timer", body["intent"])
	assert.Contains(t, body["response"], "Timer set for 10 minutes!")
}

func TestChatValidation(t *testing.T) {
	r := newTestRouter(t, testConfig())

	tests := []struct {
		name    string
		body    string
		session string
	}{
		{"empty message", `{"message":"   "}`, ""},
		{"missing body", "", ""},
		{"too long", `{"message":"` + strings.Repeat("a", 501) + `"}`, ""},
		{"bad session", `{"message":"hello"}`, "not a session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, r, call{method: http.MethodPost, path: "/api/v1/chat", body: tt.body, session: tt.session})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "INVALID_REQUEST", body["code"])
			assert.Equal(t, "error", body["status"])
		})
	}
}

func TestChatSessionFromBody(t *testing.T) {
	r := newTestRouter(t, testConfig())

	rec, _ := do(t, r, call{method: http.MethodPost, path: "/api/v1/chat", body: `{"message":"add Greek Salad to favorites","session_id":"alice"}`})
	require.Equal(t, http.StatusOK, rec.Code)

	_, body := do(t, r, call{method: http.MethodGet, path: "/api/v1/favorites", session: "alice"})
	assert.Equal(t, []interface{}{"Greek Salad"}, body["favorites"])
}

func TestRecipeLookups(t *testing.T) {
	r := newTestRouter(t, testConfig())

	rec, body := do(t, r, call{method: http.MethodGet, path: "/api/v1/recipes?dietary=vegan"})
	require.Equal(t, http.StatusOK, rec.Code)
	recipes := body["recipes"].([]interface{})
	require.NotEmpty(t, recipes)
	for _, item := range recipes {
		assert.Contains(t, item.(map[string]interface{})["dietary"], "vegan")
	}

	rec, body = do(t, r, call{method: http.MethodGet, path: "/api/v1/tips?category=baking"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["tips"])

	rec, body = do(t, r, call{method: http.MethodGet, path: "/api/v1/nutrition/Greek%20Salad"})
	require.Equal(t, http.StatusOK, rec.Code)
	nutrition := body["nutrition"].(map[string]interface{})
	assert.Equal(t, 1304.0, nutrition["total"].(map[string]interface{})["calories"])

	rec, body = do(t, r, call{method: http.MethodGet, path: "/api/v1/cost/spaghetti%20carbonara"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 13.23, body["cost"].(map[string]interface{})["total_cost"])

	for _, path := range []string{"/api/v1/nutrition/Mystery", "/api/v1/cost/Mystery", "/api/v1/share/Mystery", "/api/v1/ratings/Mystery"} {
		rec, body = do(t, r, call{method: http.MethodGet, path: path})
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "NOT_FOUND", body["code"], path)
	}
}

func TestSubstitutionsAndShoppingList(t *testing.T) {
	r := newTestRouter(t, testConfig())

	rec, _ := do(t, r, call{method: http.MethodPost, path: "/api/v1/substitutions", body: `{"ingredient":""}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body := do(t, r, call{method: http.MethodPost, path: "/api/v1/substitutions", body: `{"ingredient":"Butter"}`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["substitutions"])

	rec, _ = do(t, r, call{method: http.MethodPost, path: "/api/v1/shopping-list", body: `{"recipes":[]}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = do(t, r, call{method: http.MethodPost, path: "/api/v1/shopping-list", body: `{"recipes":["Spaghetti Carbonara","Chicken Stir Fry","Greek Salad"]}`})
	require.Equal(t, http.StatusOK, rec.Code)
	list := body["shopping_list"].(map[string]interface{})
	assert.Equal(t, 49.65, list["estimated_cost"])
	assert.Equal(t, 3.0, list["total_recipes"])
}

func TestMealPlanRoutes(t *testing.T) {
	r := newTestRouter(t, testConfig())

	rec, body := do(t, r, call{method: http.MethodPost, path: "/api/v1/meal-plan", body: `{"days":3,"dietary":"Vegan"}`, session: "bob"})
	require.Equal(t, http.StatusOK, rec.Code)
	plan := body["meal_plan"].(map[string]interface{})
	assert.Equal(t, 3.0, plan["days"])
	assert.Equal(t, "vegan", plan["dietary"])
	assert.Len(t, plan["meal_plan"], 3)

	for _, b := range []string{`{"days":0}`, `{"days":31}`, `{"days":"seven"}`} {
		rec, _ = do(t, r, call{method: http.MethodPost, path: "/api/v1/meal-plan", body: b, session: "bob"})
		assert.Equal(t, http.StatusBadRequest, rec.Code, b)
	}

	rec, body = do(t, r, call{method: http.MethodPost, path: "/api/v1/meal-plan", body: `{"dietary":"paleo"}`, session: "bob"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "UNPROCESSABLE_ENTITY", body["code"])

	rec, body = do(t, r, call{method: http.MethodGet, path: "/api/v1/meal-plans", session: "bob"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, body["total"])

	_, body = do(t, r, call{method: http.MethodGet, path: "/api/v1/meal-plans", session: "carol"})
	assert.Equal(t, 0.0, body["total"])

	rec, _ = do(t, r, call{method: http.MethodGet, path: "/api/v1/meal-plans?limit=zero"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPersonalizedMealPlanRoute(t *testing.T) {
	r := newTestRouter(t, testConfig())

	rec, body := do(t, r, call{method: http.MethodPost, path: "/api/v1/meal-plan/personalized",
		body: `{"days":2,"preferences":{"cuisine":"Indian","difficulty":"medium","max_time":40}}`})
	require.Equal(t, http.StatusOK, rec.Code)
	plan := body["meal_plan"].(map[string]interface{})
	assert.Len(t, plan["meal_plan"], 2)
	assert.Equal(t, "None specified", plan["dietary_info"])
	assert.Equal(t, true, body["personalized"])

	rec, _ = do(t, r, call{method: http.MethodPost, path: "/api/v1/meal-plan/personalized",
		body: `{"days":2,"preferences":{"cuisine":"martian"}}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFavoritesAndRatings(t *testing.T) {
	r := newTestRouter(t, testConfig())

	rec, body := do(t, r, call{method: http.MethodPost, path: "/api/v1/favorites", body: `{"recipe_name":"greek salad"}`, session: "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, body["result"].(map[string]interface{})["total_favorites"])

	rec, _ = do(t, r, call{method: http.MethodPost, path: "/api/v1/favorites", body: `{"recipe_name":"Mystery Stew"}`, session: "alice"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, body = do(t, r, call{method: http.MethodGet, path: "/api/v1/favorites", session: "alice"})
	assert.Equal(t, []interface{}{"Greek Salad"}, body["favorites"])
	_, body = do(t, r, call{method: http.MethodGet, path: "/api/v1/favorites", session: "bob"})
	assert.Equal(t, []interface{}{}, body["favorites"])

	invalid := []string{
		`{"recipe_name":"Greek Salad","rating":6}`,
		`{"recipe_name":"Greek Salad","rating":4.5}`,
		`{"recipe_name":"Greek Salad"}`,
		`{"rating":4}`,
	}
	for _, b := range invalid {
		rec, _ = do(t, r, call{method: http.MethodPost, path: "/api/v1/rate", body: b, session: "alice"})
		assert.Equal(t, http.StatusBadRequest, rec.Code, b)
	}

	rec, _ = do(t, r, call{method: http.MethodPost, path: "/api/v1/rate", body: `{"recipe_name":"Mystery Stew","rating":4}`, session: "alice"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rate := call{method: http.MethodPost, path: "/api/v1/rate", body: `{"recipe_name":"Greek Salad","rating":4,"review":" crisp "}`, session: "alice"}
	rec, body = do(t, r, rate)
	require.Equal(t, http.StatusOK, rec.Code)
	result := body["result"].(map[string]interface{})
	assert.Equal(t, 4.0, result["average_rating"])
	assert.Equal(t, "crisp", result["review"])

	rec, _ = do(t, r, rate)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec, body = do(t, r, call{method: http.MethodGet, path: "/api/v1/ratings/Greek%20Salad", session: "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, 1.0, stats["total_ratings"])
	assert.Equal(t, 1.0, stats["distribution"].(map[string]interface{})["4"])

	_, body = do(t, r, call{method: http.MethodGet, path: "/api/v1/ratings/Greek%20Salad", session: "bob"})
	assert.Equal(t, 0.0, body["stats"].(map[string]interface{})["total_ratings"])
}

func TestSearchRoute(t *testing.T) {
	r := newTestRouter(t, testConfig())

	rec, _ := do(t, r, call{method: http.MethodPost, path: "/api/v1/search", body: `{"query":" "}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, r, call{method: http.MethodPost, path: "/api/v1/search", body: `{"query":"chicken","filters":{"difficulty":"extreme"}}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body := do(t, r, call{method: http.MethodPost, path: "/api/v1/search", body: `{"query":"chicken","filters":{"difficulty":"Medium"}}`})
	require.Equal(t, http.StatusOK, rec.Code)
	results := body["results"].([]interface{})
	assert.Equal(t, float64(len(results)), body["total"])
	for _, item := range results {
		assert.Equal(t, "medium", item.(map[string]interface{})["difficulty"])
	}
}

func TestShareScaleVariationsLeftovers(t *testing.T) {
	r := newTestRouter(t, testConfig())

	rec, body := do(t, r, call{method: http.MethodGet, path: "/api/v1/share/Beef%20Tacos"})
	require.Equal(t, http.StatusOK, rec.Code)
	share := body["share_content"].(map[string]interface{})
	assert.Equal(t, "http://example.com/recipe/beef-tacos", share["share_url"])
	assert.Equal(t, "Check out this amazing Beef Tacos recipe!", share["share_text"])

	rec, body = do(t, r, call{method: http.MethodPost, path: "/api/v1/recipe/scale", body: `{"recipe_name":"Beef Tacos","servings":2}`})
	require.Equal(t, http.StatusOK, rec.Code)
	scaled := body["result"].(map[string]interface{})
	assert.Equal(t, "17 minutes", scaled["scaled_recipe"].(map[string]interface{})["prep_time"])

	rec, body = do(t, r, call{method: http.MethodPost, path: "/api/v1/recipe/scale", body: `{"recipe_name":"Beef Tacos"}`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, body["result"].(map[string]interface{})["scale_factor"])

	for _, b := range []string{`{"recipe_name":"Beef Tacos","servings":0}`, `{"servings":2}`} {
		rec, _ = do(t, r, call{method: http.MethodPost, path: "/api/v1/recipe/scale", body: b})
		assert.Equal(t, http.StatusBadRequest, rec.Code, b)
	}

	rec, _ = do(t, r, call{method: http.MethodPost, path: "/api/v1/recipe/variations", body: `{"recipe_name":"Beef Tacos","variation_type":"spooky"}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = do(t, r, call{method: http.MethodPost, path: "/api/v1/recipe/variations", body: `{"recipe_name":"Beef Tacos"}`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 9.0, body["result"].(map[string]interface{})["total_variations"])

	rec, _ = do(t, r, call{method: http.MethodPost, path: "/api/v1/recipe/leftover-suggestions", body: `{"ingredients":[]}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = do(t, r, call{method: http.MethodPost, path: "/api/v1/recipe/leftover-suggestions", body: `{"ingredients":["chicken","rice"]}`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotZero(t, body["result"].(map[string]interface{})["total_matches"])
}

func TestCookQADisabled(t *testing.T) {
	r := newTestRouter(t, testConfig())

	rec, body := do(t, r, call{method: http.MethodPost, path: "/api/v1/cook/qa", body: `{"question":"how long to rest steak?"}`})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "AI_DISABLED", body["code"])

	_, body = do(t, r, call{method: http.MethodGet, path: "/api/v1/ai/status"})
	assert.Equal(t, false, body["ai"].(map[string]interface{})["enabled"])
}

func TestOperationalRoutes(t *testing.T) {
	r := newTestRouter(t, testConfig())

	for _, path := range []string{"/health", "/ready", "/live"} {
		rec, _ := do(t, r, call{method: http.MethodGet, path: path})
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	_, body := do(t, r, call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, "test", body["version"])
	assert.NotZero(t, body["recipes"])

	rec, _ := do(t, r, call{method: http.MethodGet, path: "/metrics"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `recipe_assistant_http_requests_total{method="GET",path="/health",status="200"} 2`)
}

func TestRateLimitedAPI(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute}
	r := newTestRouter(t, cfg)

	rec, _ := do(t, r, call{method: http.MethodGet, path: "/api/v1/tips"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, r, call{method: http.MethodGet, path: "/api/v1/tips"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec, _ = do(t, r, call{method: http.MethodGet, path: "/live"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetupRouterRequiresDependencies(t *testing.T) {
	_, err := SetupRouter(testConfig(), Dependencies{})
	assert.Error(t, err)
}
