package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTravelRegistry(client LLMClient) *Registry {
	reg := NewRegistry(0)
	RegisterTravelTools(reg, NewTravelData(), client)
	return reg
}

func TestRegisterTravelToolsCatalog(t *testing.T) {
	reg := newTravelRegistry(nil)

	assert.Equal(t, 8, reg.Len())
	assert.Equal(t, []string{
		"search_cities",
		"query_attractions",
		"generate_route",
		"calculate_budget",
		"get_city_info",
		"llm_chat",
		"generate_city_recommendation",
		"generate_route_plan",
	}, reg.Names())
}

func TestSearchCitiesToolCoercesJSONParams(t *testing.T) {
	reg := newTravelRegistry(nil)

	// Decoded JSON delivers []any and float64, not []string and int.
	result, err := reg.Execute(context.Background(), "search_cities", map[string]any{
		"interests":  []any{"美食"},
		"budget_min": float64(300),
		"budget_max": float64(400),
	})
	require.NoError(t, err)
	require.Equal(t, true, result["success"])
	assert.Equal(t, 7, result["count"])

	top := result["cities"].([]any)[0].(map[string]any)
	assert.Equal(t, "成都", top["city"])
	assert.Equal(t, 50, top["score"])
}

func TestQueryAttractionsRequiresCities(t *testing.T) {
	reg := newTravelRegistry(nil)

	_, err := reg.Execute(context.Background(), "query_attractions", map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingParam)
	assert.EqualError(t, err, "缺少必需参数: cities")
}

func TestGenerateRouteToolAcceptsCitiesAlias(t *testing.T) {
	reg := newTravelRegistry(nil)

	result, err := reg.Execute(context.Background(), "generate_route", map[string]any{
		"city":   "",
		"cities": []any{"杭州"},
		"days":   float64(2),
	})
	require.NoError(t, err)
	assert.Equal(t, true, result["success"])
	assert.Equal(t, "杭州", result["city"])
	assert.Len(t, result["route_plan"].([]any), 2)
}

func TestLLMChatWithoutClient(t *testing.T) {
	reg := newTravelRegistry(nil)

	// Missing model configuration is reported inside the result, not as
	// an execution error, so the reasoning loop can keep going.
	result, err := reg.Execute(context.Background(), "llm_chat", map[string]any{"query": "你好"})
	require.NoError(t, err)
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "模型未配置", result["response"])
}

func TestLLMChatWithClient(t *testing.T) {
	client := &fakeLLM{responses: []string{"你好，旅行者！"}}
	reg := newTravelRegistry(client)

	result, err := reg.Execute(context.Background(), "llm_chat", map[string]any{
		"query":   "你好",
		"context": "你是旅游助手",
	})
	require.NoError(t, err)
	assert.Equal(t, true, result["success"])
	assert.Equal(t, "你好，旅行者！", result["response"])
	assert.Equal(t, 1, client.calls)
}

func TestGenerateCityRecommendationParsesFencedJSON(t *testing.T) {
	client := &fakeLLM{responses: []string{
		"```json\n{\"recommendations\":[{\"city\":\"杭州\",\"match_score\":95}],\"explanation\":\"适合休闲\"}\n```",
	}}
	reg := newTravelRegistry(client)

	result, err := reg.Execute(context.Background(), "generate_city_recommendation", map[string]any{
		"user_query":       "想去放松的地方",
		"available_cities": []any{"杭州", "厦门"},
	})
	require.NoError(t, err)
	require.Equal(t, true, result["success"])

	recs := result["recommendations"].(map[string]any)
	assert.Equal(t, "适合休闲", recs["explanation"])
	assert.Len(t, recs["recommendations"].([]any), 1)
}

func TestGenerateCityRecommendationBadJSON(t *testing.T) {
	client := &fakeLLM{responses: []string{"抱歉，我不能输出JSON"}}
	reg := newTravelRegistry(client)

	result, err := reg.Execute(context.Background(), "generate_city_recommendation", map[string]any{
		"user_query":       "推荐城市",
		"available_cities": []any{},
	})
	require.NoError(t, err)
	assert.Equal(t, false, result["success"])
	assert.Contains(t, result["error"], "JSON解析失败")
	assert.Equal(t, "抱歉，我不能输出JSON", result["raw_content"])
}

func TestGenerateRoutePlanErrors(t *testing.T) {
	t.Run("unknown city", func(t *testing.T) {
		reg := newTravelRegistry(&fakeLLM{})
		result, err := reg.Execute(context.Background(), "generate_route_plan", map[string]any{
			"city": "不存在", "days": 2,
		})
		require.NoError(t, err)
		assert.Equal(t, false, result["success"])
		assert.Equal(t, "未找到城市: 不存在", result["error"])
	})

	t.Run("no client", func(t *testing.T) {
		reg := newTravelRegistry(nil)
		result, err := reg.Execute(context.Background(), "generate_route_plan", map[string]any{
			"city": "北京", "days": 2,
		})
		require.NoError(t, err)
		assert.Equal(t, false, result["success"])
		assert.Equal(t, "模型未配置", result["error"])
	})
}

func TestGenerateRoutePlanParsesPlan(t *testing.T) {
	client := &fakeLLM{responses: []string{
		`{"route_plan":[{"day":1,"attractions":["故宫"]}],"travel_tips":["早点出门"]}`,
	}}
	reg := newTravelRegistry(client)

	result, err := reg.Execute(context.Background(), "generate_route_plan", map[string]any{
		"city": "北京", "days": 1,
	})
	require.NoError(t, err)
	require.Equal(t, true, result["success"])

	plan := result["route_plan"].(map[string]any)
	assert.Len(t, plan["route_plan"].([]any), 1)
}

func TestParamCoercionHelpers(t *testing.T) {
	assert.Equal(t, 3, asInt(nil, 3))
	assert.Equal(t, 5, asInt(float64(5), 3))
	assert.Equal(t, 5, asInt("5", 3))
	assert.Equal(t, 3, asInt("五", 3))

	assert.Equal(t, []string{"a", "b"}, asStringSlice([]any{"a", 1, "b"}))
	assert.Equal(t, []string{"solo"}, asStringSlice("solo"))
	assert.Nil(t, asStringSlice(""))
	assert.Nil(t, asStringSlice(nil))

	assert.Equal(t, "北京", firstCity(map[string]any{"city": "北京"}))
	assert.Equal(t, "上海", firstCity(map[string]any{"cities": []any{"上海", "杭州"}}))
	assert.Equal(t, "", firstCity(map[string]any{}))
}
