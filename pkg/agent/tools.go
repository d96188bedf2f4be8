package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wayfarer-ai/wayfarer/pkg/llm"
)

const recommendationPromptFmt = `你是一个专业的旅游助手，负责根据用户需求推荐合适的旅游城市。

可推荐城市列表：%s

当前用户偏好：
%s

请基于用户需求，从可推荐城市中选择3-5个最合适的城市，并以JSON格式返回：
{
    "recommendations": [
        {
            "city": "城市名",
            "reason": "推荐理由（50字以内）",
            "match_score": 90
        }
    ],
    "explanation": "整体推荐说明（100字以内）"
}

注意：
1. 只推荐列表中存在的城市
2. match_score为匹配度评分（0-100）
3. 推荐理由需结合用户偏好和城市特色
4. 按匹配度从高到低排序`

const routePlanPromptFmt = `你是一个专业的旅游规划师，负责为用户制定详细的旅游路线。

目标城市：%s
旅行天数：%d天
可选景点：
%s

用户偏好：
%s

请制定一个%d天的详细旅游路线，以JSON格式返回：
{
    "route_plan": [
        {
            "day": 1,
            "attractions": ["景点1", "景点2"],
            "schedule": "上午游览景点1（3小时），下午游览景点2（4小时）",
            "tips": "建议事项"
        }
    ],
    "total_cost_estimate": {
        "tickets": 500,
        "meals": 300,
        "transportation": 200,
        "total": 1000
    },
    "travel_tips": ["tip1", "tip2", "tip3"]
}

注意：
1. 合理安排每天行程，避免过于紧凑
2. 考虑景点间的地理位置和交通时间
3. 提供实用的旅行建议
4. 估算各项费用`

// RegisterTravelTools registers the built-in travel tool set on a
// registry: five data tools over the catalog and three AI tools that
// call the model. client may be nil, which leaves the AI tools
// registered but failing with an explanatory result.
func RegisterTravelTools(reg *Registry, data *TravelData, client LLMClient) {
	reg.Register(ToolInfo{
		Name:        "search_cities",
		Description: "根据用户兴趣、预算和季节偏好搜索匹配的城市",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"interests":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": `用户兴趣标签列表，如 ["美食", "历史", "自然风光"]`},
				"budget_min": map[string]any{"type": "integer", "description": "最低预算金额（元）"},
				"budget_max": map[string]any{"type": "integer", "description": "最高预算金额（元）"},
				"season":     map[string]any{"type": "string", "description": `旅行季节，如 "春季", "夏季"`},
			},
		},
		Category: "travel",
		Tags:     []string{"search", "city", "recommend"},
	}, func(_ context.Context, params map[string]any) (any, error) {
		return data.SearchCities(
			asStringSlice(params["interests"]),
			asInt(params["budget_min"], 0),
			asInt(params["budget_max"], 0),
			asString(params["season"]),
		), nil
	})

	reg.Register(ToolInfo{
		Name:        "query_attractions",
		Description: "查询指定城市的景点信息",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"cities": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "要查询的城市名称列表"},
			},
			"required": []any{"cities"},
		},
		RequiredParams: []string{"cities"},
		Category:       "travel",
		Tags:           []string{"query", "attraction", "scenic"},
	}, func(_ context.Context, params map[string]any) (any, error) {
		return data.QueryAttractions(asStringSlice(params["cities"])), nil
	})

	reg.Register(ToolInfo{
		Name:        "generate_route",
		Description: "为指定城市生成详细的旅游路线规划",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{"type": "string", "description": "目标城市名称"},
				"days": map[string]any{"type": "integer", "description": "旅行天数，默认3天", "default": 3},
			},
			"required": []any{"city"},
		},
		RequiredParams: []string{"city"},
		Category:       "travel",
		Tags:           []string{"route", "plan", "schedule"},
	}, func(_ context.Context, params map[string]any) (any, error) {
		return data.GenerateRoute(firstCity(params), asInt(params["days"], 3)), nil
	})

	reg.Register(ToolInfo{
		Name:        "calculate_budget",
		Description: "计算指定城市和天数的旅游预算",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{"type": "string", "description": "目标城市"},
				"days": map[string]any{"type": "integer", "description": "旅行天数"},
			},
			"required": []any{"city", "days"},
		},
		RequiredParams: []string{"city", "days"},
		Category:       "travel",
		Tags:           []string{"budget", "cost", "expense"},
	}, func(_ context.Context, params map[string]any) (any, error) {
		return data.CalculateBudget(firstCity(params), asInt(params["days"], 3), true, true), nil
	})

	reg.Register(ToolInfo{
		Name:        "get_city_info",
		Description: "获取指定城市的详细信息",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{"type": "string", "description": "城市名称"},
			},
			"required": []any{"city"},
		},
		RequiredParams: []string{"city"},
		Category:       "travel",
		Tags:           []string{"city", "info", "detail"},
	}, func(_ context.Context, params map[string]any) (any, error) {
		return data.GetCityInfo(firstCity(params)), nil
	})

	reg.Register(ToolInfo{
		Name:        "llm_chat",
		Description: "使用大语言模型进行对话回答",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query":   map[string]any{"type": "string", "description": "用户问题"},
				"context": map[string]any{"type": "string", "description": "对话上下文"},
			},
			"required": []any{"query"},
		},
		RequiredParams: []string{"query"},
		Category:       "ai",
		Tags:           []string{"chat", "llm", "ai"},
	}, func(ctx context.Context, params map[string]any) (any, error) {
		if client == nil {
			return map[string]any{"success": false, "response": "模型未配置"}, nil
		}
		messages := []llm.Message{}
		if chatCtx := asString(params["context"]); chatCtx != "" {
			messages = append(messages, llm.SystemMessage(chatCtx))
		}
		messages = append(messages, llm.UserMessage(asString(params["query"])))

		content, err := client.Chat(ctx, messages)
		if err != nil {
			return map[string]any{"success": false, "response": err.Error()}, nil
		}
		return map[string]any{"success": true, "response": content}, nil
	})

	reg.Register(ToolInfo{
		Name:        "generate_city_recommendation",
		Description: "根据用户需求生成个性化城市推荐",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"user_query":       map[string]any{"type": "string", "description": "用户原始需求"},
				"available_cities": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "可选城市列表"},
			},
			"required": []any{"user_query", "available_cities"},
		},
		RequiredParams: []string{"user_query", "available_cities"},
		Category:       "ai",
		Tags:           []string{"recommend", "city", "llm"},
	}, func(ctx context.Context, params map[string]any) (any, error) {
		if client == nil {
			return map[string]any{"success": false, "error": "模型未配置"}, nil
		}
		available := asStringSlice(params["available_cities"])
		if len(available) == 0 {
			available = data.CityNames()
		}

		prompt := fmt.Sprintf(recommendationPromptFmt, strings.Join(available, ", "), "")
		content, err := client.Chat(ctx, []llm.Message{
			llm.SystemMessage(prompt),
			llm.UserMessage(asString(params["user_query"])),
		}, llm.WithTemperature(0.7))
		if err != nil {
			return map[string]any{"success": false, "error": err.Error()}, nil
		}

		var recommendations map[string]any
		if err := json.Unmarshal([]byte(ExtractJSONFromMarkdown(content)), &recommendations); err != nil {
			return map[string]any{
				"success":     false,
				"error":       "JSON解析失败: " + err.Error(),
				"raw_content": content,
			}, nil
		}
		return map[string]any{
			"success":         true,
			"content":         content,
			"recommendations": recommendations,
		}, nil
	})

	reg.Register(ToolInfo{
		Name:        "generate_route_plan",
		Description: "根据城市景点信息生成详细路线规划",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city":        map[string]any{"type": "string", "description": "目标城市"},
				"days":        map[string]any{"type": "integer", "description": "旅行天数"},
				"preferences": map[string]any{"type": "string", "description": "用户偏好"},
			},
			"required": []any{"city", "days"},
		},
		RequiredParams: []string{"city", "days"},
		Category:       "ai",
		Tags:           []string{"route", "plan", "llm"},
	}, func(ctx context.Context, params map[string]any) (any, error) {
		cityName := firstCity(params)
		city, ok := data.City(cityName)
		if !ok {
			return map[string]any{"success": false, "error": "未找到城市: " + cityName}, nil
		}
		if client == nil {
			return map[string]any{"success": false, "error": "模型未配置"}, nil
		}

		days := asInt(params["days"], 3)
		lines := make([]string, 0, len(city.Attractions))
		for _, a := range city.Attractions {
			lines = append(lines, fmt.Sprintf("- %s：%s，建议游玩%d小时，门票%d元", a.Name, a.Type, a.Duration, a.Ticket))
		}

		prompt := fmt.Sprintf(routePlanPromptFmt, cityName, days, strings.Join(lines, "\n"), asString(params["preferences"]), days)
		content, err := client.Chat(ctx, []llm.Message{
			llm.SystemMessage(prompt),
			llm.UserMessage(fmt.Sprintf("帮我规划%s%d天的旅游路线", cityName, days)),
		}, llm.WithTemperature(0.6))
		if err != nil {
			return map[string]any{"success": false, "error": err.Error()}, nil
		}

		var plan map[string]any
		if err := json.Unmarshal([]byte(ExtractJSONFromMarkdown(content)), &plan); err != nil {
			return map[string]any{
				"success":     false,
				"error":       "JSON解析失败: " + err.Error(),
				"raw_content": content,
			}, nil
		}
		return map[string]any{
			"success":    true,
			"content":    content,
			"route_plan": plan,
		}, nil
	})
}

// Plan parameters arrive from JSON or alias mapping, so city may come as
// a string or a one-element cities list.
func firstCity(params map[string]any) string {
	if s := asString(params["city"]); s != "" {
		return s
	}
	if cities := asStringSlice(params["cities"]); len(cities) > 0 {
		return cities[0]
	}
	return ""
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if n != "" {
			parsed := 0
			if _, err := fmt.Sscanf(n, "%d", &parsed); err == nil {
				return parsed
			}
		}
	}
	return fallback
}

func asStringSlice(v any) []string {
	switch items := v.(type) {
	case []string:
		return items
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if items == "" {
			return nil
		}
		return []string{items}
	}
	return nil
}
