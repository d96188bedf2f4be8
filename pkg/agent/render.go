package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	jsonFencePattern = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")
	jsonBracePattern = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ParseJSONResponse extracts a JSON object from model output. Models
// wrap JSON in code fences or prose, so parsing is tiered: the raw text
// first, then a ```json fence, then the outermost brace span. Returns
// nil when nothing parses.
func ParseJSONResponse(content string) map[string]any {
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err == nil {
		return data
	}

	if m := jsonFencePattern.FindStringSubmatch(content); m != nil {
		if err := json.Unmarshal([]byte(m[1]), &data); err == nil {
			return data
		}
	}

	if m := jsonBracePattern.FindString(content); m != "" {
		if err := json.Unmarshal([]byte(m), &data); err == nil {
			return data
		}
	}

	return nil
}

// FormatTravelResponse renders the structured recommendation JSON
// {opening, cities, tips} as Markdown for the chat surface.
func FormatTravelResponse(data map[string]any) string {
	var lines []string

	if opening := asString(data["opening"]); opening != "" {
		lines = append(lines, opening, "")
	}

	cities, _ := data["cities"].([]any)
	for i, entry := range cities {
		city, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		lines = append(lines,
			fmt.Sprintf("## %s %s", asString(city["emoji"]), asString(city["name"])),
			"",
			fmt.Sprintf("- **推荐天数**：%s", stringOr(city["days"], "3天")),
			fmt.Sprintf("- **预算**：约 **%s/天**", stringOr(city["budget"], "待定")),
			fmt.Sprintf("- **最佳旅行季节**：%s", stringOr(city["season"], "四季皆宜")),
			"",
			"#### 必游景点：",
		)

		attractions, _ := city["attractions"].([]any)
		for j, a := range attractions {
			attr, ok := a.(map[string]any)
			if !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf("%d. **%s**（%s）- %s",
				j+1,
				stringOr(attr["name"], "未知景点"),
				stringOr(attr["type"], "景点"),
				ticketLabel(attr["ticket"])))
			if desc := asString(attr["description"]); desc != "" {
				lines = append(lines, "   - "+desc)
			}
			lines = append(lines, "")
		}

		if i < len(cities)-1 {
			lines = append(lines, "")
		}
	}

	if tips := asString(data["tips"]); tips != "" {
		lines = append(lines, "", "☀️ 旅行小贴士", "", tips)
	}

	return strings.Join(lines, "\n")
}

// ticketLabel renders the ticket field, which models emit as a number,
// a priced string, or a free marker.
func ticketLabel(v any) string {
	switch t := v.(type) {
	case nil:
		return "完全免费"
	case float64:
		if t == 0 {
			return "完全免费"
		}
		return fmt.Sprintf("门票 **%v**", t)
	case string:
		if t == "" || t == "免费" || t == "0" {
			return "完全免费"
		}
		return fmt.Sprintf("门票 **%s**", t)
	default:
		return fmt.Sprintf("门票 **%v**", t)
	}
}

func stringOr(v any, fallback string) string {
	switch s := v.(type) {
	case string:
		if s != "" {
			return s
		}
	case float64:
		return fmt.Sprintf("%v", s)
	case int:
		return fmt.Sprintf("%d", s)
	}
	return fallback
}
