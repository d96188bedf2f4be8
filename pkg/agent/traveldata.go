package agent

import (
	"sort"
	"strings"
)

// Attraction is one sight inside a city record. Duration is hours,
// Ticket is the entry fee in yuan.
type Attraction struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	Ticket   int    `json:"ticket"`
}

// City is one catalog entry of the travel knowledge base.
type City struct {
	Name            string       `json:"name"`
	Region          string       `json:"region"`
	Tags            []string     `json:"tags"`
	BestSeason      []string     `json:"best_season"`
	AvgBudgetPerDay int          `json:"avg_budget_per_day"`
	RecommendedDays int          `json:"recommended_days"`
	Attractions     []Attraction `json:"attractions"`
}

// TravelData is the in-process travel knowledge base backing the
// non-AI tools. It is read-only after construction and therefore safe
// for concurrent use.
type TravelData struct {
	cities map[string]*City
	order  []string
	tags   map[string][]string
}

// NewTravelData builds the default city catalog.
func NewTravelData() *TravelData {
	td := &TravelData{
		cities: make(map[string]*City),
		tags: map[string][]string{
			"历史文化": {"北京", "西安", "洛阳", "南京"},
			"自然风光": {"杭州", "桂林", "张家界", "九寨沟", "呼伦贝尔"},
			"现代都市": {"上海", "深圳", "广州", "香港"},
			"美食":   {"成都", "重庆", "广州", "西安", "呼和浩特", "呼伦贝尔"},
			"海滨度假": {"三亚", "厦门", "青岛", "大连"},
			"休闲养生": {"杭州", "成都", "丽江", "大理"},
			"草原风光": {"呼伦贝尔", "呼和浩特", "包头"},
			"民族风情": {"呼和浩特", "呼伦贝尔", "大理", "丽江"},
		},
	}
	for _, c := range defaultCities() {
		td.cities[c.Name] = c
		td.order = append(td.order, c.Name)
	}
	return td
}

func defaultCities() []*City {
	return []*City{
		{
			Name:            "北京",
			Region:          "华北",
			Tags:            []string{"历史文化", "首都", "古建筑"},
			BestSeason:      []string{"春季", "秋季"},
			AvgBudgetPerDay: 500,
			RecommendedDays: 4,
			Attractions: []Attraction{
				{Name: "故宫", Type: "历史遗迹", Duration: 4, Ticket: 60},
				{Name: "长城", Type: "历史遗迹", Duration: 6, Ticket: 40},
				{Name: "天坛", Type: "历史遗迹", Duration: 3, Ticket: 15},
				{Name: "颐和园", Type: "园林", Duration: 4, Ticket: 30},
			},
		},
		{
			Name:            "上海",
			Region:          "华东",
			Tags:            []string{"现代都市", "购物", "美食"},
			BestSeason:      []string{"春季", "秋季"},
			AvgBudgetPerDay: 600,
			RecommendedDays: 3,
			Attractions: []Attraction{
				{Name: "外滩", Type: "城市景观", Duration: 3, Ticket: 0},
				{Name: "东方明珠", Type: "地标建筑", Duration: 2, Ticket: 180},
				{Name: "迪士尼乐园", Type: "主题乐园", Duration: 8, Ticket: 399},
				{Name: "豫园", Type: "园林", Duration: 2, Ticket: 40},
			},
		},
		{
			Name:            "杭州",
			Region:          "华东",
			Tags:            []string{"自然风光", "人文历史", "休闲"},
			BestSeason:      []string{"春季", "秋季"},
			AvgBudgetPerDay: 400,
			RecommendedDays: 3,
			Attractions: []Attraction{
				{Name: "西湖", Type: "自然风光", Duration: 4, Ticket: 0},
				{Name: "灵隐寺", Type: "宗教文化", Duration: 3, Ticket: 45},
				{Name: "千岛湖", Type: "自然风光", Duration: 6, Ticket: 150},
				{Name: "宋城", Type: "主题乐园", Duration: 4, Ticket: 310},
			},
		},
		{
			Name:            "成都",
			Region:          "西南",
			Tags:            []string{"美食", "休闲", "熊猫"},
			BestSeason:      []string{"春季", "秋季"},
			AvgBudgetPerDay: 350,
			RecommendedDays: 4,
			Attractions: []Attraction{
				{Name: "大熊猫繁育研究基地", Type: "动物园", Duration: 4, Ticket: 55},
				{Name: "宽窄巷子", Type: "历史街区", Duration: 3, Ticket: 0},
				{Name: "武侯祠", Type: "历史遗迹", Duration: 2, Ticket: 50},
				{Name: "都江堰", Type: "历史遗迹", Duration: 5, Ticket: 80},
			},
		},
		{
			Name:            "西安",
			Region:          "西北",
			Tags:            []string{"历史文化", "古都", "美食"},
			BestSeason:      []string{"春季", "秋季"},
			AvgBudgetPerDay: 400,
			RecommendedDays: 4,
			Attractions: []Attraction{
				{Name: "兵马俑", Type: "历史遗迹", Duration: 4, Ticket: 120},
				{Name: "大雁塔", Type: "历史遗迹", Duration: 2, Ticket: 50},
				{Name: "古城墙", Type: "历史遗迹", Duration: 3, Ticket: 54},
				{Name: "华清宫", Type: "历史遗迹", Duration: 3, Ticket: 120},
			},
		},
		{
			Name:            "厦门",
			Region:          "华南",
			Tags:            []string{"海滨", "休闲", "文艺"},
			BestSeason:      []string{"春季", "秋季", "冬季"},
			AvgBudgetPerDay: 450,
			RecommendedDays: 3,
			Attractions: []Attraction{
				{Name: "鼓浪屿", Type: "海岛", Duration: 6, Ticket: 0},
				{Name: "南普陀寺", Type: "宗教文化", Duration: 2, Ticket: 0},
				{Name: "曾厝垵", Type: "历史街区", Duration: 3, Ticket: 0},
				{Name: "环岛路", Type: "城市景观", Duration: 3, Ticket: 0},
			},
		},
		{
			Name:            "呼和浩特",
			Region:          "内蒙古",
			Tags:            []string{"草原", "历史文化", "美食", "民族风情"},
			BestSeason:      []string{"夏季", "秋季"},
			AvgBudgetPerDay: 350,
			RecommendedDays: 3,
			Attractions: []Attraction{
				{Name: "大召寺", Type: "宗教文化", Duration: 2, Ticket: 35},
				{Name: "内蒙古博物馆", Type: "博物馆", Duration: 2, Ticket: 0},
				{Name: "昭君墓", Type: "历史遗迹", Duration: 2, Ticket: 65},
				{Name: "敕勒川草原", Type: "自然风光", Duration: 4, Ticket: 0},
			},
		},
		{
			Name:            "呼伦贝尔",
			Region:          "内蒙古",
			Tags:            []string{"草原", "自然风光", "民族风情", "美食"},
			BestSeason:      []string{"夏季", "秋季"},
			AvgBudgetPerDay: 450,
			RecommendedDays: 4,
			Attractions: []Attraction{
				{Name: "呼伦贝尔大草原", Type: "自然风光", Duration: 6, Ticket: 0},
				{Name: "额尔古纳湿地", Type: "自然风光", Duration: 4, Ticket: 65},
				{Name: "满洲里国门", Type: "历史遗迹", Duration: 2, Ticket: 80},
				{Name: "套娃广场", Type: "主题广场", Duration: 2, Ticket: 0},
			},
		},
		{
			Name:            "包头",
			Region:          "内蒙古",
			Tags:            []string{"草原", "工业", "美食"},
			BestSeason:      []string{"夏季", "秋季"},
			AvgBudgetPerDay: 300,
			RecommendedDays: 2,
			Attractions: []Attraction{
				{Name: "赛罕塔拉公园", Type: "自然风光", Duration: 3, Ticket: 0},
				{Name: "北方兵器城", Type: "工业旅游", Duration: 2, Ticket: 50},
				{Name: "五当召", Type: "宗教文化", Duration: 3, Ticket: 60},
			},
		},
	}
}

// CityNames returns all catalog cities in catalog order.
func (td *TravelData) CityNames() []string {
	return append([]string(nil), td.order...)
}

// City returns a catalog entry by name.
func (td *TravelData) City(name string) (*City, bool) {
	c, ok := td.cities[name]
	return c, ok
}

// CitiesByTag returns the cities indexed under an interest tag.
func (td *TravelData) CitiesByTag(tag string) []string {
	return append([]string(nil), td.tags[tag]...)
}

// infoMap renders a city record in the wire shape tool results use.
func (c *City) infoMap() map[string]any {
	attractions := make([]any, 0, len(c.Attractions))
	for _, a := range c.Attractions {
		attractions = append(attractions, map[string]any{
			"name":     a.Name,
			"type":     a.Type,
			"duration": a.Duration,
			"ticket":   a.Ticket,
		})
	}
	return map[string]any{
		"region":             c.Region,
		"tags":               toAnySlice(c.Tags),
		"best_season":        toAnySlice(c.BestSeason),
		"avg_budget_per_day": c.AvgBudgetPerDay,
		"recommended_days":   c.RecommendedDays,
		"attractions":        attractions,
	}
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// SearchCities scores catalog cities against interests, a budget range,
// and a season. With no criteria every city gets the base score. Results
// are sorted by score, ties keeping catalog order.
func (td *TravelData) SearchCities(interests []string, budgetMin, budgetMax int, season string) map[string]any {
	hasBudget := budgetMin > 0 && budgetMax > 0

	type match struct {
		entry map[string]any
		score int
	}
	var matched []match

	for _, name := range td.order {
		city := td.cities[name]

		score := 0
		reasons := []any{}

		for _, interest := range interests {
			if tagMatches(city.Tags, interest) {
				score += 30
				reasons = append(reasons, "符合"+interest+"兴趣")
			}
		}

		if hasBudget {
			switch avg := city.AvgBudgetPerDay; {
			case budgetMin <= avg && avg <= budgetMax:
				score += 20
				reasons = append(reasons, "预算适合")
			case avg < budgetMax:
				score += 10
			}
		}

		if season != "" && containsString(city.BestSeason, season) {
			score += 15
			reasons = append(reasons, "季节适宜")
		}

		if len(interests) == 0 && !hasBudget && season == "" {
			score = 50
		}

		if score > 0 {
			matched = append(matched, match{score: score, entry: map[string]any{
				"city":          name,
				"score":         score,
				"info":          city.infoMap(),
				"match_reasons": reasons,
			}})
		}
	}

	// Stable sort keeps catalog order among equal scores.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})

	cities := make([]any, len(matched))
	for i, m := range matched {
		cities[i] = m.entry
	}
	return map[string]any{
		"success": true,
		"cities":  cities,
		"count":   len(cities),
	}
}

func tagMatches(tags []string, interest string) bool {
	for _, tag := range tags {
		if tag == interest || strings.Contains(tag, interest) {
			return true
		}
	}
	return false
}

// QueryAttractions returns the attraction summary per known city.
// Unknown cities are silently skipped.
func (td *TravelData) QueryAttractions(cities []string) map[string]any {
	data := map[string]any{}
	for _, name := range cities {
		city, ok := td.cities[name]
		if !ok {
			continue
		}
		info := city.infoMap()
		data[name] = map[string]any{
			"attractions":        info["attractions"],
			"avg_budget_per_day": city.AvgBudgetPerDay,
			"recommended_days":   city.RecommendedDays,
		}
	}
	return map[string]any{
		"success":      true,
		"data":         data,
		"cities_count": len(data),
	}
}

// GenerateRoute assigns one main attraction per day and estimates cost.
func (td *TravelData) GenerateRoute(cityName string, days int) map[string]any {
	city, ok := td.cities[cityName]
	if !ok {
		return map[string]any{"success": false, "error": "未找到城市: " + cityName}
	}

	routeDays := days
	if len(city.Attractions) < routeDays {
		routeDays = len(city.Attractions)
	}

	plan := make([]any, 0, routeDays)
	tickets := 0
	for i := 0; i < routeDays; i++ {
		attr := city.Attractions[i]
		tickets += attr.Ticket
		plan = append(plan, map[string]any{
			"day":         i + 1,
			"attractions": []any{attr.Name},
			"schedule":    "游览" + attr.Name,
		})
	}

	return map[string]any{
		"success":    true,
		"city":       cityName,
		"route_plan": plan,
		"total_cost_estimate": map[string]any{
			"tickets": tickets,
			"total":   tickets + city.AvgBudgetPerDay*days,
		},
	}
}

// CalculateBudget itemizes a trip budget from the city's daily average:
// meals 40%, local transport 20%, accommodation 30%, plus tickets and a
// flat intercity estimate.
func (td *TravelData) CalculateBudget(cityName string, days int, includeAccommodation, includeTransportation bool) map[string]any {
	city, ok := td.cities[cityName]
	if !ok {
		return map[string]any{"success": false, "error": "未找到城市: " + cityName}
	}

	avgDaily := city.AvgBudgetPerDay
	if avgDaily == 0 {
		avgDaily = 400
	}

	tickets := 0
	for _, a := range city.Attractions {
		tickets += a.Ticket
	}

	budget := map[string]any{
		"tickets":              tickets,
		"meals":                int(float64(avgDaily) * 0.4 * float64(days)),
		"local_transportation": int(float64(avgDaily) * 0.2 * float64(days)),
	}
	if includeAccommodation {
		budget["accommodation"] = int(float64(avgDaily) * 0.3 * float64(days))
	}
	if includeTransportation {
		budget["inter_city_transportation"] = 1000
	}

	total := 0
	for _, v := range budget {
		total += v.(int)
	}
	budget["total"] = total
	budget["days"] = days
	if days > 0 {
		budget["avg_per_day"] = total / days
	}

	return map[string]any{
		"success": true,
		"city":    cityName,
		"budget":  budget,
	}
}

// GetCityInfo returns the full catalog record for one city.
func (td *TravelData) GetCityInfo(cityName string) map[string]any {
	city, ok := td.cities[cityName]
	if !ok {
		return map[string]any{"success": false, "error": "未找到城市: " + cityName}
	}
	return map[string]any{
		"success": true,
		"city":    cityName,
		"info":    city.infoMap(),
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
