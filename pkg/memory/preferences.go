package memory

import (
	"regexp"
	"strconv"
	"strings"
)

// BudgetRange is a per-day budget window in yuan.
type BudgetRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Preferences holds travel preferences accumulated from user messages.
type Preferences struct {
	Budget     *BudgetRange `json:"budget_range,omitempty"`
	TravelDays int          `json:"travel_days,omitempty"`
	Interests  []string     `json:"interest_tags,omitempty"`
	Cities     []string     `json:"preferred_cities,omitempty"`
	Season     string       `json:"season_preference,omitempty"`
	Companions string       `json:"travel_companions,omitempty"`
}

var (
	numberPattern = regexp.MustCompile(`\d+`)
	daysPattern   = regexp.MustCompile(`(\d+)\s*天`)
)

// interestKeywords maps trigger words in user text to canonical interest
// tags. Ordered so repeated extraction is deterministic.
var interestKeywords = []struct {
	keyword string
	tag     string
}{
	{"历史", "历史文化"},
	{"文化", "历史文化"},
	{"自然", "自然风光"},
	{"风景", "自然风光"},
	{"美食", "美食"},
	{"海边", "海滨度假"},
	{"海滨", "海滨度假"},
	{"购物", "现代都市"},
	{"休闲", "休闲养生"},
}

// UpdateFromText scans a user message and folds any recognizable travel
// preferences into p. Budget is taken from numbers near 预算/元/块: two or
// more numbers give a min-max window, a single number gives an upper bound.
func (p *Preferences) UpdateFromText(text string) {
	if strings.Contains(text, "预算") || strings.Contains(text, "元") || strings.Contains(text, "块") {
		var nums []int
		for _, s := range numberPattern.FindAllString(text, -1) {
			if n, err := strconv.Atoi(s); err == nil {
				nums = append(nums, n)
			}
		}
		switch {
		case len(nums) >= 2:
			lo, hi := nums[0], nums[0]
			for _, n := range nums[1:] {
				lo = min(lo, n)
				hi = max(hi, n)
			}
			p.Budget = &BudgetRange{Min: lo, Max: hi}
		case len(nums) == 1:
			p.Budget = &BudgetRange{Min: 0, Max: nums[0]}
		}
	}

	if strings.Contains(text, "天") {
		if m := daysPattern.FindStringSubmatch(text); m != nil {
			if days, err := strconv.Atoi(m[1]); err == nil {
				p.TravelDays = days
			}
		}
	}

	for _, ik := range interestKeywords {
		if strings.Contains(text, ik.keyword) && !containsString(p.Interests, ik.tag) {
			p.Interests = append(p.Interests, ik.tag)
		}
	}
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (p Preferences) Clone() Preferences {
	out := p
	if p.Budget != nil {
		b := *p.Budget
		out.Budget = &b
	}
	out.Interests = append([]string(nil), p.Interests...)
	out.Cities = append([]string(nil), p.Cities...)
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
