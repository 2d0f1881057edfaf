package service

import (
	"github.com/waterbuddy/internal/locale"
)

// RecommendationPriority 表示补水建议的紧迫程度。
type RecommendationPriority string

const (
	PriorityLow    RecommendationPriority = "low"
	PriorityNormal RecommendationPriority = "normal"
	PriorityHigh   RecommendationPriority = "high"
	PriorityUrgent RecommendationPriority = "urgent"
)

// HydrationRecommendation 是根据天气推导出的补水建议，不落盘。
type HydrationRecommendation struct {
	RecommendedIntake float64                `json:"recommended_intake"`
	Reason            string                 `json:"reason"`
	Multiplier        float64                `json:"multiplier"`
	Priority          RecommendationPriority `json:"priority"`
}

// 温度档位：区间互不重叠，自低向高求值，首个命中生效。
type temperatureTier struct {
	maxExclusive float64 // 上界（不含）；最后一档无上界
	multiplier   float64
	priority     RecommendationPriority
	messageKey   string
}

var temperatureTiers = []temperatureTier{
	{maxExclusive: 15, multiplier: 1.00, priority: PriorityLow, messageKey: "cool"},
	{maxExclusive: 20, multiplier: 1.05, priority: PriorityNormal, messageKey: "mild"},
	{maxExclusive: 25, multiplier: 1.10, priority: PriorityNormal, messageKey: "warm"},
	{maxExclusive: 30, multiplier: 1.20, priority: PriorityHigh, messageKey: "hot"},
	{maxExclusive: 35, multiplier: 1.35, priority: PriorityHigh, messageKey: "very_hot"},
	{multiplier: 1.50, priority: PriorityUrgent, messageKey: "extreme"},
}

const humidityRefinement = 0.05

var recommendationMessages = map[string]map[string]string{
	locale.LanguageEnglish: {
		"cool":     "Cool weather, your normal intake is fine.",
		"mild":     "Mild weather, drink a little extra.",
		"warm":     "Warm weather, increase your water intake.",
		"hot":      "Hot weather! Increase water intake by 20%.",
		"very_hot": "Very hot weather! Increase water intake by 35%.",
		"extreme":  "Extreme heat! Critical to stay hydrated.",
		"dry":      "Dry air increases dehydration.",
		"humid":    "High humidity requires extra hydration.",
	},
	locale.LanguageChinese: {
		"cool":     "天气凉爽，按日常饮水量即可。",
		"mild":     "天气温和，建议略微多喝水。",
		"warm":     "天气偏暖，请增加饮水量。",
		"hot":      "天气炎热！建议饮水量增加 20%。",
		"very_hot": "天气酷热！建议饮水量增加 35%。",
		"extreme":  "极端高温！务必保持水分补给。",
		"dry":      "空气干燥会加速脱水。",
		"humid":    "高湿度环境需要额外补水。",
	},
	locale.LanguageSpanish: {
		"cool":     "Clima fresco, tu ingesta habitual es suficiente.",
		"mild":     "Clima templado, bebe un poco más.",
		"warm":     "Clima cálido, aumenta tu ingesta de agua.",
		"hot":      "¡Hace calor! Aumenta la ingesta de agua un 20%.",
		"very_hot": "¡Hace mucho calor! Aumenta la ingesta un 35%.",
		"extreme":  "¡Calor extremo! Es crítico mantenerse hidratado.",
		"dry":      "El aire seco acelera la deshidratación.",
		"humid":    "La humedad alta exige hidratación extra.",
	},
}

// Recommend 纯函数：温度、湿度与基础目标 → 补水建议。
// 确定性、无副作用；language 不受支持时回退英语文案。
func Recommend(language string, temperatureC, humidityPercent, baseGoal float64) HydrationRecommendation {
	messages, ok := recommendationMessages[locale.NormalizeLanguage(language)]
	if !ok {
		messages = recommendationMessages[locale.LanguageEnglish]
	}

	tier := temperatureTiers[len(temperatureTiers)-1]
	for _, candidate := range temperatureTiers[:len(temperatureTiers)-1] {
		if temperatureC < candidate.maxExclusive {
			tier = candidate
			break
		}
	}

	multiplier := tier.multiplier
	reason := messages[tier.messageKey]

	// 湿度修正：两个区间互斥，最多命中一个
	switch {
	case humidityPercent < 30:
		multiplier += humidityRefinement
		reason += " " + messages["dry"]
	case humidityPercent > 80:
		multiplier += humidityRefinement
		reason += " " + messages["humid"]
	}

	return HydrationRecommendation{
		RecommendedIntake: baseGoal * multiplier,
		Reason:            reason,
		Multiplier:        multiplier,
		Priority:          tier.priority,
	}
}
