package llm

import "github.com/google/generative-ai-go/genai"

func str() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

func strList() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: str()}
}

func object(props map[string]*genai.Schema) *genai.Schema {
	required := make([]string, 0, len(props))
	for name := range props {
		required = append(required, name)
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

// mealPlanSchema mirrors recommendation.MealPlan.
var mealPlanSchema = object(map[string]*genai.Schema{
	"der_kcal": {Type: genai.TypeInteger, Description: "daily energy requirement in kcal"},
	"nutrient_targets": object(map[string]*genai.Schema{
		"protein_percent": str(),
		"fat_percent":     str(),
		"carbs_percent":   str(),
	}),
	"options": {Type: genai.TypeArray, Items: object(map[string]*genai.Schema{
		"name":     str(),
		"overview": str(),
		"sections": {Type: genai.TypeArray, Items: object(map[string]*genai.Schema{
			"title": str(),
			"items": strList(),
		})},
	})},
	"feeding_schedule": {Type: genai.TypeArray, Items: object(map[string]*genai.Schema{
		"time": str(),
		"note": str(),
	})},
	"safety_notes": strList(),
})

// healthReportSchema mirrors recommendation.HealthReport.
var healthReportSchema = object(map[string]*genai.Schema{
	"health_summary":  str(),
	"breed_risks":     strList(),
	"weight_and_diet": str(),
	"feeding_tips":    strList(),
	"activity":        str(),
	"alerts":          strList(),
})
