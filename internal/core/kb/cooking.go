package kb

import "strings"

// StepType 烹飪步驟類型
type StepType string

const (
	StepPreparation StepType = "preparation"
	StepCooking     StepType = "cooking"
	StepSeasoning   StepType = "seasoning"
	StepPlating     StepType = "plating"
)

// CookingStep 導引烹飪的單一步驟；Temperature 為華氏溫度，不需加熱時為 nil
type CookingStep struct {
	ID                 string   `json:"id"`
	Number             int      `json:"step_number"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Type               StepType `json:"step_type"`
	DurationMinutes    int      `json:"duration_minutes"`
	Temperature        *float64 `json:"temperature"`
	Equipment          []string `json:"equipment_needed"`
	Ingredients        []string `json:"ingredients_needed"`
	Tips               []string `json:"tips"`
	Warnings           []string `json:"warnings"`
	CompletionCriteria []string `json:"completion_criteria"`
}

// SkillLevel 使用者的烹飪程度
type SkillLevel string

const (
	Beginner     SkillLevel = "beginner"
	Intermediate SkillLevel = "intermediate"
	Advanced     SkillLevel = "advanced"
	Expert       SkillLevel = "expert"
)

// Valid 檢查程度是否為已知值
func (l SkillLevel) Valid() bool {
	switch l {
	case Beginner, Intermediate, Advanced, Expert:
		return true
	}
	return false
}

// SkillAdjustments 依程度調整的時間倍率與額外提醒
type SkillAdjustments struct {
	TimeMultiplier  float64  `json:"time_multiplier"`
	AdditionalTips  []string `json:"additional_tips"`
	SimplifiedSteps bool     `json:"simplified_steps"`
	ExtraWarnings   []string `json:"extra_warnings"`
}

// Adjustments 回傳該程度的調整
func (l SkillLevel) Adjustments() SkillAdjustments {
	adj := SkillAdjustments{TimeMultiplier: 1.0, AdditionalTips: []string{}, ExtraWarnings: []string{}}
	switch l {
	case Beginner:
		adj.TimeMultiplier = 1.5
		adj.AdditionalTips = []string{
			"Take your time with each step",
			"Don't worry about perfection - practice makes perfect",
			"Read each step completely before starting",
		}
		adj.ExtraWarnings = []string{
			"Be careful with hot surfaces",
			"Ask for help if unsure about any step",
		}
	case Intermediate:
		adj.TimeMultiplier = 1.2
		adj.AdditionalTips = []string{
			"Focus on technique and timing",
			"Trust your instincts on seasoning",
		}
	case Advanced:
		adj.AdditionalTips = []string{
			"Experiment with flavors and techniques",
			"Consider presentation and garnishes",
		}
	case Expert:
		adj.TimeMultiplier = 0.8
		adj.AdditionalTips = []string{
			"Focus on precision and refinement",
			"Consider creative variations",
		}
	}
	return adj
}

// SkillGuidance 依程度給的步驟重點
type SkillGuidance struct {
	BeginnerFocus      []string `json:"beginner_focus"`
	IntermediateTips   []string `json:"intermediate_tips"`
	AdvancedTechniques []string `json:"advanced_techniques"`
}

// Guidance 回傳該程度的步驟重點
func (l SkillLevel) Guidance() SkillGuidance {
	g := SkillGuidance{BeginnerFocus: []string{}, IntermediateTips: []string{}, AdvancedTechniques: []string{}}
	switch l {
	case Beginner:
		g.BeginnerFocus = []string{
			"Focus on safety and basic techniques",
			"Don't rush through steps",
			"Ask questions if anything is unclear",
		}
	case Intermediate:
		g.IntermediateTips = []string{
			"Work on timing and multitasking",
			"Practice knife skills",
			"Learn to adjust seasoning by taste",
		}
	case Advanced, Expert:
		g.AdvancedTechniques = []string{
			"Focus on precision and consistency",
			"Experiment with flavor combinations",
			"Consider presentation and plating",
		}
	}
	return g
}

// TechniqueGuide 烹飪技法說明
type TechniqueGuide struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	KeyPoints      []string `json:"key_points"`
	CommonMistakes []string `json:"common_mistakes"`
}

// Troubleshooting 常見失敗的症狀、原因與解法
type Troubleshooting struct {
	Problem   string   `json:"problem"`
	Symptoms  []string `json:"symptoms"`
	Causes    []string `json:"causes"`
	Solutions []string `json:"solutions"`
}

func temp(f float64) *float64 { return &f }

var cookingStepTable = map[string][]CookingStep{
	"spaghetti carbonara": {
		{
			ID: "step_1", Number: 1, Title: "Prepare Ingredients",
			Description:        "Gather and prepare all ingredients. Cut pancetta into small cubes, grate Parmesan cheese, and crack eggs into a bowl.",
			Type:               StepPreparation,
			DurationMinutes:    10,
			Equipment:          []string{"cutting board", "knife", "grater", "mixing bowl"},
			Ingredients:        []string{"spaghetti", "eggs", "pancetta", "parmesan", "black pepper"},
			Tips:               []string{"Use room temperature eggs for better mixing", "Grate cheese finely for smooth sauce"},
			Warnings:           []string{"Keep eggs separate until ready to use"},
			CompletionCriteria: []string{"All ingredients prepped and ready", "Water boiling for pasta"},
		},
		{
			ID: "step_2", Number: 2, Title: "Cook Pasta",
			Description:        "Add spaghetti to boiling salted water and cook according to package directions until al dente.",
			Type:               StepCooking,
			DurationMinutes:    8,
			Temperature:        temp(212),
			Equipment:          []string{"large pot", "colander"},
			Ingredients:        []string{"spaghetti", "salt"},
			Tips:               []string{"Save pasta water for sauce", "Stir occasionally to prevent sticking"},
			Warnings:           []string{"Water will be hot - handle carefully"},
			CompletionCriteria: []string{"Pasta is al dente", "Pasta water reserved"},
		},
		{
			ID: "step_3", Number: 3, Title: "Cook Pancetta",
			Description:        "Cook pancetta in a large skillet until crisp and golden brown.",
			Type:               StepCooking,
			DurationMinutes:    5,
			Temperature:        temp(350),
			Equipment:          []string{"large skillet", "spatula"},
			Ingredients:        []string{"pancetta"},
			Tips:               []string{"Don't overcrowd the pan", "Render fat slowly for best flavor"},
			Warnings:           []string{"Fat will be hot", "Don't burn the pancetta"},
			CompletionCriteria: []string{"Pancetta is crispy", "Fat is rendered"},
		},
		{
			ID: "step_4", Number: 4, Title: "Mix Sauce",
			Description:        "Beat eggs with grated Parmesan and black pepper. Add hot pasta and toss quickly.",
			Type:               StepSeasoning,
			DurationMinutes:    2,
			Equipment:          []string{"mixing bowl", "whisk", "tongs"},
			Ingredients:        []string{"eggs", "parmesan", "black pepper", "cooked pasta"},
			Tips:               []string{"Work quickly to avoid scrambling eggs", "Use pasta water to adjust consistency"},
			Warnings:           []string{"Eggs should not be fully cooked", "Remove from heat if needed"},
			CompletionCriteria: []string{"Sauce is creamy", "Pasta is well coated"},
		},
	},
	"chicken stir fry": {
		{
			ID: "step_1", Number: 1, Title: "Prepare Ingredients",
			Description:        "Cut chicken into bite-sized pieces and chop vegetables. Mix sauce ingredients.",
			Type:               StepPreparation,
			DurationMinutes:    15,
			Equipment:          []string{"cutting board", "knife", "mixing bowls"},
			Ingredients:        []string{"chicken", "vegetables", "soy sauce", "garlic", "ginger"},
			Tips:               []string{"Cut vegetables uniformly for even cooking", "Pat chicken dry for better browning"},
			Warnings:           []string{"Keep raw chicken separate from vegetables"},
			CompletionCriteria: []string{"All ingredients prepped", "Sauce mixed and ready"},
		},
		{
			ID: "step_2", Number: 2, Title: "Cook Chicken",
			Description:        "Heat oil in wok or large skillet and cook chicken until golden and cooked through.",
			Type:               StepCooking,
			DurationMinutes:    6,
			Temperature:        temp(375),
			Equipment:          []string{"wok or skillet", "spatula"},
			Ingredients:        []string{"chicken", "oil"},
			Tips:               []string{"Don't overcrowd the pan", "Cook in batches if needed"},
			Warnings:           []string{"Oil will be very hot", "Chicken must reach 165°F internal temperature"},
			CompletionCriteria: []string{"Chicken is golden brown", "Internal temperature is 165°F"},
		},
		{
			ID: "step_3", Number: 3, Title: "Stir Fry Vegetables",
			Description:        "Add vegetables to hot wok and stir-fry until crisp-tender.",
			Type:               StepCooking,
			DurationMinutes:    4,
			Temperature:        temp(400),
			Equipment:          []string{"wok", "spatula"},
			Ingredients:        []string{"vegetables", "garlic", "ginger"},
			Tips:               []string{"Keep vegetables moving", "Add harder vegetables first"},
			Warnings:           []string{"Vegetables cook quickly", "Don't overcook"},
			CompletionCriteria: []string{"Vegetables are crisp-tender", "Aromatics are fragrant"},
		},
		{
			ID: "step_4", Number: 4, Title: "Combine and Sauce",
			Description:        "Return chicken to wok, add sauce, and toss until everything is coated.",
			Type:               StepSeasoning,
			DurationMinutes:    2,
			Equipment:          []string{"wok", "spatula"},
			Ingredients:        []string{"cooked chicken", "cooked vegetables", "sauce"},
			Tips:               []string{"Toss quickly to combine", "Taste and adjust seasoning"},
			Warnings:           []string{"Sauce will thicken quickly", "Be careful of steam"},
			CompletionCriteria: []string{"Everything is well coated", "Sauce is thickened"},
		},
	},
}

var techniqueTable = []struct {
	keywords []string
	guide    TechniqueGuide
}{
	{
		keywords: []string{"sauté", "fry"},
		guide: TechniqueGuide{
			Name:        "sautéing",
			Description: "Cooking quickly in a small amount of fat over relatively high heat",
			KeyPoints: []string{
				"Use a wide, shallow pan for best results",
				"Don't overcrowd the pan - cook in batches if needed",
				"Keep the food moving to ensure even cooking",
				"Listen for the sizzle to know the pan is hot enough",
			},
			CommonMistakes: []string{
				"Pan not hot enough - food steams instead of browns",
				"Overcrowding the pan lowers the temperature",
				"Adding cold food to hot oil causes splattering",
			},
		},
	},
	{
		keywords: []string{"braise"},
		guide: TechniqueGuide{
			Name:        "braising",
			Description: "Cooking food slowly in liquid after browning",
			KeyPoints: []string{
				"Brown the meat first for better flavor",
				"Use enough liquid to come about halfway up the food",
				"Keep the liquid at a gentle simmer, not boiling",
				"Cover the pot to retain moisture",
			},
			CommonMistakes: []string{
				"Not browning the meat first",
				"Using too much liquid",
				"Cooking at too high temperature",
			},
		},
	},
	{
		keywords: []string{"roast", "oven"},
		guide: TechniqueGuide{
			Name:        "roasting",
			Description: "Cooking with dry heat in an oven",
			KeyPoints: []string{
				"Preheat the oven thoroughly",
				"Use a roasting rack for air circulation",
				"Rotate the pan halfway through cooking",
				"Let meat rest before carving",
			},
			CommonMistakes: []string{
				"Oven not fully preheated",
				"Overcrowding the pan",
				"Not using a meat thermometer",
			},
		},
	},
}

var troubleshootingTable = []struct {
	keywords []string
	entry    Troubleshooting
}{
	{
		keywords: []string{"meat", "chicken"},
		entry: Troubleshooting{
			Problem:  "meat_tough",
			Symptoms: []string{"Meat is hard to chew", "Dry texture", "Difficult to cut"},
			Causes:   []string{"Overcooked", "Wrong cut of meat", "Not enough fat", "Cooked at too high temperature"},
			Solutions: []string{
				"Use a meat thermometer to avoid overcooking",
				"Choose appropriate cuts for your cooking method",
				"Consider marinating tougher cuts",
				"Cook at lower temperatures for longer periods",
			},
		},
	},
	{
		keywords: []string{"sauce"},
		entry: Troubleshooting{
			Problem:  "sauce_broken",
			Symptoms: []string{"Oil separated", "Curdled appearance", "Grainy texture"},
			Causes:   []string{"Temperature too high", "Added ingredients too quickly", "Too much fat", "Not enough emulsifier"},
			Solutions: []string{
				"Remove from heat and whisk vigorously",
				"Add a small amount of mustard or egg yolk",
				"Gradually add liquid while whisking",
				"Keep sauce warm but not hot",
			},
		},
	},
	{
		keywords: []string{"vegetable"},
		entry: Troubleshooting{
			Problem:  "vegetables_mushy",
			Symptoms: []string{"Soft texture", "Loss of color", "Mushy consistency"},
			Causes:   []string{"Overcooked", "Cooked too long", "Too much water", "Cut too small"},
			Solutions: []string{
				"Cook vegetables briefly (blanch or steam)",
				"Use ice bath to stop cooking process",
				"Cut vegetables uniformly for even cooking",
				"Don't overcrowd the pan",
			},
		},
	},
}

// CookingSteps 回傳食譜的導引步驟（不分大小寫），沒有步驟資料時 ok 為 false
func (k *KnowledgeBase) CookingSteps(name string) ([]CookingStep, bool) {
	steps, ok := cookingStepTable[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	out := make([]CookingStep, len(steps))
	copy(out, steps)
	return out, true
}

// Technique 依步驟說明判斷技法，判斷不出時 ok 為 false
func (k *KnowledgeBase) Technique(step CookingStep) (TechniqueGuide, bool) {
	desc := strings.ToLower(step.Description)
	for _, t := range techniqueTable {
		for _, kw := range t.keywords {
			if strings.Contains(desc, kw) {
				return t.guide, true
			}
		}
	}
	return TechniqueGuide{}, false
}

// Troubleshoot 回傳步驟可能遇到的問題
func (k *KnowledgeBase) Troubleshoot(step CookingStep) []Troubleshooting {
	desc := strings.ToLower(step.Description)
	out := []Troubleshooting{}
	for _, t := range troubleshootingTable {
		for _, kw := range t.keywords {
			if strings.Contains(desc, kw) {
				out = append(out, t.entry)
				break
			}
		}
	}
	return out
}
