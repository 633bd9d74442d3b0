package kb

// Difficulty 食譜難度
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Valid 檢查難度是否為已知值
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// Nutrition 營養數值（每份或每單位）
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add 累加另一組營養數值
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fat:      n.Fat + o.Fat,
	}
}

// Recipe 知識庫中的食譜，建立後不再變動
type Recipe struct {
	Name         string     `json:"name"`
	Ingredients  []string   `json:"ingredients"`
	Instructions string     `json:"instructions"`
	PrepTime     string     `json:"prep_time"`
	Difficulty   Difficulty `json:"difficulty"`
	Dietary      []string   `json:"dietary"`
	Cuisine      string     `json:"cuisine,omitempty"`
	Category     string     `json:"category,omitempty"`
	Nutrition    *Nutrition `json:"nutrition,omitempty"`
}

// HasDiet 檢查食譜是否帶有指定飲食標籤（完全相等）
func (r Recipe) HasDiet(diet string) bool {
	for _, d := range r.Dietary {
		if d == diet {
			return true
		}
	}
	return false
}

// clone 回傳不共用切片的副本
func (r Recipe) clone() Recipe {
	c := r
	c.Ingredients = append([]string(nil), r.Ingredients...)
	c.Dietary = append([]string(nil), r.Dietary...)
	if r.Nutrition != nil {
		n := *r.Nutrition
		c.Nutrition = &n
	}
	return c
}

// NutritionFact 單一食材的營養資料
type NutritionFact struct {
	Key  string `json:"ingredient"`
	Unit string `json:"unit"`
	Nutrition
}

// IngredientCost 單一食材的估計價格（USD）
type IngredientCost struct {
	Key   string  `json:"ingredient"`
	Price float64 `json:"price"`
}

// Substitution 食材替代清單
type Substitution struct {
	Ingredient string
	Options    []string
}

// TipCategory 烹飪技巧分類
type TipCategory struct {
	Name string
	Tips []string
}

// Season 季節
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Fall   Season = "fall"
	Winter Season = "winter"
)
