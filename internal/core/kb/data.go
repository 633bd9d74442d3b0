package kb

// 靜態資料表，順序即查找順序

var recipeTable = []Recipe{
	{
		Name:         "Spaghetti Carbonara",
		Ingredients:  []string{"spaghetti", "eggs", "bacon", "parmesan cheese", "black pepper"},
		Instructions: "Cook pasta. Fry bacon. Mix eggs and cheese. Combine all ingredients.",
		PrepTime:     "20 minutes",
		Difficulty:   Easy,
		Dietary:      []string{"vegetarian"},
	},
	{
		Name:         "Chicken Stir Fry",
		Ingredients:  []string{"chicken breast", "mixed vegetables", "soy sauce", "garlic", "ginger"},
		Instructions: "Cut chicken into pieces. Stir-fry vegetables. Add chicken and sauce.",
		PrepTime:     "25 minutes",
		Difficulty:   Easy,
		Dietary:      []string{"gluten-free"},
	},
	{
		Name:         "Vegetable Curry",
		Ingredients:  []string{"mixed vegetables", "coconut milk", "curry powder", "onion", "garlic"},
		Instructions: "Sauté onions and garlic. Add vegetables and curry powder. Simmer with coconut milk.",
		PrepTime:     "30 minutes",
		Difficulty:   Medium,
		Dietary:      []string{"vegan", "gluten-free"},
	},
	{
		Name:         "Greek Salad",
		Ingredients:  []string{"tomatoes", "cucumber", "red onion", "feta cheese", "olives", "olive oil"},
		Instructions: "Chop all vegetables. Mix with olive oil and seasonings. Add feta and olives.",
		PrepTime:     "15 minutes",
		Difficulty:   Easy,
		Dietary:      []string{"vegetarian", "gluten-free"},
	},
	{
		Name:         "Beef Tacos",
		Ingredients:  []string{"ground beef", "taco shells", "lettuce", "tomatoes", "cheese", "sour cream"},
		Instructions: "Brown ground beef with spices. Warm taco shells. Fill with beef and toppings.",
		PrepTime:     "20 minutes",
		Difficulty:   Easy,
		Dietary:      []string{"keto"},
		Cuisine:      "mexican",
		Nutrition:    &Nutrition{Calories: 350, Protein: 25, Carbs: 15, Fat: 22},
	},
	{
		Name:         "Margherita Pizza",
		Ingredients:  []string{"pizza dough", "tomato sauce", "mozzarella", "fresh basil", "olive oil"},
		Instructions: "Roll out dough. Add sauce and cheese. Bake at 475°F for 12-15 minutes. Top with basil.",
		PrepTime:     "30 minutes",
		Difficulty:   Medium,
		Dietary:      []string{"vegetarian"},
		Cuisine:      "italian",
		Nutrition:    &Nutrition{Calories: 280, Protein: 12, Carbs: 35, Fat: 10},
	},
	{
		Name:         "Chicken Tikka Masala",
		Ingredients:  []string{"chicken breast", "yogurt", "tikka masala spice", "cream", "rice", "onion", "garlic"},
		Instructions: "Marinate chicken in yogurt and spices. Grill and add to creamy tomato sauce. Serve with rice.",
		PrepTime:     "45 minutes",
		Difficulty:   Medium,
		Dietary:      []string{"gluten-free"},
		Cuisine:      "indian",
		Nutrition:    &Nutrition{Calories: 420, Protein: 32, Carbs: 28, Fat: 18},
	},
	{
		Name:         "Thai Green Curry",
		Ingredients:  []string{"coconut milk", "green curry paste", "vegetables", "tofu", "basil", "jasmine rice"},
		Instructions: "Fry curry paste. Add coconut milk and vegetables. Simmer with tofu. Serve over rice.",
		PrepTime:     "35 minutes",
		Difficulty:   Medium,
		Dietary:      []string{"vegan", "gluten-free"},
		Cuisine:      "thai",
		Nutrition:    &Nutrition{Calories: 320, Protein: 15, Carbs: 38, Fat: 14},
	},
	{
		Name:         "Mediterranean Quinoa Bowl",
		Ingredients:  []string{"quinoa", "chickpeas", "cucumber", "tomatoes", "feta", "olives", "lemon", "tahini"},
		Instructions: "Cook quinoa. Roast chickpeas. Chop vegetables. Assemble bowl with tahini dressing.",
		PrepTime:     "25 minutes",
		Difficulty:   Easy,
		Dietary:      []string{"vegetarian", "gluten-free"},
		Cuisine:      "mediterranean",
		Nutrition:    &Nutrition{Calories: 380, Protein: 18, Carbs: 45, Fat: 16},
	},
}

var substitutionTable = []Substitution{
	{"eggs", []string{"flax eggs (1 tbsp ground flax + 3 tbsp water)", "applesauce (1/4 cup per egg)", "banana (1/2 mashed banana per egg)"}},
	{"butter", []string{"coconut oil", "olive oil", "applesauce (for baking)", "ghee"}},
	{"milk", []string{"almond milk", "soy milk", "coconut milk", "oat milk", "water (in some recipes)"}},
	{"flour", []string{"almond flour", "coconut flour", "oat flour", "gluten-free flour blend"}},
	{"sugar", []string{"honey", "maple syrup", "stevia", "coconut sugar", "dates"}},
	{"cheese", []string{"nutritional yeast", "cashew cheese", "dairy-free cheese alternatives"}},
	{"sour cream", []string{"coconut cream", "cashew cream", "Greek yogurt", "dairy-free sour cream"}},
	{"mayonnaise", []string{"Greek yogurt", "avocado", "hummus", "vegan mayonnaise"}},
}

var tipTable = []TipCategory{
	{"general", []string{
		"Always read the entire recipe before starting to cook.",
		"Prep all ingredients before you start cooking (mise en place).",
		"Taste your food as you cook and adjust seasonings.",
		"Let meat rest after cooking to retain juices.",
		"Use a sharp knife - it's safer and more efficient.",
	}},
	{"baking", []string{
		"Measure ingredients precisely - baking is chemistry.",
		"Room temperature ingredients mix better.",
		"Don't overmix batter - it can make baked goods tough.",
		"Preheat your oven for consistent results.",
		"Use an oven thermometer for accuracy.",
	}},
	{"knife_skills", []string{
		"Keep fingers curled under when chopping.",
		"Use the claw grip for safety.",
		"Sharpen knives regularly for better control.",
		"Cut on a stable surface.",
		"Clean knives immediately after use.",
	}},
	{"food_storage", []string{
		"Store herbs like flowers in water.",
		"Keep tomatoes at room temperature for best flavor.",
		"Store mushrooms in paper bags.",
		"Freeze ginger for easy grating.",
		"Revive limp lettuce in ice water.",
	}},
}

var nutritionTable = []NutritionFact{
	{"eggs", "2 large eggs", Nutrition{155, 13, 1, 11}},
	{"chicken breast", "100g", Nutrition{165, 31, 0, 3.6}},
	{"rice", "100g cooked", Nutrition{130, 2.7, 28, 0.3}},
	{"pasta", "100g", Nutrition{131, 5, 25, 1.1}},
	{"tomatoes", "100g", Nutrition{18, 0.9, 3.9, 0.2}},
	{"onions", "100g", Nutrition{40, 1.1, 9.3, 0.1}},
	{"garlic", "100g", Nutrition{149, 6.4, 33, 0.5}},
	{"olive oil", "100ml", Nutrition{884, 0, 0, 100}},
	{"cheese", "100g", Nutrition{402, 25, 1.3, 33}},
	{"vegetables", "100g mixed", Nutrition{35, 2, 7, 0.2}},
}

var costTable = []IngredientCost{
	{"eggs", 0.25},
	{"chicken breast", 3.99},
	{"rice", 2.99},
	{"pasta", 1.99},
	{"tomatoes", 2.49},
	{"onions", 1.99},
	{"garlic", 0.50},
	{"olive oil", 8.99},
	{"cheese", 5.99},
	{"vegetables", 3.49},
	{"bacon", 6.99},
	{"parmesan cheese", 8.99},
	{"coconut milk", 2.49},
	{"curry powder", 3.99},
	{"soy sauce", 2.99},
	{"ginger", 2.99},
	{"feta cheese", 6.99},
	{"olives", 4.99},
	{"ground beef", 4.99},
	{"taco shells", 2.99},
	{"lettuce", 2.49},
	{"sour cream", 3.99},
	{"taco seasoning", 1.99},
	{"salsa", 3.49},
}

var seasonalTable = map[Season][]string{
	Spring: {"asparagus", "artichokes", "peas", "rhubarb", "strawberries", "spinach", "leeks"},
	Summer: {"tomatoes", "zucchini", "corn", "berries", "peppers", "eggplant", "watermelon"},
	Fall:   {"pumpkin", "squash", "apples", "pears", "brussels sprouts", "sweet potatoes", "cranberries"},
	Winter: {"citrus", "kale", "cabbage", "carrots", "potatoes", "onions", "winter squash"},
}

var dietaryOptions = []string{"vegetarian", "vegan", "gluten-free", "dairy-free", "keto", "paleo"}

var cuisineTypes = []string{"italian", "mexican", "asian", "indian", "mediterranean", "american", "french", "thai"}
