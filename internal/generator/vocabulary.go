package generator

// Categories and Brands are the fixed vocabularies generated products draw from.
var (
	Categories = []string{"Electronics", "Clothing", "Books", "Sports", "Home", "Beauty", "Toys", "Automotive"}
	Brands     = []string{"TechCorp", "StyleWear", "BookWorld", "SportsPro", "HomePlus", "BeautyMax", "ToyLand", "AutoGear"}
)

type categoryVocabulary struct {
	prefixes [5]string
	nouns    [5]string
	traits   [4]string
}

var vocabularies = map[string]categoryVocabulary{
	"Electronics": {
		prefixes: [5]string{"Smart", "Pro", "Ultra", "Wireless", "Digital"},
		nouns:    [5]string{"Headphones", "Speaker", "Tablet", "Camera", "Charger"},
		traits:   [4]string{"long battery life", "fast charging", "crystal-clear sound", "seamless connectivity"},
	},
	"Clothing": {
		prefixes: [5]string{"Classic", "Urban", "Premium", "Casual", "Vintage"},
		nouns:    [5]string{"Jacket", "Shirt", "Jeans", "Hoodie", "Sweater"},
		traits:   [4]string{"breathable fabric", "a tailored fit", "durable stitching", "all-season comfort"},
	},
	"Books": {
		prefixes: [5]string{"Complete", "Essential", "Illustrated", "Modern", "Practical"},
		nouns:    [5]string{"Guide", "Novel", "Handbook", "Cookbook", "Anthology"},
		traits:   [4]string{"engaging storytelling", "expert insights", "beautiful illustrations", "practical exercises"},
	},
	"Sports": {
		prefixes: [5]string{"Elite", "Performance", "Active", "Outdoor", "Champion"},
		nouns:    [5]string{"Yoga Mat", "Football", "Tennis Racket", "Water Bottle", "Dumbbell Set"},
		traits:   [4]string{"lightweight construction", "superior grip", "weather resistance", "ergonomic design"},
	},
	"Home": {
		prefixes: [5]string{"Cozy", "Modern", "Deluxe", "Compact", "Eco"},
		nouns:    [5]string{"Lamp", "Cookware Set", "Throw Blanket", "Storage Box", "Coffee Maker"},
		traits:   [4]string{"easy cleaning", "space-saving design", "energy efficiency", "elegant styling"},
	},
	"Beauty": {
		prefixes: [5]string{"Radiant", "Natural", "Luxe", "Pure", "Glow"},
		nouns:    [5]string{"Serum", "Moisturizer", "Lipstick", "Face Mask", "Perfume"},
		traits:   [4]string{"natural ingredients", "long-lasting wear", "a dermatologist-tested formula", "a gentle fragrance"},
	},
	"Toys": {
		prefixes: [5]string{"Fun", "Mini", "Creative", "Super", "Magic"},
		nouns:    [5]string{"Building Blocks", "Puzzle", "Robot", "Plush Bear", "Race Car"},
		traits:   [4]string{"safe materials", "hours of play", "educational value", "bright colors"},
	},
	"Automotive": {
		prefixes: [5]string{"Titan", "Premium", "Turbo", "Rugged", "Precision"},
		nouns:    [5]string{"Floor Mats", "Car Charger", "Dash Cam", "Tire Inflator", "Seat Covers"},
		traits:   [4]string{"easy installation", "a universal fit", "rugged durability", "reliable performance"},
	},
}
