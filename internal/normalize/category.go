package normalize

import "strings"

const DefaultCategory = "General"

type categoryBucket struct {
	label    string
	keywords []string
}

// evaluated top to bottom, the first bucket with a matching keyword wins
var categoryBuckets = []categoryBucket{
	{
		label: "Gaming",
		keywords: []string{
			"playstation", "ps4", "ps5", "xbox", "nintendo", "switch", "gameboy",
			"game boy", "wii", "controller", "video game", "console", "sega", "atari",
		},
	},
	{
		label: "Electronics",
		keywords: []string{
			"iphone", "ipad", "macbook", "laptop", "phone", "tablet", "camera",
			"headphone", "earbuds", "airpods", "speaker", "monitor", "tv", "television",
			"charger", "kindle", "smartwatch", "watch", "computer", "keyboard", "mouse",
		},
	},
	{
		label: "Books & Media",
		keywords: []string{
			"book", "novel", "dvd", "blu-ray", "bluray", "vinyl", "record", "cd",
			"magazine", "comic", "cassette",
		},
	},
	{
		label: "Clothing",
		keywords: []string{
			"shirt", "jacket", "coat", "jeans", "pants", "dress", "shoes", "sneakers",
			"boots", "hoodie", "sweater", "hat", "nike", "adidas", "shorts", "skirt",
		},
	},
	{
		label: "Home & Garden",
		keywords: []string{
			"lamp", "chair", "table", "sofa", "couch", "rug", "vase", "kitchen",
			"blender", "mixer", "pan", "pot", "garden", "planter", "mower", "drill",
			"tool", "decor", "mirror",
		},
	},
	{
		label: "Toys",
		keywords: []string{
			"lego", "toy", "doll", "barbie", "puzzle", "action figure", "hot wheels",
			"plush", "board game", "funko",
		},
	},
	{
		label: "Sports",
		keywords: []string{
			"bike", "bicycle", "golf", "tennis", "ball", "racket", "skateboard",
			"helmet", "weights", "dumbbell", "yoga", "fishing", "ski", "snowboard",
		},
	},
	{
		label: "Automotive",
		keywords: []string{
			"car", "tire", "wheel", "motor", "engine", "auto", "truck", "headlight",
			"brake",
		},
	},
	{
		label: "Testing",
		keywords: []string{
			"test item", "testitem", "test",
		},
	},
}

// GuessCategory labels an item from its name alone. It is only used when the
// per-item detail page is not fetched.
func GuessCategory(itemName string) string {
	name := strings.ToLower(CleanText(itemName))
	if name == "" {
		return DefaultCategory
	}
	for _, bucket := range categoryBuckets {
		for _, keyword := range bucket.keywords {
			if strings.Contains(name, keyword) {
				return bucket.label
			}
		}
	}
	return DefaultCategory
}
