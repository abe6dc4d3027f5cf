package catalog

var defaultPairs = []WordPair{
	{Civilian: "McDonald's", Undercover: "Burger King"},
	{Civilian: "WhatsApp", Undercover: "Telegram"},
	{Civilian: "Football", Undercover: "Futsal"},
	{Civilian: "Dog", Undercover: "Wolf"},
	{Civilian: "Vampire", Undercover: "Bat"},
	{Civilian: "Harry Potter", Undercover: "Lord of the Rings"},
	{Civilian: "Alligator", Undercover: "Crocodile"},
	{Civilian: "Butter", Undercover: "Margarine"},
	{Civilian: "Orange", Undercover: "Tangerine"},
	{Civilian: "Umbrella", Undercover: "Parasol"},
	{Civilian: "Cookie", Undercover: "Cracker"},
	{Civilian: "Bee", Undercover: "Wasp"},
	{Civilian: "Bakery", Undercover: "Patisserie"},
	{Civilian: "Hurricane", Undercover: "Tornado"},
	{Civilian: "Guitar", Undercover: "Ukulele"},
	{Civilian: "Coffee", Undercover: "Tea"},
	{Civilian: "Beach", Undercover: "Pool"},
	{Civilian: "Pizza", Undercover: "Lasagna"},
	{Civilian: "Netflix", Undercover: "YouTube"},
	{Civilian: "Doctor", Undercover: "Nurse"},
	{Civilian: "Train", Undercover: "Subway"},
	{Civilian: "Moon", Undercover: "Sun"},
	{Civilian: "Pen", Undercover: "Pencil"},
	{Civilian: "Shampoo", Undercover: "Conditioner"},
	{Civilian: "Cinema", Undercover: "Theater"},
	{Civilian: "Rabbit", Undercover: "Hamster"},
	{Civilian: "Ice cream", Undercover: "Frozen yogurt"},
	{Civilian: "Wedding", Undercover: "Engagement"},
	{Civilian: "Piano", Undercover: "Keyboard"},
	{Civilian: "Lion", Undercover: "Tiger"},
	{Civilian: "Snow", Undercover: "Hail"},
	{Civilian: "Library", Undercover: "Bookstore"},
	{Civilian: "Sofa", Undercover: "Armchair"},
	{Civilian: "Batman", Undercover: "Iron Man"},
	{Civilian: "Wine", Undercover: "Beer"},
	{Civilian: "Airplane", Undercover: "Helicopter"},
	{Civilian: "Castle", Undercover: "Palace"},
	{Civilian: "Lemon", Undercover: "Lime"},
	{Civilian: "Mountain", Undercover: "Volcano"},
	{Civilian: "Chess", Undercover: "Checkers"},
}

// Default 返回内置词库
func Default() *Catalog {
	c, err := New(defaultPairs)
	if err != nil {
		panic("内置词库无效: " + err.Error())
	}

	return c
}
