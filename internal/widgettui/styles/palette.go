package styles

// DefaultTheme is the baseline dark palette.
var DefaultTheme = Theme{
	Name:        "default",
	BorderStyle: "rounded",
	Base: BaseColors{
		Background: "234",
		Foreground: "252",
		Muted:      "245",
		Accent:     "75",
		Border:     "240",
	},
	Bubble: BubbleColors{
		Client:    "81",
		Response:  "147",
		Link:      "111",
		Component: "214",
	},
	Chrome: ChromeColors{
		Header:   "24",
		Footer:   "236",
		Badge:    "203",
		Launcher: "31",
		Sentinel: "243",
	},
}

// HighContrastTheme favors legibility over subtlety.
var HighContrastTheme = Theme{
	Name:        "high-contrast",
	BorderStyle: "double",
	Base: BaseColors{
		Background: "16",
		Foreground: "231",
		Muted:      "250",
		Accent:     "226",
		Border:     "231",
	},
	Bubble: BubbleColors{
		Client:    "51",
		Response:  "231",
		Link:      "226",
		Component: "208",
	},
	Chrome: ChromeColors{
		Header:   "21",
		Footer:   "16",
		Badge:    "196",
		Launcher: "21",
		Sentinel: "250",
	},
}
