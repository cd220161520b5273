package roast

import (
	"sync/atomic"

	"github.com/xiaot623/roastbattle/domain"
)

// styleInfo carries the prompt guidance for one roast style.
type styleInfo struct {
	description string
	tone        string
}

var styles = map[domain.Style]styleInfo{
	domain.StyleSavage: {
		description: "Brutal and merciless",
		tone:        "extremely harsh and cutting, pull no punches",
	},
	domain.StyleClever: {
		description: "Witty and intelligent",
		tone:        "smart and witty, using wordplay and clever observations",
	},
	domain.StylePlayful: {
		description: "Light-hearted teasing",
		tone:        "playful and teasing, funny without being too mean",
	},
	domain.StyleCreative: {
		description: "Unexpected and original",
		tone:        "creative and unexpected, using unique metaphors and comparisons",
	},
	domain.StyleCringe: {
		description: "So bad it hurts",
		tone:        "intentionally cringe-worthy and awkward, dad-joke level bad",
	},
}

// Styles returns the available styles with their descriptions.
func Styles() map[domain.Style]string {
	out := make(map[domain.Style]string, len(styles))
	for s, info := range styles {
		out[s] = info.description
	}
	return out
}

// Canned roasts shown when generation fails. The round still completes; the
// orchestrator flags it so the caller can indicate reduced confidence.
var fallbackRoasts = map[domain.Style][]string{
	domain.StyleSavage: {
		"You're like a participation trophy - nobody really wanted you, but here you are anyway.",
		"I'd explain how you lost this roast battle, but I don't have the crayons or the patience.",
	},
	domain.StyleClever: {
		"You bring everyone so much joy - when you leave the room.",
		"You're proof that evolution can go in reverse.",
	},
	domain.StylePlayful: {
		"You're like a software update - nobody asked for you, but you show up anyway!",
		"I'd call you average, but that would be an insult to average people.",
	},
	domain.StyleCreative: {
		"You're like a cloud - when you disappear, it's a beautiful day.",
		"You have the personality of a terms and conditions agreement that nobody reads.",
	},
	domain.StyleCringe: {
		"Are you a keyboard? Because you're just my type... of disappointment!",
		"If you were a vegetable, you'd be a cabbage - bland and nobody's favorite.",
	},
}

var fallbackCounter atomic.Uint64

// FallbackRoast returns a canned roast for the style, cycling through the
// available lines. Unknown styles use the clever set.
func FallbackRoast(style domain.Style) string {
	lines, ok := fallbackRoasts[style]
	if !ok {
		lines = fallbackRoasts[domain.StyleClever]
	}
	n := fallbackCounter.Add(1)
	return lines[int(n-1)%len(lines)]
}
