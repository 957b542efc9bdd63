package studio

import "matrix-portrait/internal/core"

var quotes = []string{
	"I know Kung Fu.",
	"Show me.",
	"Dodge this.",
	"There is no spoon.",
	"Everything that has a beginning has an end.",
	"Free your mind.",
}

func pickQuote(rng *core.RNG) string {
	return quotes[rng.IntN(len(quotes))]
}
