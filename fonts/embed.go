package fonts

import (
	"codeberg.org/go-fonts/liberation/liberationmonobold"
	"codeberg.org/go-fonts/liberation/liberationmonoregular"
	"codeberg.org/go-fonts/liberation/liberationsansbold"
	"codeberg.org/go-fonts/liberation/liberationsansbolditalic"
	"codeberg.org/go-fonts/liberation/liberationsansitalic"
	"codeberg.org/go-fonts/liberation/liberationsansregular"
	"codeberg.org/go-fonts/liberation/liberationserifbold"
	"codeberg.org/go-fonts/liberation/liberationserifbolditalic"
	"codeberg.org/go-fonts/liberation/liberationserifitalic"
	"codeberg.org/go-fonts/liberation/liberationserifregular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体族名称
const (
	FamilyGo              = "Go"
	FamilyGoMono          = "Go Mono"
	FamilyLiberationSans  = "Liberation Sans"
	FamilyLiberationSerif = "Liberation Serif"
	FamilyLiberationMono  = "Liberation Mono"
	FamilyLatinModern     = "Latin Modern Roman"
)

// DefaultFamily 是无法解析任何字体名时使用的回退字体族。
const DefaultFamily = FamilyLiberationSans

type embedded struct {
	family string
	style  Style
	data   []byte
}

var embeddedFaces = []embedded{
	{FamilyGo, Regular, goregular.TTF},
	{FamilyGo, Bold, gobold.TTF},
	{FamilyGo, Italic, goitalic.TTF},
	{FamilyGo, Bold | Italic, gobolditalic.TTF},
	{FamilyGoMono, Regular, gomono.TTF},
	{FamilyGoMono, Bold, gomonobold.TTF},

	{FamilyLiberationSans, Regular, liberationsansregular.TTF},
	{FamilyLiberationSans, Bold, liberationsansbold.TTF},
	{FamilyLiberationSans, Italic, liberationsansitalic.TTF},
	{FamilyLiberationSans, Bold | Italic, liberationsansbolditalic.TTF},
	{FamilyLiberationSerif, Regular, liberationserifregular.TTF},
	{FamilyLiberationSerif, Bold, liberationserifbold.TTF},
	{FamilyLiberationSerif, Italic, liberationserifitalic.TTF},
	{FamilyLiberationSerif, Bold | Italic, liberationserifbolditalic.TTF},
	{FamilyLiberationMono, Regular, liberationmonoregular.TTF},
	{FamilyLiberationMono, Bold, liberationmonobold.TTF},

	{FamilyLatinModern, Regular, lmroman10regular.TTF},
	{FamilyLatinModern, Bold, lmroman10bold.TTF},
	{FamilyLatinModern, Italic, lmroman10italic.TTF},
	{FamilyLatinModern, Bold | Italic, lmroman10bolditalic.TTF},
}

// 常见 Web 字体名与 CSS 通用字体族到内置字体的映射。
var builtinAliases = map[string]string{
	"sans-serif":    FamilyLiberationSans,
	"serif":         FamilyLiberationSerif,
	"monospace":     FamilyLiberationMono,
	"system-ui":     FamilyGo,
	"ui-sans-serif": FamilyLiberationSans,
	"ui-serif":      FamilyLiberationSerif,
	"ui-monospace":  FamilyGoMono,
	"cursive":       FamilyGo,
	"fantasy":       FamilyGo,

	"arial":           FamilyLiberationSans,
	"helvetica":       FamilyLiberationSans,
	"helvetica neue":  FamilyLiberationSans,
	"verdana":         FamilyLiberationSans,
	"impact":          FamilyLiberationSans,
	"-apple-system":   FamilyLiberationSans,
	"times":           FamilyLiberationSerif,
	"times new roman": FamilyLiberationSerif,
	"georgia":         FamilyLiberationSerif,
	"courier":         FamilyLiberationMono,
	"courier new":     FamilyLiberationMono,
	"latin modern":    FamilyLatinModern,
	"lm roman 10":     FamilyLatinModern,
}

func registerEmbedded(r *Registry) {
	for _, e := range embeddedFaces {
		r.addLazy(e.family, e.style, e.data)
	}
	for alias, target := range builtinAliases {
		r.Alias(alias, target)
	}
	r.fallbacks = []string{DefaultFamily}
}
