// Package lookup holds the read-only enumerations the configuration pipeline
// validates against: interface languages, timezones and shipping countries.
// Enumerations are plain values so callers and tests can inject their own.
package lookup

import (
	"bufio"
	"embed"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

//go:embed data/*.txt
var dataFS embed.FS

// Item is one enumeration entry.
type Item struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Enumeration is an ordered set of codes with display names.
type Enumeration struct {
	items []Item
	index map[string]int
}

// NewEnumeration builds an enumeration preserving the given order; duplicate codes keep the first entry.
func NewEnumeration(items ...Item) Enumeration {
	e := Enumeration{items: make([]Item, 0, len(items)), index: make(map[string]int, len(items))}
	for _, item := range items {
		if _, dup := e.index[item.Code]; dup {
			continue
		}
		e.index[item.Code] = len(e.items)
		e.items = append(e.items, item)
	}
	return e
}

// Codes builds an enumeration whose names equal the codes.
func Codes(codes ...string) Enumeration {
	items := make([]Item, len(codes))
	for i, code := range codes {
		items[i] = Item{Code: code, Name: code}
	}
	return NewEnumeration(items...)
}

// Contains reports whether code belongs to the enumeration.
func (e Enumeration) Contains(code string) bool {
	_, ok := e.index[code]
	return ok
}

// Name returns the display name of code, or "" when unknown.
func (e Enumeration) Name(code string) string {
	if i, ok := e.index[code]; ok {
		return e.items[i].Name
	}
	return ""
}

// Items returns a copy of the entries in enumeration order.
func (e Enumeration) Items() []Item {
	out := make([]Item, len(e.items))
	copy(out, e.items)
	return out
}

// Codes returns the codes in enumeration order.
func (e Enumeration) Codes() []string {
	out := make([]string, len(e.items))
	for i, item := range e.items {
		out[i] = item.Code
	}
	return out
}

// Len is the number of entries.
func (e Enumeration) Len() int { return len(e.items) }

// Catalog groups the enumerations used by the service.
type Catalog struct {
	Languages Enumeration
	Timezones Enumeration
	Countries Enumeration
}

// HotspotLanguages are the interface languages a hotspot can be built with.
var HotspotLanguages = []string{
	"am", "ar", "bm", "de", "en", "es", "fa", "fr", "hi", "it",
	"ku", "ln", "mg", "pt", "ru", "so", "sw", "wo", "zh",
}

// Default loads the bundled enumerations.
func Default() (*Catalog, error) {
	timezones, err := readLines("data/timezones.txt")
	if err != nil {
		return nil, err
	}
	countries, err := readLines("data/countries.txt")
	if err != nil {
		return nil, err
	}
	return &Catalog{
		Languages: Languages(HotspotLanguages...),
		Timezones: Codes(timezones...),
		Countries: Countries(countries...),
	}, nil
}

// Languages names each code in its own language, falling back to English then the code.
func Languages(codes ...string) Enumeration {
	items := make([]Item, 0, len(codes))
	for _, code := range codes {
		items = append(items, Item{Code: code, Name: languageName(code)})
	}
	return NewEnumeration(items...)
}

// Countries names ISO 3166 alpha-2 codes in English, sorted by name.
func Countries(codes ...string) Enumeration {
	items := make([]Item, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(code)
		name := code
		if region, err := language.ParseRegion(code); err == nil {
			if n := display.English.Regions().Name(region); n != "" {
				name = n
			}
		}
		items = append(items, Item{Code: code, Name: name})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return NewEnumeration(items...)
}

func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

func readLines(name string) ([]string, error) {
	f, err := dataFS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close() //nolint:errcheck

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return lines, nil
}
