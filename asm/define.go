package asm

import (
	"regexp"
	"strings"
)

// DEFINE_LIMIT is the default number of substitution passes over a line.
const DEFINE_LIMIT = 32

// defineGrammar splits define parameters into key and replacement text.
var defineGrammar = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*([^;\r\n]*)`)

// Define is a textual substitution.
type Define struct {
	Key   string
	Value string
	Line  *Line // Defining line, nil for predefines.

	pattern *regexp.Regexp
}

// NewDefine creates a define of key to value.
func NewDefine(key string, value string) (def *Define, err error) {
	match := defineGrammar.FindStringSubmatch(key)
	if match == nil || match[1] != key {
		err = ErrDefineFormat(key)
		return
	}

	def = &Define{
		Key:     key,
		Value:   strings.TrimSpace(value),
		pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\b`),
	}
	return
}

// parseDefine parses define directive parameters. start and end locate the
// replacement text within params.
func parseDefine(params string) (key string, start int, end int, err error) {
	loc := defineGrammar.FindStringSubmatchIndex(params)
	if loc == nil {
		err = ErrDefineFormat(params)
		return
	}

	key = params[loc[2]:loc[3]]
	start, end = loc[4], loc[5]
	for end > start && (params[end-1] == ' ' || params[end-1] == '\t') {
		end--
	}
	return
}

// Replace substitutes the define into text at identifier boundaries.
func (def *Define) Replace(text string) string {
	return def.pattern.ReplaceAllLiteralString(text, def.Value)
}

// Defines is an ordered define table.
type Defines struct {
	Limit int // Substitution passes before giving up, DEFINE_LIMIT if zero.

	order []*Define
	keys  map[string]*Define
}

// Add registers a define. Keys may not be redefined.
func (defs *Defines) Add(def *Define) (err error) {
	if defs.keys == nil {
		defs.keys = make(map[string]*Define)
	}
	if _, ok := defs.keys[def.Key]; ok {
		err = ErrDefineDuplicate(def.Key)
		return
	}
	defs.keys[def.Key] = def
	defs.order = append(defs.order, def)
	return
}

// Lookup returns the define of key.
func (defs *Defines) Lookup(key string) (def *Define, ok bool) {
	def, ok = defs.keys[key]
	return
}

// All returns the defines in definition order.
func (defs *Defines) All() []*Define {
	return defs.order
}

// Expand applies every define to text until no key matches.
func (defs *Defines) Expand(text string) (expanded string, changed bool, err error) {
	limit := defs.Limit
	if limit <= 0 {
		limit = DEFINE_LIMIT
	}

	expanded = text
	for pass := 0; ; pass++ {
		next := expanded
		for _, def := range defs.order {
			next = def.Replace(next)
		}
		if next == expanded {
			return
		}
		if pass >= limit {
			err = ErrRecursiveDefinition(text)
			return
		}
		expanded = next
		changed = true
	}
}
