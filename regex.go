package mq

import (
	"fmt"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// regexLiteral validates the /pattern/flags shape. The pattern may span
// lines, and up to four flags are drawn from {i, m, s, x}.
var regexLiteral = regexp.MustCompile(`(?s)\A/(.+)/([imsx]{0,4})\z`)

const regexCacheSize = 256

// literalCompiler translates Mongo-style /pattern/flags literals into
// compiled patterns, keeping a bounded cache keyed by the full literal. The
// cache is internally synchronized, so a shared compiler is safe for
// concurrent Match calls.
type literalCompiler struct {
	cache *lru.Cache[string, *regexp.Regexp]
}

func newLiteralCompiler(size int) *literalCompiler {
	cache, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		panic(err)
	}
	return &literalCompiler{cache: cache}
}

// Compile parses and compiles a /pattern/flags literal.
//
// The i, m and s flags map onto the corresponding inline pattern flags. The
// x (free-spacing) flag is accepted by the shape check but has no RE2
// equivalent and is ignored.
func (c *literalCompiler) Compile(literal string) (*regexp.Regexp, error) {
	if compiled, ok := c.cache.Get(literal); ok {
		return compiled, nil
	}

	groups := regexLiteral.FindStringSubmatch(literal)
	if groups == nil {
		return nil, fmt.Errorf("%w: %q is not using a known regular expression syntax", ErrInvalidArgument, literal)
	}

	pattern := groups[1]
	if flags := strings.Map(dropFreeSpacingFlag, groups[2]); flags != "" {
		pattern = "(?" + flags + ")" + pattern
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q failed to compile: %v", ErrInvalidArgument, literal, err)
	}

	c.cache.Add(literal, compiled)
	return compiled, nil
}

func dropFreeSpacingFlag(flag rune) rune {
	if flag == 'x' {
		return -1
	}
	return flag
}

var sharedLiteralCompiler = newLiteralCompiler(regexCacheSize)

// opRegex checks a string entry against a /pattern/flags literal with an
// unanchored search. Non-string entries are a non-match before the literal
// is even validated; a malformed or uncompilable literal against a string
// entry is an error.
func opRegex(condition, entry any) (bool, error) {
	text, ok := entry.(string)
	if !ok {
		return false, nil
	}

	literal, ok := condition.(string)
	if !ok {
		return false, fmt.Errorf("%w: %v is not a regular expression and should be a string", ErrInvalidArgument, condition)
	}

	compiled, err := sharedLiteralCompiler.Compile(literal)
	if err != nil {
		return false, err
	}

	return compiled.MatchString(text), nil
}
