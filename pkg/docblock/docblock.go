// Package docblock parses structured documentation comments.
//
// A comment consists of a title (the first sentence), a longer description
// and a list of tags introduced with '@':
//
//	/**
//	 * Adds two numbers.
//	 *
//	 * @param int $a First
//	 * @param int $b Second
//	 * @return int Sum
//	 */
//
// Go line comments ('//') are accepted as well, so the same syntax can be
// used on Go declarations. Parsing never fails; unrecognized tag bodies are
// kept as plain text.
package docblock

import (
	"regexp"
	"strings"
)

// Tag names with a dedicated body layout.
const (
	TagParam      = "param"
	TagReturn     = "return"
	TagVar        = "var"
	TagThrows     = "throws"
	TagDeprecated = "deprecated"
)

// Comment is a parsed documentation comment.
type Comment struct {
	Title       string
	Description string
	// Tags maps tag name to its entries in source order.
	Tags map[string][]Tag
	// Order lists tag names in order of their first occurrence.
	Order []string
	// DeprecatedNote holds the contents of a Go style "Deprecated:" paragraph.
	DeprecatedNote string
}

// Tag is a single '@' annotation.
// Only the fields relevant to the tag's layout are set:
//   - param: Hints, ParamName, Description
//   - return, var: Hints, Description
//   - throws: Type, Description
//   - anything else: Description
type Tag struct {
	Name        string
	Hints       []TypeHint
	ParamName   string
	Type        string
	Description string
}

// TypeHint is one alternative of a pipe separated type expression.
type TypeHint struct {
	Name      string
	IsArrayOf bool
}

// IsEmpty reports whether the comment carries no information at all.
func (c Comment) IsEmpty() bool {
	return c.Title == "" && c.Description == "" && len(c.Tags) == 0 && c.DeprecatedNote == ""
}

// Param returns the first param tag documenting the named parameter.
func (c Comment) Param(name string) (Tag, bool) {
	for _, tag := range c.Tags[TagParam] {
		if tag.ParamName == name {
			return tag, true
		}
	}
	return Tag{}, false
}

// Return returns the first return tag.
func (c Comment) Return() (Tag, bool) {
	tags := c.Tags[TagReturn]
	if len(tags) == 0 {
		return Tag{}, false
	}
	return tags[0], true
}

// Summary joins the title and the description with a blank line.
func (c Comment) Summary() string {
	switch {
	case c.Title == "":
		return c.Description
	case c.Description == "":
		return c.Title
	default:
		return c.Title + "\n\n" + c.Description
	}
}

// Deprecated reports whether the comment marks the declaration as deprecated,
// either with a @deprecated tag or a "Deprecated:" paragraph.
func (c Comment) Deprecated() (string, bool) {
	if c.DeprecatedNote != "" {
		return c.DeprecatedNote, true
	}
	if tags, ok := c.Tags[TagDeprecated]; ok {
		return tags[0].Description, true
	}
	return "", false
}

func (c *Comment) add(tag Tag) {
	if c.Tags == nil {
		c.Tags = make(map[string][]Tag)
	}
	if _, seen := c.Tags[tag.Name]; !seen {
		c.Order = append(c.Order, tag.Name)
	}
	c.Tags[tag.Name] = append(c.Tags[tag.Name], tag)
}

var (
	openingDelimiterRegex = regexp.MustCompile(`^/\*\*?\s*`)
	closingDelimiterRegex = regexp.MustCompile(`\s*\*/$`)
	lineMarkerRegex       = regexp.MustCompile(`(?m)^[ \t]*(?://|\*)`)
	newlineRunRegex       = regexp.MustCompile(`\s*\n\s*`)
	titleEndRegex         = regexp.MustCompile(`\.\s|\n\n`)
	deprecatedRegex       = regexp.MustCompile(`(?m)^Deprecated:[ \t]*(.*)$`)
)

// Parse parses a raw documentation comment, delimiters included.
// An empty or blank comment yields an empty [Comment].
func Parse(raw string) Comment {
	var c Comment
	text := strip(raw)
	if text == "" {
		return c
	}

	lines := strings.Split(text, "\n")
	firstTag := len(lines)
	for i, line := range lines {
		if isTagLine(line) {
			firstTag = i
			break
		}
	}

	description := strings.TrimSpace(strings.Join(lines[:firstTag], "\n"))
	description, c.DeprecatedNote = extractDeprecated(description)
	c.Title, c.Description = splitTitle(description)

	var block []string
	for _, line := range lines[firstTag:] {
		if isTagLine(line) && len(block) > 0 {
			c.add(parseTag(block))
			block = block[:0]
		}
		block = append(block, line)
	}
	if len(block) > 0 {
		c.add(parseTag(block))
	}
	return c
}

// strip removes comment delimiters and line markers and normalizes line endings.
func strip(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text)
	text = openingDelimiterRegex.ReplaceAllString(text, "")
	text = closingDelimiterRegex.ReplaceAllString(text, "")
	text = lineMarkerRegex.ReplaceAllString(text, "")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func isTagLine(line string) bool {
	line = strings.TrimLeft(line, " \t")
	return len(line) > 1 && line[0] == '@' && line[1] != ' ' && line[1] != '\t'
}

// splitTitle cuts the title at the first sentence terminator or blank line.
func splitTitle(description string) (title, long string) {
	if description == "" {
		return "", ""
	}
	loc := titleEndRegex.FindStringIndex(description)
	if loc == nil {
		return normalize(description), ""
	}
	return normalize(description[:loc[1]]), normalize(description[loc[1]:])
}

func extractDeprecated(description string) (rest, note string) {
	matches := deprecatedRegex.FindStringSubmatch(description)
	if matches == nil {
		return description, ""
	}
	note = strings.TrimSpace(matches[1])
	if note == "" {
		note = "Deprecated"
	}
	return strings.TrimSpace(deprecatedRegex.ReplaceAllString(description, "")), note
}

func parseTag(block []string) Tag {
	head := strings.TrimLeft(block[0], " \t")[1:]
	name, body, _ := strings.Cut(head, " ")
	if tab := strings.IndexByte(name, '\t'); tab >= 0 {
		name, body = name[:tab], name[tab+1:]+" "+body
	}
	if len(block) > 1 {
		body += "\n" + strings.Join(block[1:], "\n")
	}
	body = strings.TrimSpace(body)

	tag := Tag{Name: name}
	switch name {
	case TagParam:
		types, rest := nextWord(body)
		if strings.HasPrefix(types, "$") {
			// No type given, only the variable.
			types, rest = "", body
		}
		if strings.HasPrefix(rest, "$") {
			var variable string
			variable, rest = nextWord(rest)
			tag.ParamName = strings.TrimPrefix(variable, "$")
		}
		tag.Hints = parseHints(types)
		tag.Description = normalize(rest)
	case TagReturn, TagVar:
		types, rest := nextWord(body)
		if types == "" {
			tag.Description = normalize(body)
			break
		}
		tag.Hints = parseHints(types)
		tag.Description = normalize(rest)
	case TagThrows:
		typ, rest := nextWord(body)
		if typ == "" {
			tag.Description = normalize(body)
			break
		}
		tag.Type = typ
		tag.Description = normalize(rest)
	default:
		tag.Description = normalize(body)
	}
	return tag
}

// nextWord splits s into its first whitespace delimited word and the remainder.
func nextWord(s string) (word, rest string) {
	s = strings.TrimLeft(s, " \t\n")
	end := strings.IndexAny(s, " \t\n")
	if end < 0 {
		return s, ""
	}
	return s[:end], strings.TrimLeft(s[end:], " \t\n")
}

// parseHints splits a type expression like "int|string[]" into its alternatives.
func parseHints(expr string) []TypeHint {
	if expr == "" {
		return nil
	}
	alternatives := strings.Split(expr, "|")
	hints := make([]TypeHint, 0, len(alternatives))
	for _, alt := range alternatives {
		if alt == "" {
			continue
		}
		if base, ok := strings.CutSuffix(alt, "[]"); ok {
			hints = append(hints, TypeHint{Name: base, IsArrayOf: true})
			continue
		}
		hints = append(hints, TypeHint{Name: alt})
	}
	return hints
}

func normalize(s string) string {
	return newlineRunRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}
