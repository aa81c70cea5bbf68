// Package textextract pulls structured data out of the semi-structured text
// blobs the fund endpoints return: JSONP callback bodies, HTML NAV tables,
// and loosely-quoted JS object literals. All extractors are pure and
// best-effort — they return nil or empty results on malformed input and
// never panic.
package textextract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// jsonpPrefix matches an identifier-like callback name followed by an
// opening parenthesis, e.g. `jsonpgz(`.
var jsonpPrefix = regexp.MustCompile(`^\s*[\w.$]+\s*\(`)

// ExtractJSONPPayload recovers the JSON argument from a JSONP body of the
// shape `callbackName({...})`. The capture runs to the last closing
// parenthesis of the statement, not the first, so string values containing
// literal ')' characters still parse. Returns nil when no callback shape is
// found or the captured substring is not valid JSON.
func ExtractJSONPPayload(text string) map[string]any {
	loc := jsonpPrefix.FindStringIndex(text)
	if loc == nil {
		return nil
	}

	rest := text[loc[1]:]
	end := strings.LastIndex(rest, ")")
	if end < 0 {
		return nil
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(rest[:end]), &payload); err != nil {
		return nil
	}
	return payload
}

// contentLiteral matches a `content:"..."` JS string literal with escaped
// quotes inside, as returned by the history endpoint's apidata wrapper.
var contentLiteral = regexp.MustCompile(`content\s*:\s*"((?:\\.|[^"\\])*)"`)

// ExtractHTMLTableRows extracts the cell texts of the first <tbody> in an
// HTML document or fragment. When the HTML is itself embedded as a JS string
// literal (`content:"<table>..."`), one level of embedding is unwrapped
// first. Each row is the trimmed text of its <td> cells with tags stripped.
// Returns an empty slice when no table body is present; rows with too few
// cells are the caller's concern.
func ExtractHTMLTableRows(html string) [][]string {
	if m := contentLiteral.FindStringSubmatch(html); m != nil {
		unescaped := strings.NewReplacer(`\"`, `"`, `\/`, `/`, `\\`, `\`).Replace(m[1])
		html = unescaped
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return [][]string{}
	}

	tbody := doc.Find("tbody").First()
	if tbody.Length() == 0 {
		return [][]string{}
	}

	rows := [][]string{}
	tbody.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	return rows
}

// looseKey rewrites unquoted object keys (`{fund:` or `,SHORTNAME :`) to
// double-quoted JSON keys.
var looseKey = regexp.MustCompile(`([{,\[]\s*)([A-Za-z_$][\w$]*)\s*:`)

// ExtractLooseJSObject locates a `var <name> = {...}` or `var <name> = [...]`
// assignment in JS source, rewrites the loose literal (unquoted keys,
// single-quoted strings) into strict JSON, and returns the raw JSON bytes.
// Returns nil on any failure.
//
// The rewrite is not a JS parser: values containing literal quote characters
// can defeat it, in which case the strict parse fails and nil is returned.
// Callers are expected to hold a regex fallback for the fields they need.
func ExtractLooseJSObject(jsText, variableName string) json.RawMessage {
	assign := regexp.MustCompile(`var\s+` + regexp.QuoteMeta(variableName) + `\s*=\s*`)
	loc := assign.FindStringIndex(jsText)
	if loc == nil {
		return nil
	}

	literal := balancedLiteral(jsText[loc[1]:])
	if literal == "" {
		return nil
	}

	rewritten := looseKey.ReplaceAllString(literal, `$1"$2":`)
	rewritten = strings.ReplaceAll(rewritten, "'", `"`)

	if !json.Valid([]byte(rewritten)) {
		return nil
	}
	return json.RawMessage(rewritten)
}

// balancedLiteral returns the balanced {...} or [...] literal at the start
// of s, tracking nesting and quoted spans. Empty string when s does not
// start with a bracket or the literal never closes.
func balancedLiteral(s string) string {
	if s == "" {
		return ""
	}

	open := s[0]
	var close byte
	switch open {
	case '{':
		close = '}'
	case '[':
		close = ']'
	default:
		return ""
	}

	depth := 0
	var quote byte // 0 when outside a string
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
