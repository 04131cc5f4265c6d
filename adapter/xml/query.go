package xml

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

var (
	errEmptyQuery      = errors.New("empty query")
	errUnbalancedQuery = errors.New("unbalanced brackets or quotes")
	errInvalidAttr     = errors.New("invalid attribute step")
)

const (
	anchorRoot     = "/"
	anchorAnywhere = "//"
)

var (
	nameRe = regexp.MustCompile(`^[A-Za-z_][\w.\-]*(?::[A-Za-z_][\w.\-]*)?$`)
	stepRe = regexp.MustCompile(
		`^([A-Za-z_][\w.\-]*(?::[A-Za-z_][\w.\-]*)?)` +
			`(?:\[@([A-Za-z_][\w.\-:]*)\s*=\s*(?:'([^']*)'|"([^"]*)")\])?$`,
	)
)

// query is a parsed element path with an optional trailing attribute step.
type query struct {
	anchor string
	steps  []string
	attr   string
}

// path renders the first n element steps as an etree path.
func (q query) path(n int) string {
	return q.anchor + strings.Join(q.steps[:n], "/")
}

func parseQuery(expr string) (query, error) {
	var q query

	rest := expr

	switch {
	case strings.HasPrefix(rest, anchorAnywhere):
		q.anchor = anchorAnywhere
		rest = rest[len(anchorAnywhere):]
	case strings.HasPrefix(rest, anchorRoot):
		q.anchor = anchorRoot
		rest = rest[len(anchorRoot):]
	}

	steps, err := splitSteps(rest)
	if err != nil {
		return q, err
	}

	if last := len(steps) - 1; strings.HasPrefix(steps[last], "@") {
		q.attr = steps[last][1:]
		if !nameRe.MatchString(q.attr) {
			return q, fmt.Errorf("%w: %q", errInvalidAttr, steps[last])
		}

		steps = steps[:last]
	}

	if len(steps) == 0 || steps[len(steps)-1] == "" {
		return q, fmt.Errorf("%w: %q", errEmptyQuery, expr)
	}

	q.steps = steps

	_, err = etree.CompilePath(q.path(len(steps)))
	if err != nil {
		return q, fmt.Errorf("compiling %q: %w", expr, err)
	}

	return q, nil
}

// splitSteps splits on '/' outside predicates and quoted strings.
func splitSteps(s string) ([]string, error) {
	var (
		steps []string
		quote rune
		depth int
		start int
	)

	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '[':
			depth++
		case r == ']':
			depth--
			if depth < 0 {
				return nil, errUnbalancedQuery
			}
		case r == '/' && depth == 0:
			steps = append(steps, s[start:i])
			start = i + 1
		}
	}

	if quote != 0 || depth != 0 {
		return nil, errUnbalancedQuery
	}

	return append(steps, s[start:]), nil
}

// stepSpec is a step that can be synthesized: a tag and at most one attribute.
type stepSpec struct {
	tag   string
	attr  string
	value string
}

func parseStep(raw string) (stepSpec, bool) {
	match := stepRe.FindStringSubmatch(raw)
	if match == nil {
		return stepSpec{}, false
	}

	spec := stepSpec{tag: match[1], attr: match[2], value: match[3]}
	if match[4] != "" {
		spec.value = match[4]
	}

	return spec, true
}
