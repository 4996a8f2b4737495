package stats

import (
	"fmt"
	"regexp"
	"strings"
)

// Tag is a name/value pair extracted from a stat name.
type Tag struct {
	Name  string
	Value string
}

// TagRule describes one tag extraction rule.
//
// The first capture group of Regex is removed from the stat name and the
// last capture group that participated in the match becomes the tag value.
// With a single capture group the removed text is also the value.
//
// Example:
//
//	TagRule{Name: "cluster_name", Regex: `^cluster\.((.+?)\.)`}
//
// turns "cluster.backend.upstream_rq" into "cluster.upstream_rq" with the tag
// cluster_name="backend".
type TagRule struct {
	Name  string
	Regex string
}

type compiledRule struct {
	name string
	re   *regexp.Regexp
}

// TagExtractor applies an ordered list of TagRules to stat names.
// A nil *TagExtractor extracts nothing.
type TagExtractor struct {
	rules []compiledRule
}

// NewTagExtractor compiles the given rules. Every rule needs a non-empty
// name and a regex with at least one capture group.
func NewTagExtractor(rules []TagRule) (*TagExtractor, error) {
	e := &TagExtractor{rules: make([]compiledRule, 0, len(rules))}
	for i, rule := range rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("tag rule %d: name is required", i)
		}
		re, err := regexp.Compile(rule.Regex)
		if err != nil {
			return nil, fmt.Errorf("tag rule %q: invalid regex: %w", rule.Name, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("tag rule %q: regex must have at least one capture group", rule.Name)
		}
		e.rules = append(e.rules, compiledRule{name: rule.Name, re: re})
	}
	return e, nil
}

// Extract returns the tag-extracted name and the tags found in name.
// Rules are applied in order, each to the name left by the previous one.
func (e *TagExtractor) Extract(name string) (string, []Tag) {
	if e == nil || len(e.rules) == 0 {
		return name, nil
	}

	var tags []Tag
	extracted := name
	for _, rule := range e.rules {
		m := rule.re.FindStringSubmatchIndex(extracted)
		if m == nil || m[2] < 0 {
			continue
		}

		value := ""
		for g := len(m)/2 - 1; g >= 1; g-- {
			if m[2*g] >= 0 {
				value = extracted[m[2*g]:m[2*g+1]]
				break
			}
		}

		tags = append(tags, Tag{Name: rule.name, Value: strings.TrimSuffix(value, ".")})
		extracted = extracted[:m[2]] + extracted[m[3]:]
	}
	return extracted, tags
}
