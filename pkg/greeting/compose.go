// Package greeting renders the fixed set of outreach greeting scripts.
package greeting

import (
	"errors"
	"regexp"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/skufinskiy/itnelep-tools/pkg/textnorm"
)

var (
	ErrEmptyName         = errors.New("greeting: name is empty")
	ErrEmptyOrganization = errors.New("greeting: organization is empty")
)

// Variants is the number of greetings Compose returns.
const Variants = 5

// Placeholders: {name}, {org}, {post_after_name} (", post" or empty) and
// {post_before_org} ("post " or empty).
var templates = [Variants]string{
	"— Это {name}{post_after_name} {org}. Перезвоните мне, я по делу",
	"— Беспокоит Вас {name}{post_after_name} {org}. Ожидаю от Вас обратной связи",
	"— {name} беспокоит, {post_before_org}{org}. Есть тема для разговора, перезвоните",
	"— Это {post_before_org}{org}, {name}. Нужно с Вами переговорить, перезвоните",
	"— Беспокоит Вас {name}{post_after_name} {org}. Ожидаю от Вас обратной связи, я по делу",
}

var compiled = func() [Variants]*fasttemplate.Template {
	var out [Variants]*fasttemplate.Template
	for i, t := range templates {
		out[i] = fasttemplate.New(t, "{", "}")
	}
	return out
}()

var (
	spaceRe       = regexp.MustCompile(`\s+`)
	doubleCommaRe = regexp.MustCompile(`,\s*,`)
	commaSpaceRe  = regexp.MustCompile(`,\s+`)
	// a name ending in an initial followed by the template's own period
	doubleDotRe   = regexp.MustCompile(`([^.])\.\.(\s|$)`)
)

// Compose renders every template for one person. The position may be
// empty; its first letter is lowercased. Output order is fixed.
func Compose(name, position, org string) ([]string, error) {
	name = strings.TrimSpace(name)
	position = textnorm.LowerFirst(strings.TrimSpace(position))
	org = strings.TrimSpace(org)
	if name == "" {
		return nil, ErrEmptyName
	}
	if org == "" {
		return nil, ErrEmptyOrganization
	}

	vars := map[string]interface{}{
		"name":            name,
		"org":             org,
		"post_after_name": "",
		"post_before_org": "",
	}
	if position != "" {
		vars["post_after_name"] = ", " + position
		vars["post_before_org"] = position + " "
	}

	out := make([]string, 0, Variants)
	for _, t := range compiled {
		out = append(out, tidy(t.ExecuteString(vars)))
	}
	return out, nil
}

func tidy(s string) string {
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
	s = strings.ReplaceAll(s, " ,", ",")
	s = doubleCommaRe.ReplaceAllString(s, ",")
	s = doubleDotRe.ReplaceAllString(s, "${1}.${2}")
	return commaSpaceRe.ReplaceAllString(s, ", ")
}

// Title is the heading of a leader's greeting block: the name, then the
// position after a dash when there is one.
func Title(name, position string) string {
	name = strings.TrimSpace(name)
	position = strings.TrimSpace(position)
	if position == "" {
		return name
	}
	return name + " — " + position
}

// Block joins a title and its greetings into one copyable text: the title
// on its own line, then the greetings separated by blank lines.
func Block(title string, greetings []string) string {
	body := strings.Join(greetings, "\n\n")
	if title == "" {
		return body
	}
	return title + "\n" + body
}

// JoinBlocks joins several leader blocks with blank lines.
func JoinBlocks(blocks []string) string {
	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}
