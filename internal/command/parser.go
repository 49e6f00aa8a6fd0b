// Package command turns typed lines into commands and runs them.
package command

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/pantrycost/internal/domain"
	"github.com/hammamikhairi/pantrycost/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// KeywordParser matches input lines against keyword patterns. The first
// matching rule wins, so more specific patterns come first.
type KeywordParser struct {
	log   *logger.Logger
	rules []rule
}

type rule struct {
	regex *regexp.Regexp
	build func(m []string) *domain.Command
}

// bare builds a command that takes no arguments.
func bare(t domain.CommandType) func([]string) *domain.Command {
	return func([]string) *domain.Command { return &domain.Command{Type: t} }
}

// text builds a command whose first capture group is free text.
func text(t domain.CommandType) func([]string) *domain.Command {
	return func(m []string) *domain.Command {
		return &domain.Command{Type: t, Text: strings.TrimSpace(m[1])}
	}
}

// ref builds a command whose first capture group is a single reference.
func ref(t domain.CommandType) func([]string) *domain.Command {
	return func(m []string) *domain.Command {
		return &domain.Command{Type: t, Args: []string{strings.TrimSpace(m[1])}}
	}
}

// rename builds a command from "<ref> to <new name>".
func rename(t domain.CommandType) func([]string) *domain.Command {
	return func(m []string) *domain.Command {
		return &domain.Command{Type: t, Args: []string{strings.TrimSpace(m[1])}, Text: strings.TrimSpace(m[2])}
	}
}

// list builds a command from a comma separated list of references.
func list(t domain.CommandType) func([]string) *domain.Command {
	return func(m []string) *domain.Command {
		return &domain.Command{Type: t, Args: splitList(m[1])}
	}
}

// NewKeywordParser creates the parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.rules = []rule{
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), bare(domain.CmdHelp)},
		{regexp.MustCompile(`(?i)^(quit|exit|q)$`), bare(domain.CmdQuit)},
		{regexp.MustCompile(`(?i)^(save|w)$`), bare(domain.CmdSave)},

		// Products.
		{regexp.MustCompile(`(?i)^(products|bank)$`), bare(domain.CmdListProducts)},
		{regexp.MustCompile(`(?i)^product\s+(?:add|new)\s+(.+)$`), text(domain.CmdAddProduct)},
		{regexp.MustCompile(`(?i)^product\s+rename\s+(.+?)\s+to\s+(.+)$`), rename(domain.CmdRenameProduct)},
		{regexp.MustCompile(`(?i)^product\s+icon\s+(.+)\s+(\S+)$`), func(m []string) *domain.Command {
			return &domain.Command{Type: domain.CmdSetProductIcon, Args: []string{strings.TrimSpace(m[1]), m[2]}}
		}},
		{regexp.MustCompile(`(?i)^product\s+(?:rm|remove|delete)\s+(.+)$`), ref(domain.CmdDeleteProduct)},
		{regexp.MustCompile(`(?i)^(?:find|search)(?:\s+(.*))?$`), text(domain.CmdFindProducts)},

		// Price sets.
		{regexp.MustCompile(`(?i)^sets$`), bare(domain.CmdListPriceSets)},
		{regexp.MustCompile(`(?i)^set\s+(?:add|new)\s+(.+?)\s+in\s+(usd|rub|ils|nis|\$|₽|₪)$`), func(m []string) *domain.Command {
			return &domain.Command{Type: domain.CmdAddPriceSet, Args: []string{m[2]}, Text: strings.TrimSpace(m[1])}
		}},
		{regexp.MustCompile(`(?i)^set\s+(?:add|new)\s+(.+)$`), text(domain.CmdAddPriceSet)},
		{regexp.MustCompile(`(?i)^set\s+rename\s+(.+?)\s+to\s+(.+)$`), rename(domain.CmdRenamePriceSet)},
		{regexp.MustCompile(`(?i)^set\s+(?:rm|remove|delete)\s+(.+)$`), ref(domain.CmdDeletePriceSet)},
		{regexp.MustCompile(`(?i)^(?:set\s+open|open\s+set)\s+(.+)$`), ref(domain.CmdOpenPriceSet)},
		{regexp.MustCompile(`(?i)^currency(?:\s+(\S+))?$`), func(m []string) *domain.Command {
			c := &domain.Command{Type: domain.CmdCurrency}
			if m[1] != "" {
				c.Args = []string{m[1]}
			}
			return c
		}},
		{regexp.MustCompile(`(?i)^cover(?:\s+(.*))?$`), list(domain.CmdCoverProducts)},
		{regexp.MustCompile(`(?i)^price\s+(.+?)\s+(\S+)\s+(?:per|for|/)\s*(\S+)\s+(\S+)$`), func(m []string) *domain.Command {
			return &domain.Command{Type: domain.CmdSetPrice, Args: []string{strings.TrimSpace(m[1]), m[2], m[3], m[4]}}
		}},
		{regexp.MustCompile(`(?i)^price\s+(.+?)\s+(\S+)\s+(?:per|for|/)\s*(\D\S*)$`), func(m []string) *domain.Command {
			return &domain.Command{Type: domain.CmdSetPrice, Args: []string{strings.TrimSpace(m[1]), m[2], "1", m[3]}}
		}},

		// Recipes.
		{regexp.MustCompile(`(?i)^recipes$`), bare(domain.CmdListRecipes)},
		{regexp.MustCompile(`(?i)^recipe\s+(?:add|new)\s+(.+)$`), text(domain.CmdAddRecipe)},
		{regexp.MustCompile(`(?i)^recipe\s+(?:rm|remove|delete)\s+(.+)$`), ref(domain.CmdDeleteRecipe)},
		{regexp.MustCompile(`(?i)^(?:recipe\s+open|open\s+recipe)\s+(.+)$`), ref(domain.CmdOpenRecipe)},
		{regexp.MustCompile(`(?i)^(?:describe|description)(?:\s+(.*))?$`), text(domain.CmdDescribeRecipe)},
		{regexp.MustCompile(`(?i)^(?:yield|makes)\s+(\S+)$`), ref(domain.CmdSetYield)},
		{regexp.MustCompile(`(?i)^use\s+(.+)$`), ref(domain.CmdUsePriceSet)},
		{regexp.MustCompile(`(?i)^unuse$`), bare(domain.CmdClearPriceSet)},
		{regexp.MustCompile(`(?i)^ingredients(?:\s+(.*))?$`), list(domain.CmdChooseIngredients)},
		{regexp.MustCompile(`(?i)^amount\s+(.+?)\s+(\d\S*)(?:\s+(\D\S*))?$`), func(m []string) *domain.Command {
			args := []string{strings.TrimSpace(m[1]), m[2]}
			if m[3] != "" {
				args = append(args, m[3])
			}
			return &domain.Command{Type: domain.CmdSetAmount, Args: args}
		}},
		{regexp.MustCompile(`(?i)^cost(?:\s+(.*))?$`), text(domain.CmdCost)},
	}
	return p
}

// Parse converts one input line into a command. Unrecognized input gives
// CmdUnknown carrying the original text.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Command, error) {
	trimmed := strings.Join(strings.Fields(input), " ")
	if trimmed == "" {
		return &domain.Command{Type: domain.CmdUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, r := range p.rules {
		m := r.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		cmd := r.build(m)
		p.log.Debug("matched command: %s", cmd.Type)
		return cmd, nil
	}

	p.log.Debug("no match, returning unknown command")
	return &domain.Command{Type: domain.CmdUnknown, Text: trimmed}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
