package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/keshon/ceres/internal/command"
	"github.com/keshon/ceres/internal/config"
	"github.com/keshon/ceres/pkg/cmd"
)

type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List commands or show how to use one" }
func (c *HelpCommand) Aliases() []string   { return []string{"h", "commands"} }
func (c *HelpCommand) Usage() string       { return "help [command]" }
func (c *HelpCommand) Category() string    { return "🕯️ Information" }

func (c *HelpCommand) Run(ctx context.Context, mc *command.MessageContext, inv *cmd.Invocation) (string, error) {
	if err := inv.Expect(0, 1); err != nil {
		return "", err
	}
	if mc.Registry == nil {
		return "", fmt.Errorf("help: no registry in context")
	}
	if name := inv.Arg(0, ""); name != "" {
		found, ok := mc.Registry.Lookup(strings.TrimPrefix(name, mc.Prefix))
		if !ok {
			return "", cmd.Userf("Unknown command `%s`.", name)
		}
		return DescribeCommand(found, mc.Prefix), nil
	}
	return BuildHelp(mc.Registry.GetAll(), mc.Prefix), nil
}

// BuildHelp lists commands by category, categories ordered by config.CategoryWeights.
func BuildHelp(all []cmd.Command, prefix string) string {
	categoryMap := make(map[string][]cmd.Command)
	for _, c := range all {
		cat := command.CategoryOf(c)
		categoryMap[cat] = append(categoryMap[cat], c)
	}

	cats := make([]string, 0, len(categoryMap))
	for cat := range categoryMap {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		wi, oki := config.CategoryWeights[cats[i]]
		wj, okj := config.CategoryWeights[cats[j]]
		if oki != okj {
			return oki
		}
		if wi != wj {
			return wi < wj
		}
		return cats[i] < cats[j]
	})

	var sb strings.Builder
	for _, cat := range cats {
		if cat == "" {
			sb.WriteString("**Other**\n")
		} else {
			sb.WriteString(fmt.Sprintf("**%s**\n", cat))
		}
		cmds := categoryMap[cat]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
		for _, c := range cmds {
			sb.WriteString(fmt.Sprintf("`%s%s`", prefix, c.Name()))
			if aliases := cmd.AliasesOf(c); len(aliases) > 0 {
				sb.WriteString(fmt.Sprintf(" (%s)", strings.Join(aliases, ", ")))
			}
			sb.WriteString(fmt.Sprintf(" - %s\n", c.Description()))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// DescribeCommand renders the usage of a single command.
func DescribeCommand(c cmd.Command, prefix string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s%s** - %s", prefix, c.Name(), c.Description()))
	if usage := cmd.UsageOf(c); usage != "" {
		sb.WriteString(fmt.Sprintf("\nUsage: `%s%s`", prefix, usage))
	}
	if aliases := cmd.AliasesOf(c); len(aliases) > 0 {
		sb.WriteString(fmt.Sprintf("\nAliases: %s", strings.Join(aliases, ", ")))
	}
	return sb.String()
}
