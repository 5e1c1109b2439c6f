package command

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"factbot/internal/service"
)

// addCommand files a new fact: !add CATEGORY FACT
type addCommand struct {
	svc *service.FactService
}

var addPattern = regexp.MustCompile(`^!add\s(\S+)\s(.+)$`)

func (c *addCommand) Name() string { return "add" }
func (c *addCommand) Pattern() *regexp.Regexp { return addPattern }

func (c *addCommand) Help() string {
	return "!add CATEGORY FACT: file a new fact under CATEGORY (created when missing)"
}

func (c *addCommand) Execute(ctx context.Context, args []string, _ Message) (Reply, error) {
	if err := c.svc.AddFact(ctx, args[1], []string{args[0]}); err != nil {
		return Reply{}, err
	}
	return Reply{Text: replyAdded}, nil
}

// categoriesCommand lists every category: !categories
type categoriesCommand struct {
	svc *service.FactService
}

var categoriesPattern = regexp.MustCompile(`^!categories$`)

func (c *categoriesCommand) Name() string { return "categories" }
func (c *categoriesCommand) Pattern() *regexp.Regexp { return categoriesPattern }

func (c *categoriesCommand) Help() string {
	return "!categories: list every known category"
}

func (c *categoriesCommand) Execute(ctx context.Context, _ []string, _ Message) (Reply, error) {
	categories, err := c.svc.ListCategories(ctx)
	if err != nil {
		return Reply{}, err
	}
	if len(categories) == 0 {
		return Reply{Text: replyNotFound}, nil
	}
	return Reply{Text: strings.Join(categories, " ")}, nil
}

// consultCommand displays a category, or one line of it: !consult CATEGORY [LINE]
type consultCommand struct {
	svc *service.FactService
}

var consultPattern = regexp.MustCompile(`^!consult\s(\S+)(?:\s(\d+))?$`)

func (c *consultCommand) Name() string { return "consult" }
func (c *consultCommand) Pattern() *regexp.Regexp { return consultPattern }

func (c *consultCommand) Help() string {
	return "!consult CATEGORY [LINE]: show the facts of CATEGORY, or only the fact at LINE"
}

func (c *consultCommand) Execute(ctx context.Context, args []string, _ Message) (Reply, error) {
	position := 0
	if args[1] != "" {
		var err error
		position, err = strconv.Atoi(args[1])
		if err != nil {
			// A line number too big for int cannot address anything.
			return Reply{Text: replyNotFound}, nil
		}
	}

	facts, err := c.svc.Consult(ctx, args[0], position)
	if err != nil {
		return Reply{}, err
	}
	if len(facts) == 0 {
		return Reply{Text: replyNotFound}, nil
	}

	lines := make([]string, len(facts))
	for i, fact := range facts {
		n := i + 1
		if position > 0 {
			n = position
		}
		lines[i] = fmt.Sprintf("%d. %s", n, fact)
	}
	return Reply{Text: strings.Join(lines, "\n")}, nil
}

// searchCommand looks for facts containing a pattern: !search PATTERN
type searchCommand struct {
	svc *service.FactService
}

var searchPattern = regexp.MustCompile(`^!search\s(.+)$`)

func (c *searchCommand) Name() string { return "search" }
func (c *searchCommand) Pattern() *regexp.Regexp { return searchPattern }

func (c *searchCommand) Help() string {
	return "!search PATTERN: show every fact containing PATTERN"
}

func (c *searchCommand) Execute(ctx context.Context, args []string, _ Message) (Reply, error) {
	facts, err := c.svc.Search(ctx, args[0])
	if err != nil {
		return Reply{}, err
	}
	if len(facts) == 0 {
		return Reply{Text: replyNotFound}, nil
	}

	// Highlight the matched text in the reply.
	highlight := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(args[0]))
	result := highlight.ReplaceAllString(strings.Join(facts, "\n"), "**$0**")
	return Reply{Text: result}, nil
}

// removeCommand removes one fact, or a whole category: !remove CATEGORY [LINE]
type removeCommand struct {
	svc *service.FactService
}

var removePattern = regexp.MustCompile(`^!remove\s(\S+)(?:\s(\d+))?$`)

func (c *removeCommand) Name() string { return "remove" }
func (c *removeCommand) Pattern() *regexp.Regexp { return removePattern }

func (c *removeCommand) Help() string {
	return "!remove CATEGORY [LINE]: remove the fact at LINE, or the whole CATEGORY when LINE is omitted"
}

func (c *removeCommand) Execute(ctx context.Context, args []string, _ Message) (Reply, error) {
	if args[1] != "" {
		position, err := strconv.Atoi(args[1])
		if err != nil {
			return Reply{Text: replyNotFound}, nil
		}
		if err := c.svc.RemoveFact(ctx, args[0], position); err != nil {
			return Reply{}, err
		}
		return Reply{Text: replyFactRemoved}, nil
	}

	if err := c.svc.RemoveCategory(ctx, args[0]); err != nil {
		return Reply{}, err
	}
	return Reply{Text: replyCategoryRemoved}, nil
}

// exportCommand renders the whole store as a text document: !export
type exportCommand struct {
	svc *service.FactService
}

var exportPattern = regexp.MustCompile(`^!export$`)

func (c *exportCommand) Name() string { return "export" }
func (c *exportCommand) Pattern() *regexp.Regexp { return exportPattern }

func (c *exportCommand) Help() string {
	return "!export: get the current data as a text document"
}

func (c *exportCommand) Execute(ctx context.Context, _ []string, _ Message) (Reply, error) {
	var buf bytes.Buffer
	if err := c.svc.Export(ctx, &buf); err != nil {
		return Reply{}, err
	}
	return Reply{
		Text:       "Here you go.",
		Attachment: &Attachment{Name: "facts.txt", Data: buf.Bytes()},
	}, nil
}

// importCommand files every fact from an attached document: !import
type importCommand struct {
	svc *service.FactService
}

var importPattern = regexp.MustCompile(`^!import$`)

func (c *importCommand) Name() string { return "import" }
func (c *importCommand) Pattern() *regexp.Regexp { return importPattern }

func (c *importCommand) Help() string {
	return "!import: attach a document in the export format and its facts are filed"
}

func (c *importCommand) Execute(ctx context.Context, _ []string, msg Message) (Reply, error) {
	if msg.Attachment == nil {
		return Reply{Text: "Attach a document to import."}, nil
	}

	stats, err := c.svc.Import(ctx, msg.Attachment)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("Imported %d facts, skipped %d duplicates.", stats.Added, stats.Skipped)}, nil
}

// sizeCommand reports the export document size: !size
type sizeCommand struct {
	svc *service.FactService
}

var sizePattern = regexp.MustCompile(`^!size$`)

func (c *sizeCommand) Name() string { return "size" }
func (c *sizeCommand) Pattern() *regexp.Regexp { return sizePattern }

func (c *sizeCommand) Help() string {
	return "!size: show the current export document size"
}

func (c *sizeCommand) Execute(ctx context.Context, _ []string, _ Message) (Reply, error) {
	size, err := c.svc.ExportSize(ctx)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("Current size: %.2f kB", float64(size)/1000)}, nil
}

// versionCommand reports the bot version: !version
type versionCommand struct{}

var versionPattern = regexp.MustCompile(`^!version$`)

func (c *versionCommand) Name() string { return "version" }
func (c *versionCommand) Pattern() *regexp.Regexp { return versionPattern }

func (c *versionCommand) Help() string {
	return "!version: show the running version"
}

func (c *versionCommand) Execute(_ context.Context, _ []string, _ Message) (Reply, error) {
	return Reply{Text: "factbot v" + Version}, nil
}

// helpCommand shows usage for one or all commands: !help [COMMAND]
type helpCommand struct {
	commands []Command
}

var helpPattern = regexp.MustCompile(`^!help(?:\s(\S+))?$`)

func (c *helpCommand) Name() string { return "help" }
func (c *helpCommand) Pattern() *regexp.Regexp { return helpPattern }

func (c *helpCommand) Help() string {
	return "!help [COMMAND]: show usage for COMMAND, or for everything"
}

func (c *helpCommand) Execute(_ context.Context, args []string, _ Message) (Reply, error) {
	if args[0] != "" {
		if args[0] == c.Name() {
			return Reply{Text: c.Help()}, nil
		}
		for _, cmd := range c.commands {
			if cmd.Name() == args[0] {
				return Reply{Text: cmd.Help()}, nil
			}
		}
		return Reply{Text: replyNotFound}, nil
	}

	lines := make([]string, 0, len(c.commands)+1)
	for _, cmd := range c.commands {
		lines = append(lines, cmd.Help())
	}
	lines = append(lines, c.Help())
	return Reply{Text: strings.Join(lines, "\n")}, nil
}
