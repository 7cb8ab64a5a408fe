package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/sandeepkv93/taskrank/internal/model"
)

type Type string

const (
	TypeAdd        Type = "add"
	TypeRemove     Type = "remove"
	TypeClear      Type = "clear"
	TypeStrategy   Type = "strategy"
	TypeAnalyze    Type = "analyze"
	TypeSuggest    Type = "suggest"
	TypeExport     Type = "export"
	TypeLoadSample Type = "load-sample"
	TypeShowJSON   Type = "show-json"
)

// Types lists palette commands in the order they are offered.
func Types() []Type {
	return []Type{TypeAdd, TypeRemove, TypeClear, TypeStrategy, TypeAnalyze, TypeSuggest, TypeExport, TypeLoadSample, TypeShowJSON}
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title string
}

// RemoveArgs holds a 1-based position in the task list.
type RemoveArgs struct {
	Position int
}

type StrategyArgs struct {
	Strategy model.Strategy
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Remove   *RemoveArgs
	Strategy *StrategyArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeRemove:
		return parseRemove(input, args)
	case TypeStrategy:
		return parseStrategy(input, args)
	case TypeClear, TypeAnalyze, TypeSuggest, TypeExport, TypeLoadSample, TypeShowJSON:
		return Command{Type: Type(head), Raw: input}, nil
	default:
		msg := fmt.Sprintf("unsupported command: %s", head)
		if hint := Suggest(head); len(hint) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", hint[0])
		}
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: msg}
	}
}

// Suggest ranks palette commands against a partial name, best match first.
func Suggest(prefix string) []Type {
	prefix = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(prefix), "/")))
	if i := strings.IndexByte(prefix, ' '); i >= 0 {
		prefix = prefix[:i]
	}
	all := Types()
	if prefix == "" {
		return all
	}
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = string(t)
	}
	matches := fuzzy.Find(prefix, names)
	out := make([]Type, 0, len(matches))
	for _, m := range matches {
		out = append(out, all[m.Index])
	}
	return out
}

func parseAdd(raw string, args []string) (Command, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseRemove(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remove requires a task number"}
	}
	n, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || n < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid task number: %s", args[0])}
	}
	return Command{Type: TypeRemove, Raw: raw, Remove: &RemoveArgs{Position: n}}, nil
}

func parseStrategy(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "strategy requires one of " + strategyList()}
	}
	s := model.Strategy(strings.ToLower(args[0]))
	if !s.IsValid() {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown strategy %s, expected one of %s", args[0], strategyList())}
	}
	return Command{Type: TypeStrategy, Raw: raw, Strategy: &StrategyArgs{Strategy: s}}, nil
}

func strategyList() string {
	all := model.Strategies()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
