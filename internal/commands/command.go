package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeSearch Type = "search"
	TypeFilter Type = "filter"
	TypeSort   Type = "sort"
	TypeDone   Type = "done"
	TypeStar   Type = "star"
)

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

type SearchArgs struct {
	Keyword string
}

type FilterArgs struct {
	Name string
}

type SortArgs struct {
	Key string
}

// DoneArgs and StarArgs target a note by its 1-based position in the
// visible list.
type DoneArgs struct {
	Position int
}

type StarArgs struct {
	Position int
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Search *SearchArgs
	Filter *FilterArgs
	Sort   *SortArgs
	Done   *DoneArgs
	Star   *StarArgs
}

var sortKeys = map[string]struct{}{
	"newest": {}, "oldest": {}, "title_asc": {}, "title_desc": {}, "priority_high": {}, "due_date": {},
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
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
	case TypeSearch:
		return parseSearch(input, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeSort:
		return parseSort(input, args)
	case TypeDone:
		return parsePosition(input, TypeDone, args)
	case TypeStar:
		return parsePosition(input, TypeStar, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseSearch(raw string, args []string) (Command, error) {
	keyword := strings.TrimSpace(strings.Join(args, " "))
	if keyword == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "search requires a keyword"}
	}
	return Command{Type: TypeSearch, Raw: raw, Search: &SearchArgs{Keyword: keyword}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	// Category names may contain spaces; match is exact otherwise.
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter requires a name"}
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Name: name}}, nil
}

func parseSort(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sort requires exactly one key"}
	}
	key := strings.ToLower(args[0])
	if _, ok := sortKeys[key]; !ok {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unsupported sort key: %s", key)}
	}
	return Command{Type: TypeSort, Raw: raw, Sort: &SortArgs{Key: key}}, nil
}

func parsePosition(raw string, kind Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a note number", kind)}
	}
	pos, err := strconv.Atoi(args[0])
	if err != nil || pos < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a positive note number", kind)}
	}
	if kind == TypeDone {
		return Command{Type: kind, Raw: raw, Done: &DoneArgs{Position: pos}}, nil
	}
	return Command{Type: kind, Raw: raw, Star: &StarArgs{Position: pos}}, nil
}
