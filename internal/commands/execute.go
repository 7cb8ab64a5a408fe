package commands

import "fmt"

type Result struct {
	Message string
}

// Handlers binds each command to the UI. Commands without arguments share
// the same signature.
type Handlers struct {
	Add        func(AddArgs) (Result, error)
	Remove     func(RemoveArgs) (Result, error)
	Strategy   func(StrategyArgs) (Result, error)
	Clear      func() (Result, error)
	Analyze    func() (Result, error)
	Suggest    func() (Result, error)
	Export     func() (Result, error)
	LoadSample func() (Result, error)
	ShowJSON   func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Remove(*cmd.Remove)
	case TypeStrategy:
		if handlers.Strategy == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Strategy(*cmd.Strategy)
	case TypeClear:
		return call(cmd.Type, handlers.Clear)
	case TypeAnalyze:
		return call(cmd.Type, handlers.Analyze)
	case TypeSuggest:
		return call(cmd.Type, handlers.Suggest)
	case TypeExport:
		return call(cmd.Type, handlers.Export)
	case TypeLoadSample:
		return call(cmd.Type, handlers.LoadSample)
	case TypeShowJSON:
		return call(cmd.Type, handlers.ShowJSON)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func call(t Type, fn func() (Result, error)) (Result, error) {
	if fn == nil {
		return Result{}, missing(t)
	}
	return fn()
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
