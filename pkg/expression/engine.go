// Package expression evaluates the field rules declared on entity schemas,
// e.g. `LEN(value) >= 200` or `DAYS_BETWEEN(record.joiningDate, value) >= 0`.
package expression

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/fahmidurshanto/custom-cms/pkg/utils"
)

// Engine is a wrapper around expr-lang/expr with a compiled program cache.
type Engine struct {
	programCache map[string]*vm.Program
	functions    map[string]func(params ...interface{}) (interface{}, error)
	mu           sync.RWMutex
}

// NewEngine creates a new expression engine with the builtin functions
// registered.
func NewEngine() *Engine {
	e := &Engine{
		programCache: make(map[string]*vm.Program),
		functions:    make(map[string]func(params ...interface{}) (interface{}, error)),
	}
	for name, fn := range builtins() {
		e.RegisterFunction(name, fn)
	}
	return e
}

func builtins() map[string]func(params ...interface{}) (interface{}, error) {
	return map[string]func(params ...interface{}) (interface{}, error){
		"TODAY": func(params ...interface{}) (interface{}, error) {
			return time.Now().Format("2006-01-02"), nil
		},
		"LEN":   stringFunc("LEN", func(s string) interface{} { return utf8.RuneCountInString(s) }),
		"TRIM":  stringFunc("TRIM", func(s string) interface{} { return strings.TrimSpace(s) }),
		"UPPER": stringFunc("UPPER", func(s string) interface{} { return strings.ToUpper(s) }),
		"LOWER": stringFunc("LOWER", func(s string) interface{} { return strings.ToLower(s) }),
		// IS_TRUE reads yes/no style values such as "Yes", "on" or 1.
		"IS_TRUE": func(params ...interface{}) (interface{}, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("IS_TRUE requires 1 argument")
			}
			return utils.ToBool(params[0]), nil
		},
		// DAYS_BETWEEN(from, to) is 0 when either date is missing.
		"DAYS_BETWEEN": func(params ...interface{}) (interface{}, error) {
			if len(params) != 2 {
				return nil, fmt.Errorf("DAYS_BETWEEN requires 2 arguments (from, to)")
			}
			from := utils.ParseTime(utils.Stringify(params[0]))
			to := utils.ParseTime(utils.Stringify(params[1]))
			if from.IsZero() || to.IsZero() {
				return 0, nil
			}
			return int(to.Sub(from).Hours() / 24), nil
		},
	}
}

// Functions lists the registered function names, sorted.
func (e *Engine) Functions() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.functions))
	for name := range e.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RuleEnv builds the environment a field rule sees: the field's own value
// and the whole draft as `record`.
func RuleEnv(value string, record map[string]string) map[string]interface{} {
	rec := make(map[string]interface{}, len(record))
	for k, v := range record {
		rec[k] = v
	}
	return map[string]interface{}{
		"value":  value,
		"record": rec,
	}
}

// Evaluate compiles (if needed) and runs an expression against the given environment
func (e *Engine) Evaluate(expression string, env map[string]interface{}) (interface{}, error) {
	program, err := e.getProgram(expression, env)
	if err != nil {
		return nil, err
	}
	return expr.Run(program, env)
}

// EvaluateRule runs a rule that must produce a boolean.
func (e *Engine) EvaluateRule(expression string, env map[string]interface{}) (bool, error) {
	out, err := e.Evaluate(expression, env)
	if err != nil {
		return false, err
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("rule %q returned %T, want bool", expression, out)
	}
	return ok, nil
}

// RegisterFunction registers a custom function
func (e *Engine) RegisterFunction(name string, fn func(params ...interface{}) (interface{}, error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.functions[name] = fn
	// available functions changed
	e.programCache = make(map[string]*vm.Program)
}

// Validate compiles an expression without running it.
func (e *Engine) Validate(expression string, env map[string]interface{}) error {
	_, err := e.getProgram(expression, env)
	return err
}

func (e *Engine) getProgram(expression string, env map[string]interface{}) (*vm.Program, error) {
	e.mu.RLock()
	if prog, ok := e.programCache[expression]; ok {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if prog, ok := e.programCache[expression]; ok {
		return prog, nil
	}

	options := []expr.Option{expr.Env(env)}
	for name, fn := range e.functions {
		options = append(options, expr.Function(name, fn))
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, err
	}

	e.programCache[expression] = program
	return program, nil
}

func stringFunc(name string, fn func(string) interface{}) func(params ...interface{}) (interface{}, error) {
	return func(params ...interface{}) (interface{}, error) {
		s, err := stringArg(name, params)
		if err != nil {
			return nil, err
		}
		return fn(s), nil
	}
}

func stringArg(name string, params []interface{}) (string, error) {
	if len(params) != 1 {
		return "", fmt.Errorf("%s requires 1 argument", name)
	}
	if params[0] == nil {
		return "", nil
	}
	s, ok := params[0].(string)
	if !ok {
		return "", fmt.Errorf("%s argument must be string", name)
	}
	return s, nil
}
