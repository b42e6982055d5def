package expr

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"
)

// Env is the environment a visibility rule is evaluated against.
type Env struct {
	LoggedIn    bool   `expr:"loggedIn"`
	DisplayName string `expr:"displayName"`
	Path        string `expr:"path"`
}

type Rule struct {
	script  string
	program *vm.Program

	compileOnce sync.Once
	compileErr  error
}

// Exec evaluates the rule. An empty rule always matches.
func (r *Rule) Exec(env Env) (bool, error) {
	if r.script == "" {
		return true, nil
	}

	program, err := r.getProgram()
	if err != nil {
		return false, errors.WithStack(err)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, errors.WithStack(err)
	}

	visible, ok := result.(bool)
	if !ok {
		return false, errors.Errorf("unexpected rule '%s' result type '%T', expected boolean", r.script, result)
	}

	return visible, nil
}

func (r *Rule) getProgram() (*vm.Program, error) {
	r.compileOnce.Do(func() {
		program, err := expr.Compile(r.script, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			r.compileErr = errors.WithStack(err)
			return
		}

		r.program = program
	})
	if r.compileErr != nil {
		return nil, errors.WithStack(r.compileErr)
	}

	return r.program, nil
}

func (r *Rule) String() string {
	return r.script
}

func NewRule(script string) *Rule {
	return &Rule{script: script}
}

// Rules caches compiled rules by script.
type Rules struct {
	mu    sync.Mutex
	rules map[string]*Rule
}

func (r *Rules) Get(script string) *Rule {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rules == nil {
		r.rules = make(map[string]*Rule)
	}

	rule, exists := r.rules[script]
	if !exists {
		rule = NewRule(script)
		r.rules[script] = rule
	}

	return rule
}

// Visible evaluates the script, an invalid rule hides its target.
func (r *Rules) Visible(script string, env Env) (bool, error) {
	visible, err := r.Get(script).Exec(env)
	if err != nil {
		return false, errors.WithStack(err)
	}

	return visible, nil
}
