package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
)

const storageQuery = "data.mazeh.storage.allow"

// DefaultStoragePolicy lets a caller act only on items they own.
const DefaultStoragePolicy = `package mazeh.storage

default allow := false

allow if {
	input.user_id > 0
	input.user_id == input.owner_id
}
`

// OPAEvaluator evaluates storage ownership with an in-process Rego engine.
// The query is compiled once and reused for every decision.
type OPAEvaluator struct {
	modules map[string]string

	once     sync.Once
	prepared rego.PreparedEvalQuery
	prepErr  error
}

// NewOPAEvaluator returns an evaluator for the given Rego modules. With no
// modules it uses DefaultStoragePolicy.
func NewOPAEvaluator(policies ...string) *OPAEvaluator {
	if len(policies) == 0 {
		policies = []string{DefaultStoragePolicy}
	}
	modules := make(map[string]string, len(policies))
	for i, p := range policies {
		modules[fmt.Sprintf("policy_%d.rego", i)] = p
	}
	return &OPAEvaluator{modules: modules}
}

func (e *OPAEvaluator) prepare(ctx context.Context) (rego.PreparedEvalQuery, error) {
	e.once.Do(func() {
		compiler, err := ast.CompileModules(e.modules)
		if err != nil {
			e.prepErr = fmt.Errorf("compile storage policy: %w", err)
			return
		}
		e.prepared, e.prepErr = rego.New(
			rego.Query(storageQuery),
			rego.Compiler(compiler),
		).PrepareForEval(ctx)
		if e.prepErr != nil {
			e.prepErr = fmt.Errorf("prepare storage policy: %w", e.prepErr)
		}
	})
	return e.prepared, e.prepErr
}

// AllowStorage evaluates data.mazeh.storage.allow. An undefined or non-boolean
// result is a denial.
func (e *OPAEvaluator) AllowStorage(ctx context.Context, in OwnershipInput) (bool, error) {
	q, err := e.prepare(ctx)
	if err != nil {
		return false, err
	}
	rs, err := q.Eval(ctx, rego.EvalInput(map[string]interface{}{
		"user_id":  in.UserID,
		"owner_id": in.OwnerID,
		"action":   in.Action,
	}))
	if err != nil {
		return false, fmt.Errorf("eval storage policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, nil
	}
	allowed, _ := rs[0].Expressions[0].Value.(bool)
	return allowed, nil
}

// HealthCheck verifies that the in-process OPA Rego engine can compile and evaluate the policy.
// Returns nil on success.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	q, err := e.prepare(ctx)
	if err != nil {
		return err
	}
	rs, err := q.Eval(ctx, rego.EvalInput(map[string]interface{}{"user_id": 1, "owner_id": 1, "action": "read"}))
	if err != nil {
		return fmt.Errorf("eval storage policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return fmt.Errorf("policy query returned no result")
	}
	return nil
}
