// Command example drives every scenario named in the core's testable
// properties end to end: existential resolvent, a universe violation,
// u-canonicalization compression, answer substitution (both the clean and
// the truncated-mismatch case), and universal lifetime instantiation. It
// also demonstrates the concurrency model — independent proof attempts
// interleaved by internal/parallel.Pool, each strand owning its own
// inference table exclusively.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"

	"github.com/traitforge/slgcore/internal/parallel"
	"github.com/traitforge/slgcore/pkg/infer"
	"github.com/traitforge/slgcore/pkg/ir"
	"github.com/traitforge/slgcore/pkg/program"
	"github.com/traitforge/slgcore/pkg/resolvent"
)

var (
	scenario = flag.Int("scenario", 0, "run one scenario only (1-6); 0 runs all")
	verbose  = flag.Bool("verbose", false, "enable trace-level logging of the inference table")
)

func main() {
	flag.Parse()

	var logger hclog.Logger = hclog.NewNullLogger()
	if *verbose {
		logger = hclog.New(&hclog.LoggerOptions{Name: "slgcore", Level: hclog.Trace})
	}

	scenarios := []struct {
		name string
		run  func(hclog.Logger) error
	}{
		{"existential resolvent", scenarioResolvent},
		{"universe violation", scenarioUniverseViolation},
		{"u-canonicalization compression", scenarioUCanonicalize},
		{"answer substitution with free variable", scenarioAnswerFreeVar},
		{"answer substitution truncation mismatch", scenarioAnswerTruncation},
		{"universal lifetime instantiation", scenarioUniversalLifetime},
	}

	ok := true
	for i, s := range scenarios {
		if *scenario != 0 && *scenario != i+1 {
			continue
		}
		if err := run(i+1, s.name, func() error { return s.run(logger) }); err != nil {
			ok = false
		}
	}

	if *scenario == 0 {
		runConcurrencyDemo(logger)
	}

	if !ok {
		os.Exit(1)
	}
}

func run(n int, name string, fn func() error) error {
	fmt.Printf("%d. %s ... ", n, name)
	if err := fn(); err != nil {
		color.New(color.FgRed, color.Bold).Println("FAIL:", err)
		return err
	}
	color.New(color.FgGreen, color.Bold).Println("ok")
	return nil
}

// demoProgram seeds a Database with the two traits and two types every
// scenario needs, failing loudly if any of them collide — the one place
// this driver treats a validation error as fatal rather than a scenario
// outcome.
func demoProgram() (*program.Database, ir.ItemID, ir.ItemID, ir.ItemID, ir.ItemID) {
	db := program.New()
	cloneID, copyID := program.NewItemID(), program.NewItemID()
	vecID, u32ID := program.NewItemID(), program.NewItemID()
	err := db.RegisterAll(
		func(d *program.Database) error { return d.RegisterTrait(cloneID, 1) },
		func(d *program.Database) error { return d.RegisterTrait(copyID, 1) },
		func(d *program.Database) error { return d.Register(vecID, "Vec") },
		func(d *program.Database) error { return d.Register(u32ID, "u32") },
	)
	if err != nil {
		panic(err)
	}
	return db, cloneID, copyID, vecID, u32ID
}

// scenarioResolvent is spec scenario 1: goal ?T: Clone against clause
// forall U. U: Clone :- U: Copy yields ExClause.subgoals == [?T: Copy].
func scenarioResolvent(logger hclog.Logger) error {
	db, cloneID, copyID, _, _ := demoProgram()
	var result error
	ir.WithProgram(db, func() {
		table := infer.NewTable().WithLogger(logger)
		env := ir.NewEnvironment()

		tVar := table.NewTypeVariable(ir.RootUniverse)
		goal := ir.ImplementedGoal{Trait: ir.TraitRef{TraitID: cloneID, Parameters: []ir.Parameter{ir.TyParameter{Ty: tVar}}}}

		clauseU := ir.VarTy{Depth: 0}
		clause := ir.ProgramClause{
			Kinds: []ir.BoundVarKind{{Kind: ir.KindType, Value: ir.RootUniverse}},
			Value: ir.ProgramClauseImplication{
				Consequence: ir.ImplementedGoal{Trait: ir.TraitRef{TraitID: cloneID, Parameters: []ir.Parameter{ir.TyParameter{Ty: clauseU}}}},
				Conditions:  []ir.Goal{ir.Leaf(ir.ImplementedGoal{Trait: ir.TraitRef{TraitID: copyID, Parameters: []ir.Parameter{ir.TyParameter{Ty: clauseU}}}})},
			},
		}

		ex, err := resolvent.Clause(table, env, goal, ir.Substitution{}, clause)
		if err != nil {
			result = err
			return
		}
		if len(ex.Subgoals) != 1 || len(ex.Constraints) != 0 {
			result = fmt.Errorf("want 1 subgoal and 0 constraints, got %d subgoals and %d constraints", len(ex.Subgoals), len(ex.Constraints))
			return
		}
		pos, ok := ex.Subgoals[0].(ir.PositiveLiteral)
		if !ok {
			result = fmt.Errorf("want a positive subgoal, got %s", ex.Subgoals[0])
			return
		}
		leaf, ok := pos.Goal.Goal.(ir.LeafGoalWrapper)
		implemented, isImplemented := leaf.Leaf.(ir.ImplementedGoal)
		if !ok || !isImplemented || implemented.Trait.TraitID != copyID || len(implemented.Trait.Parameters) != 1 {
			result = fmt.Errorf("want ?_: %s, got %s", copyID, ex.Subgoals[0])
			return
		}
		resolvedArg, ok := implemented.Trait.Parameters[0].(ir.TyParameter)
		if !ok || !resolvedArg.Ty.IsVar() {
			result = fmt.Errorf("want the Copy bound on a fresh variable, got %s", ex.Subgoals[0])
			return
		}
		bound, isBound := table.ProbeTypeVar(tVar.Depth)
		if !isBound || !bound.Equal(resolvedArg.Ty) {
			result = fmt.Errorf("want ?T bound to the same variable carried by the Copy subgoal")
			return
		}
		fmt.Printf("\n   resolvent: %s\n   ", ex.Subgoals[0])
	})
	return result
}

// scenarioUniverseViolation is spec scenario 2: unifying a U1 existential
// against a U2 skolem fails, and rolling back to a pre-attempt snapshot
// leaves the table exactly as it was.
func scenarioUniverseViolation(logger hclog.Logger) error {
	table := infer.NewTable().WithLogger(logger)
	env := ir.NewEnvironment()

	u1 := table.NewUniverse()
	x := table.NewTypeVariable(u1)
	u2 := table.NewUniverse()

	snap := table.Snapshot()
	_, err := table.UnifyTy(env, x, ir.Skolem(u2))
	table.RollbackTo(snap)

	if err != infer.ErrNoSolution {
		return fmt.Errorf("want ErrNoSolution, got %v", err)
	}
	if v, bound := table.ProbeTypeVar(x.Depth); bound {
		return fmt.Errorf("table not rolled back: ?0 bound to %s", v)
	}
	return nil
}

// scenarioUCanonicalize is spec scenario 3: a Canonical[Ty] with one U2
// binder and a payload mentioning skolems U1 and U3 compresses to a
// UCanonical with universe map [U0, U1, U3] and remapped binder U1.
func scenarioUCanonicalize(logger hclog.Logger) error {
	table := infer.NewTable().WithLogger(logger)
	u1 := table.NewUniverse()
	u2 := table.NewUniverse()
	u3 := table.NewUniverse()

	pairID := program.NewItemID()
	c := ir.Canonical[ir.Ty]{Binders: ir.Binders[ir.Ty]{
		Kinds: []ir.BoundVarKind{{Kind: ir.KindType, Value: u2}},
		Value: ir.ApplicationTy{
			Name:       ir.ItemTypeName{ID: pairID},
			Parameters: []ir.Parameter{ir.TyParameter{Ty: ir.Skolem(u1)}, ir.TyParameter{Ty: ir.Skolem(u3)}},
		},
	}}

	uc, m := table.UCanonicalizeTy(c)
	wantMap := []ir.Universe{ir.RootUniverse, u1, u3}
	if !universesEqual(m.Universes, wantMap) {
		return fmt.Errorf("want universe map %v, got %v", wantMap, m.Universes)
	}
	if uc.Universes != 3 {
		return fmt.Errorf("want 3 universes, got %d", uc.Universes)
	}
	if uc.Kinds[0].Value != 1 {
		return fmt.Errorf("want remapped binder U1 (index 1), got index %d", uc.Kinds[0].Value)
	}
	fmt.Printf("\n   universes: %v -> %d distinct\n   ", m.Universes, uc.Universes)
	return nil
}

func universesEqual(a, b []ir.Universe) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// scenarioAnswerFreeVar is spec scenario 4: the table's stored answer for
// a normalization goal fills in a pending free variable with no leftover
// subgoals.
func scenarioAnswerFreeVar(logger hclog.Logger) error {
	_, _, _, vecID, u32ID := demoProgram()
	table := infer.NewTable().WithLogger(logger)
	env := ir.NewEnvironment()

	assocID := program.NewAssocTypeID()
	xVar := table.NewTypeVariable(ir.RootUniverse)

	pending := ir.InEnvironment[ir.Goal]{Environment: env, Goal: ir.Leaf(ir.NormalizeGoal{
		Projection: ir.ProjectionTy{AssocTypeID: assocID},
		Ty:         ir.ApplicationTy{Name: ir.ItemTypeName{ID: vecID}, Parameters: []ir.Parameter{ir.TyParameter{Ty: xVar}}},
	})}

	answerTableGoal := ir.Canonical[ir.InEnvironment[ir.Goal]]{Binders: ir.Binders[ir.InEnvironment[ir.Goal]]{
		Kinds: []ir.BoundVarKind{{Kind: ir.KindType, Value: ir.RootUniverse}},
		Value: ir.InEnvironment[ir.Goal]{Environment: env, Goal: ir.Leaf(ir.NormalizeGoal{
			Projection: ir.ProjectionTy{AssocTypeID: assocID},
			Ty:         ir.ApplicationTy{Name: ir.ItemTypeName{ID: vecID}, Parameters: []ir.Parameter{ir.TyParameter{Ty: ir.VarTy{Depth: 0}}}},
		})},
	}}

	canonicalAnswerSubst := ir.Canonical[ir.ConstrainedSubst]{Binders: ir.Binders[ir.ConstrainedSubst]{
		Kinds: []ir.BoundVarKind{{Kind: ir.KindType, Value: ir.RootUniverse}},
		Value: ir.ConstrainedSubst{Subst: ir.Substitution{Parameters: []ir.Parameter{
			ir.TyParameter{Ty: ir.ApplicationTy{Name: ir.ItemTypeName{ID: u32ID}}},
		}}},
	}}

	ex := ir.NewExClause(ir.Substitution{})
	ex, err := resolvent.ApplyAnswerSubst(table, ex, pending, answerTableGoal, canonicalAnswerSubst)
	if err != nil {
		return err
	}
	if len(ex.Subgoals) != 0 {
		return fmt.Errorf("want 0 subgoals, got %d", len(ex.Subgoals))
	}
	v, bound := table.ProbeTypeVar(xVar.Depth)
	if !bound {
		return fmt.Errorf("?0 was not instantiated")
	}
	fmt.Printf("\n   ?0 := %s\n   ", v)
	return nil
}

// scenarioAnswerTruncation is spec scenario 5: the same setup as scenario
// 4, but the table's stored answer goal was truncated one level short
// (the projection normalizes directly to ?0 rather than Vec<?0>), so
// zipping pits u32 against Vec<?X> and fails.
func scenarioAnswerTruncation(logger hclog.Logger) error {
	_, _, _, vecID, u32ID := demoProgram()
	table := infer.NewTable().WithLogger(logger)
	env := ir.NewEnvironment()

	assocID := program.NewAssocTypeID()
	xVar := table.NewTypeVariable(ir.RootUniverse)

	pending := ir.InEnvironment[ir.Goal]{Environment: env, Goal: ir.Leaf(ir.NormalizeGoal{
		Projection: ir.ProjectionTy{AssocTypeID: assocID},
		Ty:         ir.ApplicationTy{Name: ir.ItemTypeName{ID: vecID}, Parameters: []ir.Parameter{ir.TyParameter{Ty: xVar}}},
	})}

	answerTableGoal := ir.Canonical[ir.InEnvironment[ir.Goal]]{Binders: ir.Binders[ir.InEnvironment[ir.Goal]]{
		Kinds: []ir.BoundVarKind{{Kind: ir.KindType, Value: ir.RootUniverse}},
		Value: ir.InEnvironment[ir.Goal]{Environment: env, Goal: ir.Leaf(ir.NormalizeGoal{
			Projection: ir.ProjectionTy{AssocTypeID: assocID},
			Ty:         ir.VarTy{Depth: 0},
		})},
	}}

	canonicalAnswerSubst := ir.Canonical[ir.ConstrainedSubst]{Binders: ir.Binders[ir.ConstrainedSubst]{
		Kinds: []ir.BoundVarKind{{Kind: ir.KindType, Value: ir.RootUniverse}},
		Value: ir.ConstrainedSubst{Subst: ir.Substitution{Parameters: []ir.Parameter{
			ir.TyParameter{Ty: ir.ApplicationTy{Name: ir.ItemTypeName{ID: u32ID}}},
		}}},
	}}

	ex := ir.NewExClause(ir.Substitution{})
	_, err := resolvent.ApplyAnswerSubst(table, ex, pending, answerTableGoal, canonicalAnswerSubst)
	if err != infer.ErrNoSolution {
		return fmt.Errorf("want ErrNoSolution, got %v", err)
	}
	return nil
}

// scenarioUniversalLifetime is spec scenario 6: instantiating for<'a> P<'a>
// universally at a table whose max universe is U1 allocates a fresh U2 and
// raises the table's watermark to it.
func scenarioUniversalLifetime(logger hclog.Logger) error {
	table := infer.NewTable().WithLogger(logger)
	table.NewUniverse() // bump max_universe to U1

	pID := program.NewItemID()
	b := ir.Binders[ir.Ty]{
		Kinds: []ir.BoundVarKind{{Kind: ir.KindLifetime, Value: ir.RootUniverse}},
		Value: ir.ApplicationTy{Name: ir.ItemTypeName{ID: pID}, Parameters: []ir.Parameter{ir.LifetimeParameter{Lifetime: ir.VarLifetime{Depth: 0}}}},
	}

	before := table.MaxUniverse()
	result := table.InstantiateBindersUniversallyTy(b)
	after := table.MaxUniverse()

	if after != before+1 {
		return fmt.Errorf("want max_universe to advance by exactly one universe, went from %s to %s", before, after)
	}
	app, ok := result.(ir.ApplicationTy)
	if !ok || len(app.Parameters) != 1 {
		return fmt.Errorf("want a one-parameter application type, got %s", result)
	}
	ltParam, ok := app.Parameters[0].(ir.LifetimeParameter)
	if !ok {
		return fmt.Errorf("want a lifetime parameter, got %s", app.Parameters[0])
	}
	skolem, ok := ltParam.Lifetime.(ir.ForAllLifetime)
	if !ok || skolem.Universe != after {
		return fmt.Errorf("want a skolem lifetime in %s, got %s", after, ltParam.Lifetime)
	}
	fmt.Printf("\n   %s\n   ", result)
	return nil
}

// runConcurrencyDemo submits several independent resolvent attempts to a
// worker pool, each strand allocating and using its own inference table —
// the one sharing rule the concurrency model imposes.
func runConcurrencyDemo(logger hclog.Logger) {
	fmt.Println("\nconcurrency demo: interleaving independent proof attempts")

	db, cloneID, copyID, _, _ := demoProgram()
	pool := parallel.NewDynamicPool(4, 1)
	defer pool.Shutdown()

	const strands = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures int

	ir.WithProgram(db, func() {
		for i := 0; i < strands; i++ {
			wg.Add(1)
			err := pool.Submit(context.Background(), func() {
				defer wg.Done()
				table := infer.NewTable().WithLogger(logger)
				env := ir.NewEnvironment()
				tVar := table.NewTypeVariable(ir.RootUniverse)
				goal := ir.ImplementedGoal{Trait: ir.TraitRef{TraitID: cloneID, Parameters: []ir.Parameter{ir.TyParameter{Ty: tVar}}}}
				clauseU := ir.VarTy{Depth: 0}
				clause := ir.ProgramClause{
					Kinds: []ir.BoundVarKind{{Kind: ir.KindType, Value: ir.RootUniverse}},
					Value: ir.ProgramClauseImplication{
						Consequence: ir.ImplementedGoal{Trait: ir.TraitRef{TraitID: cloneID, Parameters: []ir.Parameter{ir.TyParameter{Ty: clauseU}}}},
						Conditions:  []ir.Goal{ir.Leaf(ir.ImplementedGoal{Trait: ir.TraitRef{TraitID: copyID, Parameters: []ir.Parameter{ir.TyParameter{Ty: clauseU}}}})},
					},
				}
				if _, err := resolvent.Clause(table, env, goal, ir.Substitution{}, clause); err != nil {
					mu.Lock()
					failures++
					mu.Unlock()
				}
			})
			if err != nil {
				wg.Done()
				mu.Lock()
				failures++
				mu.Unlock()
			}
		}
		wg.Wait()
	})

	time.Sleep(10 * time.Millisecond) // worker records a strand's stats after wg.Done(), not before
	fmt.Printf("strands: %d submitted, %d failed\n", strands, failures)
	fmt.Println(pool.Stats().String())
}
