package cargoalloc

import (
	"git.solver4all.com/azaryc2s/gorobi/gurobi"
)

// SolveStatus classifies the terminal outcome of one solve attempt.
type SolveStatus int

const (
	StatusUnknown SolveStatus = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
)

func (s SolveStatus) String() string {
	switch s {
	case StatusOptimal:
		return STATUS_OPTIMAL
	case StatusFeasible:
		return STATUS_FEASIBLE
	case StatusInfeasible:
		return STATUS_INFEASIBLE
	}
	return STATUS_UNKNOWN
}

// HasSolution reports whether Values of a SolveResult carry a usable
// variable assignment.
func (s SolveStatus) HasSolution() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// SolveResult is the raw outcome of one solve attempt. Values is
// indexed by the model's variable layout and is only meaningful when
// Status.HasSolution() is true.
type SolveResult struct {
	Status SolveStatus
	Obj    float64
	Values []float64
}

// Solver is the boundary to an external MILP engine: accept a built
// model and a wall-clock budget in seconds, block until the engine
// terminates, return the status and variable assignment. One solve per
// model, no retries, no incremental re-solves.
type Solver interface {
	Solve(mod *CargoModel, timeLimitSec float64) (SolveResult, error)
}

// GurobiSolver solves CargoModels through the Gurobi bindings. If
// LPFile is set, the model is written there before optimizing.
type GurobiSolver struct {
	Env    *gurobi.Env
	LPFile string
}

func NewGurobiSolver(logFile string) (*GurobiSolver, error) {
	env, err := gurobi.LoadEnv(logFile)
	if err != nil {
		return nil, err
	}
	env.SetIntParam("LogToConsole", int32(0))
	return &GurobiSolver{Env: env}, nil
}

// Free releases the native environment. Safe to call more than once.
func (s *GurobiSolver) Free() {
	if s.Env != nil {
		s.Env.Free()
		s.Env = nil
	}
}

func (s *GurobiSolver) Solve(mod *CargoModel, timeLimitSec float64) (SolveResult, error) {
	varType := make([]int8, mod.VarCount)
	for i := 0; i < mod.VarCount; i++ {
		varType[i] = gurobi.INTEGER
	}

	gmodel, err := s.Env.NewModel("cargoalloc", int32(mod.VarCount), mod.Obj, nil, mod.VarUB, varType, mod.VarNames)
	if err != nil {
		Log(1, err.Error())
		return SolveResult{}, err
	}
	defer gmodel.Free()

	err = gmodel.SetIntAttr(gurobi.INT_ATTR_MODELSENSE, gurobi.MINIMIZE)
	if err != nil {
		Log(1, err.Error())
		return SolveResult{}, err
	}

	for i := 0; i < len(mod.Constrs); i++ {
		con := mod.Constrs[i]
		err = gmodel.AddConstr(con.Ind, con.Val, senseToGurobi(con.Op), con.RHS, con.Name)
		if err != nil {
			Log(1, "Error adding constraint %s: %s\n", con.Name, err.Error())
			return SolveResult{}, err
		}
	}

	err = gmodel.SetDblParam("TimeLimit", timeLimitSec)
	if err != nil {
		Log(1, err.Error())
		return SolveResult{}, err
	}

	if s.LPFile != "" {
		err = gmodel.Write(s.LPFile)
		if err != nil {
			Log(1, "Couldn't write the model to %s: %s\n", s.LPFile, err.Error())
			return SolveResult{}, err
		}
	}

	err = gmodel.Optimize()
	if err != nil {
		Log(1, err.Error())
		return SolveResult{}, err
	}

	optimstatus, err := gmodel.GetIntAttr(gurobi.INT_ATTR_STATUS)
	if err != nil {
		Log(1, "Couldn't retrieve optimization status: %s\n", err.Error())
		return SolveResult{}, err
	}
	solcount, err := gmodel.GetIntAttr(gurobi.INT_ATTR_SOLCOUNT)
	if err != nil {
		Log(1, "Couldn't retrieve the solution count: %s\n", err.Error())
		return SolveResult{}, err
	}

	res := SolveResult{Status: statusFromGurobi(optimstatus, solcount)}
	if !res.Status.HasSolution() {
		Log(2, "No solution available (gurobi status %d)", optimstatus)
		return res, nil
	}

	res.Obj, err = gmodel.GetDblAttr(gurobi.DBL_ATTR_OBJVAL)
	if err != nil {
		Log(1, "Couldn't retrieve the obj-value: %s\n", err.Error())
		return SolveResult{}, err
	}
	res.Values, err = gmodel.GetDblAttrArray(gurobi.DBL_ATTR_X, 0, int32(mod.VarCount))
	if err != nil {
		Log(1, "Couldn't retrieve the variable values: %s\n", err.Error())
		return SolveResult{}, err
	}
	return res, nil
}

func senseToGurobi(op int8) int8 {
	switch op {
	case LESS_EQUAL:
		return gurobi.LESS_EQUAL
	case GREATER_EQUAL:
		return gurobi.GREATER_EQUAL
	default:
		return gurobi.EQUAL
	}
}

func statusFromGurobi(optimstatus int32, solcount int32) SolveStatus {
	switch optimstatus {
	case gurobi.OPTIMAL:
		return StatusOptimal
	case gurobi.INFEASIBLE, gurobi.INF_OR_UNBD:
		return StatusInfeasible
	}
	// Time limit or any other early stop: the best incumbent counts as
	// feasible, otherwise nothing is known.
	if solcount > 0 {
		return StatusFeasible
	}
	return StatusUnknown
}

var _ Solver = (*GurobiSolver)(nil)
