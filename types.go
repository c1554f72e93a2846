package cargoalloc

const (
	STATUS_OPTIMAL    = "OPTIMAL"
	STATUS_FEASIBLE   = "FEASIBLE"
	STATUS_INFEASIBLE = "INFEASIBLE"
	STATUS_UNKNOWN    = "UNKNOWN"
)

// DefaultTimeLimit is the solver wall-clock budget in seconds when no
// flag or environment override is given.
const DefaultTimeLimit = 3600.0

type Cargo struct {
	ID             string  `json:"id"`
	MinCapacity    int     `json:"min_capacity"`
	MaxCapacity    int     `json:"max_capacity"`
	ExcessCapacity int     `json:"excess_capacity"`
	RegularCost    float64 `json:"regular_cost"`
	ExcessCost     float64 `json:"excess_cost"`
	DemurrageCost  float64 `json:"demurrage_cost"`
	CoverageRate   float64 `json:"coverage_rate"`
}

type Location struct {
	ID       string   `json:"id"`
	Forecast int      `json:"forecast"`
	Eligible []string `json:"eligible"`
}

type CargoInstance struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`
	Type    string `json:"type"`

	Cargos    []Cargo    `json:"cargos"`
	Locations []Location `json:"locations"`

	Solution *CargoSolution `json:"solution,omitempty"`
}

// CarrierAllocation is the per-carrier view of a solved instance.
// Assigned is Regular+Excess; Shortfall is the demurrage variable.
type CarrierAllocation struct {
	ID        string `json:"id"`
	Regular   int    `json:"regular"`
	Excess    int    `json:"excess"`
	Assigned  int    `json:"assigned"`
	Shortfall int    `json:"shortfall"`
}

// CargoSolution is written back into the instance file after a solve.
// Regular and Excess are dense carrier-major grids over the full
// carrier x location space; ineligible pairs hold 0.
type CargoSolution struct {
	Status        string              `json:"status"`
	Optimal       bool                `json:"optimal"`
	Feasible      bool                `json:"feasible"`
	Obj           float64             `json:"obj"`
	TotalForecast int                 `json:"total_forecast"`
	Carriers      []CarrierAllocation `json:"carriers"`
	Regular       [][]int             `json:"regular"`
	Excess        [][]int             `json:"excess"`
	Warnings      []string            `json:"warnings,omitempty"`

	Time    string  `json:"time"`
	System  SysInfo `json:"system"`
	Comment string  `json:"comment"`
}

// SysInfo saves the basic system information
type SysInfo struct {
	Platform string
	CPU      string
	RAM      string
}
