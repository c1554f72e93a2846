/* Copyright 2021, Arkadiusz Zarychta, arkadiusz.zarychta@h-brs.de */

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"
	"time"

	"git.solver4all.com/azaryc2s/cargoalloc"
	"git.solver4all.com/azaryc2s/gorobi/gurobi"
	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

var (
	inst cargoalloc.CargoInstance
	sol  cargoalloc.CargoSolution

	inputF    *string
	outputF   *string
	timeLimit *float64
	writeLP   *bool
	logLvl    *int
)

func main() {
	inputF = flag.String("input", "input.json", "Path to the input instance")
	outputF = flag.String("output", "", "Path to the output file. By default the input file will be overwritten adding the solution")
	timeLimit = flag.Float64("timelimit", 0, "Solver time limit in seconds. 0 takes CARGO_TIME_LIMIT from the environment or the default of 3600")
	writeLP = flag.Bool("lp", false, "Write the model to <input>.lp before solving")
	logLvl = flag.Int("log", 2, "Level of the logging output. Higher value is more verbose. Range 1-4")

	flag.Parse()
	cargoalloc.InitLoggers(*logLvl)

	godotenv.Load()
	limit := resolveTimeLimit(*timeLimit)

	hostStat, _ := host.Info()
	cpuStat, _ := cpu.Info()
	vmStat, _ := mem.VirtualMemory()
	sol = cargoalloc.CargoSolution{System: cargoalloc.SysInfo{Platform: hostStat.Platform, CPU: cpuStat[0].ModelName, RAM: fmt.Sprintf("%d GB", (vmStat.Total / 1024 / 1024 / 1024))}}

	instStr, err := ioutil.ReadFile(*inputF)
	if err != nil {
		cargoalloc.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}
	err = json.Unmarshal(instStr, &inst)
	if err != nil {
		cargoalloc.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}

	solver, err := cargoalloc.NewGurobiSolver("cargoalloc_gurobi.log")
	if err != nil {
		cargoalloc.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}
	defer solver.Free()

	model, err := cargoalloc.CreateCargoModel(inst.Cargos, inst.Locations)
	if err != nil {
		cargoalloc.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}
	cargoalloc.Log(2, "Built the model with %d carriers, %d locations, %d eligible pairs, %d variables and %d constraints",
		model.N, model.M, model.PairCount, model.VarCount, len(model.Constrs))

	threads, _ := solver.Env.GetIntParam(gurobi.INT_PAR_THREADS)
	sol.Comment = fmt.Sprintf("Solver-Settings: SolverDev: Zarychta, Threads=%d, TimeLimit=%.0fs", threads, limit)

	if *writeLP {
		solver.LPFile = strings.ReplaceAll(*inputF, ".json", ".lp")
	}

	startTime := time.Now()
	res, err := solver.Solve(&model, limit)
	if err != nil {
		cargoalloc.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}
	elapsed := time.Since(startTime).String()
	cargoalloc.Log(2, "\n---OPTIMIZATION DONE---\n")

	system := sol.System
	comment := sol.Comment
	sol = cargoalloc.ExtractAllocation(&model, res)
	sol.Time = elapsed
	sol.System = system
	sol.Comment = comment + " " + sol.Comment

	if sol.Feasible {
		solValid, validComment := cargoalloc.CheckAllocationValidity(&model, &sol)
		if !solValid {
			cargoalloc.Log(1, validComment)
			sol.Comment += " " + validComment
		} else {
			cargoalloc.Log(1, "The computed allocation is valid! ")
		}
		cargoalloc.Log(2, "Found an allocation with obj-value of %.2f covering a total forecast of %d\n", sol.Obj, sol.TotalForecast)
		cargoalloc.Log(3, "Regular units:\n%s", cargoalloc.Print2DArray(sol.Regular))
		cargoalloc.Log(3, "Excess units:\n%s", cargoalloc.Print2DArray(sol.Excess))
	} else {
		cargoalloc.Log(2, "No feasible allocation found (status %s)\n", sol.Status)
	}

	inst.Solution = &sol
	writeSolution()
}

func resolveTimeLimit(flagVal float64) float64 {
	if flagVal > 0 {
		return flagVal
	}
	if env := os.Getenv("CARGO_TIME_LIMIT"); env != "" {
		v, err := strconv.ParseFloat(env, 64)
		if err != nil || v <= 0 {
			cargoalloc.Log(1, "Ignoring invalid CARGO_TIME_LIMIT %q\n", env)
		} else {
			return v
		}
	}
	return cargoalloc.DefaultTimeLimit
}

func writeSolution() {
	jsonInst, err := json.MarshalIndent(inst, "", "\t")
	if err != nil {
		cargoalloc.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}
	jsonInst = []byte(cargoalloc.SanitizeJsonArrayLineBreaks(string(jsonInst)))
	var fileName string
	if *outputF == "" {
		fileName = *inputF //overwrite the input file
	} else {
		fileName = *outputF
	}
	err = ioutil.WriteFile(fileName, jsonInst, 0644)
	if err != nil {
		cargoalloc.Log(1, "At %s: %s\n", *inputF, err.Error())
		return
	}
}
