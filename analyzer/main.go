package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"git.solver4all.com/azaryc2s/cargoalloc"
)

func main() {
	if len(os.Args) < 2 {
		log.Printf("No arguments passed!")
		return
	}
	dirName := os.Args[1]
	dir, err := ioutil.ReadDir(dirName)
	if err != nil {
		log.Printf("Couldn't open directory %s: %s\n", os.Args[1], err.Error())
		return
	}
	fmt.Printf("Name,Status,Optimal,Time,Obj,TotalForecast,Carriers,Locations,Comment\n")
	for _, f := range dir {
		fileName := dirName + "/" + f.Name()
		if strings.Contains(fileName, ".json") {
			inst := cargoalloc.CargoInstance{}
			instStr, err := ioutil.ReadFile(fileName)
			if err != nil {
				log.Printf("Couldn't read %s: %s\n", f.Name(), err.Error())
				return
			}
			err = json.Unmarshal(instStr, &inst)
			if err != nil {
				log.Printf("Couldn't parse %s: %s\n", f.Name(), err.Error())
				return
			}
			if inst.Solution == nil {
				fmt.Printf("No solution for %s\n", inst.Name)
				continue
			}
			sol := *inst.Solution
			if sol.Feasible {
				model, err := cargoalloc.CreateCargoModel(inst.Cargos, inst.Locations)
				if err != nil {
					log.Printf("Couldn't rebuild the model for %s: %s\n", inst.Name, err.Error())
					return
				}
				solValid, validComment := cargoalloc.CheckAllocationValidity(&model, &sol)
				if !solValid {
					sol.Comment = fmt.Sprintf("%s %s", sol.Comment, validComment)
				}
			}
			fmt.Printf("%s,%s,%t,%s,%.2f,%d,%d,%d,%s\n", inst.Name, sol.Status, sol.Optimal, sol.Time, sol.Obj, sol.TotalForecast, len(inst.Cargos), len(inst.Locations), sol.Comment)
		}
	}
}
