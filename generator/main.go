package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"math"
	"math/rand"
	"time"

	"git.solver4all.com/azaryc2s/cargoalloc"
)

var carriers cargoalloc.ArrayIntFlags
var locations cargoalloc.ArrayIntFlags
var name *string
var output *string
var count *int
var fMax *int
var capStart *int
var capEnd *int
var excessEnd *int
var elig *float64

func main() {
	flag.Var(&carriers, "n", "List of number of carriers")
	flag.Var(&locations, "m", "List of number of locations")
	name = flag.String("name", "zarychta", "Name for the instance")
	output = flag.String("outputDir", ".", "Output directory")
	count = flag.Int("count", 1, "Number of instances per combination")
	fMax = flag.Int("fMax", 500, "The highest weekly forecast per location")
	capStart = flag.Int("capStart", 50, "The lowest max capacity per carrier")
	capEnd = flag.Int("capEnd", 500, "The highest added value for max capacity (actual max value is start+end-1)")
	excessEnd = flag.Int("excessEnd", 100, "The highest excess capacity per carrier")
	elig = flag.Float64("elig", 0.8, "Probability that a carrier is eligible for a location")

	flag.Parse()

	for l := 0; l < *count; l++ {
		rand.Seed(time.Now().UnixNano())
		for i := 0; i < len(carriers); i++ {
			n := carriers[i]
			for j := 0; j < len(locations); j++ {
				m := locations[j]

				cargoArray := make([]cargoalloc.Cargo, n)
				for c := 0; c < n; c++ {
					maxCap := *capStart + rand.Intn(*capEnd)
					minCap := rand.Intn(maxCap + 1)
					regular := float64(1 + rand.Intn(9))
					excess := regular + float64(1+rand.Intn(10))
					demurrage := float64(20 + rand.Intn(80))
					rate := math.Round((0.5+rand.Float64()*0.5)*100) / 100
					cargoArray[c] = cargoalloc.Cargo{
						ID:             fmt.Sprintf("C%d", c),
						MinCapacity:    minCap,
						MaxCapacity:    maxCap,
						ExcessCapacity: rand.Intn(*excessEnd + 1),
						RegularCost:    regular,
						ExcessCost:     excess,
						DemurrageCost:  demurrage,
						CoverageRate:   rate,
					}
				}

				locationArray := make([]cargoalloc.Location, m)
				for k := 0; k < m; k++ {
					eligible := make([]string, 0, n)
					for c := 0; c < n; c++ {
						if rand.Float64() < *elig {
							eligible = append(eligible, cargoArray[c].ID)
						}
					}
					if len(eligible) == 0 {
						eligible = append(eligible, cargoArray[rand.Intn(n)].ID)
					}
					locationArray[k] = cargoalloc.Location{
						ID:       fmt.Sprintf("L%d", k),
						Forecast: rand.Intn(*fMax + 1),
						Eligible: eligible,
					}
				}

				comment := fmt.Sprintf("%s instance Nr. %d with %d carriers, %d locations and eligibility density %.2f", *name, l, n, m, *elig)
				instName := fmt.Sprintf("%s_%d_%d_%d", *name, n, m, l)
				inst := cargoalloc.CargoInstance{Name: instName, Comment: comment, Type: "cargoAlloc", Cargos: cargoArray, Locations: locationArray}

				jsonInst, err := json.MarshalIndent(inst, "", "\t")
				if err != nil {
					log.Fatal(err)
				}

				jsonInst = []byte(cargoalloc.SanitizeJsonArrayLineBreaks(string(jsonInst)))
				err = ioutil.WriteFile(fmt.Sprintf("%s/%s.json", *output, instName), jsonInst, 0644)
				if err != nil {
					log.Fatal(err)
				}
			}
		}
	}
}
