package cargoalloc

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RoundHalfAwayFromZero rounds a raw solver value to the nearest
// integer, with ties going away from zero. Integer variables come back
// from the solver with floating-point noise, so every reported value
// passes through here.
func RoundHalfAwayFromZero(v float64) int {
	if v < 0 {
		return -int(math.Floor(-v + 0.5))
	}
	return int(math.Floor(v + 0.5))
}

// TotalForecast sums the weekly forecast over all locations.
func TotalForecast(locations []Location) int {
	sum := 0
	for _, l := range locations {
		sum += l.Forecast
	}
	return sum
}

func Print2DArray(a [][]int) string {
	res := ""
	for _, x := range a {
		for _, y := range x {
			res += fmt.Sprintf("%d,", y)
		}
		res += fmt.Sprintln("")
	}
	return res
}

func SanitizeJsonArrayLineBreaks(json string) string {
	res := fmt.Sprintf("%s", json)
	var numbers = regexp.MustCompile(`\s*([-]?[0-9]+(\.[0-9]+)?),\s+([-]?[0-9]+(\.[0-9]+)?)(,)?`)
	var brackets = regexp.MustCompile(`\[(([-]?[0-9]+(\.[0-9]+)?,)+[-]?[0-9]+(\.[0-9]+)?)\s+\](,?)(\s+)`)
	for numbers.MatchString(res) {
		res = numbers.ReplaceAllString(res, "$1,$3$5")
	}
	for brackets.MatchString(res) {
		res = brackets.ReplaceAllString(res, "[$1]$5$6")
	}
	return res
}

// ArrayStringFlags collects repeated string flags.
type ArrayStringFlags []string

func (a *ArrayStringFlags) String() string {
	return strings.Join(*a, ",")
}

func (a *ArrayStringFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

// ArrayIntFlags collects repeated integer flags.
type ArrayIntFlags []int

func (a *ArrayIntFlags) String() string {
	parts := make([]string, len(*a))
	for i, v := range *a {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (a *ArrayIntFlags) Set(value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*a = append(*a, v)
	return nil
}
