/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/notargets/goamr/InputParameters"
	"github.com/notargets/goamr/bvals"
	"github.com/notargets/goamr/mesh"
	"github.com/notargets/goamr/transport"
)

type ModelExchange struct {
	ICFile  string
	Profile bool
	Cycles  int
	Ranks   int
}

// ExchangeCmd represents the exchange command
var ExchangeCmd = &cobra.Command{
	Use:   "exchange",
	Short: "Run flux-correction exchange cycles on a synthetic two-level mesh",
	Long: `
Builds a synthetic mesh of fine/coarse block pairs, distributes the blocks
over in-process ranks, and runs repeated flux-correction exchange phases,
validating conservation at every fine/coarse interface.`,
	Run: func(cmd *cobra.Command, args []string) {
		me := &ModelExchange{}
		me.ICFile, _ = cmd.Flags().GetString("inputParametersFile")
		me.Profile, _ = cmd.Flags().GetBool("profile")
		me.Cycles, _ = cmd.Flags().GetInt("cycles")
		me.Ranks, _ = cmd.Flags().GetInt("ranks")
		ep := processExchangeInput(me)
		RunExchange(me, ep)
	},
}

func init() {
	rootCmd.AddCommand(ExchangeCmd)
	ExchangeCmd.Flags().StringP("inputParametersFile", "I", "", "YAML input parameters file")
	ExchangeCmd.Flags().Bool("profile", false, "write a CPU profile to the current directory")
	ExchangeCmd.Flags().IntP("cycles", "c", 0, "override the number of exchange cycles")
	ExchangeCmd.Flags().IntP("ranks", "r", 0, "override the number of in-process ranks")
}

func processExchangeInput(me *ModelExchange) (ep *InputParameters.ExchangeParameters) {
	ep = InputParameters.DefaultExchangeParameters()
	if len(me.ICFile) != 0 {
		data, err := ioutil.ReadFile(me.ICFile)
		if err != nil {
			fmt.Printf("error reading input parameters file: %s\n", err.Error())
			os.Exit(1)
		}
		if err = ep.Parse(data); err != nil {
			fmt.Printf("error parsing input parameters file: %s\n", err.Error())
			os.Exit(1)
		}
	}
	if me.Cycles != 0 {
		ep.Cycles = me.Cycles
	}
	if me.Ranks != 0 {
		ep.NRanks = me.Ranks
	}
	if err := ep.Validate(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	return
}

func RunExchange(me *ModelExchange, ep *InputParameters.ExchangeParameters) {
	if me.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	ep.Print()

	var (
		testFlux   = 2.5 // constant fine flux; restriction must reproduce it exactly
		x          = mesh.NewIndcs(ep.Nx1, ep.Nx2, ep.Nx3, ep.NGhost)
		packs      = mesh.BuildRefinedPairs(ep.NPairs, x, ep.NRanks)
		cluster    = transport.NewCluster(ep.NRanks)
		wg         = sync.WaitGroup{}
		mu         sync.Mutex
		cycleTimes []float64
		nChecked   int
		nWrong     int
		failed     bool
	)
	for r := 0; r < ep.NRanks; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			var (
				bp  = packs[r]
				cfg = bvals.Config{Rank: r, NRanks: ep.NRanks}
				bv  = bvals.NewBoundaryValuesFC(cfg, bp, cluster.Endpoint(r))
				flx = mesh.NewEdgeField(bp.Nmb, x)
			)
			flx.X1E.Fill(testFlux)
			flx.X2E.Fill(testFlux)
			flx.X3E.Fill(testFlux)

			times := make([]float64, 0, ep.Cycles)
			for cycle := 0; cycle < ep.Cycles; cycle++ {
				start := time.Now()
				if bv.BeginExchange(flx) == bvals.TaskFail {
					mu.Lock()
					failed = true
					mu.Unlock()
					return
				}
				for bv.TryComplete(flx) == bvals.TaskIncomplete {
					runtime.Gosched() // cooperative re-poll, no blocking
				}
				times = append(times, time.Since(start).Seconds())
			}

			checked, wrong := validateInterfaces(bp, flx, x, testFlux)
			mu.Lock()
			cycleTimes = append(cycleTimes, times...)
			nChecked += checked
			nWrong += wrong
			mu.Unlock()
		}(r)
	}
	wg.Wait()

	if failed {
		fmt.Println("exchange failed: transport error")
		os.Exit(1)
	}
	fmt.Printf("interface values checked: %d, mismatched: %d\n", nChecked, nWrong)
	fmt.Printf("cycle time: mean %.3gs, sigma %.3gs over %d cycles\n",
		stat.Mean(cycleTimes, nil), stat.StdDev(cycleTimes, nil), len(cycleTimes))
	if nWrong != 0 {
		os.Exit(1)
	}
}

// validateInterfaces checks that every coarse-side interface sample equals the
// restriction of the constant fine flux, which for a constant field is the
// constant itself.
func validateInterfaces(bp *mesh.BlockPack, flx mesh.EdgeField, x mesh.Indcs, want float64) (checked, wrong int) {
	for m := 0; m < bp.Nmb; m++ {
		for n := 0; n < mesh.MaxNeighbors; n++ {
			nb := bp.Nghbr[m][n]
			if !nb.Exists() || nb.Lev <= bp.Levels[m] {
				continue
			}
			d := bvals.Classify(n)
			if d.Inert() {
				continue
			}
			ranges := d.RecvRanges(x)
			for v := 0; v < 3; v++ {
				r := ranges[v]
				if r.Size() == 0 {
					continue
				}
				var (
					f    = flx.Component(v)
					vals = make([]float64, 0, r.Size())
				)
				for k := r.Ks; k <= r.Ke; k++ {
					for j := r.Js; j <= r.Je; j++ {
						for i := r.Is; i <= r.Ie; i++ {
							vals = append(vals, f.At(m, k, j, i))
						}
					}
				}
				checked += len(vals)
				if math.Abs(floats.Sum(vals)-want*float64(len(vals))) > 1.e-12*float64(len(vals)) {
					wrong += len(vals)
				}
			}
		}
	}
	return
}
