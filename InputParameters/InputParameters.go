package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type ExchangeParameters struct {
	Title  string `yaml:"Title"`
	Nx1    int    `yaml:"Nx1"` // interior cells per block, x1
	Nx2    int    `yaml:"Nx2"`
	Nx3    int    `yaml:"Nx3"`
	NGhost int    `yaml:"NGhost"`
	NPairs int    `yaml:"NPairs"` // fine/coarse block pairs in the synthetic mesh
	NRanks int    `yaml:"NRanks"` // in-process ranks
	Cycles int    `yaml:"Cycles"` // exchange phases to run
}

// DefaultExchangeParameters fills in a small 3D two-rank case.
func DefaultExchangeParameters() *ExchangeParameters {
	return &ExchangeParameters{
		Title:  "flux correction exchange",
		Nx1:    8,
		Nx2:    8,
		Nx3:    8,
		NGhost: 2,
		NPairs: 8,
		NRanks: 2,
		Cycles: 10,
	}
}

func (ep *ExchangeParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ep)
}

func (ep *ExchangeParameters) Validate() error {
	if ep.Nx1 < 2 || ep.Nx1%2 != 0 {
		return fmt.Errorf("Nx1 = %d must be even and at least 2", ep.Nx1)
	}
	if (ep.Nx2 > 1 && ep.Nx2%2 != 0) || (ep.Nx3 > 1 && ep.Nx3%2 != 0) {
		return fmt.Errorf("active Nx2/Nx3 must be even, got %d/%d", ep.Nx2, ep.Nx3)
	}
	if ep.Nx3 > 1 && ep.Nx2 == 1 {
		return fmt.Errorf("Nx3 > 1 requires Nx2 > 1")
	}
	if ep.NPairs < 1 {
		return fmt.Errorf("NPairs = %d must be positive", ep.NPairs)
	}
	if ep.NRanks < 1 || ep.NRanks > 2*ep.NPairs {
		return fmt.Errorf("NRanks = %d must be in [1,%d]", ep.NRanks, 2*ep.NPairs)
	}
	if ep.Cycles < 1 {
		return fmt.Errorf("Cycles = %d must be positive", ep.Cycles)
	}
	return nil
}

func (ep *ExchangeParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ep.Title)
	fmt.Printf("[%d %d %d]\t\t= Cells per block\n", ep.Nx1, ep.Nx2, ep.Nx3)
	fmt.Printf("[%d]\t\t\t= Ghost cells\n", ep.NGhost)
	fmt.Printf("[%d]\t\t\t= Fine/coarse block pairs\n", ep.NPairs)
	fmt.Printf("[%d]\t\t\t= Ranks\n", ep.NRanks)
	fmt.Printf("[%d]\t\t\t= Exchange cycles\n", ep.Cycles)
}
