package utils

import "fmt"

// Field4D is a flat, (m,k,j,i)-strided float64 array used for one component
// of an edge-centered field over all blocks in a pack. The m index selects
// the block, (k,j,i) address the block's cells/faces with i fastest.
type Field4D struct {
	Nmb, Nk, Nj, Ni int
	DataP           []float64
}

func NewField4D(nmb, nk, nj, ni int) Field4D {
	return Field4D{
		Nmb:   nmb,
		Nk:    nk,
		Nj:    nj,
		Ni:    ni,
		DataP: make([]float64, nmb*nk*nj*ni),
	}
}

func (f Field4D) Index(m, k, j, i int) int {
	return i + f.Ni*(j+f.Nj*(k+f.Nk*m))
}

func (f Field4D) At(m, k, j, i int) float64 {
	return f.DataP[f.Index(m, k, j, i)]
}

func (f Field4D) Set(m, k, j, i int, val float64) {
	f.DataP[f.Index(m, k, j, i)] = val
}

// Data returns the underlying slice for direct kernel-style access.
func (f Field4D) Data() []float64 {
	return f.DataP
}

// BlockData returns the sub-slice holding block m.
func (f Field4D) BlockData(m int) []float64 {
	var (
		stride = f.Nk * f.Nj * f.Ni
	)
	if m < 0 || m >= f.Nmb {
		panic(fmt.Sprintf("block index %d out of range [0,%d)", m, f.Nmb))
	}
	return f.DataP[m*stride : (m+1)*stride]
}

// Fill sets every entry of the field to val.
func (f Field4D) Fill(val float64) {
	for i := range f.DataP {
		f.DataP[i] = val
	}
}
