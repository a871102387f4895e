package gqlcost

// ComplexityRange provides valid complexity min and max values.
// The zero value means no range.
type ComplexityRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

func (r ComplexityRange) isZero() bool {
	return r.Min == 0 && r.Max == 0
}

func (r ComplexityRange) outside(v int) bool {
	if r.isZero() {
		return false
	}
	return v < r.Min || v > r.Max
}
