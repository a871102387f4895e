package gqlcost

import (
	"math"
	"reflect"
	"strconv"
)

func toNumber(v interface{}) (int, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return 0, false
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return 0, false
		}
		return toNumber(rv.Elem().Interface())
	case reflect.Array, reflect.Slice:
		n := rv.Len()
		if n > 0 {
			return n, true
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := int(rv.Int())
		if n != 0 {
			return n, true
		}
	case reflect.Uint, reflect.Uintptr, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := int(rv.Uint())
		if n > 0 {
			return n, true
		}
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		n := int(f)
		if n != 0 {
			return n, true
		}
	case reflect.String:
		s := rv.String()
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return 0, false
			}
			n = int64(f)
		}
		if n != 0 {
			return int(n), true
		}
	}
	return 0, false
}

func maxCost(costs []int) int {
	n := len(costs)
	switch n {
	case 0:
		return 0
	case 1:
		return costs[0]
	default:
		m := n / 2
		a, b := maxCost(costs[:m]), maxCost(costs[m:])
		if a > b {
			return a
		}
		return b
	}
}

func sumInts(values []int) int {
	var sum int
	for _, v := range values {
		sum = addSaturated(sum, v)
	}
	return sum
}

func copyInts(src []int) []int {
	n := len(src)
	if n == 0 {
		return nil
	}
	dst := make([]int, n)
	copy(dst, src)
	return dst
}

// addSaturated adds two numbers, clamping to the int range instead of
// overflowing.
func addSaturated(a, b int) int {
	c := a + b
	switch {
	case a > 0 && b > 0 && c < 0:
		return math.MaxInt
	case a < 0 && b < 0 && c >= 0:
		return math.MinInt
	}
	return c
}

// mulSaturated multiplies two numbers, clamping to the int range instead
// of overflowing.
func mulSaturated(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		if (a > 0) == (b > 0) {
			return math.MaxInt
		}
		return math.MinInt
	}
	return c
}
