package gqlcost

import "strings"

// getMultipliers resolves multiplier names against field arguments. Names
// which resolve to zero or to a non numeric value are dropped.
func getMultipliers(multipliers []string, fieldArgs map[string]interface{}, defaults map[string]int) []int {
	muls := make([]int, 0, len(multipliers))
	for _, name := range multipliers {
		v, ok := lookupArgument(fieldArgs, name)
		if !ok {
			if d, ok := defaults[name]; ok && d != 0 {
				muls = append(muls, d)
			}
			continue
		}
		if n, ok := toNumber(v); ok {
			muls = append(muls, n)
		}
	}
	return muls
}

// lookupArgument finds a value by a dotted path like "filter.first".
// A null value is reported as missing.
func lookupArgument(fieldArgs map[string]interface{}, path string) (interface{}, bool) {
	if v, ok := fieldArgs[path]; ok || !strings.Contains(path, ".") {
		return v, ok && v != nil
	}
	var curr interface{} = fieldArgs
	for _, key := range strings.Split(path, ".") {
		m, ok := curr.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if curr, ok = m[key]; !ok {
			return nil, false
		}
	}
	return curr, curr != nil
}
