// Package intutils provides utilities for working with ints
package intutils

// Min calculates and returns the minimum integer in a list
func Min(ints ...int) int {
	min := ints[0]
	for _, val := range ints {
		if val < min {
			min = val
		}
	}
	return min
}

// Max calculates and returns the maximum int in a list
func Max(ints ...int) int {
	max := ints[0]
	for _, val := range ints {
		if val > max {
			max = val
		}
	}
	return max
}

// Prod returns the product of a list of ints, which is 1 for an empty
// list. It is mostly used to compute the number of elements in a shape.
func Prod(ints ...int) int {
	prod := 1
	for _, val := range ints {
		prod *= val
	}
	return prod
}
