/*
Package sequence provides number sequence generation for push_swap runs and
normalization of arbitrary integers into a dense rank permutation.
*/
package sequence

import (
	"sort"
	"strconv"
	"strings"
)

// Normalize maps nums to a permutation of 0..len(nums)-1 preserving relative
// order of elements. Equal values get increasing ranks in order of their
// position.
func Normalize(nums []int64) []uint32 {
	idx := make([]int, len(nums))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return nums[idx[i]] < nums[idx[j]]
	})
	res := make([]uint32, len(nums))
	for rank, pos := range idx {
		res[pos] = uint32(rank)
	}
	return res
}

// Disorder returns the share of inverted pairs in s, 0 for fully sorted
// sequences and 1 for reverse sorted ones.
func Disorder(s []uint32) float64 {
	if len(s) < 2 {
		return 0
	}
	var mistakes, total int
	for i := 0; i < len(s)-1; i++ {
		for j := i + 1; j < len(s); j++ {
			total++
			if s[i] > s[j] {
				mistakes++
			}
		}
	}
	return float64(mistakes) / float64(total)
}

// Args converts nums into decimal command line arguments.
func Args(nums []int64) []string {
	args := make([]string, len(nums))
	for i, n := range nums {
		args[i] = strconv.FormatInt(n, 10)
	}
	return args
}

// Join returns nums as a single space-separated line that can be pasted as
// program arguments.
func Join(nums []int64) string {
	return strings.Join(Args(nums), " ")
}

// FromPermutation converts a permutation into a generic number list.
func FromPermutation(p []uint32) []int64 {
	res := make([]int64, len(p))
	for i, v := range p {
		res[i] = int64(v)
	}
	return res
}
