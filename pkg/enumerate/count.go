package enumerate

import "math/big"

// PermutationCount returns the number of distinct order-sensitive
// arrangements that use every unit of the multiset: n! divided by the product
// of the per-kind factorials, where n is the total count. Non-positive counts
// are ignored. An empty multiset yields zero.
func PermutationCount(counts map[string]int) *big.Int {
	total := 0
	active := make([]int, 0, len(counts))
	for _, count := range counts {
		if count > 0 {
			total += count
			active = append(active, count)
		}
	}
	if total == 0 {
		return big.NewInt(0)
	}

	result := new(big.Int).MulRange(1, int64(total))
	for _, count := range active {
		result.Div(result, new(big.Int).MulRange(1, int64(count)))
	}
	return result
}

// ArrangementCount returns the number of distinct order-sensitive
// arrangements of exactly n units drawn from the multiset. A count of
// Unlimited is equivalent to n copies of that kind. Computed exactly with a
// binomial recurrence over kinds, never by enumeration.
func ArrangementCount(counts map[string]int, n int) *big.Int {
	if n < 0 {
		return big.NewInt(0)
	}

	// ways[m] holds the number of length-m arrangements over the kinds
	// processed so far.
	ways := make([]*big.Int, n+1)
	ways[0] = big.NewInt(1)
	for m := 1; m <= n; m++ {
		ways[m] = big.NewInt(0)
	}

	for _, count := range counts {
		if count == 0 {
			continue
		}
		if count == Unlimited || count > n {
			count = n
		}
		if count < 0 {
			continue
		}

		next := make([]*big.Int, n+1)
		for m := 0; m <= n; m++ {
			sum := big.NewInt(0)
			limit := count
			if limit > m {
				limit = m
			}
			for used := 0; used <= limit; used++ {
				// Choose which positions of the m hold this kind.
				term := new(big.Int).Binomial(int64(m), int64(used))
				term.Mul(term, ways[m-used])
				sum.Add(sum, term)
			}
			next[m] = sum
		}
		ways = next
	}

	return ways[n]
}

// TotalCount sums ArrangementCount over every length in [minLength,
// maxLength] inclusive.
func TotalCount(counts map[string]int, minLength, maxLength int) *big.Int {
	total := big.NewInt(0)
	for n := minLength; n <= maxLength; n++ {
		total.Add(total, ArrangementCount(counts, n))
	}
	return total
}
