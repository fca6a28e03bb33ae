package finance

import "sort"

// joinByYear intersects the annual returns with a year-keyed reference and returns the
// shared years in ascending order together with the aligned values of both sides.
func joinByYear(annual []YearReturn, ref map[int]float64) (years []int, own, other []float64) {
	mp := make(map[int]float64, len(annual))
	for _, a := range annual {
		mp[a.Year] = a.Return
	}
	for y := range mp {
		if _, ok := ref[y]; ok {
			years = append(years, y)
		}
	}
	sort.Ints(years)

	own = make([]float64, 0, len(years))
	other = make([]float64, 0, len(years))
	for _, y := range years {
		own = append(own, mp[y])
		other = append(other, ref[y])
	}
	return years, own, other
}
