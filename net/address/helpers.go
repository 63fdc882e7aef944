package address

import "sort"

// SortSubnets orders subnets by base address, larger blocks first.
func SortSubnets(s []Subnet) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Base != s[j].Base {
			return s[i].Base < s[j].Base
		}
		return s[i].Mask < s[j].Mask
	})
}

// RemoveCommon filters out subnets which are contained in both a and b slices.
// Both slices have to be sorted with SortSubnets.
func RemoveCommon(a, b []Subnet) (newA, newB []Subnet) {
	i, j := 0, 0

	for i < len(a) && j < len(b) {
		switch {
		case a[i].Base < b[j].Base || (a[i].Base == b[j].Base && a[i].Mask < b[j].Mask):
			newA = append(newA, a[i])
			i++
		case a[i].Base > b[j].Base || a[i].Mask > b[j].Mask:
			newB = append(newB, b[j])
			j++
		default:
			i++
			j++
		}

	}
	newA = append(newA, a[i:]...)
	newB = append(newB, b[j:]...)

	return
}
