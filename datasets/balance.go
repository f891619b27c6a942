package datasets

// ValidationDivisor sets the share of each class moved to validation (1/5)
const ValidationDivisor = 5

// BalancedSplit carves a stratified validation split out of training labels.
//
// Row indices are grouped by label in order of first occurrence. For each group of
// count rows the first count/ValidationDivisor indices, in file order, go to validation.
// Validation is the concatenation of these per class slices; train keeps every other
// index in original order. Classes with fewer than ValidationDivisor rows stay in train.
func BalancedSplit(labels []string) (train, validation []int) {
	var order []string
	groups := make(map[string][]int)
	for i, label := range labels {
		if _, ok := groups[label]; !ok {
			order = append(order, label)
		}
		groups[label] = append(groups[label], i)
	}

	selected := make([]bool, len(labels))
	validation = make([]int, 0, len(labels)/ValidationDivisor)
	for _, label := range order {
		group := groups[label]
		n := len(group) / ValidationDivisor
		for _, i := range group[:n] {
			selected[i] = true
		}
		validation = append(validation, group[:n]...)
	}

	train = make([]int, 0, len(labels)-len(validation))
	for i := range labels {
		if !selected[i] {
			train = append(train, i)
		}
	}
	return
}
