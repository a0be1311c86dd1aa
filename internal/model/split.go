package model

import "math/rand"

// Split shuffles the dataset with the given seed and cuts it at ratio. The
// same seed and input always produce the same partition. When both sides
// would be non-empty anyway, each side keeps at least one row.
func Split(ds *Dataset, ratio float64, seed int64) (train, test *Dataset) {
	n := len(ds.X)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	cut := int(float64(n) * ratio)
	if n > 1 {
		if cut == n {
			cut = n - 1
		}
		if cut == 0 {
			cut = 1
		}
	}

	train = &Dataset{Features: ds.Features}
	test = &Dataset{Features: ds.Features}
	for i, j := range idx {
		if i < cut {
			train.X = append(train.X, ds.X[j])
			train.Y = append(train.Y, ds.Y[j])
		} else {
			test.X = append(test.X, ds.X[j])
			test.Y = append(test.Y, ds.Y[j])
		}
	}
	return train, test
}
