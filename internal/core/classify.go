package core

// Classification splits a dataset's column names by kind. Both lists keep
// the dataset's column order.
type Classification struct {
	Categorical []string `json:"categorical"`
	Numeric     []string `json:"numeric"`
}

// Classify partitions the columns of ds using the kind assigned at ingestion.
// Every column lands in exactly one list.
func Classify(ds *Dataset) Classification {
	cls := Classification{Categorical: []string{}, Numeric: []string{}}
	if ds == nil {
		return cls
	}
	for _, c := range ds.Columns {
		if c.Kind == KindNumeric {
			cls.Numeric = append(cls.Numeric, c.Name)
		} else {
			cls.Categorical = append(cls.Categorical, c.Name)
		}
	}
	return cls
}
