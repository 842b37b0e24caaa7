package dataset

// Sample returns the built-in 5-account demo portfolio used by the
// sample command. Total derived balance is 12985.00:
// 5000*0.40 + 6000*0.50 + 7000*0.30 + 5500*0.45 + 6200*0.55.
func Sample() Dataset {
	incomes := []string{"5000", "6000", "7000", "5500", "6200"}
	utils := []string{"0.40", "0.50", "0.30", "0.45", "0.55"}
	dpds := []string{"0", "10", "0", "0", "5"}

	ds := Dataset{Columns: []string{ColMonthlyIncome, ColRevolvingUtil, ColDPD3059}}
	for i := range incomes {
		ds.Rows = append(ds.Rows, Row{
			ColMonthlyIncome: incomes[i],
			ColRevolvingUtil: utils[i],
			ColDPD3059:       dpds[i],
		})
	}
	return ds
}
