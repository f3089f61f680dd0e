package formulas

// Single-expression financial ratio calculators. Each returns nil when
// the denominator makes the ratio undefined.

// ROI calculates return on investment: (gain - cost) / cost
func ROI(gain, cost float64) *float64 {
	if cost == 0 {
		return nil
	}
	r := (gain - cost) / cost
	return &r
}

// CurrentRatio calculates current assets / current liabilities
func CurrentRatio(currentAssets, currentLiabilities float64) *float64 {
	if currentLiabilities == 0 {
		return nil
	}
	r := currentAssets / currentLiabilities
	return &r
}

// QuickRatio calculates (current assets - inventory) / current liabilities
func QuickRatio(currentAssets, inventory, currentLiabilities float64) *float64 {
	if currentLiabilities == 0 {
		return nil
	}
	r := (currentAssets - inventory) / currentLiabilities
	return &r
}

// DebtToEquity calculates total liabilities / shareholder equity
func DebtToEquity(totalLiabilities, shareholderEquity float64) *float64 {
	if shareholderEquity == 0 {
		return nil
	}
	r := totalLiabilities / shareholderEquity
	return &r
}

// GrossMargin calculates (revenue - cost of goods sold) / revenue
func GrossMargin(revenue, costOfGoodsSold float64) *float64 {
	if revenue == 0 {
		return nil
	}
	r := (revenue - costOfGoodsSold) / revenue
	return &r
}
