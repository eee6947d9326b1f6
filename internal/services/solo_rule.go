package services

// SoloAdmissible is the single solo-minimum predicate. It is evaluated
// informationally when listing slots and authoritatively when creating a
// quote; both paths must share this formula.
func SoloAdmissible(requiresSoloMinUnits bool, soloMinUnits, cartUnitTotal int) bool {
	if !requiresSoloMinUnits {
		return true
	}
	return cartUnitTotal >= soloMinUnits
}
