package alignment

// AlignBanded is Align restricted to cells within bandwidth of the main
// diagonal. Cells outside the band are unreachable, so a band narrower than
// the optimal path yields a lower score than Align; the band is never
// widened automatically.
//
// Bandwidth must be positive. A bandwidth at least as long as both
// sequences is accepted and gives the unbanded result. ErrInvalidBandwidth
// is also returned when the band cannot contain the end cell the mode
// requires: the bottom-right cell for Global, any last-row cell for
// SemiGlobal.
func AlignBanded(query, target []byte, mode Mode, scheme Scheme, bandwidth int) (*Result, error) {
	if err := checkInputs(query, target, mode, scheme); err != nil {
		return nil, err
	}
	b, err := newBand(len(query), len(target), bandwidth, mode)
	if err != nil {
		return nil, err
	}
	return newKernel(query, target, mode, scheme, b, true).run(), nil
}

// ScoreOnlyBanded returns the AlignBanded score using O(bandwidth) memory.
func ScoreOnlyBanded(query, target []byte, mode Mode, scheme Scheme, bandwidth int) (int, error) {
	if err := checkInputs(query, target, mode, scheme); err != nil {
		return 0, err
	}
	b, err := newBand(len(query), len(target), bandwidth, mode)
	if err != nil {
		return 0, err
	}
	score, _, _ := newKernel(query, target, mode, scheme, b, false).fill()
	return score, nil
}
