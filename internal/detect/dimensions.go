package detect

// computeModuleWidth estimates the pixel size of one module from the start
// and stop guard patterns. The left outer-to-inner distances span 17 modules
// and the right ones span 18; the two estimates are averaged.
func computeModuleWidth(v *VertexSet) float64 {
	pixels1 := Distance(v.at(vxOuterTopLeft), v.at(vxInnerTopLeft))
	pixels2 := Distance(v.at(vxOuterBottomLeft), v.at(vxInnerBottomLeft))
	moduleWidth1 := (pixels1 + pixels2) / (startPatternLen * 2.0)
	pixels3 := Distance(v.at(vxInnerTopRight), v.at(vxOuterTopRight))
	pixels4 := Distance(v.at(vxInnerBottomRight), v.at(vxOuterBottomRight))
	moduleWidth2 := (pixels3 + pixels4) / (stopPatternLen * 2.0)
	return (moduleWidth1 + moduleWidth2) / 2.0
}

// computeDimension derives the number of modules in a row from the codeword
// area corners and module width. PDF417 row widths are multiples of 17
// modules, so the averaged estimate is snapped to the nearest multiple.
func computeDimension(topLeft, topRight, bottomLeft, bottomRight Point, moduleWidth float64) int {
	topRowDimension := roundHalfUp(Distance(topLeft, topRight) / moduleWidth)
	bottomRowDimension := roundHalfUp(Distance(bottomLeft, bottomRight) / moduleWidth)
	return ((((topRowDimension + bottomRowDimension) >> 1) + 8) / 17) * 17
}

// computeYDimension derives the number of modules in a column from the
// codeword area corners and module width.
func computeYDimension(topLeft, topRight, bottomLeft, bottomRight Point, moduleWidth float64) int {
	leftColumnDimension := roundHalfUp(Distance(topLeft, bottomLeft) / moduleWidth)
	rightColumnDimension := roundHalfUp(Distance(topRight, bottomRight) / moduleWidth)
	return (leftColumnDimension + rightColumnDimension) >> 1
}
