package tsm

// extractTargetBlock materializes the geometric target block: olaWindowSize
// frames starting at targetBlockIndex, zero-prepended as needed.
func (e *Engine) extractTargetBlock() {
	e.input.PeekZeroPrepend(e.targetBlock, e.targetBlockIndex, e.olaWindowSize)
}

// extractSearchBlock materializes the search span: searchBlockSize frames
// starting at searchBlockIndex, zero-prepended as needed.
func (e *Engine) extractSearchBlock() {
	e.input.PeekZeroPrepend(e.searchBlock, e.searchBlockIndex, e.searchBlockSize)
}

// candidateBlock copies the olaWindowSize-frame sub-block of the already
// extracted search block beginning at offset j into dst.
func (e *Engine) candidateBlock(j int, dst [][]float64) {
	for c := range dst {
		copy(dst[c], e.searchBlock[c][j:j+e.olaWindowSize])
	}
}
