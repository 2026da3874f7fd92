package engine

// AdviseFertilizer returns the fertilizer formulation for a crop at a growth
// stage. Matching is exact after lower-casing and trimming; anything else
// gets the generic balanced NPK advice.
func (e *Engine) AdviseFertilizer(cropType, growthStage string) string {
	advice, _ := e.tables.Fertilizer(cropType, growthStage)
	return advice
}
