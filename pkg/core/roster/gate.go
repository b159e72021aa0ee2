package roster

import "github.com/jakechorley/gateway-to-service/pkg/core/model"

// CanFinalize reports whether the week has enough confirmations to be locked
func CanFinalize(w *model.Week, minConfirmed int) bool {
	return w != nil && w.CountByStatus(model.StatusConfirmed) >= minConfirmed
}

// StillNeeded is how many more confirmations the week needs before it can be finalized
func StillNeeded(w *model.Week, minConfirmed int) int {
	if w == nil {
		return minConfirmed
	}
	return max(0, minConfirmed-w.CountByStatus(model.StatusConfirmed))
}

// unfinalize clears the lock. Every edit to a week goes through here.
func unfinalize(w *model.Week) {
	w.Finalized = false
}
