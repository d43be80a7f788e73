package nextver

// CheckThreshold reports whether level meets the optional minimum check.
// A nil check always passes.
func CheckThreshold(level Level, check *Level) bool {
	return check == nil || level >= *check
}
