package util

func NewSet() map[string]bool {
	return make(map[string]bool)
}

func ToSet(str []string) map[string]bool {
	set := NewSet()
	AddToSet(set, str...)
	return set
}

func AddToSet(set map[string]bool, values ...string) {
	for _, key := range values {
		set[key] = true
	}
}

// Missing returns the values of first that are not contained in second.
func Missing(first, second map[string]bool) map[string]bool {
	set := NewSet()
	for k := range first {
		if !second[k] {
			set[k] = true
		}
	}
	return set
}
