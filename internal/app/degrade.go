package app

// DegradeHook is told about every non-essential step that fell back to a default.
// Steps: photos, classify, keywords, paraphrase.
type DegradeHook func(step string)

func (h DegradeHook) note(step string) {
	if h != nil {
		h(step)
	}
}
