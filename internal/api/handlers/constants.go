package handlers

const (
	// Input payloads longer than this are trimmed before the blueprint step
	maxPayloadChars = 15000

	// Response previews
	maxRawErrorChars   = 2000 // raw model output echoed on parse failures
	compiledPromptPrev = 500  // compiled prompt preview on success
)
