package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/extraction.txt
	extractionRaw string

	//go:embed template/verification.txt
	verificationRaw string

	//go:embed template/supervisor.txt
	supervisorRaw string

	//go:embed template/music.txt
	musicRaw string

	//go:embed template/invoice.txt
	invoiceRaw string

	//go:embed template/memory.txt
	memoryRaw string
)

// Set holds the loaded prompt texts. Extraction, Verification,
// Supervisor, and Invoice are complete prompts; the music and memory
// prompts carry placeholders and are rendered via the helpers below.
type Set struct {
	Extraction   string
	Verification string
	Supervisor   string
	Invoice      string

	musicTemplate  string
	memoryTemplate string
}

// Load returns the embedded prompt set. Safe to call concurrently; the
// embed is compile-time and trimming is cheap.
func Load() Set {
	return Set{
		Extraction:     strings.TrimSpace(extractionRaw),
		Verification:   strings.TrimSpace(verificationRaw),
		Supervisor:     strings.TrimSpace(supervisorRaw),
		Invoice:        strings.TrimSpace(invoiceRaw),
		musicTemplate:  strings.TrimSpace(musicRaw),
		memoryTemplate: strings.TrimSpace(memoryRaw),
	}
}

// Music renders the music specialist prompt with the customer's loaded
// preference memory.
func (s Set) Music(memory string) string {
	if strings.TrimSpace(memory) == "" {
		memory = "None"
	}
	return strings.ReplaceAll(s.musicTemplate, "{memory}", memory)
}

// Memory renders the end-of-turn merge prompt with the conversation
// excerpt and the formatted existing profile.
func (s Set) Memory(conversation, memoryProfile string) string {
	if strings.TrimSpace(memoryProfile) == "" {
		memoryProfile = "Empty, no existing profile"
	}
	return strings.NewReplacer(
		"{conversation}", conversation,
		"{memory_profile}", memoryProfile,
	).Replace(s.memoryTemplate)
}
