package ai

// Mode selects one of the fixed analyst sampling presets.
type Mode string

const (
	ModeJunior Mode = "junior"
	ModeSenior Mode = "senior"
	ModeExpert Mode = "expert"
)

// DefaultMode when no preset is chosen.
const DefaultMode = ModeSenior

// Settings is the sampling configuration a mode pins. Seed is fixed so
// reruns in the same mode are reproducible.
type Settings struct {
	Temperature     float32
	TopK            int32
	TopP            float32
	Seed            int32
	MaxOutputTokens int32
}

// ModeSettings maps a mode to its sampling preset. Unknown modes fall
// back to senior.
func ModeSettings(mode Mode) Settings {
	switch mode {
	case ModeJunior:
		// Rule-based, consistent, follows established patterns
		return Settings{Temperature: 0, TopK: 1, TopP: 0, Seed: 42, MaxOutputTokens: 65536}
	case ModeSenior:
		// Experienced, nuanced reasoning, balanced approach
		return Settings{Temperature: 0.1, TopK: 3, TopP: 0.1, Seed: 42, MaxOutputTokens: 65536}
	case ModeExpert:
		// Sophisticated pattern recognition, creative threat detection
		return Settings{Temperature: 0.2, TopK: 5, TopP: 0.2, Seed: 42, MaxOutputTokens: 65536}
	default:
		return ModeSettings(ModeSenior)
	}
}

// ModeDescription is the human-readable blurb logged at startup.
func ModeDescription(mode Mode) string {
	switch mode {
	case ModeJunior:
		return "Entry-level analyst - Follows established patterns, consistent threat detection"
	case ModeSenior:
		return "Experienced analyst - Balanced expertise with nuanced reasoning"
	case ModeExpert:
		return "Specialist - Advanced pattern recognition and novel threat detection"
	default:
		return "Unknown analyst level"
	}
}

// ValidMode reports whether mode names one of the fixed presets.
func ValidMode(mode Mode) bool {
	switch mode {
	case ModeJunior, ModeSenior, ModeExpert:
		return true
	}
	return false
}
