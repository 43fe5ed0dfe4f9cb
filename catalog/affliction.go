package catalog

// Embed accent colors per danger tier.
const (
	ColorLowDanger    = 0x2ecc71 // green
	ColorMediumDanger = 0xe67e22 // orange
	ColorHighDanger   = 0xe74c3c // red
)

// Affliction is a single tabletop hazard card. Weight biases random
// selection, danger (1-5) drives sort order and display color.
type Affliction struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Details     map[string]string `json:"details,omitempty"`
	Weight      int               `json:"weight"`
	Danger      int               `json:"danger"`
}

// ColorForDanger maps a danger level to its embed accent color. Levels at or
// below 2 are the low tier, at or below 4 the medium tier, everything above
// the high tier.
func ColorForDanger(danger int) int {
	switch {
	case danger <= 2:
		return ColorLowDanger
	case danger <= 4:
		return ColorMediumDanger
	default:
		return ColorHighDanger
	}
}
