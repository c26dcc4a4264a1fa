package content

// Tone constrains the voice of generated copy.
type Tone string

// The supported tones.
const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneBold         Tone = "bold"
	TonePlayful      Tone = "playful"
	ToneMinimal      Tone = "minimal"
)

// BusinessContext is the caller-supplied description of the business the
// landing page is for. Name and Overview are required; everything else
// sharpens the prompt and the deterministic filler.
type BusinessContext struct {
	Name           string `json:"name" validate:"required"`
	Overview       string `json:"overview" validate:"required"`
	TargetAudience string `json:"targetAudience,omitempty"`
	Tone           Tone   `json:"tone,omitempty" validate:"omitempty,oneof=professional friendly bold playful minimal"`
	URL            string `json:"url,omitempty" validate:"omitempty,url"`
}

// Audience returns the target audience or a neutral default.
func (b BusinessContext) Audience() string {
	if b.TargetAudience != "" {
		return b.TargetAudience
	}
	return "customers"
}
