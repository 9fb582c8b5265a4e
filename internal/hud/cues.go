package hud

import (
	"strings"

	"github.com/KirkDiggler/rpg-skirmish/internal/timeline"
)

// Cue names a presentation effect triggered by a step
type Cue string

// Cues
const (
	CueCameraImpact Cue = "camera:impact"
	CueCameraParry  Cue = "camera:parry"
	CueSFXHit       Cue = "sfx:hit"
	CueSFXParry     Cue = "sfx:parry"
	CueSFXDefend    Cue = "sfx:defend"
)

// Cues returns the cues to fire when a step with label starts
func Cues(label string) []Cue {
	var cues []Cue

	switch {
	case label == timeline.LabelImpact:
		cues = append(cues, CueCameraImpact)
	case label == timeline.LabelFlash, strings.HasPrefix(label, timeline.ParryPrefix):
		cues = append(cues, CueCameraParry)
	}

	switch label {
	case timeline.LabelImpact:
		cues = append(cues, CueSFXHit)
	case timeline.LabelParrySFX:
		cues = append(cues, CueSFXParry)
	case timeline.LabelPose:
		cues = append(cues, CueSFXDefend)
	}

	return cues
}
