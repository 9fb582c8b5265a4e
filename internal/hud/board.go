// Package hud renders encounter state as text and maps sequencer steps onto
// presentation cues.
package hud

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-skirmish/internal/entities/combat"
)

// Board renders one line per actor in turn order
func Board(board []combat.ActorStatus) string {
	var sb strings.Builder
	sb.WriteString("=== BOARD ===\n")
	for _, a := range board {
		side := "E"
		if a.Team == combat.TeamPlayer.String() {
			side = "P"
		}

		life := "DEAD"
		if a.HP > 0 {
			life = fmt.Sprintf("%d/%d", a.HP, a.MaxHP)
		}

		fmt.Fprintf(&sb, "%s | %-12s | %-7s", side, a.Name, life)
		if a.MaxCharges > 0 {
			fmt.Fprintf(&sb, " | %s", chargeBar(a.Charges, a.MaxCharges))
		}
		if a.Defending && a.HP > 0 {
			sb.WriteString(" | DEF")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("=============")
	return sb.String()
}

func chargeBar(n, maxCharges int) string {
	return strings.Repeat("#", n) + strings.Repeat(".", maxCharges-n)
}
