package workflow

import (
	"strings"

	"github.com/SankarSubbayya/Finnie/pkg/store"
)

// Format appends the compliance disclaimers and risk warnings to the
// sanitized response. The layout is fixed: a horizontal rule, then the
// disclaimer block, then the warning block, each as a bulleted list.
func Format(response string, c store.Compliance) string {
	var b strings.Builder
	b.WriteString(response)

	if len(c.Disclaimers) > 0 {
		b.WriteString("\n\n---\n")
		b.WriteString("**Important Disclaimers:**\n")
		for _, disclaimer := range c.Disclaimers {
			b.WriteString("• ")
			b.WriteString(disclaimer)
			b.WriteString("\n")
		}
	}

	if len(c.RiskWarnings) > 0 {
		b.WriteString("\n**Risk Warnings:**\n")
		for _, warning := range c.RiskWarnings {
			b.WriteString("• ")
			b.WriteString(warning)
			b.WriteString("\n")
		}
	}

	return b.String()
}
