package imagegen

import "strings"

// InstructionInput carries the user-facing fields an instruction is composed
// from.
type InstructionInput struct {
	ProductName   string
	Prompt        string
	Adjectives    string
	Color         string
	HasReferences bool
}

const qualityDirectives = `. The design should be:
- Fashion-forward and trendy
- Suitable for modern clothing production
- Clean and professional presentation
- High-resolution with clear details
- Front view of the garment
- White background for clean presentation
- Realistic fabric textures and materials
- Professional fashion photography style`

const referenceDirective = ". Use the provided reference images as inspiration for style, pattern, or design elements."

// BuildInstruction composes the generation instruction. Clause order is fixed;
// empty optional fields omit their clause. The function is pure and
// deterministic.
func BuildInstruction(in InstructionInput) string {
	var b strings.Builder
	b.WriteString("Create a high-quality, professional fashion design for a ")
	b.WriteString(strings.TrimSpace(in.ProductName))
	if prompt := strings.TrimSpace(in.Prompt); prompt != "" {
		b.WriteString(" with the following description: ")
		b.WriteString(prompt)
	}
	if adjectives := strings.TrimSpace(in.Adjectives); adjectives != "" {
		b.WriteString(". Style: ")
		b.WriteString(adjectives)
	}
	if color := strings.TrimSpace(in.Color); color != "" {
		b.WriteString(". Color scheme: ")
		b.WriteString(color)
	}
	b.WriteString(qualityDirectives)
	if in.HasReferences {
		b.WriteString(referenceDirective)
	}
	return b.String()
}
