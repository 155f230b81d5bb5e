package script

import (
	"fmt"
	"strings"

	"podcaster/internal/podcast"
	"podcaster/internal/services"
)

// Prompt is a system/user prompt pair for one generation call.
type Prompt struct {
	System string
	User   string
}

const plainTextRule = "Output ONLY plain text without any markdown, formatting, asterisks, or special characters."

const noMarkdownRule = "Do NOT use any markdown formatting, asterisks, bold text, headers with #, or special characters"

// Validate rejects custom modes without instructions.
func Validate(mode podcast.Mode, instructions string) error {
	if !mode.Valid() {
		return services.Wrap(services.ErrValidation, "script", "validate", fmt.Sprintf("unknown podcast mode %q", mode), nil)
	}
	if mode.IsCustom() && strings.TrimSpace(instructions) == "" {
		return services.Wrap(services.ErrValidation, "script", "validate",
			fmt.Sprintf("custom instructions are required for %s mode", mode), nil)
	}
	return nil
}

// BuildPrompt renders the prompt pair for mode. Instructions are only used by
// the custom modes and are inserted verbatim.
func BuildPrompt(mode podcast.Mode, text, instructions string) Prompt {
	instructions = strings.TrimSpace(instructions)
	switch mode {
	case podcast.ModeNormalOne:
		return Prompt{
			System: "You are an expert podcast host. Create engaging, conversational podcast content with a single narrator that makes complex topics accessible and interesting. Write in a natural speaking style with smooth transitions. " + plainTextRule,
			User: fmt.Sprintf(`Create a single-host podcast episode based on the following text. Write as a solo narrator speaking directly to listeners. %s:

Text to discuss:
%s

Create a complete podcast script with:
- Engaging introduction
- Clear explanation of key concepts
- Conclusion with key takeaways

Keep it conversational and accessible, around 300-500 words for a 3-4 minute podcast.`, noMarkdownRule, text),
		}
	case podcast.ModeCustomOne:
		return Prompt{
			System: "You are an expert podcast host. Create engaging, conversational podcast content with a single narrator. " + plainTextRule + " " + instructions,
			User: fmt.Sprintf(`Create a single-host podcast episode based on the following text. Follow these custom instructions: %s. %s.

Text to discuss:
%s

Create a complete podcast script following the custom instructions provided. Keep it engaging and accessible.`, instructions, noMarkdownRule, text),
		}
	case podcast.ModeCustomTwo:
		return Prompt{
			System: "You are creating a two-host podcast with natural conversation between hosts. " + plainTextRule + " " + instructions,
			User: fmt.Sprintf(`Create a two-host podcast episode based on the following text. Follow these custom instructions: %s. %s.

Text to discuss:
%s

Format as a natural conversation between HOST 1 and HOST 2. Each line should start with "HOST 1:" or "HOST 2:" followed by their dialogue. Follow the custom instructions provided.`, instructions, noMarkdownRule, text),
		}
	default:
		return Prompt{
			System: "You are creating a two-host podcast with natural conversation between hosts. Create engaging dialogue that makes complex topics accessible through discussion between two knowledgeable hosts. " + plainTextRule,
			User: fmt.Sprintf(`Create a two-host podcast episode based on the following text. Format as a natural conversation between HOST 1 and HOST 2. %s:

Text to discuss:
%s

Create a complete podcast script with:
- HOST 1: Welcome and introduction
- Natural back-and-forth discussion between hosts
- HOST 2: Conclusion and wrap-up

Format each line as "HOST 1:" or "HOST 2:" followed by their dialogue. Make it conversational and engaging, around 400-600 words for a 4-5 minute podcast.`, noMarkdownRule, text),
		}
	}
}
