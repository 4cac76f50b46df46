// Package prompt renders the transcript into the instruction text handed
// to the external chat model. The template is data, not logic: it documents
// the JSON contract the segment normalizer later enforces.
package prompt

import (
	"fmt"
	"os"
	"strings"

	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/domain/transcript"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/types"
	"gopkg.in/yaml.v3"
)

const jsonFormat = `[
    {
        "title": "segment title",
        "start": "HH:MM:SS",
        "end": "HH:MM:SS",
        "impact": integer (1-10),
        "uniqueness": integer (1-10),
        "timeliness": integer (1-10),
        "entertainment": integer (1-10),
        "reason": "why this segment was selected (100-500 characters)"
    }
]`

// defaultTemplate takes two values: the video title and the joined
// transcript text.
const defaultTemplate = `Your answer must be JSON only. Do not include any explanation or extra commentary.

From the subtitle data of the video "%s" below, identify the parts best suited for short shareable clips and output them as JSON.

Scoring criteria:
1. impact (1-10): moments that strongly move the viewer, unexpected turns, statements that leave a lasting impression.
2. uniqueness (1-10): perspectives that differ from common opinion, unusual experiences or interpretations, original ways of explaining.
3. timeliness (1-10): relevance to current trends and news, connection to ongoing public discussion.
4. entertainment (1-10): humor, dramatic development, topics that hold the viewer's attention.

##
%s
##

Output format: JSON only, exactly in the following shape. Do not include any text outside it.
` + jsonFormat + `

Constraints:
1. The output must be valid JSON.
2. Each segment must span at least 30 seconds and at most 10 minutes.
3. Select at most 5 segments.
4. Every score must be an integer from 1 to 10.
5. Segment start and end times must align with the subtitle timing.
6. Do not include explanations or comments outside the JSON.
7. Each reason must be between 100 and 500 characters.
8. Each title must be short and descriptive.

Final note: reply with the JSON above and nothing else.`

// Build renders the default instruction template. Output is deterministic
// for a given transcript and title.
func Build(lines []types.TimedLine, title string) string {
	return BuildWith(defaultTemplate, lines, title)
}

// BuildWith renders a custom template carrying two %s verbs: video title
// first, joined transcript second.
func BuildWith(template string, lines []types.TimedLine, title string) string {
	return fmt.Sprintf(template, title, transcript.Render(lines))
}

// templateFile mirrors the YAML prompt-template shape used by workflow
// tooling: only the prompt body is consumed here.
type templateFile struct {
	Title       string `yaml:"title"`
	Role        string `yaml:"role"`
	Prompt      string `yaml:"prompt"`
	Description string `yaml:"description"`
}

// LoadTemplate reads a YAML prompt-template override from disk.
func LoadTemplate(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt template: %w", err)
	}
	var tf templateFile
	if err := yaml.Unmarshal(b, &tf); err != nil {
		return "", fmt.Errorf("parse prompt template: %w", err)
	}
	if strings.Count(tf.Prompt, "%s") != 2 {
		return "", fmt.Errorf("prompt template must contain exactly two %%s verbs (title, transcript)")
	}
	return tf.Prompt, nil
}
