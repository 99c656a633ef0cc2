package pipeline

import (
	"fmt"
	"os"

	"programcheck/internal"
)

// ReadInput loads a schedule for a one-off run. For the text type the input
// may be a file path or the raw pasted text itself.
func ReadInput(inputType string, input string) (string, error) {
	source := internal.InputSource(inputType)
	switch source {
	case internal.SourceText:
		if blob, err := os.ReadFile(input); err == nil {
			return ExtractText(source, blob)
		}
		return ExtractText(source, []byte(input))
	case internal.SourceHTML, internal.SourceXLSX, internal.SourcePDF, internal.SourceEmail:
		blob, err := os.ReadFile(input)
		if err != nil {
			return "", err
		}
		return ExtractText(source, blob)
	default:
		return "", fmt.Errorf("unsupported input type: %s", inputType)
	}
}
