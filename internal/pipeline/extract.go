package pipeline

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"programcheck/internal"
)

var reSpaces = regexp.MustCompile(`\s+`)

var ignorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^--+$`),
	regexp.MustCompile(`(?i)^saludos`),
	regexp.MustCompile(`(?i)^gracias`),
	regexp.MustCompile(`(?i)^enviado desde`),
	regexp.MustCompile(`(?i)^tel[:\s]`),
	regexp.MustCompile(`(?i)^e-?mail[:\s]`),
	regexp.MustCompile(`(?i)^http`),
	regexp.MustCompile(`^>`),
}

type EmailExtraction struct {
	Subject         string
	Text            string
	AttachmentNames []string
}

// ExtractText turns a document into schedule text, one candidate per line.
func ExtractText(source internal.InputSource, content []byte) (string, error) {
	switch source {
	case internal.SourceText:
		// Pasted text reaches the parser untouched; it applies its own line rules.
		return strings.ReplaceAll(string(content), "\r\n", "\n"), nil
	case internal.SourceHTML:
		return textFromHTML(string(content))
	case internal.SourceXLSX:
		return textFromXLSX(content)
	case internal.SourcePDF:
		return textFromPDF(content)
	case internal.SourceEmail:
		ext, err := ExtractFromEmailRaw(content)
		if err != nil {
			return "", err
		}
		return ext.Text, nil
	default:
		return "", fmt.Errorf("unsupported input type: %s", source)
	}
}

func ExtractFromEmailRaw(raw []byte) (EmailExtraction, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return EmailExtraction{}, fmt.Errorf("read envelope: %w", err)
	}

	parts := []string{}
	if strings.TrimSpace(env.Text) != "" {
		parts = append(parts, cleanText(env.Text))
	} else if env.HTML != "" {
		if text, err := textFromHTML(env.HTML); err == nil {
			parts = append(parts, text)
		}
	}

	names := make([]string, 0, len(env.Attachments))
	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		names = append(names, filename)

		source, ok := sourceForFilename(filename)
		if !ok {
			continue
		}
		text, err := ExtractText(source, att.Content)
		if err != nil || text == "" {
			continue
		}
		parts = append(parts, text)
	}

	return EmailExtraction{
		Subject:         env.GetHeader("Subject"),
		Text:            strings.Join(parts, "\n"),
		AttachmentNames: names,
	}, nil
}

func sourceForFilename(name string) (internal.InputSource, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return internal.SourceXLSX, true
	case strings.HasSuffix(lower, ".pdf"):
		return internal.SourcePDF, true
	case strings.HasSuffix(lower, ".html"), strings.HasSuffix(lower, ".htm"):
		return internal.SourceHTML, true
	case strings.HasSuffix(lower, ".txt"), strings.HasSuffix(lower, ".csv"):
		return internal.SourceText, true
	default:
		return "", false
	}
}

// textFromHTML puts every block element and table cell on its own line.
func textFromHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("head,script,style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p,div,li,tr,td,th,h1,h2,h3,h4,h5,h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return cleanText(doc.Text()), nil
}

func textFromXLSX(content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", err
	}
	defer f.Close()

	lines := []string{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			for _, cell := range row {
				if c := normalizeSpaces(cell); c != "" {
					lines = append(lines, c)
				}
			}
		}
	}
	return cleanText(strings.Join(lines, "\n")), nil
}

func textFromPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	pages := []string{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return cleanText(strings.Join(pages, "\n")), nil
}

// cleanText drops signature and quoting noise while keeping line order.
func cleanText(text string) string {
	lines := splitLines(text)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = normalizeSpaces(line)
		if line == "" || isLikelyNoise(line) {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func normalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(strings.ReplaceAll(input, "\u00A0", " "), " "))
}

func isLikelyNoise(line string) bool {
	for _, re := range ignorePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
