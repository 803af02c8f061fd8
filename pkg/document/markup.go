package document

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

// DocumentID is the element id wrapping the page in generated markup.
const DocumentID = "document"

//go:embed template.html
var templateHTML string

var pageTemplate = template.Must(template.New("page").Parse(templateHTML))

// Markup renders d as a standalone HTML page. Field values are escaped.
func Markup(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}
