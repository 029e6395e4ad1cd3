package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Templates are compiled in so deployments need no template directory.
var baseTemplate = template.Must(template.New("base").Parse(`
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>{{.Heading}}</h2>
  <p>Hi {{.Name}},</p>
  {{.Body}}
  <p style="color: #888; font-size: 12px;">— The Festmatch team</p>
</body>
</html>
`))

type templateData struct {
	Heading string
	Name    string
	Body    template.HTML
}

func render(heading, name, bodyHTML string) (string, error) {
	var buf bytes.Buffer
	err := baseTemplate.Execute(&buf, templateData{
		Heading: heading,
		Name:    name,
		Body:    template.HTML(bodyHTML),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}
