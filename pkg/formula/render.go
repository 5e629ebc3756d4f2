package formula

import (
	"io"
	"strings"
	"text/template"
)

var formulaTemplate = template.Must(template.New("formula").Funcs(template.FuncMap{
	"quote": quote,
}).Parse(`class {{ .Class }} < Formula
  desc {{ quote .Desc }}
  homepage {{ quote .Homepage }}
  url {{ quote .URL }}
  sha256 {{ quote .SHA256 }}
  license {{ quote .License }}
{{- if .DependsOn }}
{{ range .DependsOn }}
  depends_on {{ . }}
{{- end }}
{{- end }}

  def install
    {{ .Install }}
  end

  test do
    {{ .Test }}
  end
end
`))

// Render writes the formula as Ruby.
func Render(w io.Writer, f Formula) error {
	return formulaTemplate.Execute(w, f)
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
