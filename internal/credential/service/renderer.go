package service

import (
	"bytes"
	"context"
	"text/template"
	"time"

	"github.com/dssolutions-mx/mtto-server/internal/credential/entity"
)

// cardTemplate landscape CR80-proportioned badge
const cardTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="640" height="400" viewBox="0 0 640 400">
  <rect width="640" height="400" rx="16" fill="#ffffff" stroke="#1f3864" stroke-width="4"/>
  <rect x="0" y="0" width="640" height="88" rx="16" fill="#1f3864"/>
  <text x="24" y="56" font-family="Helvetica, Arial, sans-serif" font-size="30" fill="#ffffff" font-weight="bold">{{.Company}}</text>
  <text x="24" y="170" font-family="Helvetica, Arial, sans-serif" font-size="34" fill="#1f3864" font-weight="bold">{{.FullName}}</text>
  <text x="24" y="216" font-family="Helvetica, Arial, sans-serif" font-size="22" fill="#444444">{{.Position}}</text>
  <text x="24" y="252" font-family="Helvetica, Arial, sans-serif" font-size="20" fill="#666666">{{.Department}}</text>
  <text x="24" y="330" font-family="Helvetica, Arial, sans-serif" font-size="20" fill="#1f3864">No. {{.EmployeeNo}}</text>
  <text x="24" y="368" font-family="Helvetica, Arial, sans-serif" font-size="14" fill="#999999">Issued {{.IssuedAt}}</text>
</svg>
`

// SVGRenderer renders badge cards from an inline template
type SVGRenderer struct {
	company string
	tmpl    *template.Template
}

func NewSVGRenderer(company string) *SVGRenderer {
	return &SVGRenderer{
		company: company,
		tmpl:    template.Must(template.New("card").Parse(cardTemplate)),
	}
}

func (r *SVGRenderer) Render(ctx context.Context, emp *entity.Employee) ([]byte, string, string, error) {
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, map[string]string{
		"Company":    r.company,
		"FullName":   emp.FullName,
		"Position":   emp.Position,
		"Department": emp.Department,
		"EmployeeNo": emp.EmployeeNo,
		"IssuedAt":   time.Now().Format("2006-01-02"),
	})
	if err != nil {
		return nil, "", "", err
	}
	return buf.Bytes(), "image/svg+xml", ".svg", nil
}

var _ Renderer = (*SVGRenderer)(nil)
