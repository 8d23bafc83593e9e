package chart

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
)

var funcMap = template.FuncMap{
	"num": formatNumber,
}

var tmpl = template.Must(template.New("chart").Funcs(funcMap).Parse(tmplAxis + tmplHeatmap + tmplLegend + tmplTooltip + tmplPage))

// formatNumber writes the shortest decimal that round-trips, as SVG
// attribute values expect.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteHeatmapSVG writes the standalone heatmap SVG document.
func WriteHeatmapSVG(w io.Writer, c *Chart) error {
	return execute(w, "heatmap", c)
}

// WriteLegendSVG writes the standalone legend SVG document.
func WriteLegendSVG(w io.Writer, c *Chart) error {
	return execute(w, "legend", c.Legend)
}

// WritePage writes the HTML page embedding both SVGs, the tooltip overlay and
// the hover script.
func WritePage(w io.Writer, c *Chart) error {
	return execute(w, "page", c)
}

func execute(w io.Writer, name string, data any) error {
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

const tmplAxis = `
{{define "axis"}}<g id="{{.ID}}" class="axis" transform="{{.Transform}}" fill="none" font-size="10" font-family="sans-serif" text-anchor="{{if .Vertical}}end{{else}}middle{{end}}">
<path class="domain" stroke="currentColor" d="{{.DomainPath}}"></path>
{{- range $t := .Ticks}}
<g class="tick" opacity="1" transform="{{$.TickTransform $t}}">
{{- if $.Vertical}}<line stroke="currentColor" x2="-6"></line><text fill="currentColor" x="-9" dy="0.32em">{{$t.Label}}</text>
{{- else}}<line stroke="currentColor" y2="6"></line><text fill="currentColor" y="9" dy="0.71em">{{$t.Label}}</text>
{{- end}}</g>
{{- end}}
</g>{{end}}`

const tmplHeatmap = `
{{define "heatmap"}}{{with .Context.Layout.Heatmap}}<svg id="{{.ID}}" xmlns="http://www.w3.org/2000/svg" width="{{num .Width}}" height="{{num .Height}}" viewBox="0 0 {{num .Width}} {{num .Height}}">{{end}}
{{- range .Cells}}
<rect class="cell" x="{{num .X}}" y="{{num .Y}}" width="{{num .Width}}" height="{{num .Height}}" fill="{{.Fill}}" data-year="{{.Year}}" data-month="{{.Month}}" data-temp="{{num .Temperature}}" data-title="{{.Tooltip.Title}}" data-temperature="{{.Tooltip.Temperature}}" data-variance="{{.Tooltip.Variance}}"></rect>
{{- end}}
{{template "axis" .XAxis}}
{{template "axis" .YAxis}}
</svg>
{{end}}`

const tmplLegend = `
{{define "legend"}}{{with .Surface}}<svg id="{{.ID}}" xmlns="http://www.w3.org/2000/svg" width="{{num .Width}}" height="{{num .Height}}" viewBox="0 0 {{num .Width}} {{num .Height}}">{{end}}
{{template "axis" .Axis}}
</svg>
{{end}}`

const tmplTooltip = `
{{define "tooltip"}}<div id="tooltip" data-state="{{.State}}" data-year="{{.Content.Year}}" style="left: {{num .X}}px; top: {{num .Y}}px">
{{- if .Visible}}<div>{{.Content.Title}}</div><div>{{.Content.Temperature}}</div><div>{{.Content.Variance}}</div>{{end -}}
</div>{{end}}`

const tmplPage = `
{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Monthly Global Land-Surface Temperature</title>
<style>
body{font-family:sans-serif;background:#f4f4f4;color:#222;margin:0}
main{display:flex;flex-direction:column;align-items:center;padding:24px}
h1{font-size:22px;margin:0 0 4px}
h2{font-size:14px;font-weight:400;margin:0 0 16px}
svg{background:#fff}
.cell:hover{stroke:#000;stroke-width:1}
#tooltip{position:absolute;pointer-events:none;padding:6px 10px;border-radius:4px;background:#000;color:#fff;font-size:12px;opacity:.8;transform:translate(10px,-50%)}
#tooltip[data-state=hidden]{visibility:hidden}
</style>
</head>
<body>
<main>
<h1 id="title">Monthly Global Land-Surface Temperature</h1>
<h2 id="description">{{.Context.MinYear}} - {{.Context.MaxYear}}: base temperature {{num .Context.Dataset.BaseTemperature}}℃</h2>
{{template "heatmap" .}}
{{template "legend" .Legend}}
{{template "tooltip" .Tooltip}}
</main>
<script>
(function () {
  var tip = document.getElementById("tooltip");
  document.querySelectorAll("#canvas .cell").forEach(function (cell) {
    cell.addEventListener("mouseover", function (event) {
      tip.setAttribute("data-state", "visible");
      tip.setAttribute("data-year", cell.getAttribute("data-year"));
      tip.style.left = event.pageX + "px";
      tip.style.top = event.pageY + "px";
      tip.replaceChildren();
      ["data-title", "data-temperature", "data-variance"].forEach(function (name) {
        var line = document.createElement("div");
        line.textContent = cell.getAttribute(name);
        tip.appendChild(line);
      });
    });
    cell.addEventListener("mouseout", function () {
      tip.setAttribute("data-state", "hidden");
    });
  });
})();
</script>
</body>
</html>
{{end}}`
