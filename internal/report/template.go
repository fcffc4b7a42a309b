package report

// reportTemplate is the HTML template for the company report.
// It is embedded as a Go constant, no external file dependencies.
// Pagination of oversized tables is left to the conversion engine.
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
  :root {
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #9ca3af;
    --accent: #1d4ed8;
    --section-bg: #f1f5f9;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  @page { size: A4 landscape; margin: 11mm; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    line-height: 1.5;
    padding: 8px;
  }
  h1 { font-size: 1.5rem; color: var(--accent); margin-bottom: 4px; }
  h2 { font-size: 1.2rem; margin: 0 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  p { margin: 6px 0; }
  .muted { color: var(--muted); font-size: 0.85rem; }

  .header {
    border-bottom: 3px solid var(--accent);
    padding-bottom: 12px;
    margin-bottom: 16px;
  }
  .symbol-badge {
    display: inline-block;
    background: var(--accent);
    color: white;
    padding: 2px 12px;
    border-radius: 4px;
    font-weight: 700;
    font-size: 1.1rem;
    margin-right: 8px;
  }
  .description {
    background: var(--section-bg);
    padding: 12px;
    border-radius: 6px;
    margin: 10px 0 16px;
    font-size: 0.95rem;
  }

  table { width: 100%; border-collapse: collapse; margin: 8px 0 18px; font-size: 0.85rem; }
  th, td { border: 1px solid var(--border); padding: 6px 8px; text-align: left; }
  th { background: var(--section-bg); font-weight: 600; }
  .table-label { font-size: 0.8rem; color: var(--muted); margin-top: 10px; }

  .kv-table { width: 60%; }
  .kv-table td:first-child { font-weight: 600; width: 40%; }

  .section { page-break-before: always; }
</style>
</head>
<body>

<div class="header">
  <h1><span class="symbol-badge">{{.Symbol}}</span> {{.CompanyName}}</h1>
  <p class="muted">Generated {{.GeneratedAt}}</p>
</div>

{{if .Description}}
<div class="description">{{.Description}}</div>
{{end}}

{{if .Metrics}}
<h2>Key Metrics</h2>
<table class="kv-table">
  <thead>
    <tr><th>Metric</th><th>Value</th></tr>
  </thead>
  <tbody>
  {{range .Metrics}}
  <tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
  {{end}}
  </tbody>
</table>
{{end}}

{{range .Sections}}
<div class="section">
  <h2>{{.Title}}</h2>

  {{if .Facts}}
  <table class="kv-table">
    <tbody>
    {{range .Facts}}
    <tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
    {{end}}
    </tbody>
  </table>
  {{end}}

  {{range .Tables}}
  <p class="table-label">{{.Label}}</p>
  <table>
    <thead>
      <tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
    </thead>
    <tbody>
    {{range .Rows}}
    <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
    {{end}}
    </tbody>
  </table>
  {{end}}
</div>
{{end}}

</body>
</html>`
