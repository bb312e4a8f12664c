package handlers

import "html/template"

// ── Dashboard ─────────────────────────────────────────────────────────────────

const tmplRows = `
{{define "rows"}}{{if not .}}<tr><td colspan="5" class="center small">No records</td></tr>{{end}}{{range .}}<tr class="sev-{{.Severity}}">
  <td>{{.Timestamp}}</td>
  <td><strong>{{.Status}}</strong></td>
  <td>{{.Value}}</td>
  <td>{{.Note}}</td>
  <td class="actions">
    {{if .Resolved}}<span class="badge">Resolved</span>{{else}}<form method="post" action="/events/{{.ID}}/resolve"><button class="ghost">Mark Resolved</button></form>{{end}}
    <form method="post" action="/events/{{.ID}}/delete" onsubmit="return confirm('Delete this record?')"><button class="ghost">Delete</button></form>
  </td>
</tr>{{end}}{{end}}
`

const tmplDashboard = `
{{define "dashboard"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Tamper Monitor</title>
<script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:system-ui,sans-serif;background:#0d1117;color:#c9d1d9;font-size:13px;line-height:1.5}
nav{background:#161b22;border-bottom:1px solid #30363d;padding:8px 16px;display:flex;gap:16px;align-items:center}
nav .brand{color:#f0f6fc;font-weight:700;font-size:15px}
nav .sim{margin-left:auto;display:flex;gap:8px;align-items:center}
main{padding:16px;display:grid;gap:16px}
.section{background:#161b22;border:1px solid #30363d;border-radius:6px;overflow:hidden}
.section-hdr{padding:8px 12px;border-bottom:1px solid #30363d;font-size:11px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.05em;background:#0d1117}
.section-body{padding:12px}
table{width:100%;border-collapse:collapse;font-size:12px}
th{text-align:left;padding:6px 10px;border-bottom:1px solid #30363d;color:#8b949e;font-size:11px;text-transform:uppercase}
td{padding:5px 10px;border-bottom:1px solid #21262d;vertical-align:top}
.actions form{display:inline}
.center{text-align:center}.small{font-size:11px;color:#8b949e}
.sev-0 strong{color:#56d364}.sev-1 strong{color:#f59e0b}.sev-2 strong{color:#f87171}
.badge{display:inline-block;padding:1px 6px;border-radius:10px;font-size:10px;font-weight:600;background:#56d364;color:#0d1117}
.filters{display:flex;gap:8px;flex-wrap:wrap;align-items:center}
input,select{background:#0d1117;border:1px solid #30363d;color:#c9d1d9;border-radius:4px;padding:3px 6px;font-size:12px}
button{background:#1f6feb;border:none;color:#fff;padding:4px 12px;border-radius:4px;cursor:pointer;font-size:12px}
button.ghost{background:transparent;border:1px solid #30363d;color:#c9d1d9}
.pill{padding:2px 8px;border-radius:10px;font-size:11px;border:1px solid #30363d}
.pill.on{background:#1f6feb;border-color:#1f6feb;color:#fff}
</style>
</head>
<body>
<nav>
  <span class="brand">Tamper Monitor</span>
  <a href="/api/v1/history/export" id="export" data-total="{{.Total}}">Export CSV</a>
  <div class="sim">
    <span id="sim-state" class="pill{{if .Running}} on{{end}}">{{if .Running}}Simulation running{{else}}Simulation stopped{{end}}</span>
    <form method="post" action="/simulation/start"><button>Start</button></form>
    <form method="post" action="/simulation/stop"><button class="ghost">Stop</button></form>
  </div>
</nav>
<main>
  <div class="section">
    <div class="section-hdr">Severity (last 30)</div>
    <div class="section-body"><canvas id="chart" height="80"></canvas></div>
  </div>

  <div class="section">
    <div class="section-hdr">Manual entry</div>
    <div class="section-body">
      <form method="post" action="/events" class="filters" id="manual-add">
        <select name="status" required>
          {{range .Statuses}}<option value="{{.}}">{{.}}</option>{{end}}
        </select>
        <input name="value" placeholder="value (random if blank)">
        <input name="note" placeholder="note">
        <button>Add</button>
      </form>
    </div>
  </div>

  <div class="section">
    <div class="section-hdr">History ({{.Total}})</div>
    <div class="section-body">
      <form method="get" action="/" class="filters">
        <input name="q" value="{{.Filter.Q}}" placeholder="search">
        <select name="status">
          <option value="">all statuses</option>
          {{range .Statuses}}<option value="{{.}}"{{if eq . $.Filter.Status}} selected{{end}}>{{.}}</option>{{end}}
        </select>
        <input name="limit" value="{{if .Filter.Limit}}{{.Filter.Limit}}{{end}}" placeholder="limit" size="5">
        <button>Filter</button>
      </form>
      <table>
        <thead><tr><th>Time</th><th>Status</th><th>Value</th><th>Note</th><th></th></tr></thead>
        <tbody id="rows">{{template "rows" .Rows}}</tbody>
      </table>
    </div>
  </div>
</main>
<script>
let tamperChart = null;

async function renderChart() {
  const el = document.getElementById("chart");
  if (!el || !window.Chart) return;
  const data = await (await fetch("/api/v1/chart")).json();
  if (tamperChart) tamperChart.destroy();
  tamperChart = new Chart(el, {
    type: "bar",
    data: {
      labels: data.labels,
      datasets: data.datasets.map(d => Object.assign({borderRadius: 6, barPercentage: 0.6}, d))
    },
    options: {responsive: true, scales: {y: {beginAtZero: true, ticks: {precision: 0}}}}
  });
}

async function renderTable() {
  const res = await fetch("/fragments/table" + window.location.search);
  document.getElementById("rows").innerHTML = await res.text();
  const total = res.headers.get("X-Total-Count");
  if (total !== null) document.getElementById("export").dataset.total = total;
}

document.getElementById("export").addEventListener("click", e => {
  if (e.currentTarget.dataset.total === "0") {
    e.preventDefault();
    alert("No records to export");
  }
});

function connect() {
  const proto = window.location.protocol === "https:" ? "wss:" : "ws:";
  const ws = new WebSocket(proto + "//" + window.location.host + "/ws");
  ws.onmessage = msg => {
    const env = JSON.parse(msg.data);
    if (env.type === "history_changed") {
      renderTable();
      renderChart();
    } else if (env.type === "simulation_changed" || env.type === "simulation") {
      const pill = document.getElementById("sim-state");
      pill.textContent = env.data.running ? "Simulation running" : "Simulation stopped";
      pill.classList.toggle("on", env.data.running);
    }
  };
  ws.onclose = () => setTimeout(connect, 2000);
}

renderChart();
connect();
</script>
</body>
</html>{{end}}
`

var pageTemplates = template.Must(template.New("").Parse(tmplRows + tmplDashboard))
