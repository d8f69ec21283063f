// Package templates holds the dashboard page shell. The page is a thin
// rendering layer: it pulls every chart view over the datastar SSE endpoint
// and leaves the drawing to the client-side chart library.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardHTML)
		return err
	})
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Sales Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
<style>
body { background: linear-gradient(180deg,#071a28 0%,#0a0f1f 100%); color:#fff; font-family:system-ui,sans-serif; margin:0; padding:16px; }
.kpi-row { display:flex; gap:12px; flex-wrap:wrap; margin-bottom:16px; }
.kpi { background:rgba(8,20,38,.45); border:1px solid rgba(0,209,255,.25); padding:12px; border-radius:8px; min-width:140px; text-align:center; }
.kpi .value { font-size:18px; font-weight:700; }
.kpi .lbl { font-size:12px; margin-top:6px; opacity:.8; }
.grid-2 { display:grid; grid-template-columns:1fr 1fr; gap:16px; }
@media (max-width:760px) { .grid-2 { grid-template-columns:1fr; } }
.card { background:rgba(255,255,255,.03); border:1px solid rgba(0,209,255,.25); border-radius:10px; padding:12px; }
.modern-table { width:100%; border-collapse:collapse; font-size:13px; }
.modern-table th, .modern-table td { padding:6px 8px; text-align:left; border-bottom:1px solid rgba(255,255,255,.08); }
.category-badge { background:rgba(0,209,255,.15); border-radius:4px; padding:2px 6px; }
button { background:#0908c3; color:#fff; border:1px solid #0908c3; border-radius:6px; padding:8px 14px; cursor:pointer; }
button:hover { background:#07079d; }
</style>
</head>
<body data-signals="{kpis:{total_sales:0,total_orders:0,total_quantity:0,unique_products:0},timeSeriesData:[],monthlyData:[],productShareData:[],regionShareData:[],geoData:[]}"
      data-on-load="@get('/sse/refresh-all')">
<h1>📊 Sales Dashboard</h1>

<div class="kpi-row">
  <div class="kpi"><div class="value" data-text="$kpis.total_sales.toLocaleString()"></div><div class="lbl">Total Sales (USD)</div></div>
  <div class="kpi"><div class="value" data-text="$kpis.total_orders.toLocaleString()"></div><div class="lbl">Transactions</div></div>
  <div class="kpi"><div class="value" data-text="$kpis.total_quantity.toLocaleString()"></div><div class="lbl">Total Quantity</div></div>
  <div class="kpi"><div class="value" data-text="$kpis.unique_products"></div><div class="lbl">Products</div></div>
</div>

<div class="grid-2">
  <div class="card"><div id="timeseries-chart"></div></div>
  <div class="card"><div id="monthly-chart"></div></div>
</div>
<div class="grid-2" style="margin-top:16px;">
  <div class="card"><div id="product-share-chart"></div><div id="region-share-chart"></div></div>
  <div class="card"><div id="geo-chart"></div></div>
</div>

<div class="card" style="margin-top:16px;">
  <h3>Filtered Data</h3>
  <div id="table-content"></div>
  <p>
    <a href="/api/export.csv"><button type="button">Download CSV</button></a>
    <a href="/api/export.xlsx"><button type="button">Download Excel</button></a>
  </p>
</div>
</body>
</html>`
