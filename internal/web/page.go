package web

import (
	"encoding/json"
	"html/template"
	"net/http"

	appLog "unical/internal/log"
)

// calendarTmpl is the single server-rendered page. It boots FullCalendar
// from an inlined payload and keeps the view in sync with the filter API:
// every control change POSTs to the server and repaints from the
// response, so the displayed set always equals the server-side view.
// The root element gains data-ready="true" after the first paint, which
// the snapshot capture waits for.
const calendarTmpl = `<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Unisport Kalender</title>
<script src="https://cdn.jsdelivr.net/npm/fullcalendar@6.1.15/index.global.min.js"></script>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:system-ui,sans-serif;background:#fff;color:#1a1a2e;font-size:14px;padding:16px}
h1{font-size:18px;margin-bottom:8px}
.summary{font-size:12px;color:#666;margin-bottom:12px}
.controls{display:flex;gap:12px;align-items:center;margin-bottom:12px;flex-wrap:wrap}
.controls input[type=text]{padding:6px 10px;border:1px solid #ccc;border-radius:4px;min-width:260px;font-size:13px}
.controls label{font-size:13px;display:flex;gap:4px;align-items:center}
.controls button{padding:6px 14px;border:1px solid #ccc;border-radius:4px;background:#f5f5f5;cursor:pointer;font-size:13px}
.controls button:hover{background:#e9e9e9}
#calendar{max-width:1100px}
</style>
</head>
<body>
<div id="app">
<h1>Unisport Kalender</h1>
<div class="summary" id="summary"></div>
<div class="controls">
  <input type="text" id="search" placeholder="Suche (Titel, Ort, Zeit, ...)">
  <label><input type="checkbox" id="allday"> nur ganztägige Angebote</label>
  <button id="reset">Zurücksetzen</button>
</div>
<div id="calendar"></div>
</div>
<script>
const BOOT = {{.Payload}};

function summaryLine(s) {
  let line = "Stand: " + s.updated_at +
    " · Zeilen: " + s.rows_parsed +
    " · Termine: " + s.events_generated +
    " · Phasen-Horizont: " + s.phase_lookahead_days + " Tage";
  if (s.has_range) {
    line += " · Zeitraum: " + s.range_min + " – " + s.range_max;
  }
  return line;
}

function apply(resp, calendar) {
  document.getElementById("summary").textContent = summaryLine(resp.summary);
  calendar.removeAllEvents();
  for (const ev of resp.events) {
    calendar.addEvent(ev);
  }
}

document.addEventListener("DOMContentLoaded", () => {
  const calendar = new FullCalendar.Calendar(document.getElementById("calendar"), {
    initialView: BOOT.options.initialView,
    initialDate: BOOT.options.initialDate,
    nowIndicator: BOOT.options.nowIndicator,
    firstDay: BOOT.options.firstDay,
    headerToolbar: {
      left: BOOT.options.headerLeft,
      center: BOOT.options.headerCenter,
      right: BOOT.options.headerRight,
    },
    eventTimeFormat: {hour: "2-digit", minute: "2-digit", hour12: false},
    slotLabelFormat: {hour: "2-digit", minute: "2-digit", hour12: false},
    events: BOOT.events,
    eventClick: (info) => {
      info.jsEvent.preventDefault();
      const url = info.event.url;
      if (url) {
        window.open(url, "_blank", "noopener,noreferrer");
      }
    },
    eventDidMount: (info) => {
      const tip = info.event.extendedProps.tooltip;
      if (tip) {
        info.el.title = tip;
      }
    },
  });
  calendar.render();
  document.getElementById("summary").textContent = summaryLine(BOOT.summary);
  document.getElementById("search").value = BOOT.query;
  document.getElementById("allday").checked = BOOT.only_all_day;
  document.getElementById("app").setAttribute("data-ready", "true");

  const post = (path, body) =>
    fetch(path, {method: "POST", headers: {"Content-Type": "application/json"},
      body: JSON.stringify(body || {})})
      .then(r => r.json())
      .then(resp => apply(resp, calendar));

  document.getElementById("search").addEventListener("input", (e) => {
    post("/api/filter", {query: e.target.value});
  });
  document.getElementById("allday").addEventListener("change", (e) => {
    post("/api/filter", {only_all_day: e.target.checked});
  });
  document.getElementById("reset").addEventListener("click", () => {
    post("/api/reset").then(() => {
      document.getElementById("search").value = "";
      document.getElementById("allday").checked = false;
    });
  });
});
</script>
</body>
</html>
`

var calendarPage = template.Must(template.New("calendar").Parse(calendarTmpl))

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/calendar" {
		http.NotFound(w, r)
		return
	}

	resp, ok := s.currentResponse()
	if !ok {
		http.Error(w, "calendar not initialized", http.StatusServiceUnavailable)
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		appLog.Error("web: failed to marshal boot payload", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Payload template.JS
	}{Payload: template.JS(payload)}
	if err := calendarPage.Execute(w, data); err != nil {
		appLog.Error("web: failed to render calendar page", err)
	}
}
