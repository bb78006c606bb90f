package web

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/couchcryptid/river-monitor/internal/domain"
)

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Monitoramento de Rios</title>
<style>
body { background-color: #b5e5fb; font-family: Arial, sans-serif; text-align: center; margin-top: 50px; }
button { font-size: 20px; margin: 8px; padding: 10px 24px; }
.report_data { font-size: 22px; margin: 6px; }
</style>
</head>
<body>
<h1>Monitoramento de Rios</h1>
<form action="./send_report"><button>Gerar Relatorio</button></form>
<form action="./update_status"><button>Atualizar Status</button></form>
<form action="./buzzer_alert"><button>Alerta Sonoro</button></form>
<form action="./led_alert"><button>Alerta Visual</button></form>
<p class="report_data">ID: {{.ID}}</p>
<p class="report_data">Nivel do Rio Anterior: {{printf "%.2f" .PreviousLevel}}</p>
<p class="report_data">Nivel Atual do Rio: {{printf "%.2f" .CurrentLevel}}</p>
<p class="report_data">Diff do nivel(%): {{printf "%.2f" .DiffPercent}}</p>
<p class="report_data">Intensidade de Chuva: {{printf "%.2f" .RainIntensity}}</p>
<p class="report_data">status: {{.StatusLabel}}</p>
{{- if .OutOfRange}}
<p class="report_data">nivel fora da faixa esperada</p>
{{- end}}
</body>
</html>
`))

// renderPage writes a complete HTTP/1.1 response carrying the report page.
func renderPage(r domain.Report) ([]byte, error) {
	var body bytes.Buffer
	if err := pageTemplate.Execute(&body, r); err != nil {
		return nil, fmt.Errorf("render report page: %w", err)
	}

	var resp bytes.Buffer
	resp.Grow(body.Len() + 128)
	fmt.Fprintf(&resp, "HTTP/1.1 200 OK\r\nContent-Type: text/html; charset=utf-8\r\nContent-Length: %d\r\nConnection: close\r\n\r\n", body.Len())
	resp.Write(body.Bytes())
	return resp.Bytes(), nil
}
