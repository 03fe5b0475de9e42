package alerts

import (
	htmltemplate "html/template"
	texttemplate "text/template"
)

const timestampLayout = "2006-01-02 15:04:05"

var healthColors = map[string]string{
	"Poor":      "#d32f2f",
	"Fair":      "#f57f17",
	"Good":      "#fbc02d",
	"Excellent": "#388e3c",
}

type diseaseView struct {
	Disease    string
	Confidence string
	Detected   string
}

type healthView struct {
	Level      string
	NDVI       string
	Timestamp  string
	Color      string
	Background string
}

var diseaseText = texttemplate.Must(texttemplate.New("disease.txt").Parse(`Dear Farmer,

A potential crop disease has been detected in your field:

Disease: {{.Disease}}
Confidence: {{.Confidence}}%
Detected: {{.Detected}}

Please take necessary action or contact an agricultural expert.

Best regards,
Crop Health Monitoring System
`))

var diseaseHTML = htmltemplate.Must(htmltemplate.New("disease.html").Parse(`<html>
  <body style="font-family: Arial, sans-serif;">
    <h2 style="color: #d32f2f;">⚠️ Crop Disease Alert</h2>
    <p>Dear Farmer,</p>
    <p>A potential crop disease has been detected in your field:</p>
    <table style="border-collapse: collapse; border: 1px solid #ddd;">
      <tr style="background-color: #f2f2f2;">
        <td style="padding: 8px; border: 1px solid #ddd;"><strong>Disease</strong></td>
        <td style="padding: 8px; border: 1px solid #ddd;">{{.Disease}}</td>
      </tr>
      <tr>
        <td style="padding: 8px; border: 1px solid #ddd;"><strong>Confidence</strong></td>
        <td style="padding: 8px; border: 1px solid #ddd;">{{.Confidence}}%</td>
      </tr>
      <tr style="background-color: #f2f2f2;">
        <td style="padding: 8px; border: 1px solid #ddd;"><strong>Detected</strong></td>
        <td style="padding: 8px; border: 1px solid #ddd;">{{.Detected}}</td>
      </tr>
    </table>
    <p style="margin-top: 20px; color: #666;">Please take necessary action or contact an agricultural expert.</p>
    <p style="color: #999; font-size: 12px;">© Crop Health Monitoring System</p>
  </body>
</html>
`))

var healthText = texttemplate.Must(texttemplate.New("health.txt").Parse(`Crop Health Report

Health Score: {{.Level}}
NDVI Value: {{.NDVI}}
Timestamp: {{.Timestamp}}
`))

var healthHTML = htmltemplate.Must(htmltemplate.New("health.html").Parse(`<html>
  <body style="font-family: Arial, sans-serif;">
    <h2 style="color: {{.Color}};">Crop Health Report</h2>
    <div style="background-color: {{.Background}}; padding: 20px; border-radius: 5px; color: white;">
      <h3>{{.Level}}</h3>
      <p>NDVI Value: {{.NDVI}}</p>
      <p>Timestamp: {{.Timestamp}}</p>
    </div>
  </body>
</html>
`))
