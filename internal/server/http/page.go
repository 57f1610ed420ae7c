package httpserver

import "html/template"

// scanPage renders the confirmation shown after a successful tag scan.
var scanPage = template.Must(template.New("scan").Parse(`<!doctype html><meta name="viewport" content="width=device-width, initial-scale=1">
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;max-width:520px;margin:24px auto;padding:16px}
.btn{display:block;padding:14px 16px;margin:12px 0;border-radius:12px;border:1px solid #ccc;text-decoration:none;color:#000;text-align:center}
.ok{color:#2a7f2a}
small{opacity:.7}
</style>
<h1>Saved: Floor {{.Floor}}{{if .Stair}} • {{.Stair}}{{end}}</h1>
<a class="btn" href="{{.MapsURL}}">Open in Maps</a>
{{if .NeedsApple}}<form method="POST" action="/wallet/apple/create">
  <input type="hidden" name="uid" value="{{.UID}}">
  <input type="hidden" name="garage" value="{{.Garage}}">
  <input type="hidden" name="floor" value="{{.Floor}}">
  <input type="hidden" name="stair" value="{{.Stair}}">
  <button class="btn">Add to Apple Wallet</button>
</form>{{else if not .Android}}<p class="ok">Apple Wallet linked ✓</p>{{end}}
{{if .NeedsGoogle}}<a class="btn" href="{{.SaveURL}}">Add to Google Wallet</a>{{else if .Android}}<p class="ok">Google Wallet linked ✓</p>{{end}}
<small>Tip: for nearby reminders, keep Location Services on (and Bluetooth on iOS). If prompted after tapping, unlock your phone.</small>
`))

type scanView struct {
	UID         string
	Garage      string
	Floor       string
	Stair       string
	MapsURL     string
	Android     bool
	NeedsApple  bool
	NeedsGoogle bool
	SaveURL     string
}
