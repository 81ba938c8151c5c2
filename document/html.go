package document

import (
	"bytes"
	"fmt"
	"html/template"
)

var docTmpl = template.Must(template.New("document").Parse(documentHTMLTemplate))

// RenderHTML renders the document as one self-contained HTML page:
// inline <style>, no script, no external asset references. Images appear
// only as data: URIs, so the bytes can be saved to disk or rasterized
// without any further fetching.
func RenderHTML(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := docTmpl.Execute(&buf, &doc); err != nil {
		return nil, fmt.Errorf("render document html: %w", err)
	}
	return buf.Bytes(), nil
}

const documentHTMLTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} {{.Meta.Number.Value}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        body {
            font-family: 'Noto Sans TC', 'Microsoft JhengHei', 'PingFang TC', sans-serif;
            line-height: 1.5;
            color: #333;
            background: #f0f0f0;
        }
        .document {
            width: 800px;
            margin: 0 auto;
            padding: 40px;
            background: #fff;
        }
        .toolbar {
            width: 800px;
            margin: 0 auto;
            padding: 10px 0;
            text-align: right;
            font-size: 13px;
            color: #1a73e8;
        }
        .header {
            display: flex;
            justify-content: space-between;
            align-items: flex-start;
            margin-bottom: 24px;
            padding-bottom: 16px;
            border-bottom: 2px solid #333;
        }
        .company h1 {
            font-size: 22px;
            margin-bottom: 4px;
        }
        .company p {
            color: #666;
            font-size: 13px;
        }
        .company .logo {
            margin-bottom: 8px;
        }
        .company .logo img {
            max-height: 64px;
        }
        .doc-title {
            text-align: right;
        }
        .doc-title h2 {
            font-size: 28px;
            letter-spacing: 8px;
        }
        .details {
            display: flex;
            justify-content: space-between;
            margin-bottom: 24px;
        }
        .details-section p {
            font-size: 14px;
            margin-bottom: 3px;
        }
        .details-section h3 {
            font-size: 12px;
            color: #666;
            margin-bottom: 8px;
        }
        .details-section .name {
            font-weight: bold;
            font-size: 16px;
        }
        .label {
            color: #666;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 24px;
        }
        th {
            background: #f5f5f5;
            padding: 10px;
            text-align: left;
            font-size: 13px;
            border-bottom: 2px solid #ddd;
        }
        td {
            padding: 10px;
            border-bottom: 1px solid #eee;
            font-size: 14px;
            vertical-align: top;
        }
        .text-right { text-align: right; }
        .empty-items {
            text-align: center;
            color: #999;
            padding: 24px 0;
        }
        .summary {
            display: flex;
            justify-content: space-between;
            align-items: flex-start;
            margin-bottom: 24px;
        }
        .stamp img {
            max-height: 96px;
        }
        .totals {
            width: 300px;
        }
        .totals-row {
            display: flex;
            justify-content: space-between;
            padding: 6px 0;
            font-size: 14px;
        }
        .totals-row.total {
            border-top: 2px solid #333;
            font-weight: bold;
            font-size: 18px;
            padding-top: 10px;
        }
        .block {
            margin-bottom: 24px;
        }
        .block h3 {
            font-size: 13px;
            color: #666;
            margin-bottom: 8px;
            border-left: 3px solid #333;
            padding-left: 8px;
        }
        .block p {
            font-size: 14px;
            margin-bottom: 3px;
        }
        .bank-body {
            display: flex;
            gap: 24px;
            align-items: flex-start;
        }
        .bank-body img {
            max-height: 80px;
        }
        .placeholder {
            display: flex;
            flex-direction: column;
            align-items: center;
            justify-content: center;
            width: 120px;
            height: 64px;
            border: 1px dashed #bbb;
            color: #999;
            font-size: 12px;
        }
        .upload-hint {
            color: #1a73e8;
            font-size: 11px;
        }
        .footer {
            text-align: right;
            color: #999;
            font-size: 12px;
            padding-top: 12px;
            border-top: 1px solid #eee;
        }
        @media print {
            body { background: #fff; }
            .no-export { display: none; }
        }
    </style>
</head>
<body>
    {{if .ShowsChrome}}
    <div class="toolbar no-export">
        <span class="edit-hint">{{.EditHint}}</span>
    </div>
    {{end}}
    <div class="document">
        <div class="header">
            <div class="company">
                <div class="logo">
                    {{if .Company.Logo.Present}}<img src="{{.Company.Logo.Data}}" alt="{{.Company.Logo.Placeholder}}">
                    {{else}}<div class="placeholder">{{.Company.Logo.Placeholder}}{{if $.ShowsChrome}}<span class="upload-hint no-export">{{$.UploadHint}}</span>{{end}}</div>
                    {{end}}
                </div>
                <h1>{{.Company.Name}}</h1>
                {{range .Company.Lines}}<p>{{if .Label}}<span class="label">{{.Label}}：</span>{{end}}{{.Value}}</p>
                {{end}}
            </div>
            <div class="doc-title">
                <h2>{{.Title}}</h2>
            </div>
        </div>

        <div class="details">
            <div class="details-section">
                <h3>{{.Customer.Heading}}</h3>
                <p class="name">{{.Customer.Name}}</p>
                {{range .Customer.Lines}}<p><span class="label">{{.Label}}：</span>{{.Value}}</p>
                {{end}}
            </div>
            <div class="details-section">
                <p><span class="label">{{.Meta.Number.Label}}：</span>{{.Meta.Number.Value}}</p>
                <p><span class="label">{{.Meta.Date.Label}}：</span>{{.Meta.Date.Value}}</p>
                {{if .Meta.ValidUntil.Value}}<p><span class="label">{{.Meta.ValidUntil.Label}}：</span>{{.Meta.ValidUntil.Value}}</p>{{end}}
                {{if .Meta.Staff.Value}}<p><span class="label">{{.Meta.Staff.Label}}：</span>{{.Meta.Staff.Value}}</p>{{end}}
            </div>
        </div>

        <table>
            <thead>
                <tr>
                    <th>{{.Items.NameLabel}}</th>
                    <th>{{.Items.DescriptionLabel}}</th>
                    <th class="text-right">{{.Items.QuantityLabel}}</th>
                    <th>{{.Items.UnitLabel}}</th>
                    <th class="text-right">{{.Items.UnitPriceLabel}}</th>
                    <th class="text-right">{{.Items.AmountLabel}}</th>
                </tr>
            </thead>
            <tbody>
                {{range .Items.Rows}}
                <tr>
                    <td>{{.Name}}</td>
                    <td>{{range .Description}}{{if .Bold}}<strong>{{.Text}}</strong>{{else}}{{.Text}}{{end}}{{end}}</td>
                    <td class="text-right">{{.Quantity}}</td>
                    <td>{{.Unit}}</td>
                    <td class="text-right">{{.UnitPrice}}</td>
                    <td class="text-right">{{.Amount}}</td>
                </tr>
                {{else}}
                <tr><td colspan="6" class="empty-items">{{.Items.Empty}}</td></tr>
                {{end}}
            </tbody>
        </table>

        <div class="summary">
            <div class="stamp">
                {{if .Totals.Stamp.Present}}<img src="{{.Totals.Stamp.Data}}" alt="{{.Totals.Stamp.Placeholder}}">
                {{else}}<div class="placeholder">{{.Totals.Stamp.Placeholder}}{{if $.ShowsChrome}}<span class="upload-hint no-export">{{$.UploadHint}}</span>{{end}}</div>
                {{end}}
            </div>
            <div class="totals">
                <div class="totals-row">
                    <span>{{.Totals.Subtotal.Label}}</span>
                    <span>{{.Totals.Subtotal.Value}}</span>
                </div>
                <div class="totals-row">
                    <span>{{.Totals.Tax.Label}}</span>
                    <span>{{.Totals.Tax.Value}}</span>
                </div>
                <div class="totals-row total">
                    <span>{{.Totals.Total.Label}}</span>
                    <span>{{.Totals.Total.Value}}</span>
                </div>
            </div>
        </div>

        {{if .Bank.Present}}
        <div class="block">
            <h3>{{.Bank.Heading}}</h3>
            <div class="bank-body">
                <div>
                    {{range .Bank.Lines}}<p><span class="label">{{.Label}}：</span>{{.Value}}</p>
                    {{end}}
                </div>
                {{if .Bank.Image.Present}}<img src="{{.Bank.Image.Data}}" alt="{{.Bank.Image.Placeholder}}">
                {{else}}<div class="placeholder">{{.Bank.Image.Placeholder}}{{if $.ShowsChrome}}<span class="upload-hint no-export">{{$.UploadHint}}</span>{{end}}</div>
                {{end}}
            </div>
        </div>
        {{end}}

        {{if .Notes.Present}}
        <div class="block">
            <h3>{{.Notes.Heading}}</h3>
            {{range .Notes.Lines}}<p>{{.}}</p>
            {{end}}
        </div>
        {{end}}

        <div class="footer">
            <span>{{.Footer.GeneratedAt.Label}}：{{.Footer.GeneratedAt.Value}}</span>
        </div>
    </div>
</body>
</html>
`
