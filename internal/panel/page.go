package panel

import (
	"html/template"
	"net/http"

	"github.com/wordseer/frequentwords/internal/lollipop"
	apperrors "github.com/wordseer/frequentwords/pkg/errors"
	"github.com/wordseer/frequentwords/pkg/logger"
)

var panelTmpl = template.Must(template.New("panel").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Frequent Words</title>
<style>
body { font-family: sans-serif; margin: 20px; background: #fafafa; color: #222; }
.panel { display: flex; gap: 16px; flex-wrap: wrap; }
.list { background: #fff; border: 1px solid #ddd; border-radius: 6px; padding: 12px 16px; min-width: 260px; }
.list h2 { font-size: 1.0em; margin: 0 0 8px 0; text-transform: capitalize; }
table { border-collapse: collapse; width: 100%; }
td { padding: 2px 6px; font-size: 0.9em; vertical-align: middle; }
td.num { text-align: right; color: #666; }
svg.lollipop line { stroke: currentColor; }
svg.lollipop circle { fill: steelblue; }
.empty { color: #999; font-style: italic; }
</style>
</head>
<body>
<h1>Frequent words</h1>
<div class="panel">
{{range .Lists}}
  <div class="list">
    <h2>{{.Category}}</h2>
    {{if .Items}}
    <table>
    {{range .Items}}
      <tr>
        <td>{{.Word}}</td>
        <td class="num">{{.Count}}</td>
        <td>{{.Chart}}</td>
      </tr>
    {{end}}
    </table>
    {{else}}
    <p class="empty">no rows</p>
    {{end}}
  </div>
{{end}}
</div>
</body>
</html>
`))

type pageItem struct {
	Word  string
	Count int
	Chart template.HTML
}

type pageList struct {
	Category string
	Items    []pageItem
}

type pageData struct {
	Lists []pageList
}

// PanelPage renders the overlay panel as an HTML page: all four lists with
// an inline lollipop chart per row.
func (h *Handler) PanelPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	params, err := h.paramsFromRequest(r)
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}

	if err := h.panel.LoadAll(ctx, params); err != nil {
		log.Error("panel load failed", "instance", params.Instance, "error", err)
		h.writeError(w, apperrors.HTTPStatusCode(err), "panel load failed")
		return
	}

	data := pageData{}
	for _, v := range h.panel.Views() {
		rows := v.Store.Rows()
		marks := lollipop.Layout(scores(rows))
		list := pageList{Category: string(v.Category)}
		for i, row := range rows {
			list.Items = append(list.Items, pageItem{
				Word:  row.Word,
				Count: row.Count,
				Chart: template.HTML(lollipop.SVG(marks[i])),
			})
		}
		data.Lists = append(data.Lists, list)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := panelTmpl.Execute(w, data); err != nil {
		log.Error("panel template failed", "error", err)
	}
}
