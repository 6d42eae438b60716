package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

const style = `
body { font-family: sans-serif; background: #222; color: #eee; margin: 2em; }
svg { width: 100%; max-height: 60vh; }
form { display: inline-block; margin: 0.5em 1em 0.5em 0; }
input { margin-right: 0.3em; }
`

const boardScript = `
const socket = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
socket.onmessage = (event) => {
  for (const change of JSON.parse(event.data)) {
    const lamp = document.getElementById("lamp-" + change.index);
    if (lamp) { lamp.setAttribute("fill", change.color); }
  }
};
`

const authoringScript = `
async function toggleLamp(index) {
  const response = await fetch("/author/toggle?lamp=" + index, { method: "POST" });
  if (!response.ok) { return; }
  const lit = new Set(await response.json());
  for (const lamp of document.querySelectorAll("circle")) {
    const i = Number(lamp.dataset.index);
    lamp.setAttribute("fill", lit.has(i) ? lamp.dataset.on : lamp.dataset.off);
  }
  document.getElementById("lit").textContent = JSON.stringify([...lit].sort((a, b) => a - b));
}
`

// BoardPage is the live board with controls for every board operation.
func BoardPage(c *RenderContext) templ.Component {
	return page(getTitle(c.Page),
		Board(c),
		Status(c),
		div(
			ShowForm(c.Text),
			MoveForm("left"),
			MoveForm("right"),
			templ.Raw(`<form method="post" action="/clear"><button>Clear</button></form>`),
			link("/author", "Draw a glyph"),
		),
		script(boardScript),
	)
}

// AuthoringPage is a small calibration board where clicking a lamp toggles it.
func AuthoringPage(c *RenderContext) templ.Component {
	return page(getTitle(c.Page),
		Board(c),
		LitLamps(c),
		SavedNotice(c.LastSaved),
		SaveForm(c.Language),
		link("/", "Back to board"),
		script(authoringScript),
	)
}

// Board draws every lamp of the render context as an SVG circle.
func Board(c *RenderContext) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<svg id="board" viewBox="%s" style="background: %s">`,
			c.ViewBoxSize(), templ.EscapeString(c.Background)); err != nil {
			return err
		}

		for _, lamp := range c.Lamps {
			if err := LampCircle(c, lamp).Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</svg>`)

		return err
	})
}

func LampCircle(c *RenderContext, lamp Lamp) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		x, y := LampCenter(lamp.Index, c.TotalRows)

		_, err := fmt.Fprintf(w,
			`<circle id="lamp-%d" data-index="%d" data-on="%s" data-off="%s" cx="%d" cy="%d" r="%d" fill="%s"`,
			lamp.Index, lamp.Index, templ.EscapeString(c.LampOn), templ.EscapeString(c.LampOff),
			x, y, lampRadius, templ.EscapeString(lamp.Color))
		if err != nil {
			return err
		}

		if action := getLampAction(lamp.Index, c.Page); action != "" {
			if _, err := fmt.Fprintf(w, ` onclick="%s" style="cursor: pointer"`, action); err != nil {
				return err
			}
		}

		_, err = io.WriteString(w, `/>`)

		return err
	})
}

// Status tells what the board is showing.
func Status(c *RenderContext) templ.Component {
	status := "idle"
	if c.Animating {
		status = "scrolling"
	}

	return templ.Raw(fmt.Sprintf(`<p>Text: <b>%s</b> (%s)</p>`, templ.EscapeString(c.Text), status))
}

func ShowForm(text string) templ.Component {
	return templ.Raw(fmt.Sprintf(
		`<form method="post" action="/show"><input name="text" value="%s"><button>Show</button></form>`,
		templ.EscapeString(text)))
}

// MoveForm posts to /move-left or /move-right.
func MoveForm(direction string) templ.Component {
	return templ.Raw(fmt.Sprintf(`<form method="post" action="/move-%[1]s">`+
		`<input name="text" placeholder="text">`+
		`<input name="circles" type="number" min="0" value="0">`+
		`<input name="interval" type="number" min="0" placeholder="ms">`+
		`<button>Move %[1]s</button></form>`, templ.EscapeString(direction)))
}

// LitLamps lists the lit calibration lamps as a JSON array.
func LitLamps(c *RenderContext) templ.Component {
	lit := make([]int, 0)

	for _, l := range c.Lamps {
		if l.Color == c.LampOn {
			lit = append(lit, l.Index)
		}
	}

	encoded, err := templ.JSONString(lit)

	return templ.Raw(fmt.Sprintf(`<p>Lit lamps: <code id="lit">%s</code></p>`, templ.EscapeString(encoded)), err)
}

func SavedNotice(saved string) templ.Component {
	if saved == "" {
		return templ.NopComponent
	}

	return templ.Raw(fmt.Sprintf(`<p>Saved <b>%s</b></p>`, templ.EscapeString(saved)))
}

func SaveForm(language string) templ.Component {
	return templ.Raw(fmt.Sprintf(`<form method="post" action="/author/save">`+
		`<input name="rune" maxlength="1" size="2" required>`+
		`<input name="language" value="%s" size="4">`+
		`<button>Save glyph</button></form>`, templ.EscapeString(language)))
}

func page(title string, body ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		escaped := templ.EscapeString(title)

		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html><head><meta charset="utf-8"><title>%s</title><style>%s</style></head><body><h1>%s</h1>`,
			escaped, style, escaped); err != nil {
			return err
		}

		if err := templ.Join(body...).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</body></html>`)

		return err
	})
}

func div(children ...templ.Component) templ.Component {
	return templ.Join(templ.Raw(`<div>`), templ.Join(children...), templ.Raw(`</div>`))
}

func link(href, label string) templ.Component {
	return templ.Raw(fmt.Sprintf(`<a href="%s">%s</a>`, templ.EscapeString(href), templ.EscapeString(label)))
}

func script(source string) templ.Component {
	return templ.Raw(`<script>` + source + `</script>`)
}
