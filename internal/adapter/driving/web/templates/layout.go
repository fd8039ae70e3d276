package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/viewmodel"
)

// Layout wraps body in the shared HTML shell: head, navigation, and the
// page's flash notices.
func Layout(page vm.PageViewModel, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)

		hw.Raw(`<!DOCTYPE html><html lang="es"><head><meta charset="utf-8">`)
		hw.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.Raw(`<title>`)
		hw.Text(page.Title)
		hw.Raw(` | Portal de Bonos</title>`)
		hw.Raw(`<link rel="stylesheet" href="/static/style.css"></head><body>`)

		nav(hw, page)

		hw.Raw(`<main class="container">`)
		flashes(hw, page.Flashes)
		if err := hw.Err(); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		hw.Raw(`</main></body></html>`)

		return hw.Err()
	})
}

func nav(hw *Writer, page vm.PageViewModel) {
	hw.Raw(`<header class="topbar"><a class="brand" href="/">Portal de Bonos</a><nav>`)
	if page.LoggedIn() {
		hw.Raw(`<a href="/portal">Inicio</a>`)
		hw.Raw(`<a href="/actualizar_datos">Mis datos</a>`)
		hw.Raw(`<a href="/comprar_bono">Comprar bono</a>`)
		hw.Raw(`<a href="/ver_bono">Mis bonos</a>`)
		hw.Raw(`<span class="user">`)
		hw.Text(page.User.Name)
		hw.Raw(` (Tramo `)
		hw.Text(page.User.Tier)
		hw.Raw(`)</span><a href="/logout">Cerrar sesión</a>`)
	} else {
		hw.Raw(`<a href="/">Ingresar</a><a href="/registro">Registrarse</a>`)
	}
	hw.Raw(`</nav></header>`)
}

func flashes(hw *Writer, items []vm.FlashViewModel) {
	if len(items) == 0 {
		return
	}
	hw.Raw(`<div class="flashes">`)
	for _, f := range items {
		hw.Raw(`<div role="alert"`)
		hw.Attr("class", "flash flash-"+f.Category)
		hw.Raw(">")
		hw.Text(f.Message)
		hw.Raw(`</div>`)
	}
	hw.Raw(`</div>`)
}
