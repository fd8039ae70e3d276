// Package pages contains the body component of every portal page.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/viewmodel"
)

// Index shows the login form to anonymous visitors and the menu otherwise.
func Index(page vm.PageViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := templates.NewWriter(w)
		if page.LoggedIn() {
			menu(hw, page.User)
			return hw.Err()
		}

		hw.Raw(`<section class="card"><h1>Ingreso de beneficiarios</h1>`)
		hw.Raw(`<form method="post" action="/login">`)
		hw.CSRFField(page.CSRFToken)
		hw.Raw(`<label for="rut">RUT</label><input id="rut" name="rut" placeholder="12345678-9" autocomplete="username" required>`)
		hw.Raw(`<label for="clave">Clave</label><input id="clave" name="clave" type="password" autocomplete="current-password" required>`)
		hw.Raw(`<button type="submit">Ingresar</button></form>`)
		hw.Raw(`<p>¿No tienes cuenta? <a href="/registro">Regístrate aquí</a>.</p></section>`)
		return hw.Err()
	})
}

// Portal is the authenticated landing page.
func Portal(page vm.PageViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := templates.NewWriter(w)
		menu(hw, page.User)
		return hw.Err()
	})
}

func menu(hw *templates.Writer, user *vm.UserViewModel) {
	hw.Raw(`<section class="card"><h1>Hola, `)
	hw.Text(user.Name)
	hw.Raw(`</h1><p>RUT `)
	hw.Text(user.Rut)
	hw.Raw(` · Tramo `)
	hw.Text(user.Tier)
	hw.Raw(`</p><ul class="menu">`)
	hw.Raw(`<li><a href="/actualizar_datos">Actualizar mis datos</a></li>`)
	hw.Raw(`<li><a href="/comprar_bono">Buscar médico y comprar bono</a></li>`)
	hw.Raw(`<li><a href="/ver_bono">Ver mis bonos</a></li>`)
	hw.Raw(`</ul></section>`)
}
