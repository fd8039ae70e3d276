package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/viewmodel"
)

// Registro renders the registration form.
func Registro(page vm.PageViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := templates.NewWriter(w)
		hw.Raw(`<section class="card"><h1>Registro de beneficiario</h1>`)
		hw.Raw(`<form method="post" action="/registro">`)
		hw.CSRFField(page.CSRFToken)
		hw.Raw(`<label for="rut">RUT</label><input id="rut" name="rut" required>`)
		hw.Raw(`<label for="nombre">Nombre</label><input id="nombre" name="nombre" required>`)
		tierSelect(hw, "")
		hw.Raw(`<label for="clave">Clave</label><input id="clave" name="clave" type="password" autocomplete="new-password" required>`)
		hw.Raw(`<button type="submit">Registrarme</button></form></section>`)
		return hw.Err()
	})
}

// ActualizarDatos renders the profile update form prefilled with the stored
// values.
func ActualizarDatos(page vm.PageViewModel, profile vm.ProfileViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := templates.NewWriter(w)
		hw.Raw(`<section class="card"><h1>Actualizar datos</h1><p>RUT `)
		hw.Text(profile.Rut)
		hw.Raw(`</p><form method="post" action="/actualizar_datos">`)
		hw.CSRFField(page.CSRFToken)
		hw.Raw(`<label for="nombre">Nombre</label><input id="nombre" name="nombre" required`)
		hw.Attr("value", profile.Name)
		hw.Raw(`>`)
		tierSelect(hw, profile.Tier)
		hw.Raw(`<button type="submit">Guardar</button></form></section>`)
		return hw.Err()
	})
}

// tiers are the FONASA income tiers offered by the forms. Stored values
// outside this list are still shown as the current selection.
var tiers = []string{"A", "B", "C", "D"}

func tierSelect(hw *templates.Writer, current string) {
	hw.Raw(`<label for="tramo">Tramo</label><select id="tramo" name="tramo" required>`)
	hw.Raw(`<option value="">Selecciona…</option>`)
	known := false
	for _, t := range tiers {
		hw.Raw(`<option`)
		hw.Attr("value", t)
		if t == current {
			known = true
			hw.Raw(` selected`)
		}
		hw.Raw(`>Tramo `)
		hw.Text(t)
		hw.Raw(`</option>`)
	}
	if current != "" && !known {
		hw.Raw(`<option selected`)
		hw.Attr("value", current)
		hw.Raw(`>`)
		hw.Text(current)
		hw.Raw(`</option>`)
	}
	hw.Raw(`</select>`)
}
