package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/viewmodel"
)

// ComprarBono renders the physician search form, its results, and the
// purchase confirmation form.
func ComprarBono(page vm.PageViewModel, search vm.SearchViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := templates.NewWriter(w)

		hw.Raw(`<section class="card"><h1>Buscar médico</h1><form method="get" action="/comprar_bono" class="search">`)
		hw.Raw(`<select name="tipoBusqueda" aria-label="Buscar por">`)
		option(hw, "nombre", "Nombre", search.Kind == "nombre")
		option(hw, "rut", "RUT", search.Kind == "rut")
		hw.Raw(`</select><input name="valorBusqueda" placeholder="Texto a buscar"`)
		hw.Attr("value", search.Value)
		hw.Raw(`>`)
		filterSelect(hw, "especialidad", "Todas las especialidades", search.Specialties)
		filterSelect(hw, "comuna", "Todas las comunas", search.Communes)
		hw.Raw(`<button type="submit">Buscar</button></form>`)

		if len(search.Physicians) == 0 {
			hw.Raw(`<p class="empty">No se encontraron médicos.</p>`)
		} else {
			hw.Raw(`<table class="results"><thead><tr><th>RUT</th><th>Nombre</th><th>Especialidad</th><th>Comuna</th></tr></thead><tbody>`)
			for _, p := range search.Physicians {
				hw.Raw(`<tr><td>`)
				hw.Text(p.Rut)
				hw.Raw(`</td><td>`)
				hw.Text(p.Name)
				hw.Raw(`</td><td>`)
				hw.Text(p.Specialty)
				hw.Raw(`</td><td>`)
				hw.Text(p.Commune)
				hw.Raw(`</td></tr>`)
			}
			hw.Raw(`</tbody></table>`)
		}
		hw.Raw(`</section>`)

		purchaseForm(hw, page.CSRFToken, search)
		return hw.Err()
	})
}

func purchaseForm(hw *templates.Writer, csrf string, search vm.SearchViewModel) {
	hw.Raw(`<section class="card" id="compra"><h2>Comprar bono</h2><form method="post" action="/confirmar_compra">`)
	hw.CSRFField(csrf)
	hw.Raw(`<label for="id_bono">ID del bono</label><input id="id_bono" name="id_bono" required>`)
	hw.Raw(`<label for="fecha_emision">Fecha de emisión</label><input id="fecha_emision" name="fecha_emision" type="date" required`)
	hw.Attr("value", search.Today)
	hw.Raw(`><label for="rut_medico">Médico</label>`)
	if len(search.Physicians) == 0 {
		hw.Raw(`<input id="rut_medico" name="rut_medico" placeholder="RUT del médico" required>`)
	} else {
		hw.Raw(`<select id="rut_medico" name="rut_medico" required>`)
		for _, p := range search.Physicians {
			option(hw, p.Rut, p.Name+" ("+p.Specialty+")", false)
		}
		hw.Raw(`</select>`)
	}
	hw.Raw(`<label for="descripcion">Descripción (opcional, admite markdown)</label><textarea id="descripcion" name="descripcion" rows="3"></textarea>`)
	hw.Raw(`<label for="valor_total">Valor total</label><input id="valor_total" name="valor_total" type="number" min="0" step="1" required>`)
	hw.Raw(`<label for="valor_copago">Copago</label><input id="valor_copago" name="valor_copago" type="number" min="0" step="1" required>`)
	hw.Raw(`<label for="valor_apagar">Valor a pagar</label><input id="valor_apagar" name="valor_apagar" type="number" min="0" step="1" required>`)
	hw.Raw(`<button type="submit">Confirmar compra</button></form></section>`)
}

func filterSelect(hw *templates.Writer, name, anyLabel string, opts []vm.OptionViewModel) {
	hw.Raw(`<select`)
	hw.Attr("name", name)
	hw.Attr("aria-label", anyLabel)
	hw.Raw(`>`)
	option(hw, "", anyLabel, false)
	for _, o := range opts {
		option(hw, o.Value, o.Value, o.Selected)
	}
	hw.Raw(`</select>`)
}

func option(hw *templates.Writer, value, label string, selected bool) {
	hw.Raw(`<option`)
	hw.Attr("value", value)
	if selected {
		hw.Raw(` selected`)
	}
	hw.Raw(`>`)
	hw.Text(label)
	hw.Raw(`</option>`)
}

// VerBonos lists the beneficiary's vouchers, newest first.
func VerBonos(vouchers []vm.VoucherViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := templates.NewWriter(w)
		hw.Raw(`<section class="card"><h1>Mis bonos</h1>`)
		if len(vouchers) == 0 {
			hw.Raw(`<p class="empty">Aún no tienes bonos registrados.</p>`)
		} else {
			hw.Raw(`<table class="vouchers"><thead><tr><th>ID</th><th>Emisión</th><th>Descripción</th><th>Total</th><th>Copago</th><th>A pagar</th><th>Médico</th></tr></thead><tbody>`)
			for _, v := range vouchers {
				hw.Raw(`<tr><td>`)
				hw.Text(v.ID)
				hw.Raw(`</td><td>`)
				hw.Text(v.IssueDate)
				hw.Raw(`</td><td class="description">`)
				hw.Raw(v.DescriptionHTML)
				hw.Raw(`</td><td class="amount">`)
				hw.Text(v.Total)
				hw.Raw(`</td><td class="amount">`)
				hw.Text(v.Copay)
				hw.Raw(`</td><td class="amount">`)
				hw.Text(v.Payable)
				hw.Raw(`</td><td>`)
				hw.Text(v.PhysicianRut)
				hw.Raw(`</td></tr>`)
			}
			hw.Raw(`</tbody></table>`)
		}
		hw.Raw(`<p><a href="/comprar_bono">Comprar otro bono</a></p></section>`)
		return hw.Err()
	})
}
