package web

import (
	"strconv"
	"strings"

	vm "github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/portalbonos/internal/adapter/driving/web/session"
	"github.com/ericfisherdev/portalbonos/internal/application"
	"github.com/ericfisherdev/portalbonos/internal/domain/model"
)

// toFlashViewModels converts session flashes to FlashViewModels.
func toFlashViewModels(flashes []session.Flash) []vm.FlashViewModel {
	vms := make([]vm.FlashViewModel, 0, len(flashes))
	for _, f := range flashes {
		vms = append(vms, vm.FlashViewModel{
			Category: string(f.Category),
			Message:  f.Message,
		})
	}
	return vms
}

// toUserViewModel returns nil for anonymous requests.
func toUserViewModel(s *model.Session) *vm.UserViewModel {
	if s == nil {
		return nil
	}
	return &vm.UserViewModel{
		Rut:  s.BeneficiaryRut,
		Name: s.Name,
		Tier: s.Tier,
	}
}

func toProfileViewModel(b *model.Beneficiary) vm.ProfileViewModel {
	return vm.ProfileViewModel{
		Rut:  b.Rut,
		Name: b.Name,
		Tier: b.Tier,
	}
}

// toSearchViewModel converts a search result into the search page model. The
// submitted kind and value are echoed back so the form keeps its state.
func toSearchViewModel(q model.PhysicianQuery, res *application.PhysicianSearchResult, today string) vm.SearchViewModel {
	kind := string(q.Kind)
	if kind == "" {
		kind = string(model.SearchKindName)
	}

	out := vm.SearchViewModel{
		Kind:        kind,
		Value:       strings.TrimSpace(q.Value),
		Specialties: []vm.OptionViewModel{},
		Communes:    []vm.OptionViewModel{},
		Physicians:  []vm.PhysicianViewModel{},
		Today:       today,
	}
	if res == nil {
		return out
	}

	out.Filtered = !res.Filter.IsEmpty()
	out.Specialties = toOptions(res.Specialties, res.Filter.Specialty)
	out.Communes = toOptions(res.Communes, res.Filter.Commune)
	for _, p := range res.Physicians {
		out.Physicians = append(out.Physicians, vm.PhysicianViewModel{
			Rut:       p.Rut,
			Name:      p.Name,
			Specialty: p.Specialty,
			Commune:   p.Commune,
		})
	}
	return out
}

func toOptions(values []string, selected string) []vm.OptionViewModel {
	opts := make([]vm.OptionViewModel, 0, len(values))
	for _, v := range values {
		opts = append(opts, vm.OptionViewModel{Value: v, Selected: v == selected})
	}
	return opts
}

// toVoucherViewModels converts domain Vouchers to VoucherViewModels. The
// description is rendered as sanitized markdown.
func toVoucherViewModels(vouchers []model.Voucher) []vm.VoucherViewModel {
	vms := make([]vm.VoucherViewModel, 0, len(vouchers))
	for _, v := range vouchers {
		vms = append(vms, vm.VoucherViewModel{
			ID:              v.ID,
			IssueDate:       v.IssueDate.Format("02-01-2006"),
			DescriptionHTML: RenderMarkdown(v.Description),
			Total:           formatPesos(v.TotalAmount),
			Copay:           formatPesos(v.CopayAmount),
			Payable:         formatPesos(v.PayableAmount),
			PhysicianRut:    v.PhysicianRut,
		})
	}
	return vms
}

// formatPesos renders a whole-peso amount with dot thousands separators,
// e.g. 1234567 as "$1.234.567".
func formatPesos(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3 + 2)
	b.WriteString(sign)
	b.WriteByte('$')

	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
