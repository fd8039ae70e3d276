package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/portalbonos/internal/adapter/driven/sqlstore"
	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

// seedFile is the YAML layout of a physician seed file:
//
//	medicos:
//	  - rut: 11111111-1
//	    nombre: Pedro Soto
//	    especialidad: Cardiología
//	    comuna: Providencia
type seedFile struct {
	Medicos []seedPhysician `yaml:"medicos"`
}

type seedPhysician struct {
	Rut          string `yaml:"rut"`
	Nombre       string `yaml:"nombre"`
	Especialidad string `yaml:"especialidad"`
	Comuna       string `yaml:"comuna"`
}

func seedCmd(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert or update physicians from a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()

			physicians, err := loadPhysicians(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}

			db, err := openDB(cmd, opts)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := sqlstore.RunMigrations(db); err != nil {
				return err
			}

			n, err := seedPhysicians(cmd.Context(), sqlstore.NewPhysicianRepo(db), physicians)
			if err != nil {
				return err
			}
			opts.logger.Info("physicians seeded", "count", n, "file", file)
			fmt.Fprintf(cmd.OutOrStdout(), "%d physicians seeded\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "medicos.yaml", "YAML file with a top-level medicos list")
	return cmd
}

// loadPhysicians decodes and validates a seed file. Every field is required
// and each rut may appear only once.
func loadPhysicians(r io.Reader) ([]model.Physician, error) {
	var sf seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		if errors.Is(err, io.EOF) {
			return []model.Physician{}, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	seen := make(map[string]bool, len(sf.Medicos))
	out := make([]model.Physician, 0, len(sf.Medicos))
	for i, m := range sf.Medicos {
		p := model.Physician{
			Rut:       strings.TrimSpace(m.Rut),
			Name:      strings.TrimSpace(m.Nombre),
			Specialty: strings.TrimSpace(m.Especialidad),
			Commune:   strings.TrimSpace(m.Comuna),
		}

		var missing []string
		for _, f := range []struct{ name, value string }{
			{"rut", p.Rut}, {"nombre", p.Name}, {"especialidad", p.Specialty}, {"comuna", p.Commune},
		} {
			if f.value == "" {
				missing = append(missing, f.name)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("medicos[%d]: missing %s", i, strings.Join(missing, ", "))
		}
		if seen[p.Rut] {
			return nil, fmt.Errorf("medicos[%d]: duplicate rut %s", i, p.Rut)
		}
		seen[p.Rut] = true
		out = append(out, p)
	}
	return out, nil
}

// seedPhysicians upserts the whole list at once and returns how many were
// written. A failing row leaves the table as it was.
func seedPhysicians(ctx context.Context, store driven.PhysicianStore, physicians []model.Physician) (int, error) {
	if err := store.Upsert(ctx, physicians...); err != nil {
		return 0, fmt.Errorf("seed physicians: %w", err)
	}
	return len(physicians), nil
}
