package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/satshine/satshine-backend/internal/repository/postgresql"
	employeeService "github.com/satshine/satshine-backend/internal/service/employee"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ApproverSeed is the YAML document accepted by `seed approvers`.
//
//	regions:
//	  - dccb: KNR
//	    approver: AS-0001
type ApproverSeed struct {
	Regions []ApproverSeedEntry `yaml:"regions"`
}

// ApproverSeedEntry maps a DCCB to the employee code of its Associate.
type ApproverSeedEntry struct {
	DCCB     string `yaml:"dccb"`
	Approver string `yaml:"approver"`
}

// SeedResult reports one applied region.
type SeedResult struct {
	DCCB         string `json:"dccb"`
	ApproverCode string `json:"approver_code"`
	ApproverID   string `json:"approver_id"`
}

// EmployeeLookup resolves employee codes.
type EmployeeLookup interface {
	GetByCode(ctx context.Context, code string) (employee.Employee, error)
}

// RegionWriter stores approver regions.
type RegionWriter interface {
	UpsertApproverRegion(ctx context.Context, req employee.UpsertApproverRegionRequest) (employee.ApproverRegionResponse, error)
}

// ParseApproverSeed decodes and checks a seed document. Duplicate DCCBs are rejected.
func ParseApproverSeed(r io.Reader) (ApproverSeed, error) {
	var seed ApproverSeed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return ApproverSeed{}, fmt.Errorf("seed file is empty")
		}
		return ApproverSeed{}, fmt.Errorf("decode seed file: %w", err)
	}

	seen := make(map[string]bool, len(seed.Regions))
	for i, entry := range seed.Regions {
		dccb := strings.ToUpper(strings.TrimSpace(entry.DCCB))
		if dccb == "" || strings.TrimSpace(entry.Approver) == "" {
			return ApproverSeed{}, fmt.Errorf("regions[%d]: dccb and approver are required", i)
		}
		if seen[dccb] {
			return ApproverSeed{}, fmt.Errorf("regions[%d]: duplicate dccb %s", i, dccb)
		}
		seen[dccb] = true
		seed.Regions[i] = ApproverSeedEntry{DCCB: dccb, Approver: strings.TrimSpace(entry.Approver)}
	}
	return seed, nil
}

// ApplyApproverSeed upserts every region in order and stops at the first failure.
func ApplyApproverSeed(ctx context.Context, employees EmployeeLookup, regions RegionWriter, seed ApproverSeed) ([]SeedResult, error) {
	results := make([]SeedResult, 0, len(seed.Regions))
	for _, entry := range seed.Regions {
		approver, err := employees.GetByCode(ctx, entry.Approver)
		if err != nil {
			return results, fmt.Errorf("%s: approver %s: %w", entry.DCCB, entry.Approver, err)
		}
		if _, err := regions.UpsertApproverRegion(ctx, employee.UpsertApproverRegionRequest{
			DCCB:       entry.DCCB,
			ApproverID: approver.ID,
		}); err != nil {
			return results, fmt.Errorf("%s: %w", entry.DCCB, err)
		}
		results = append(results, SeedResult{DCCB: entry.DCCB, ApproverCode: entry.Approver, ApproverID: approver.ID})
	}
	return results, nil
}

// NewSeedCommand creates the seed command group.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data",
	}
	cmd.AddCommand(newSeedApproversCommand(rootOpts))
	return cmd
}

func newSeedApproversCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "approvers",
		Short: "Assign one Associate approver per DCCB from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			seed, err := ParseApproverSeed(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			_, db, err := connect(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			employeeRepo := postgresql.NewEmployeeRepository(db)
			svc := employeeService.NewEmployeeService(
				postgresql.NewTxManager(db),
				employeeRepo,
				postgresql.NewApproverRegionRepository(db),
				postgresql.NewAttendanceRepository(db),
				postgresql.NewAuditRepository(db),
			)

			results, err := ApplyApproverSeed(asOperator(ctx), employeeRepo, svc, seed)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), rootOpts, results, func(w io.Writer) {
				for _, r := range results {
					fmt.Fprintf(w, "%s -> %s\n", r.DCCB, r.ApproverCode)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the approver YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
