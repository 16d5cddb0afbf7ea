package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/satshine/satshine-backend/internal/domain/travel"
	"github.com/satshine/satshine-backend/internal/pkg/database"
	"github.com/satshine/satshine-backend/internal/repository/postgresql"
	"github.com/satshine/satshine-backend/internal/service/maintenance"
	"github.com/spf13/cobra"
)

// BypassRepairer fixes attendance of employees who skip supervisor confirmation.
type BypassRepairer interface {
	RepairBypassFlags(ctx context.Context, dryRun bool) (maintenance.BypassRepairReport, error)
}

// OverlapReporter lists employee days covered by more than one travel request.
type OverlapReporter interface {
	TravelOverlapReport(ctx context.Context) ([]travel.OverlapConflict, error)
}

// NewRepairCommand creates the repair command group.
func NewRepairCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Find and fix inconsistent approval data",
	}
	cmd.AddCommand(newRepairBypassCommand(rootOpts))
	cmd.AddCommand(newRepairOverlapsCommand(rootOpts))
	return cmd
}

func newMaintenanceService(db *database.DB) *maintenance.Service {
	return maintenance.NewService(
		postgresql.NewTxManager(db),
		postgresql.NewAttendanceRepository(db),
		postgresql.NewTravelRepository(db),
		postgresql.NewAuditRepository(db),
	)
}

func newRepairBypassCommand(rootOpts *RootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "bypass-flags",
		Short: "Set the supervisor confirmation flag for DC, Associate and Admin attendance",
		Long: `Set confirmed_by_supervisor on every attendance record whose owner skips
supervisor confirmation. Each repaired employee gets one audit entry.
Running it again after a successful run changes nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, err := connect(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			return runRepairBypass(ctx, cmd.OutOrStdout(), rootOpts, newMaintenanceService(db), dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report affected records without changing them")
	return cmd
}

func runRepairBypass(ctx context.Context, out io.Writer, opts *RootOptions, repairer BypassRepairer, dryRun bool) error {
	report, err := repairer.RepairBypassFlags(ctx, dryRun)
	if err != nil {
		return err
	}
	return printResult(out, opts, report, func(w io.Writer) {
		verb := "repaired"
		if report.DryRun {
			verb = "would repair"
		}
		for _, e := range report.Employees {
			fmt.Fprintf(w, "%s: %d record(s)\n", e.EmployeeCode, len(e.AttendanceIDs))
		}
		fmt.Fprintf(w, "%s %d record(s) for %d employee(s)\n", verb, report.Records, len(report.Employees))
	})
}

func newRepairOverlapsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "travel-overlaps",
		Short: "List employee days covered by more than one travel request",
		Long: `Report the data-integrity conflicts that block approval of attendance.
This command is read-only: resolve each conflict by rejecting or correcting
the duplicate travel requests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, err := connect(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			return runOverlapReport(ctx, cmd.OutOrStdout(), rootOpts, newMaintenanceService(db))
		},
	}
}

func runOverlapReport(ctx context.Context, out io.Writer, opts *RootOptions, reporter OverlapReporter) error {
	conflicts, err := reporter.TravelOverlapReport(ctx)
	if err != nil {
		return err
	}
	rows := make([]travel.OverlapConflictResponse, 0, len(conflicts))
	for _, c := range conflicts {
		rows = append(rows, travel.OverlapConflictResponse{
			EmployeeID:       c.EmployeeID,
			EmployeeCode:     c.EmployeeCode,
			Date:             c.Date.Format("2006-01-02"),
			TravelRequestIDs: c.TravelRequestIDs,
		})
	}
	return printResult(out, opts, rows, func(w io.Writer) {
		if len(conflicts) == 0 {
			fmt.Fprintln(w, "No overlapping travel requests")
			return
		}
		for _, c := range conflicts {
			fmt.Fprintf(w, "%s %s: %v\n", c.EmployeeCode, c.Date.Format("2006-01-02"), c.TravelRequestIDs)
		}
	})
}
