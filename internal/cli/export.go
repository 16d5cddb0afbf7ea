package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/satshine/satshine-backend/internal/domain/attendance"
	"github.com/satshine/satshine-backend/internal/repository/postgresql"
	attendanceService "github.com/satshine/satshine-backend/internal/service/attendance"
	"github.com/spf13/cobra"
)

// AttendanceExporter renders attendance for a date range.
type AttendanceExporter interface {
	Export(ctx context.Context, req attendance.ExportRequest) (attendance.ExportFile, error)
}

// NewExportCommand creates the export command group.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reports",
	}
	cmd.AddCommand(newExportAttendanceCommand(rootOpts))
	return cmd
}

func newExportAttendanceCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		req    attendance.ExportRequest
		format string
		dccb   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Write attendance for a date range as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Format = attendance.ExportFormat(format)
			if dccb != "" {
				req.DCCB = &dccb
			}

			ctx := cmd.Context()
			cfg, db, err := connect(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			// Export never notifies, so no notification service is wired
			svc := attendanceService.NewAttendanceService(
				postgresql.NewTxManager(db),
				postgresql.NewAttendanceRepository(db),
				postgresql.NewEmployeeRepository(db),
				postgresql.NewTravelRepository(db),
				postgresql.NewAuditRepository(db),
				nil,
				attendanceService.Config{Location: cfg.App.Timezone},
			)

			path, err := runExport(asOperator(ctx), svc, req, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.StartDate, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&req.EndDate, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&format, "type", "csv", "file type (csv|xlsx)")
	cmd.Flags().StringVar(&dccb, "dccb", "", "limit to one DCCB")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path, defaults to the generated file name")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// runExport writes the export to output, or to its generated name when output is empty.
func runExport(ctx context.Context, exporter AttendanceExporter, req attendance.ExportRequest, output string) (string, error) {
	file, err := exporter.Export(ctx, req)
	if err != nil {
		return "", err
	}
	if output == "" {
		output = file.Filename
	}
	if err := os.WriteFile(output, file.Content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", output, err)
	}
	return output, nil
}
