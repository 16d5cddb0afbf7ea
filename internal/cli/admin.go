package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/satshine/satshine-backend/internal/repository/postgresql"
	employeeService "github.com/satshine/satshine-backend/internal/service/employee"
	"github.com/spf13/cobra"
)

// NewCreateAdminCommand creates the create-admin command used to bootstrap the first admin.
func NewCreateAdminCommand(rootOpts *RootOptions) *cobra.Command {
	var req employee.CreateEmployeeRequest
	var email string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an Admin employee",
		Long: `Create an Admin employee that can sign in with employee code and password.

The password is read from SATSHINE_ADMIN_PASSWORD when --password is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("SATSHINE_ADMIN_PASSWORD")
			}
			if email != "" {
				req.Email = &email
			}
			req.Designation = employee.DesignationAdmin

			ctx := cmd.Context()
			_, db, err := connect(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := employeeService.NewEmployeeService(
				postgresql.NewTxManager(db),
				postgresql.NewEmployeeRepository(db),
				postgresql.NewApproverRegionRepository(db),
				postgresql.NewAttendanceRepository(db),
				postgresql.NewAuditRepository(db),
			)

			created, err := svc.Create(asOperator(ctx), req)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), rootOpts, created, func(w io.Writer) {
				fmt.Fprintf(w, "created admin %s (%s)\n", created.EmployeeCode, created.ID)
			})
		},
	}

	cmd.Flags().StringVar(&req.EmployeeCode, "code", "", "employee code")
	cmd.Flags().StringVar(&req.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email for Google sign-in")
	cmd.Flags().StringVar(&req.Password, "password", "", "login password")
	cmd.Flags().StringVar(&req.DCCB, "dccb", "HQ", "home DCCB")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
